package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.BossAlertness != 50 {
		t.Errorf("Expected default boss alertness 50, got %d", cfg.BossAlertness)
	}
	if cfg.BossAlertnessCooldown != 300 {
		t.Errorf("Expected default cooldown 300s, got %d", cfg.BossAlertnessCooldown)
	}
	if cfg.StressIncreaseInterval != 60 {
		t.Errorf("Expected default stress interval 60s, got %d", cfg.StressIncreaseInterval)
	}
	if cfg.MaxAlertDelay != 20 {
		t.Errorf("Expected default max alert delay 20s, got %d", cfg.MaxAlertDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default settings should validate, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHILLMCP_BOSS_ALERTNESS", "80")
	t.Setenv("CHILLMCP_BOSS_ALERTNESS_COOLDOWN", "30")
	t.Setenv("CHILLMCP_LISTEN_ADDR", ":9999")
	t.Setenv("CHILLMCP_STRESS_INCREASE_INTERVAL", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BossAlertness != 80 {
		t.Errorf("Expected boss alertness 80 from env, got %d", cfg.BossAlertness)
	}
	if cfg.BossAlertnessCooldown != 30 {
		t.Errorf("Expected cooldown 30 from env, got %d", cfg.BossAlertnessCooldown)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("Expected listen addr :9999 from env, got %s", cfg.ListenAddr)
	}
	// Unparseable values fall back to the default.
	if cfg.StressIncreaseInterval != 60 {
		t.Errorf("Expected stress interval to keep default 60, got %d", cfg.StressIncreaseInterval)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chill.yaml")
	content := []byte("boss_alertness: 75\nboss_alertness_cooldown: 120\nlisten_addr: \":7070\"\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BossAlertness != 75 {
		t.Errorf("Expected boss alertness 75 from file, got %d", cfg.BossAlertness)
	}
	if cfg.BossAlertnessCooldown != 120 {
		t.Errorf("Expected cooldown 120 from file, got %d", cfg.BossAlertnessCooldown)
	}
	// Fields absent from the file keep their defaults.
	if cfg.StressIncreaseInterval != 60 {
		t.Errorf("Expected default stress interval, got %d", cfg.StressIncreaseInterval)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chill.yaml")
	if err := os.WriteFile(path, []byte("boss_alertness: 75\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHILLMCP_BOSS_ALERTNESS", "10")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BossAlertness != 10 {
		t.Errorf("Expected env to beat file, got %d", cfg.BossAlertness)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero cooldown", func(s *Settings) { s.BossAlertnessCooldown = 0 }},
		{"negative cooldown", func(s *Settings) { s.BossAlertnessCooldown = -5 }},
		{"zero stress interval", func(s *Settings) { s.StressIncreaseInterval = 0 }},
		{"negative delay", func(s *Settings) { s.MaxAlertDelay = -1 }},
		{"alertness too high", func(s *Settings) { s.BossAlertness = 101 }},
		{"alertness negative", func(s *Settings) { s.BossAlertness = -1 }},
		{"empty listen addr", func(s *Settings) { s.ListenAddr = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file, got nil")
	}
}
