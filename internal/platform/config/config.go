// Package config provides runtime settings for the office server.
// Defaults mirror the canonical simulation parameters; a YAML file and
// CHILLMCP_-prefixed environment variables can override them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chillmcp/server/internal/domain/office"
)

// Settings holds every tunable of the server. Durations are stored as
// whole seconds so the file and env formats stay plain integers.
type Settings struct {
	// Simulation parameters
	BossAlertness          int `yaml:"boss_alertness"`           // percent chance a break is noticed
	BossAlertnessCooldown  int `yaml:"boss_alertness_cooldown"`  // seconds between alert decays
	StressIncreaseInterval int `yaml:"stress_increase_interval"` // seconds between stress ticks
	MaxAlertDelay          int `yaml:"max_alert_delay"`          // seconds a break stalls at max alert

	// Server parameters
	ListenAddr   string `yaml:"listen_addr"`
	DatabasePath string `yaml:"database_path"`

	// Concurrency tuning
	BroadcastBuffer  int `yaml:"broadcast_buffer"`   // hub broadcast channel depth
	ClientSendBuffer int `yaml:"client_send_buffer"` // per-WebSocket send channel depth
}

// Default returns the canonical settings: a moderately alert boss, one
// stress point per minute, a five minute cooldown and a 20 second stall.
func Default() Settings {
	return Settings{
		BossAlertness:          50,
		BossAlertnessCooldown:  300,
		StressIncreaseInterval: 60,
		MaxAlertDelay:          20,

		ListenAddr:   ":8080",
		DatabasePath: "chill.db",

		BroadcastBuffer:  256,
		ClientSendBuffer: 64,
	}
}

// Load assembles the effective settings: defaults, then the optional YAML
// file at path (empty path skips it), then environment overrides.
func Load(path string) (Settings, error) {
	cfg := Default()

	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return Settings{}, err
		}
		cfg = loaded
	}

	cfg = applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// LoadFile reads settings from a YAML file, on top of the defaults.
func LoadFile(path string) (Settings, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the state manager cannot run with.
// A non-positive cooldown or interval is an explicit configuration error
// rather than something to silently repair.
func (s Settings) Validate() error {
	if s.BossAlertness < office.MinBossAlertness || s.BossAlertness > office.MaxBossAlertness {
		return fmt.Errorf("boss_alertness must be in [%d,%d], got %d",
			office.MinBossAlertness, office.MaxBossAlertness, s.BossAlertness)
	}
	if s.BossAlertnessCooldown <= 0 {
		return fmt.Errorf("boss_alertness_cooldown must be positive, got %d", s.BossAlertnessCooldown)
	}
	if s.StressIncreaseInterval <= 0 {
		return fmt.Errorf("stress_increase_interval must be positive, got %d", s.StressIncreaseInterval)
	}
	if s.MaxAlertDelay < 0 {
		return fmt.Errorf("max_alert_delay must not be negative, got %d", s.MaxAlertDelay)
	}
	if s.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	return nil
}

// CooldownDuration returns the alert decay period.
func (s Settings) CooldownDuration() time.Duration {
	return time.Duration(s.BossAlertnessCooldown) * time.Second
}

// StressIntervalDuration returns the stress ticker period.
func (s Settings) StressIntervalDuration() time.Duration {
	return time.Duration(s.StressIncreaseInterval) * time.Second
}

// MaxAlertDelayDuration returns the stall served at max boss alert.
func (s Settings) MaxAlertDelayDuration() time.Duration {
	return time.Duration(s.MaxAlertDelay) * time.Second
}
