package config

import (
	"os"
	"strconv"
)

// applyEnv overlays CHILLMCP_-prefixed environment variables on cfg.
// Unset or unparseable variables leave the current value untouched.
func applyEnv(cfg Settings) Settings {
	if val, ok := getEnvInt("CHILLMCP_BOSS_ALERTNESS"); ok {
		cfg.BossAlertness = val
	}
	if val, ok := getEnvInt("CHILLMCP_BOSS_ALERTNESS_COOLDOWN"); ok {
		cfg.BossAlertnessCooldown = val
	}
	if val, ok := getEnvInt("CHILLMCP_STRESS_INCREASE_INTERVAL"); ok {
		cfg.StressIncreaseInterval = val
	}
	if val, ok := getEnvInt("CHILLMCP_MAX_ALERT_DELAY"); ok {
		cfg.MaxAlertDelay = val
	}
	if val := os.Getenv("CHILLMCP_LISTEN_ADDR"); val != "" {
		cfg.ListenAddr = val
	}
	if val := os.Getenv("CHILLMCP_DATABASE_PATH"); val != "" {
		cfg.DatabasePath = val
	}
	if val, ok := getEnvInt("CHILLMCP_BROADCAST_BUFFER"); ok {
		cfg.BroadcastBuffer = val
	}
	if val, ok := getEnvInt("CHILLMCP_CLIENT_SEND_BUFFER"); ok {
		cfg.ClientSendBuffer = val
	}
	return cfg
}

func getEnvInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return num, true
}
