package config

import (
	"os"
	"strconv"
)

// FromEnv applies environment overrides on top of a loaded config.
// Unset or unparsable variables leave the config untouched.
func FromEnv(cfg *Config) {
	if v := os.Getenv("WBOT_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("WBOT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("WBOT_RELAY_URL"); v != "" {
		cfg.Relay.URL = v
	}
	if v := os.Getenv("WBOT_REMIND_TO"); v != "" {
		cfg.Alerts.RemindTo = v
	}
	if v := getEnvInt("WBOT_SEND_TIMEOUT_SECONDS"); v > 0 {
		cfg.Relay.SendTimeoutSeconds = v
	}
	if v := getEnvInt("WBOT_ALERT_INTERVAL_SECONDS"); v > 0 {
		cfg.Alerts.IntervalSeconds = v
	}
	if v := getEnvInt("WBOT_LOOKAHEAD_MINUTES"); v > 0 {
		cfg.Alerts.LookaheadMinutes = v
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
