package config

import (
	"encoding/json"
	"os"

	"github.com/aurahood/aurahood/internal/flagx"
	"github.com/aurahood/aurahood/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero" so a file that names only a few
// settings leaves the rest at their defaults.
type JsonConfig struct {
	StorageDriver *string         `json:"storage_driver"`
	DatabasePath  *string         `json:"database_path"`
	RedisURL      *string         `json:"redis_url"`
	RedisHashKey  *string         `json:"redis_hash_key"`
	SessionKey    *string         `json:"session_key"`
	Verification  *string         `json:"verification"`
	SignInDelay   *timex.Duration `json:"sign_in_delay"`
	RegisterDelay *timex.Duration `json:"register_delay"`
	DemoDelay     *timex.Duration `json:"demo_delay"`
	GuardInFlight *bool           `json:"guard_in_flight"`
	LogLevel      *string         `json:"log_level"`
	MetricsAddr   *string         `json:"metrics_addr"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config
// (or $AURAHOOD_CONFIG). Nothing happens when no file is configured.
// Read or unmarshal errors panic: a broken config file is a startup failure.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.RedisHashKey, jc.RedisHashKey)
	setString(&cfg.SessionKey, jc.SessionKey)
	setString(&cfg.Verification, jc.Verification)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)

	if jc.SignInDelay != nil {
		cfg.SignInDelay = jc.SignInDelay.Duration
	}
	if jc.RegisterDelay != nil {
		cfg.RegisterDelay = jc.RegisterDelay.Duration
	}
	if jc.DemoDelay != nil {
		cfg.DemoDelay = jc.DemoDelay.Duration
	}
	if jc.GuardInFlight != nil {
		cfg.GuardInFlight = *jc.GuardInFlight
	}
}
