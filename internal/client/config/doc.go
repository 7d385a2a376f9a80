// Package config loads runtime configuration for the Aurahood client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c / -config, or the
//     AURAHOOD_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "800ms" or
// integer nanoseconds. Every key is optional:
//
//	{
//	  "storage_driver": "sqlite",
//	  "database_path": "data/aurahood.db",
//	  "redis_url": "redis://127.0.0.1:6379/0",
//	  "redis_hash_key": "aurahood:metadata",
//	  "session_key": "aurahood_user",
//	  "verification": "simulated",
//	  "sign_in_delay": "1s",
//	  "register_delay": "1.5s",
//	  "demo_delay": "800ms",
//	  "guard_in_flight": false,
//	  "log_level": "info",
//	  "metrics_addr": ""
//	}
package config
