package config

import (
	"flag"
	"os"

	"github.com/aurahood/aurahood/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   storage driver: sqlite, redis or memory
//	-d string   SQLite database path
//	-r string   Redis URL
//	-k string   session slot key
//	-v string   verification mode: simulated or credential
//	-g          reject overlapping sign-in/register calls
//	-l string   log level
//	-m string   metrics listen address
//
// os.Args is filtered with flagx.FilterArgs first so that -c/-config and
// flags owned by other components do not make parsing fail.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-r", "-k", "-v", "-g", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver (sqlite, redis, memory)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local SQLite database")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "redis url for the redis storage driver")
	fs.StringVar(&cfg.SessionKey, "k", cfg.SessionKey, "storage key of the session slot")
	fs.StringVar(&cfg.Verification, "v", cfg.Verification, "verification mode (simulated, credential)")
	fs.BoolVar(&cfg.GuardInFlight, "g", cfg.GuardInFlight, "reject overlapping sign-in calls")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "address to serve /metrics on")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
