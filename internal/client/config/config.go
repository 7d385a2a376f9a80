package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/aurahood/aurahood/internal/common"
)

// Storage drivers.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Verification modes.
const (
	VerificationSimulated  = "simulated"
	VerificationCredential = "credential"
)

// Config holds runtime settings for the Aurahood client.
//
// Fields:
//   - StorageDriver: where the session slot lives ("sqlite", "redis", "memory").
//   - DatabasePath: SQLite file used by the sqlite driver.
//   - RedisURL, RedisHashKey: connection and hash used by the redis driver.
//   - SessionKey: name of the slot that holds the signed-in identity.
//   - Verification: "simulated" accepts any email after a delay;
//     "credential" checks credentials enrolled at registration.
//   - SignInDelay, RegisterDelay, DemoDelay: simulated round-trip latency.
//   - GuardInFlight: reject a mutating call while another one is outstanding.
//   - LogLevel: slog level name.
//   - MetricsAddr: host:port for the /metrics endpoint; empty disables it.
type Config struct {
	StorageDriver string
	DatabasePath  string
	RedisURL      string
	RedisHashKey  string
	SessionKey    string
	Verification  string
	SignInDelay   time.Duration
	RegisterDelay time.Duration
	DemoDelay     time.Duration
	GuardInFlight bool
	LogLevel      string
	MetricsAddr   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageDriver = StorageSQLite
	c.DatabasePath = "aurahood.db"
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.RedisHashKey = "aurahood:metadata"
	c.SessionKey = common.DefaultSessionKey
	c.Verification = VerificationSimulated
	c.SignInDelay = 1000 * time.Millisecond
	c.RegisterDelay = 1500 * time.Millisecond
	c.DemoDelay = 800 * time.Millisecond
	c.GuardInFlight = false
	c.LogLevel = "info"
	c.MetricsAddr = ""
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	switch c.Verification {
	case VerificationSimulated, VerificationCredential:
	default:
		return fmt.Errorf("unknown verification mode %q", c.Verification)
	}
	if strings.TrimSpace(c.SessionKey) == "" {
		return fmt.Errorf("session key must not be empty")
	}
	if c.SignInDelay < 0 || c.RegisterDelay < 0 || c.DemoDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
