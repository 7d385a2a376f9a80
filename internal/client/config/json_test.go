package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"storage_driver":  "redis",
		"redis_url":       "redis://cache:6379/2",
		"sign_in_delay":   "250ms",
		"demo_delay":      100000000,
		"guard_in_flight": true,
	})

	t.Run("loads from flags and keeps unnamed defaults", func(t *testing.T) {
		t.Setenv("AURAHOOD_CONFIG", "")
		os.Args = []string{"testbin", "-config", pathFlag}
		cfg := &Config{}
		cfg.LoadDefaults()

		parseJson(cfg)

		assert.Equal(t, StorageRedis, cfg.StorageDriver)
		assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
		assert.Equal(t, 250*time.Millisecond, cfg.SignInDelay)
		assert.Equal(t, 100*time.Millisecond, cfg.DemoDelay)
		assert.True(t, cfg.GuardInFlight)
		assert.Equal(t, 1500*time.Millisecond, cfg.RegisterDelay)
		assert.Equal(t, "aurahood_user", cfg.SessionKey)
	})

	t.Run("loads from env", func(t *testing.T) {
		t.Setenv("AURAHOOD_CONFIG", pathFlag)
		os.Args = []string{"testbin"}
		cfg := &Config{}

		parseJson(cfg)

		assert.Equal(t, StorageRedis, cfg.StorageDriver)
	})

	t.Run("no config → no changes", func(t *testing.T) {
		t.Setenv("AURAHOOD_CONFIG", "")
		os.Args = []string{"testbin"}
		cfg := &Config{StorageDriver: StorageMemory, SignInDelay: 42 * time.Second}

		parseJson(cfg)

		assert.Equal(t, StorageMemory, cfg.StorageDriver)
		assert.Equal(t, 42*time.Second, cfg.SignInDelay)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		t.Setenv("AURAHOOD_CONFIG", "")
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		t.Setenv("AURAHOOD_CONFIG", "")
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
