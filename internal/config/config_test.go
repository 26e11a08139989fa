package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8, cfg.Draft.Seats)
	assert.Equal(t, 3, cfg.Draft.Rounds)
	assert.Equal(t, 15, cfg.Draft.PackSize)
	assert.Equal(t, 33, cfg.Draft.MainCount)
	assert.Equal(t, 27, cfg.Draft.LandCount)

	timeout, err := cfg.GetArbiterTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, timeout)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Draft.Seats = 4
	cfg.Draft.SetCode = "TST"
	cfg.Server.Port = 9100
	cfg.Arbiter.Opponents = []string{"decks/red.dck", "decks/blue.dck"}
	cfg.App.DebugMode = true
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("draft = ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"too few seats", func(c *Config) { c.Draft.Seats = 1 }},
		{"zero rounds", func(c *Config) { c.Draft.Rounds = 0 }},
		{"zero pack size", func(c *Config) { c.Draft.PackSize = 0 }},
		{"negative land count", func(c *Config) { c.Draft.LandCount = -1 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"zero workers", func(c *Config) { c.Arbiter.Workers = 0 }},
		{"bad timeout", func(c *Config) { c.Arbiter.Timeout = "soon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
