// Package config loads and validates the TOML configuration for the draft
// service.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Draft    DraftConfig    `toml:"draft"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Arbiter  ArbiterConfig  `toml:"arbiter"`
	App      AppConfig      `toml:"app"`
}

// DraftConfig fixes the draft table shape and the deck assembly targets.
type DraftConfig struct {
	Seats       int    `toml:"seats"`        // participants at the table
	Rounds      int    `toml:"rounds"`       // packs opened per seat
	PackSize    int    `toml:"pack_size"`    // slots per pack
	CatalogPath string `toml:"catalog_path"` // JSON card catalog file
	SetCode     string `toml:"set_code"`     // set stamped on exported decks
	MainCount   int    `toml:"main_count"`   // non-land cards in the built deck
	LandCount   int    `toml:"land_count"`   // basic lands in the built deck
}

// ServerConfig contains the API server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// DatabaseConfig contains result persistence settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // SQLite file, ":memory:" for ephemeral
}

// ArbiterConfig contains external match simulator settings.
type ArbiterConfig struct {
	JavaPath  string   `toml:"java_path"` // java executable
	JarPath   string   `toml:"jar_path"`  // Forge simulator jar
	WorkDir   string   `toml:"work_dir"`  // working directory for the simulator
	DeckDir   string   `toml:"deck_dir"`  // where .dck files are written
	Opponents []string `toml:"opponents"` // gauntlet deck files
	Workers   int      `toml:"workers"`   // concurrent matches
	Timeout   string   `toml:"timeout"`   // per-match timeout (e.g. "5m")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"`
}

// DefaultConfig returns the default configuration: the standard 8-seat,
// 3-round, 15-card draft and a 33+27 deck.
func DefaultConfig() *Config {
	return &Config{
		Draft: DraftConfig{
			Seats:       8,
			Rounds:      3,
			PackSize:    15,
			CatalogPath: "fdn_cards.json",
			SetCode:     "FDN",
			MainCount:   33,
			LandCount:   27,
		},
		Server: ServerConfig{
			Port: 8000,
		},
		Database: DatabaseConfig{
			Path: "mtgnew.db",
		},
		Arbiter: ArbiterConfig{
			JavaPath: "java",
			DeckDir:  "decks",
			Workers:  2,
			Timeout:  "5m",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Load loads the configuration from the given path. A missing file yields the
// default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Draft.Seats < 2 {
		return fmt.Errorf("draft needs at least 2 seats, got %d", c.Draft.Seats)
	}
	if c.Draft.Rounds < 1 {
		return fmt.Errorf("draft needs at least 1 round, got %d", c.Draft.Rounds)
	}
	if c.Draft.PackSize < 1 {
		return fmt.Errorf("pack size must be positive, got %d", c.Draft.PackSize)
	}
	if c.Draft.MainCount < 0 || c.Draft.LandCount < 0 {
		return fmt.Errorf("deck counts cannot be negative: main %d, lands %d", c.Draft.MainCount, c.Draft.LandCount)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Arbiter.Workers < 1 {
		return fmt.Errorf("arbiter workers must be positive, got %d", c.Arbiter.Workers)
	}
	if _, err := time.ParseDuration(c.Arbiter.Timeout); err != nil {
		return fmt.Errorf("invalid arbiter timeout %q: %w", c.Arbiter.Timeout, err)
	}
	return nil
}

// GetArbiterTimeout returns the per-match timeout as a duration.
func (c *Config) GetArbiterTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Arbiter.Timeout)
}
