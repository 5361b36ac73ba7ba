// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/thirdspaces/gallery/client"
	"github.com/thirdspaces/gallery/cliparse"
	"github.com/thirdspaces/gallery/remix"
	"github.com/thirdspaces/gallery/voting"
)

// DefaultConfigPath is read when --config is not given; it may be missing
const DefaultConfigPath = "gallery.toml"

var ErrConfigNotFound = errors.New("config file not found")

// Config is the client configuration, read from a TOML file
type Config struct {
	// Base URL of the gallery API.
	APIURL string `koanf:"api_url"`
	// Page that remix share links point at.
	ShareBase string `koanf:"share_base"`
	// Local sqlite file holding the device's state.
	StatePath string `koanf:"state_path"`
	// Per-request timeout.
	Timeout time.Duration `koanf:"timeout"`

	Voting VotingConfig `koanf:"voting"`
	Log    LogConfig    `koanf:"log"`
}

type VotingConfig struct {
	MaxVotes int           `koanf:"max_votes"`
	Window   time.Duration `koanf:"window"`
	// Zero disables the timing check, which only makes sense for a page.
	MinTiming time.Duration `koanf:"min_timing"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

func defaultConfig() Config {
	return Config{
		APIURL:    fmt.Sprintf("http://localhost:%d", cliparse.DefaultPort),
		ShareBase: remix.DefaultShareBase,
		StatePath: "gallery-state.db",
		Timeout:   client.DefaultTimeout,
		Voting: VotingConfig{
			MaxVotes: voting.DefaultMaxVotes,
			Window:   voting.DefaultWindow,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// LoadConfig reads path over the defaults. A missing file is an error only
// when the path was given explicitly.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("failed to stat config: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must be an http or https URL, got %q", c.APIURL)
	}
	if c.StatePath == "" {
		return errors.New("state_path is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Voting.MaxVotes <= 0 || c.Voting.Window <= 0 {
		return errors.New("voting.max_votes and voting.window must be positive")
	}
	if c.Voting.MinTiming < 0 {
		return errors.New("voting.min_timing cannot be negative")
	}
	return nil
}

func (c Config) votingConfig() voting.Config {
	return voting.Config{MaxVotes: c.Voting.MaxVotes, Window: c.Voting.Window, MinTiming: c.Voting.MinTiming}
}
