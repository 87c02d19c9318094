package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"typewriter-cli/internal/features"
	"typewriter-cli/internal/typewriter"

	"github.com/pelletier/go-toml/v2"
)

const (
	envDelay     = "TYPEWRITER_DELAY_MS"
	envLineDelay = "TYPEWRITER_LINE_DELAY_MS"
)

// Style controls how the terminal pane is drawn.
type Style struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Cols       int    `toml:"cols"`
	Rows       int    `toml:"rows"`
	Padding    int    `toml:"padding"`
}

// Config is the persisted config file schema.
type Config struct {
	DelayPerCharacterMs int             `toml:"delay_per_character_ms"`
	DelayBetweenLinesMs int             `toml:"delay_between_lines_ms"`
	InitialValue        string          `toml:"initial_value"`
	StartRunning        bool            `toml:"start_running"`
	LogPath             string          `toml:"log_path"`
	LogLevel            string          `toml:"log_level"`
	Style               Style           `toml:"style"`
	Features            map[string]bool `toml:"features,omitempty"`
	Source              string          `toml:"-"`
}

func Default() Config {
	return Config{
		DelayPerCharacterMs: int(typewriter.DefaultDelayPerCharacter / time.Millisecond),
		DelayBetweenLinesMs: int(typewriter.DefaultDelayBetweenLines / time.Millisecond),
		StartRunning:        true,
		LogLevel:            "info",
		Style: Style{
			Background: "#222",
			Foreground: "#0ff",
			Cols:       80,
			Rows:       10,
			Padding:    1,
		},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".typewriter", "config.toml")
}

// Load reads the TOML config at path. A missing file yields defaults; the
// TYPEWRITER_* environment variables override both.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg)
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Source = path
	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if env := strings.TrimSpace(os.Getenv(envDelay)); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", envDelay, err)
		}
		cfg.DelayPerCharacterMs = n
	}
	if env := strings.TrimSpace(os.Getenv(envLineDelay)); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", envLineDelay, err)
		}
		cfg.DelayBetweenLinesMs = n
	}
	return cfg, nil
}

// Enabled reports whether a feature flag is on, falling back to its default.
func (c Config) Enabled(key string) bool {
	return features.Resolve(key, c.Features)
}

// Engine converts the persisted timing into an engine config. Negative
// values are rejected rather than clamped.
func (c Config) Engine() (typewriter.Config, error) {
	ec := typewriter.Config{
		DelayPerCharacter: time.Duration(c.DelayPerCharacterMs) * time.Millisecond,
		DelayBetweenLines: time.Duration(c.DelayBetweenLinesMs) * time.Millisecond,
		InitialShown:      c.InitialValue,
	}
	if err := ec.Validate(); err != nil {
		return typewriter.Config{}, err
	}
	return ec, nil
}
