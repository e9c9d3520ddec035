// Package config loads CLI defaults from querydoc.toml, a .env file and the
// process environment. Later sources win: file, then .env, then environment.
// Command-line flags override all of them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	FileName  = "querydoc.toml"
	EnvPrefix = "QUERYDOC_"
)

// ColorModes are the accepted values of the color setting.
var ColorModes = []string{"auto", "always", "never"}

type Config struct {
	// Schema is the path of the schema description (JSON or YAML).
	Schema string `toml:"schema"`
	// Format is the default output format: json, text or pretty.
	Format string `toml:"format"`
	Color  string `toml:"color"`
	// Client prefixes invocation names in validation reports, as in
	// "client.users.findMany()".
	Client   string `toml:"client"`
	LogLevel string `toml:"log_level"`
}

func Default() *Config {
	return &Config{
		Schema:   "schema.json",
		Color:    "auto",
		LogLevel: "warn",
	}
}

// Load builds the configuration for a run in dir. path names an explicit
// config file, which must exist; when empty, dir/querydoc.toml is used if
// present.
func Load(path, dir string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	cfg.overlay(func(key string) (string, bool) {
		v, ok := dotenv[key]
		return v, ok
	})
	cfg.overlay(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown keys in config file", "path", path, "keys", undecoded)
	}
	return nil
}

// overlay replaces every setting that lookup knows under its QUERYDOC_ name.
func (c *Config) overlay(lookup func(string) (string, bool)) {
	fields := map[string]*string{
		"SCHEMA":    &c.Schema,
		"FORMAT":    &c.Format,
		"COLOR":     &c.Color,
		"CLIENT":    &c.Client,
		"LOG_LEVEL": &c.LogLevel,
	}
	for name, field := range fields {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*field = v
		}
	}
}

func (c *Config) Validate() error {
	c.Color = strings.ToLower(c.Color)
	if c.Color == "" {
		c.Color = "auto"
	}
	if !slices.Contains(ColorModes, c.Color) {
		return fmt.Errorf("invalid color mode: %s (valid: %s)", c.Color, strings.Join(ColorModes, ", "))
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level means warn.
func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return level, nil
}
