// Package config loads murmur's settings from an optional YAML file, with
// environment variables filling anything the file leaves blank.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration. Zero values mean "use the
// default"; Normalize fills them in.
type Config struct {
	BoardPath string        `yaml:"boardPath"`
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"apiKey"`
	Timeout   time.Duration `yaml:"timeout"`
	Layout    LayoutConfig  `yaml:"layout"`
}

// LayoutConfig overrides the canvas geometry.
type LayoutConfig struct {
	NoteWidth     float64 `yaml:"noteWidth"`
	NoteHeight    float64 `yaml:"noteHeight"`
	Spacing       float64 `yaml:"spacing"`
	ClusterRadius float64 `yaml:"clusterRadius"`
	ChildDistance float64 `yaml:"childDistance"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		BoardPath: "board.json",
		Endpoint:  "https://api.openai.com/v1",
		Model:     "gpt-4o-mini",
		Timeout:   45 * time.Second,
	}
}

// Load reads the YAML file at path if it exists, then applies environment
// overrides and defaults. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize applies environment fallbacks and defaults in place. File values
// win over the environment; the environment wins over defaults.
func (c *Config) Normalize() {
	defaults := Default()
	if c.BoardPath == "" {
		c.BoardPath = envOr("MURMUR_BOARD", defaults.BoardPath)
	}
	if c.Endpoint == "" {
		c.Endpoint = envOr("MURMUR_ENDPOINT", defaults.Endpoint)
	}
	if c.Model == "" {
		c.Model = envOr("MURMUR_MODEL", defaults.Model)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("MURMUR_API_KEY")
	}
	if c.Timeout <= 0 {
		c.Timeout = defaults.Timeout
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
