// Package config loads the whisperbatch TOML configuration. The file is
// created with defaults on first run; CLI flags override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Model   ModelConfig   `toml:"model"`
	Batch   BatchConfig   `toml:"batch"`
	Audio   AudioConfig   `toml:"audio"`
	Web     WebConfig     `toml:"web"`
	History HistoryConfig `toml:"history"`
}

type ModelConfig struct {
	// Name is a ggml model name ("tiny", "base", ...) or a path to a
	// model file.
	Name string `toml:"name"`
	Dir  string `toml:"dir"`
}

type BatchConfig struct {
	Processors int `toml:"processors"`
}

type AudioConfig struct {
	Device     string `toml:"device"`
	MaxSeconds int    `toml:"max_seconds"`
}

type WebConfig struct {
	// Listen is the optional address for the live transcript view,
	// e.g. "127.0.0.1:8090". Empty disables the server.
	Listen string `toml:"listen"`
}

type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

func defaultConfig() *Config {
	dir, _ := configDir()
	return &Config{
		Model: ModelConfig{
			Name: "tiny",
			Dir:  filepath.Join(dir, "models"),
		},
		Batch: BatchConfig{
			Processors: 1,
		},
		Audio: AudioConfig{
			Device:     "",
			MaxSeconds: 300,
		},
		Web: WebConfig{
			Listen: "",
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "whisperbatch"), nil
}

// ConfigPath returns the path to the configuration file, creating the
// directory if needed.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the directory for mutable state (run history database).
func DataDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// Load loads the configuration from the TOML file. If the file doesn't
// exist, it creates it with default values.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := save(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// LoadFile decodes a specific config file over the defaults. Missing keys
// keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration back to the TOML file.
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return save(configPath, c)
}

func save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}
