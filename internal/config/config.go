package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultChunkSize   = 10
	DefaultDelay       = 800 * time.Millisecond
	DefaultSnapshotKey = "dadao_full_database"
)

// Config holds import and storage settings
type Config struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	ChunkSize   int           `yaml:"chunksize"`
	Delay       time.Duration `yaml:"delay"`
	DBPath      string        `yaml:"dbpath"`
	SnapshotKey string        `yaml:"snapshotkey"`
	Port        string        `yaml:"port"`
	ReportDir   string        `yaml:"reportdir"`
}

// Default returns the compiled-in configuration
func Default() Config {
	return Config{
		Provider:    "gemini",
		Temperature: 0.1,
		ChunkSize:   DefaultChunkSize,
		Delay:       DefaultDelay,
		DBPath:      "unicatalog.db",
		SnapshotKey: DefaultSnapshotKey,
		Port:        "8888",
	}
}

// Load applies an optional YAML file and then environment overrides on top of
// the defaults. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.SnapshotKey == "" {
		cfg.SnapshotKey = DefaultSnapshotKey
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("UNICATALOG_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("UNICATALOG_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("UNICATALOG_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("UNICATALOG_CHUNK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid UNICATALOG_CHUNK_SIZE %q: %w", v, err)
		}
		c.ChunkSize = n
	}
	if v := os.Getenv("UNICATALOG_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid UNICATALOG_DELAY %q: %w", v, err)
		}
		c.Delay = d
	}
	return nil
}
