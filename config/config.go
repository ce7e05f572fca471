package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Layout     LayoutConfig     `yaml:"layout"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the embedded database configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LayoutConfig describes the fixed seat layout seeded into every new
// flight partition. Columns is a run of column letters, e.g. "ABCDEF".
type LayoutConfig struct {
	Rows    int    `yaml:"rows"`
	Columns string `yaml:"columns"`
}

// SeatNumbers expands the layout into the full list of seat numbers,
// row-major: 1A, 1B, ..., 2A, ...
func (l *LayoutConfig) SeatNumbers() []string {
	seats := make([]string, 0, l.Rows*len(l.Columns))
	for row := 1; row <= l.Rows; row++ {
		for _, col := range l.Columns {
			seats = append(seats, fmt.Sprintf("%d%c", row, col))
		}
	}
	return seats
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "./seatmap.db"
	}

	if cfg.Layout.Rows <= 0 {
		cfg.Layout.Rows = 10
	}
	if cfg.Layout.Columns == "" {
		cfg.Layout.Columns = "ABCDEF"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
