// Package config loads the processing configuration from YAML, JSON or
// BCL files, selected by extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/bcl"
	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"
)

// Config is the top-level processing configuration: where remittance
// files come from, where projections go, and the optional database and
// server surfaces.
type Config struct {
	Input    InputConfig     `json:"input" yaml:"input"`
	Output   OutputConfig    `json:"output" yaml:"output"`
	Database *DatabaseConfig `json:"database" yaml:"database"`
	Server   ServerConfig    `json:"server" yaml:"server"`
	Workers  int             `json:"workers" yaml:"workers"`
}

// InputConfig points at a remittance file or a directory to walk.
type InputConfig struct {
	Path string `json:"path" yaml:"path"`
}

// OutputConfig selects the projection written for each parsed file.
type OutputConfig struct {
	Format string `json:"format" yaml:"format"`
	Path   string `json:"path" yaml:"path"`
}

// DatabaseConfig describes the destination table for flattened rows.
type DatabaseConfig struct {
	Driver       string `json:"driver" yaml:"driver"`
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	Username     string `json:"username" yaml:"username"`
	Password     string `json:"password" yaml:"password"`
	Database     string `json:"database" yaml:"database"`
	Table        string `json:"table" yaml:"table"`
	AutoCreate   bool   `json:"auto_create" yaml:"auto_create"`
	MaxIdleConns int    `json:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns"`
}

// ServerConfig tunes the HTTP parse service.
type ServerConfig struct {
	Address      string `json:"address" yaml:"address"`
	CacheEntries int64  `json:"cache_entries" yaml:"cache_entries"`
	CacheMaxCost int64  `json:"cache_max_cost" yaml:"cache_max_cost"`
}

// Output formats the pipeline can write.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Load reads a config file, decoding by extension.
func Load(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return load(path, yaml.Unmarshal)
	case ".json":
		return load(path, func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		})
	case ".bcl":
		return load(path, func(data []byte, v any) error {
			_, err := bcl.Unmarshal(data, v)
			return err
		})
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// LoadFromString decodes raw config text, useful for tests.
func LoadFromString(content, format string) (*Config, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return decode([]byte(content), yaml.Unmarshal)
	case "json":
		return decode([]byte(content), func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		})
	case "bcl":
		return decode([]byte(content), func(data []byte, v any) error {
			_, err := bcl.Unmarshal(data, v)
			return err
		})
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Validate checks the invariants the pipeline relies on.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Input.Path == "" {
		return fmt.Errorf("input path is required")
	}
	switch cfg.Output.Format {
	case FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.Output.Format)
	}
	if cfg.Database != nil {
		if cfg.Database.Driver == "" {
			return fmt.Errorf("database driver is required")
		}
		if cfg.Database.Table == "" {
			return fmt.Errorf("database table is required")
		}
	}
	return nil
}

func load(path string, fn func([]byte, any) error) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(raw, fn)
}

func decode(data []byte, fn func([]byte, any) error) (*Config, error) {
	var cfg Config
	if err := fn(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatJSON
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	return &cfg, cfg.Validate()
}
