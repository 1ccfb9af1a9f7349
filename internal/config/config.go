// Package config loads the demo binary's YAML configuration, mirroring the
// teacher's internal/config.go shape. It tunes cmd/recman only — table-open
// behavior (buffer pool capacity 1000, FIFO) is a fixed part of the record
// manager's contract, not something this config can override.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// EngineConfig is the YAML-unmarshalable configuration for cmd/recman.
type EngineConfig struct {
	Storage struct {
		Dir      string `mapstructure:"dir"`
		PageSize int    `mapstructure:"page_size"`
	} `mapstructure:"storage"`
	BufferPool struct {
		Capacity int    `mapstructure:"capacity"`
		Strategy string `mapstructure:"strategy"`
	} `mapstructure:"bufferpool"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Load reads and unmarshals the YAML config at path.
func Load(path string) (*EngineConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg EngineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns sensible defaults for running the demo binary without a
// config file.
func Default() *EngineConfig {
	var cfg EngineConfig
	cfg.Storage.Dir = "."
	cfg.Storage.PageSize = 4096
	cfg.BufferPool.Capacity = 100
	cfg.BufferPool.Strategy = "FIFO"
	cfg.Log.Level = "info"
	return &cfg
}
