// Package config handles converter configuration loading and management.
package config

import (
	"github.com/TASallin/JSpz/pkg/splat"
	"github.com/TASallin/JSpz/pkg/tiles"
	"github.com/TASallin/JSpz/pkg/transcode"
)

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds pipeline settings.
type ConvertConfig struct {
	ContentName  string  `yaml:"content_name"`  // GLB filename in the output directory
	BoundsMode   string  `yaml:"bounds_mode"`   // "box" or "sphere"
	ErrorDivisor float64 `yaml:"error_divisor"` // geometric error denominator, 0 = exact
	Workers      int     `yaml:"workers"`       // 0 = one per CPU
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			ContentName:  transcode.DefaultContentName,
			BoundsMode:   string(splat.BoundsBox),
			ErrorDivisor: tiles.DefaultErrorDivisor,
			Workers:      0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options converts the pipeline settings into transcode options.
func (c *Config) Options() transcode.Options {
	return transcode.Options{
		ContentName:  c.Convert.ContentName,
		BoundsMode:   splat.BoundsMode(c.Convert.BoundsMode),
		ErrorDivisor: c.Convert.ErrorDivisor,
		Workers:      c.Convert.Workers,
	}
}
