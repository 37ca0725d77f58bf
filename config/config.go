// Package config loads the toolkit configuration from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/wgdzlh/meteolib/log"

	"gopkg.in/yaml.v3"
)

const (
	ENC_GBK  = "GBK"
	ENC_UTF8 = "UTF-8"

	DefaultMissingValue   = 9999
	DefaultBufferSegments = 24
	DefaultSrid           = 4326
)

// MicapsConfig controls text decoding and missing-value handling of the decoders.
type MicapsConfig struct {
	Encoding     string  `yaml:"encoding"`      // GBK or UTF-8
	MissingValue float64 `yaml:"missing_value"` // sentinel for unparsable or absent cells
	NaNMissing   bool    `yaml:"nan_missing"`   // use NaN instead of MissingValue
}

type ToolboxConfig struct {
	TmpDir         string `yaml:"tmp_dir"`
	BufferSegments int    `yaml:"buffer_segments"`
	Srid           int    `yaml:"srid"`
}

// Config is the top-level structure of meteolib.yaml.
type Config struct {
	Log     log.Config    `yaml:"log"`
	Micaps  MicapsConfig  `yaml:"micaps"`
	Toolbox ToolboxConfig `yaml:"toolbox"`
}

func Default() *Config {
	return &Config{
		Log: log.Config{Level: "info", Encoding: log.ENC_JSON},
		Micaps: MicapsConfig{
			Encoding:     ENC_GBK,
			MissingValue: DefaultMissingValue,
		},
		Toolbox: ToolboxConfig{
			BufferSegments: DefaultBufferSegments,
			Srid:           DefaultSrid,
		},
	}
}

// Load reads path and overlays it on Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Micaps.Encoding {
	case ENC_GBK, ENC_UTF8:
	default:
		return fmt.Errorf("config: unsupported micaps encoding %q", c.Micaps.Encoding)
	}
	if c.Toolbox.BufferSegments <= 0 {
		return fmt.Errorf("config: buffer_segments must be positive, got %d", c.Toolbox.BufferSegments)
	}
	return nil
}
