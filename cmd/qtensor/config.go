// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/nlpodyssey/qtensor/dtype"
)

// Config represents the qtensor configuration file
// (~/.config/qtensor/config.yaml). Explicit flags take precedence.
type Config struct {
	// Report format: "text" or "json".
	Format    string `yaml:"format"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// MaxMagnitude is the default quantization anchor. When unset the
	// anchor is the largest magnitude found in the input.
	MaxMagnitude *float64 `yaml:"max_magnitude"`

	// DType is the default encoding of the footprint command.
	// The zero value means unset.
	DType dtype.DType `yaml:"dtype"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qtensor", "config.yaml")
}

// LoadConfig reads the config file at path. A missing file, or an empty
// path, yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyGlobalConfig applies config file defaults to the global flags
// that were not explicitly set.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyQuantizeConfig applies config file defaults to the quantize
// options whose flags were not explicitly set.
func applyQuantizeConfig(c *cli.Command, cfg Config, opts *quantizeOptions) {
	if cfg.Format != "" && !c.IsSet("format") {
		opts.Format = cfg.Format
	}
	if cfg.MaxMagnitude != nil && !c.IsSet("max") {
		m := float32(*cfg.MaxMagnitude)
		opts.MaxMagnitude = &m
	}
}

type configKey struct{}

func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFromContext(ctx context.Context) Config {
	cfg, _ := ctx.Value(configKey{}).(Config)
	return cfg
}
