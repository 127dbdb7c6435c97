package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the gpublas configuration file
// (~/.config/gpublas/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	Backend     string `yaml:"backend"`
	DType       string `yaml:"dtype"`
	PointerMode string `yaml:"pointer_mode"`
	AtomicsMode string `yaml:"atomics_mode"`
	FailFast    *bool  `yaml:"fail_fast"`
	JSON        *bool  `yaml:"json"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gpublas", "config.yaml")
}

// loadConfig reads the config file at path, or the default path when path
// is empty. A missing file yields a zero Config; a malformed one is an error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
	}
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

type flagSetter interface {
	IsSet(name string) bool
}

// applyConfig copies config values into o where the corresponding flag was
// not set on the command line.
func applyConfig(c flagSetter, cfg Config, o *options) {
	if cfg.Backend != "" && !c.IsSet("backend") {
		o.backend = cfg.Backend
	}
	if cfg.DType != "" && !c.IsSet("dtype") {
		o.dtype = cfg.DType
	}
	if cfg.PointerMode != "" && !c.IsSet("pointer-mode") {
		o.pointerMode = cfg.PointerMode
	}
	if cfg.AtomicsMode != "" && !c.IsSet("atomics-mode") {
		o.atomicsMode = cfg.AtomicsMode
	}
	if cfg.FailFast != nil && !c.IsSet("fail-fast") {
		o.failFast = *cfg.FailFast
	}
	if cfg.JSON != nil && !c.IsSet("json") {
		o.jsonOut = *cfg.JSON
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		o.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		o.logFormat = cfg.LogFormat
	}
}
