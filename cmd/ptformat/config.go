package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the ptformat configuration file
// (~/.config/ptformat/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	// Parsing
	Strict   *bool  `yaml:"strict"`
	MaxDepth *int64 `yaml:"max_depth"`
	Unxor    *bool  `yaml:"unxor"`

	// Output
	Format   string `yaml:"format"`
	FullHex  *bool  `yaml:"full_hex"`
	HexWidth *int64 `yaml:"hex_width"`
	Color    *bool  `yaml:"color"`
	Workers  *int64 `yaml:"workers"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

const configEnv = "PTFORMAT_CONFIG"

func configPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ptformat", "config.yaml")
}

// historyPath is the explore shell history file in the user cache
// directory. An empty result disables history.
func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "ptformat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

// loadConfig reads the config file. A missing file yields a zero Config.
func loadConfig(path string) (Config, error) {
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
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyParseConfig applies config file defaults to the parsing flags when
// they were not set explicitly.
func applyParseConfig(c *cli.Command, cfg Config) {
	if cfg.Strict != nil && !c.IsSet("strict") {
		strict = *cfg.Strict
	}
	if cfg.MaxDepth != nil && !c.IsSet("max-depth") {
		maxDepth = *cfg.MaxDepth
	}
	if cfg.Unxor != nil && !c.IsSet("unxor") {
		unxor = *cfg.Unxor
	}
}

func applyRenderConfig(c *cli.Command, cfg Config) {
	if cfg.FullHex != nil && !c.IsSet("fullhex") {
		fullHex = *cfg.FullHex
	}
	if cfg.HexWidth != nil && !c.IsSet("hex-width") {
		hexWidth = *cfg.HexWidth
	}
	if cfg.Color != nil && !c.IsSet("no-color") {
		noColor = !*cfg.Color
	}
}

func applyDescribeConfig(c *cli.Command, cfg Config, format *string, workers *int64) {
	if cfg.Format != "" && !c.IsSet("format") {
		*format = cfg.Format
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		*workers = *cfg.Workers
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
