// Package config loads jsonflow settings.
//
// Settings come from three places, later ones winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, by default $XDG_CONFIG_HOME/jsonflow/config.toml
//  3. JSONFLOW_* environment variables, including any set by a .env file
//     in the working directory
//
// A minimal config file:
//
//	[layout]
//	direction = "TB"
//
//	[cache]
//	backend = "redis"
//	graph_ttl = "1h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "debug"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/layout"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Defaults that have no home in another package.
const (
	DefaultServerAddr = ":8080"
	DefaultBodyLimit  = 10 << 20
	DefaultLRUSize    = 1024
	DefaultLogLevel   = "info"
)

// Config holds all settings.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// LayoutConfig sizes and spaces graph nodes.
type LayoutConfig struct {
	graph.Dimensions
	Direction     string  `toml:"direction"`
	Align         string  `toml:"align"`
	NodeSep       float64 `toml:"node_sep"`
	RankSep       float64 `toml:"rank_sep"`
	DropThreshold float64 `toml:"drop_threshold"`
}

// Options converts c to layout options.
func (c LayoutConfig) Options() layout.Options {
	return layout.Options{
		Dimensions: c.Dimensions,
		Direction:  c.Direction,
		NodeSep:    c.NodeSep,
		RankSep:    c.RankSep,
		Align:      c.Align,
	}
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Backend  string      `toml:"backend"`
	Dir      string      `toml:"dir"`
	LRUSize  int         `toml:"lru_size"`
	Compress bool        `toml:"compress"`
	Prefix   string      `toml:"prefix"`
	Redis    RedisConfig `toml:"redis"`

	GraphTTL    Duration `toml:"graph_ttl"`
	LayoutTTL   Duration `toml:"layout_ttl"`
	ArtifactTTL Duration `toml:"artifact_ttl"`
}

// RedisConfig addresses a Redis server.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServerConfig tunes the HTTP API.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	BodyLimit int64  `toml:"body_limit"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string like "90m" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	lo := layout.DefaultOptions()
	return &Config{
		Layout: LayoutConfig{
			Dimensions:    lo.Dimensions,
			Direction:     lo.Direction,
			Align:         lo.Align,
			NodeSep:       lo.NodeSep,
			RankSep:       lo.RankSep,
			DropThreshold: layout.DefaultDropThreshold,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			LRUSize: DefaultLRUSize,
		},
		Server: ServerConfig{
			Addr:      DefaultServerAddr,
			BodyLimit: DefaultBodyLimit,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// DefaultPath returns the config file location under the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jsonflow", "config.toml"), nil
}

// Load reads settings. An empty path uses [DefaultPath], where a missing
// file is not an error; an explicit path must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, applyEnv(cfg)
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		}
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings and returns warnings for values that will be
// ignored or replaced.
func (c *Config) Validate() []string {
	var warnings []string

	if err := c.Layout.Options().Validate(); err != nil {
		warnings = append(warnings, fmt.Sprintf("layout: %v", err))
	}
	if c.Layout.DropThreshold < 0 {
		warnings = append(warnings, fmt.Sprintf("layout drop_threshold %.0f is negative; the default %.0f is used", c.Layout.DropThreshold, layout.DefaultDropThreshold))
	}

	switch c.Cache.Backend {
	case BackendFile, BackendMemory, BackendNone, "":
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			warnings = append(warnings, "cache backend 'redis' is configured but redis addr is empty")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("unknown cache backend '%s'", c.Cache.Backend))
	}
	if c.Cache.LRUSize < 0 {
		warnings = append(warnings, fmt.Sprintf("cache lru_size %d is negative", c.Cache.LRUSize))
	}

	if c.Server.BodyLimit < 0 {
		warnings = append(warnings, fmt.Sprintf("server body_limit %d is negative", c.Server.BodyLimit))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error", "":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown log level '%s'", c.Log.Level))
	}
	return warnings
}
