package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// Config
// =============================================================================

// Cache backend names accepted in pipetrace.toml.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// defaultConfigPath is probed when --config is not given.
const defaultConfigPath = "pipetrace.toml"

// Config holds settings loaded from pipetrace.toml. Command-line flags
// override anything set here.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// RenderConfig controls diagram output defaults.
type RenderConfig struct {
	// Format is the default output format ("dot", "svg", or "png").
	Format string `toml:"format"`
	// ComposeNodes draws sequential composition as explicit nodes
	// instead of edges.
	ComposeNodes bool `toml:"compose_nodes"`
	// OutDir is prepended to derived output paths. Empty means the
	// working directory.
	OutDir string `toml:"out_dir"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	// Backend is "file" (default), "redis", or "none".
	Backend string      `toml:"backend"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServeConfig holds settings for the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{Format: "svg"},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Serve: ServeConfig{Addr: ":8712"},
	}
}

// LoadConfig reads the config file at path, falling back to ./pipetrace.toml.
// A missing default file is not an error; a missing explicit --config path is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("unknown cache backend: %s (must be 'file', 'redis', or 'none')", c.Cache.Backend)
	}
	switch c.Render.Format {
	case formatDOT, formatSVG, formatPNG:
	default:
		return fmt.Errorf("unknown render format: %s (must be 'dot', 'svg', or 'png')", c.Render.Format)
	}
	return nil
}
