package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/observable"
)

// Environment variables that override the config file.
const (
	envAPIKey    = observable.APIKeyEnv
	envRedisAddr = "OBSEXPORT_REDIS_ADDR"
)

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the content of config.toml:
//
//	api_key  = "..."
//	base_url = "https://api.observablehq.com"
//
//	[cache]
//	backend    = "file"   # file, redis or none
//	dir        = "~/.cache/obsexport"
//	ttl        = "24h"
//	redis_addr = "localhost:6379"
//
//	[export]
//	ignore             = ["viewof_*"]
//	transitive_exports = false
//	manifest           = false
//
//	[serve]
//	addr = ":8080"
type Config struct {
	APIKey  string       `toml:"api_key"`
	BaseURL string       `toml:"base_url"`
	Cache   CacheConfig  `toml:"cache"`
	Export  ExportConfig `toml:"export"`
	Serve   ServeConfig  `toml:"serve"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	Ignore            []string `toml:"ignore"`
	TransitiveExports bool     `toml:"transitive_exports"`
	Manifest          bool     `toml:"manifest"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// duration decodes TOML strings such as "24h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func defaultConfig() *Config {
	return &Config{
		BaseURL: observable.DefaultBaseURL,
		Cache:   CacheConfig{Backend: backendFile},
		Serve:   ServeConfig{Addr: ":8080"},
	}
}

// loadConfig reads the config file at path, or the default location when
// path is empty, and applies environment overrides. A missing default file
// is not an error.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		_, err := toml.DecodeFile(path, cfg)
		if err != nil && (explicit || !os.IsNotExist(err)) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	}

	if v := os.Getenv(envAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(envRedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
		if cfg.Cache.Backend == backendFile {
			cfg.Cache.Backend = backendRedis
		}
	}
	if strings.HasPrefix(cfg.Cache.Dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, cfg.Cache.Dir[2:])
		}
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.backend is redis but no cache.redis_addr or %s is set", envRedisAddr)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}
	for _, p := range c.Export.Ignore {
		if err := errors.ValidateCellPattern(p); err != nil {
			return err
		}
	}
	if c.BaseURL != "" {
		if err := errors.ValidateURL(c.BaseURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid base_url")
		}
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// configPath returns the config file location using the XDG standard
// (~/.config/obsexport/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// cacheDir returns the cache directory using the XDG standard (~/.cache/obsexport/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
