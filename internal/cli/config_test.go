package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/observable"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// isolateConfig points the default config location at an empty directory
// and clears the environment overrides.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(envAPIKey, "")
	t.Setenv(envRedisAddr, "")
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.BaseURL != observable.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Cache.Backend != backendFile {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Serve.Addr = %q", cfg.Serve.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	isolateConfig(t)
	path := writeConfig(t, `
api_key = "secret"

[cache]
backend = "none"
ttl = "2h"

[export]
ignore = ["viewof_*", "scratch"]
manifest = true

[serve]
addr = "127.0.0.1:9000"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIKey != "secret" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Cache.Backend != backendNone || cfg.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if len(cfg.Export.Ignore) != 2 || !cfg.Export.Manifest || cfg.Export.TransitiveExports {
		t.Errorf("Export = %+v", cfg.Export)
	}
	if cfg.Serve.Addr != "127.0.0.1:9000" {
		t.Errorf("Serve.Addr = %q", cfg.Serve.Addr)
	}
	if cfg.BaseURL != observable.DefaultBaseURL {
		t.Errorf("unset base_url should keep the default, got %q", cfg.BaseURL)
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolateConfig(t)
	t.Setenv(envAPIKey, "from-env")
	t.Setenv(envRedisAddr, "localhost:6379")

	cfg, err := loadConfig(writeConfig(t, `api_key = "from-file"`))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q, environment should win", cfg.APIKey)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", `api_key = `, errors.ErrCodeInvalidConfig},
		{"backend", "[cache]\nbackend = \"s3\"", errors.ErrCodeInvalidConfig},
		{"redis without addr", "[cache]\nbackend = \"redis\"", errors.ErrCodeInvalidConfig},
		{"ttl", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidConfig},
		{"pattern", "[export]\nignore = [\"a[\"]", errors.ErrCodeInvalidPattern},
		{"base url", `base_url = "ftp://example.com"`, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			_, err := loadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("loadConfig() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	isolateConfig(t)
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("a missing --config file should be an error")
	}
}

func TestLoadConfigExpandsHome(t *testing.T) {
	isolateConfig(t)
	cfg, err := loadConfig(writeConfig(t, "[cache]\ndir = \"~/obs-cache\""))
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if cfg.Cache.Dir != filepath.Join(home, "obs-cache") {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}
}
