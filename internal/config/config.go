// Package config resolves ppadmin settings. Each setting starts from a
// built-in default, may be overridden by the settings file and then by a
// PPADMIN_* environment variable.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
)

type Config struct {
	API     APIConfig
	Storage StorageConfig
	Log     LogConfig
	List    ListConfig
	Sandbox SandboxConfig
}

type APIConfig struct {
	BaseURL string
	// ResourcesURL prefixes server-relative file paths such as payment slips.
	ResourcesURL string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type ListConfig struct {
	PageSize int
}

type SandboxConfig struct {
	Port int
}

// LogLevels are the accepted values of log.level.
var LogLevels = []string{"debug", "info", "warn", "error"}

func defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:      "http://localhost:4000/api/v1",
			ResourcesURL: "http://localhost:4000",
		},
		Storage: StorageConfig{DataDir: filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "ppadmin")},
		Log:     LogConfig{Level: "info"},
		List:    ListConfig{PageSize: 10},
		Sandbox: SandboxConfig{Port: 4000},
	}
}

// xdgDir returns $env, falling back to ~/<fallback...> and finally ".".
func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigFilePath is $XDG_CONFIG_HOME/ppadmin/config.json.
func ConfigFilePath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "ppadmin", "config.json")
}

// Load resolves the configuration from ConfigFilePath and the environment.
func Load() (Config, error) {
	return load(openSettingsFile(ConfigFilePath()))
}

func load(f *settingsFile) (Config, error) {
	cfg := defaults()
	if err := f.applyTo(&cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	for _, u := range []struct{ key, raw string }{
		{"api.base_url", c.API.BaseURL},
		{"api.resources_url", c.API.ResourcesURL},
	} {
		parsed, err := url.Parse(u.raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("invalid config: %s must be an http(s) URL, got %q", u.key, u.raw)
		}
	}
	if !slices.Contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("invalid config: log.level must be one of %v, got %q", LogLevels, c.Log.Level)
	}
	if c.List.PageSize <= 0 {
		return fmt.Errorf("invalid config: list.page_size must be positive, got %d", c.List.PageSize)
	}
	if c.Sandbox.Port <= 0 || c.Sandbox.Port > 65535 {
		return fmt.Errorf("invalid config: sandbox.port out of range: %d", c.Sandbox.Port)
	}
	return nil
}
