package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// setting binds a dotted key and its environment variable to a Config field.
type setting struct {
	key     string
	env     string
	numeric bool
	set     func(cfg *Config, raw string) error
	get     func(cfg Config) string
}

func text(key, env string, field func(*Config) *string) setting {
	return setting{
		key: key,
		env: env,
		set: func(cfg *Config, raw string) error {
			*field(cfg) = raw
			return nil
		},
		get: func(cfg Config) string { return *field(&cfg) },
	}
}

func number(key, env string, field func(*Config) *int) setting {
	return setting{
		key:     key,
		env:     env,
		numeric: true,
		set: func(cfg *Config, raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%q is not a whole number", raw)
			}
			*field(cfg) = n
			return nil
		},
		get: func(cfg Config) string { return strconv.Itoa(*field(&cfg)) },
	}
}

var settings = []setting{
	text("api.base_url", "PPADMIN_API_BASE_URL", func(c *Config) *string { return &c.API.BaseURL }),
	text("api.resources_url", "PPADMIN_API_RESOURCES_URL", func(c *Config) *string { return &c.API.ResourcesURL }),
	text("storage.data_dir", "PPADMIN_STORAGE_DATA_DIR", func(c *Config) *string { return &c.Storage.DataDir }),
	text("log.level", "PPADMIN_LOG_LEVEL", func(c *Config) *string { return &c.Log.Level }),
	number("list.page_size", "PPADMIN_LIST_PAGE_SIZE", func(c *Config) *int { return &c.List.PageSize }),
	number("sandbox.port", "PPADMIN_SANDBOX_PORT", func(c *Config) *int { return &c.Sandbox.Port }),
}

func settingFor(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// applyEnv overrides cfg from PPADMIN_* variables. A value that does not
// parse is skipped with a warning and the earlier value stays.
func applyEnv(cfg *Config) {
	for _, s := range settings {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		if err := s.set(cfg, raw); err != nil {
			slog.Warn("ignoring environment override", "var", s.env, "err", err)
		}
	}
}

// KeyInfo describes a config key for display purposes.
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
}

// ShowAll lists every setting with its resolved value.
func ShowAll(cfg Config) []KeyInfo {
	out := make([]KeyInfo, len(settings))
	for i, s := range settings {
		out[i] = KeyInfo{Key: s.key, EnvVar: s.env, Value: s.get(cfg)}
	}
	return out
}

// ValidKeys returns the setting names accepted by SetKey.
func ValidKeys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.key
	}
	return keys
}

// SetKey persists key = value in the config file. The value must parse and
// leave the file's configuration valid.
func SetKey(key, value string) error {
	return setKey(openSettingsFile(ConfigFilePath()), key, value)
}

func setKey(f *settingsFile, key, value string) error {
	s, ok := settingFor(key)
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg := defaults()
	if err := f.applyTo(&cfg); err != nil {
		return err
	}
	if err := s.set(&cfg, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	if s.numeric {
		n, _ := strconv.Atoi(value)
		return f.store(key, n)
	}
	return f.store(key, value)
}
