package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// settingsFile is the flat JSON object persisted by `ppadmin config set`.
// A file that cannot be read or parsed is treated as empty.
type settingsFile struct {
	path   string
	values map[string]any
}

func openSettingsFile(path string) *settingsFile {
	f := &settingsFile{path: path, values: map[string]any{}}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		slog.Warn("config file unreadable, using defaults", "path", path, "err", err)
	default:
		if err := json.Unmarshal(data, &f.values); err != nil {
			slog.Warn("config file is not valid JSON, using defaults", "path", path, "err", err)
			f.values = map[string]any{}
		}
	}
	return f
}

// lookup returns the stored value of key in the text form settings parse.
func (f *settingsFile) lookup(key string) (string, bool) {
	v, ok := f.values[key]
	if !ok {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}

func (f *settingsFile) applyTo(cfg *Config) error {
	for _, s := range settings {
		raw, ok := f.lookup(s.key)
		if !ok {
			continue
		}
		if err := s.set(cfg, raw); err != nil {
			return fmt.Errorf("%s in %s: %w", s.key, f.path, err)
		}
	}
	return nil
}

func (f *settingsFile) store(key string, v any) error {
	f.values[key] = v
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, append(data, '\n'), 0o600)
}
