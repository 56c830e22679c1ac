package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv unsets every PPADMIN_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range settings {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies all default values are applied when the config file is missing.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(openSettingsFile(filepath.Join(t.TempDir(), "missing.json")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:4000/api/v1" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.ResourcesURL != "http://localhost:4000" {
		t.Errorf("API.ResourcesURL = %q", cfg.API.ResourcesURL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.List.PageSize != 10 {
		t.Errorf("List.PageSize = %d, want 10", cfg.List.PageSize)
	}
	if cfg.Sandbox.Port != 4000 {
		t.Errorf("Sandbox.Port = %d, want 4000", cfg.Sandbox.Port)
	}
	if !strings.HasSuffix(cfg.Storage.DataDir, "ppadmin") {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
}

// TestFileParsing verifies that all fields are correctly read from the JSON file.
func TestFileParsing(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{
  "api.base_url": "https://api.example.com/v1",
  "api.resources_url": "https://cdn.example.com",
  "storage.data_dir": "/tmp/ppadmin-test",
  "log.level": "debug",
  "list.page_size": 25,
  "sandbox.port": "5050"
}`)

	cfg, err := load(openSettingsFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com/v1" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.ResourcesURL != "https://cdn.example.com" {
		t.Errorf("API.ResourcesURL = %q", cfg.API.ResourcesURL)
	}
	if cfg.Storage.DataDir != "/tmp/ppadmin-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.List.PageSize != 25 {
		t.Errorf("List.PageSize = %d", cfg.List.PageSize)
	}
	if cfg.Sandbox.Port != 5050 {
		t.Errorf("Sandbox.Port = %d", cfg.Sandbox.Port)
	}
}

// TestEnvOverride verifies that environment variables override config file values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `{"api.base_url": "https://file.example.com", "list.page_size": 5}`)

	t.Setenv("PPADMIN_API_BASE_URL", "https://env.example.com")
	t.Setenv("PPADMIN_LIST_PAGE_SIZE", "not-a-number")

	cfg, err := load(openSettingsFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("API.BaseURL = %q, want env value", cfg.API.BaseURL)
	}
	if cfg.List.PageSize != 5 {
		t.Errorf("List.PageSize = %d, want file value kept on bad env", cfg.List.PageSize)
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"base url without scheme", `{"api.base_url": "localhost:4000"}`, "api.base_url"},
		{"zero page size", `{"list.page_size": 0}`, "list.page_size"},
		{"fractional page size", `{"list.page_size": 2.5}`, "list.page_size"},
		{"port out of range", `{"sandbox.port": 70000}`, "sandbox.port"},
		{"unknown log level", `{"log.level": "verbose"}`, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := load(openSettingsFile(writeTempConfig(t, tt.content)))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestSetKeyPersists(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	if err := setKey(openSettingsFile(path), "list.page_size", "20"); err != nil {
		t.Fatalf("setKey: %v", err)
	}
	if err := setKey(openSettingsFile(path), "log.level", "debug"); err != nil {
		t.Fatalf("setKey: %v", err)
	}
	if err := setKey(openSettingsFile(path), "list.page_size", "twenty"); err == nil {
		t.Error("expected error for non-integer value")
	}
	if err := setKey(openSettingsFile(path), "proxy.model", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := setKey(openSettingsFile(path), "list.page_size", "0"); err == nil {
		t.Error("expected error for a value that fails validation")
	}

	cfg, err := load(openSettingsFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.List.PageSize != 20 || cfg.Log.Level != "debug" {
		t.Errorf("persisted config = %+v", cfg)
	}
}

func TestShowAllCoversEveryKey(t *testing.T) {
	infos := ShowAll(defaults())
	if len(infos) != len(ValidKeys()) {
		t.Fatalf("ShowAll returned %d keys, ValidKeys %d", len(infos), len(ValidKeys()))
	}
	for _, info := range infos {
		if !strings.HasPrefix(info.EnvVar, "PPADMIN_") {
			t.Errorf("%s has env var %q", info.Key, info.EnvVar)
		}
	}
}

func TestSetKeyWritesNumbers(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")

	if err := setKey(openSettingsFile(path), "sandbox.port", "4100"); err != nil {
		t.Fatalf("setKey: %v", err)
	}
	if err := setKey(openSettingsFile(path), "api.base_url", "https://api.example.com/v1"); err != nil {
		t.Fatalf("setKey: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"sandbox.port": 4100`) {
		t.Errorf("port should be stored as a JSON number:\n%s", data)
	}
	if !strings.Contains(string(data), `"api.base_url": "https://api.example.com/v1"`) {
		t.Errorf("base url missing:\n%s", data)
	}
}

func TestBrokenFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := load(openSettingsFile(writeTempConfig(t, `{not json`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.List.PageSize != 10 {
		t.Errorf("List.PageSize = %d, want default", cfg.List.PageSize)
	}
}

func TestShowAllValues(t *testing.T) {
	cfg := defaults()
	cfg.Sandbox.Port = 4321
	for _, info := range ShowAll(cfg) {
		if info.Key == "sandbox.port" && info.Value != "4321" {
			t.Errorf("sandbox.port shown as %q", info.Value)
		}
	}
}
