package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Config{
		DBPath:       "/tmp/diary.db",
		WebEnabled:   true,
		WebPort:      9090,
		DefaultDiary: 3,
		LogLevel:     "debug",
		LogFormat:    "json",
		Tracing:      true,
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("web_port = 9000\nlog_level = \"warn\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LAZYDIARY_WEB_PORT", "9100")
	t.Setenv("LAZYDIARY_DEFAULT_DIARY", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WebPort != 9100 {
		t.Fatalf("expected env web_port 9100, got %d", cfg.WebPort)
	}
	if cfg.DefaultDiary != 7 {
		t.Fatalf("expected env default_diary 7, got %d", cfg.DefaultDiary)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected file log_level 'warn', got %q", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("log_format = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected invalid log_format to fail")
	}
}
