package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(NewViper())

	if cfg.Port != "8091" {
		t.Errorf("expected port %q, got %q", "8091", cfg.Port)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Errorf("expected fetch timeout 15s, got %s", cfg.FetchTimeout)
	}
	if cfg.MaxDocumentBytes != 10<<20 {
		t.Errorf("expected 10MB limit, got %d", cfg.MaxDocumentBytes)
	}
	if cfg.StatsWindow != time.Hour {
		t.Errorf("expected 1h stats window, got %s", cfg.StatsWindow)
	}
	if !strings.HasPrefix(cfg.UserAgent, "hq/") {
		t.Errorf("unexpected user agent %q", cfg.UserAgent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HQ_PORT", "9000")
	t.Setenv("HQ_FETCH_TIMEOUT", "3s")
	t.Setenv("HQ_MAX_DOCUMENT_BYTES", "2048")
	t.Setenv("HQ_LOG_LEVEL", "DEBUG")

	cfg := Load(NewViper())
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %s", cfg.FetchTimeout)
	}
	if cfg.MaxDocumentBytes != 2048 {
		t.Errorf("expected 2048, got %d", cfg.MaxDocumentBytes)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected lower-cased level, got %q", cfg.LogLevel)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hq.yaml")
	body := "port: \"7000\"\napi_key: secret\nfetch_timeout: 2s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := Load(v)
	if cfg.Port != "7000" || cfg.APIKey != "secret" || cfg.FetchTimeout != 2*time.Second {
		t.Errorf("config file values not applied: %+v", cfg)
	}
}

func TestReadFile_Directory(t *testing.T) {
	if err := ReadFile(NewViper(), t.TempDir()); err == nil {
		t.Error("expected error for directory config path")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("HQ_USER_AGENT=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("HQ_USER_AGENT", "")
	os.Unsetenv("HQ_USER_AGENT")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Load(NewViper()).UserAgent; got != "from-dotenv" {
		t.Errorf("expected user agent from .env, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := Load(NewViper())

	bad := valid
	bad.LogLevel = "verbose"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}

	bad = valid
	bad.FetchTimeout = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero fetch timeout")
	}

	bad = valid
	bad.MaxDocumentBytes = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative document limit")
	}
}
