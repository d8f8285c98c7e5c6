package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "DB_PATH", "JWT_SECRET", "TOKEN_KEY", "TIMEZONE",
		"GITHUB_API_URL", "SYNC_WINDOW_DAYS", "SYNC_WORKERS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "data/devagenda.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.GitHub.APIURL != "https://api.github.com" {
		t.Errorf("GitHub.APIURL = %q", cfg.GitHub.APIURL)
	}
	if cfg.GitHub.SyncWindow != 90*24*time.Hour {
		t.Errorf("SyncWindow = %v, want 90 days", cfg.GitHub.SyncWindow)
	}
	if cfg.GitHub.SyncWorkers != 4 {
		t.Errorf("SyncWorkers = %d, want 4", cfg.GitHub.SyncWorkers)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Location != time.Local {
		t.Errorf("Location = %v, want Local", cfg.Location)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "jwt-secret-value-123")
	t.Setenv("TOKEN_KEY", "")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("GITHUB_API_URL", "http://localhost:1234/")
	t.Setenv("SYNC_WINDOW_DAYS", "30")
	t.Setenv("SYNC_WORKERS", "8")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.TokenKey != "jwt-secret-value-123" {
		t.Errorf("TokenKey should fall back to JWT_SECRET, got %q", cfg.TokenKey)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("Location = %v, want UTC", cfg.Location)
	}
	if cfg.GitHub.APIURL != "http://localhost:1234" {
		t.Errorf("APIURL should drop the trailing slash, got %q", cfg.GitHub.APIURL)
	}
	if cfg.GitHub.SyncWindow != 30*24*time.Hour || cfg.GitHub.SyncWorkers != 8 {
		t.Errorf("GitHub = %+v", cfg.GitHub)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "eighty"},
		{"SYNC_WORKERS", "0"},
		{"SYNC_WINDOW_DAYS", "-1"},
		{"TIMEZONE", "Mars/Olympus_Mons"},
		{"LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("ENV", "")
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}
