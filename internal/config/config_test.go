package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOYO_API_URL", "")
	t.Setenv("HOYO_WS_URL", "")
	t.Setenv("HOYO_HTTP_TIMEOUT", "")
	t.Setenv("HOYO_SESSION_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected api url %q", cfg.APIBaseURL)
	}
	if cfg.RealtimeURL != "ws://localhost:8000/ws" {
		t.Fatalf("unexpected ws url %q", cfg.RealtimeURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.SessionFile != "" {
		t.Fatalf("expected an empty session file, got %q", cfg.SessionFile)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HOYO_API_URL", "https://api.hoyo.example/api/")
	t.Setenv("HOYO_WS_URL", "wss://api.hoyo.example/ws/")
	t.Setenv("HOYO_HTTP_TIMEOUT", "5")
	t.Setenv("HOYO_SESSION_FILE", "/tmp/hoyo-session.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "https://api.hoyo.example/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.RealtimeURL != "wss://api.hoyo.example/ws" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.RealtimeURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.SessionFile != "/tmp/hoyo-session.json" {
		t.Fatalf("unexpected session file %q", cfg.SessionFile)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric timeout", "HOYO_HTTP_TIMEOUT", "soon"},
		{"zero timeout", "HOYO_HTTP_TIMEOUT", "0"},
		{"api url without scheme", "HOYO_API_URL", "localhost:8000"},
		{"ws url with http scheme", "HOYO_WS_URL", "http://localhost:8000/ws"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
