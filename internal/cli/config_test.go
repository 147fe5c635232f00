package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoyo-tech/hoyo-client/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApplyFileConfigOverlaysValues(t *testing.T) {
	t.Setenv("HOYO_API_URL", "")
	t.Setenv("HOYO_WS_URL", "")
	t.Setenv("HOYO_SESSION_FILE", "")

	path := writeConfigFile(t, `
api_url: https://api.hoyo.example/api/
ws_url: wss://api.hoyo.example/ws
session_file: /tmp/hoyo.json
`)

	cfg := &config.Config{
		APIBaseURL:  "http://localhost:8000/api",
		RealtimeURL: "ws://localhost:8000/ws",
	}
	require.NoError(t, applyFileConfig(cfg, path))

	assert.Equal(t, "https://api.hoyo.example/api", cfg.APIBaseURL)
	assert.Equal(t, "wss://api.hoyo.example/ws", cfg.RealtimeURL)
	assert.Equal(t, "/tmp/hoyo.json", cfg.SessionFile)
}

func TestApplyFileConfigEnvironmentWins(t *testing.T) {
	t.Setenv("HOYO_API_URL", "https://env.hoyo.example/api")
	t.Setenv("HOYO_WS_URL", "")
	t.Setenv("HOYO_SESSION_FILE", "")

	path := writeConfigFile(t, `
api_url: https://file.hoyo.example/api
ws_url: wss://file.hoyo.example/ws
`)

	cfg := &config.Config{
		APIBaseURL:  "https://env.hoyo.example/api",
		RealtimeURL: "ws://localhost:8000/ws",
	}
	require.NoError(t, applyFileConfig(cfg, path))

	// The env-pinned value survives, the unpinned one is overlaid.
	assert.Equal(t, "https://env.hoyo.example/api", cfg.APIBaseURL)
	assert.Equal(t, "wss://file.hoyo.example/ws", cfg.RealtimeURL)
}

func TestApplyFileConfigMissingFile(t *testing.T) {
	cfg := &config.Config{}
	err := applyFileConfig(cfg, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestApplyFileConfigMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "api_url: [not: closed")

	err := applyFileConfig(&config.Config{}, path)
	require.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}
