package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hoyo-tech/hoyo-client/internal/config"
)

// DefaultConfigFile is the config file name under the user config directory.
const DefaultConfigFile = "config.yaml"

// fileConfig is the on-disk CLI configuration. Environment variables take
// precedence over file values.
type fileConfig struct {
	APIURL      string `yaml:"api_url"`
	WSURL       string `yaml:"ws_url"`
	SessionFile string `yaml:"session_file"`
}

// defaultConfigPath returns ~/.config/hoyo/config.yaml (per-OS equivalent).
func defaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "hoyo", DefaultConfigFile), nil
}

// applyFileConfig overlays file values onto cfg for every setting that was
// not already pinned by an environment variable. The raw read error is
// returned untouched so callers can test os.IsNotExist.
func applyFileConfig(cfg *config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("unable to parse config file %s: %w", path, err)
	}

	if fc.APIURL != "" && os.Getenv("HOYO_API_URL") == "" {
		cfg.APIBaseURL = strings.TrimRight(fc.APIURL, "/")
	}
	if fc.WSURL != "" && os.Getenv("HOYO_WS_URL") == "" {
		cfg.RealtimeURL = strings.TrimRight(fc.WSURL, "/")
	}
	if fc.SessionFile != "" && os.Getenv("HOYO_SESSION_FILE") == "" {
		cfg.SessionFile = fc.SessionFile
	}
	return nil
}
