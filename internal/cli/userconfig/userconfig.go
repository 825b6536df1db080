// Package userconfig persists per-user CLI settings, currently just the
// selected server, under the OS user config directory.
package userconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const configDirName = "chatdocs"

// UserConfig is the on-disk shape of the user's local settings
type UserConfig struct {
	SelectedServerHost string `json:"selected_server_host"`
}

// Path returns the location of the user config file,
// e.g. ~/.config/chatdocs/config.json on Linux.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, configDirName, "config.json"), nil
}

// Load reads the user config. A missing file yields an empty config.
func Load() (*UserConfig, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &UserConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return &cfg, nil
}

// Save writes the user config, creating the directory if needed
func Save(cfg *UserConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// SetSelectedServer records host as the server future commands should use
func SetSelectedServer(host string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.SelectedServerHost = host
	return Save(cfg)
}

// GetSelectedServer returns the recorded server host, or "" when none is set
func GetSelectedServer() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.SelectedServerHost, nil
}
