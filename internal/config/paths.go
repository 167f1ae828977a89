package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/pontos/config.yml
// - macOS: ~/Library/Application Support/pontos/config.yml
// - Windows: %APPDATA%\pontos\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pontos", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file,
// .pontos/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".pontos", "config.yml")
}

// LegacyProjectConfigPath returns the path to the legacy project-level
// JSON config file, .pontos/config.json.
func LegacyProjectConfigPath() string {
	return filepath.Join(".pontos", "config.json")
}
