// Package config provides hierarchical configuration management for pontos
// using koanf. Configuration is loaded with priority: environment variables >
// project config (.pontos/config.yml) > user config (~/.config/pontos/config.yml)
// > defaults. Legacy JSON configs are still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ReleaseConfig holds the GitHub release options.
type ReleaseConfig struct {
	// Draft marks created releases as drafts.
	Draft bool `koanf:"draft"`
	// Prerelease marks created releases as prereleases.
	Prerelease bool `koanf:"prerelease"`
	// Name overrides the release title, empty derives it from the tag.
	Name string `koanf:"name"`
	// TargetCommitish pins releases to a branch or commit.
	TargetCommitish string `koanf:"target_commitish"`
}

// Configuration represents the pontos CLI tool configuration.
type Configuration struct {
	// ChangelogFile is the changelog path relative to the project root.
	ChangelogFile string `koanf:"changelog_file" validate:"required"`

	// ManifestFile is the pontos manifest path relative to the project root.
	ManifestFile string `koanf:"manifest_file" validate:"required"`

	// TagPrefix is prepended to versions for git tags and comparison links.
	TagPrefix string `koanf:"tag_prefix"`

	// Space is the GitHub owner (user or organisation) releases go to.
	// Can be set via PONTOS_SPACE env var.
	Space string `koanf:"space"`

	// Project is the GitHub repository name. Empty falls back to the
	// manifest's project name.
	Project string `koanf:"project"`

	// Remote is the git remote pushed to.
	Remote string `koanf:"remote" validate:"required"`

	// Timeout bounds network operations, in seconds. 0 keeps the
	// built-in defaults.
	Timeout int `koanf:"timeout" validate:"min=0"`

	// InsertSkeleton re-inserts an empty Unreleased section after a
	// release renames the current one.
	InsertSkeleton bool `koanf:"insert_skeleton"`

	// Release configures the GitHub release resource.
	Release ReleaseConfig `koanf:"release"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default:
	// .pontos/config.yml).
	ProjectConfigPath string
	// WarningWriter receives migration warnings (default: os.Stderr).
	WarningWriter io.Writer
	// SkipWarnings suppresses migration warnings.
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := opts.WarningWriter
	if warningWriter == nil {
		warningWriter = os.Stderr
	}

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("PONTOS_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := ValidateConfigValues(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadUserConfig loads the user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return err
	}
	return nil
}

// loadProjectConfig loads the project-level config, preferring YAML and
// falling back to legacy JSON with a warning.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		yamlPath = customPath
	}
	legacyPath := LegacyProjectConfigPath()

	if fileExists(yamlPath) {
		return loadYAMLConfig(k, yamlPath, "project")
	}
	if customPath == "" && fileExists(legacyPath) {
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("loading legacy project config %s: %w", legacyPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Move the settings to %s in YAML format.\n\n", ProjectConfigPath())
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file.
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading %s config %s: %w", configType, path, err)
	}
	return nil
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: PONTOS_TAG_PREFIX -> tag_prefix. Release options use a double
// underscore: PONTOS_RELEASE__DRAFT -> release.draft.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "PONTOS_"))
	return strings.ReplaceAll(key, "__", ".")
}
