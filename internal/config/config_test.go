package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogFile)
	assert.Equal(t, "pontos.toml", cfg.ManifestFile)
	assert.Equal(t, "v", cfg.TagPrefix)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, 60, cfg.Timeout)
	assert.False(t, cfg.InsertSkeleton)
	assert.False(t, cfg.Release.Draft)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
space: acme
project: widget
tag_prefix: ""
insert_skeleton: true
release:
  draft: true
  name: Widget
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Space)
	assert.Equal(t, "widget", cfg.Project)
	assert.Equal(t, "", cfg.TagPrefix)
	assert.True(t, cfg.InsertSkeleton)
	assert.True(t, cfg.Release.Draft)
	assert.Equal(t, "Widget", cfg.Release.Name)

	// Untouched keys keep their defaults.
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogFile)
	assert.Equal(t, "origin", cfg.Remote)
}

func TestLoad_EnvironmentOverridesProjectConfig(t *testing.T) {
	path := writeConfig(t, "space: acme\ntag_prefix: v\n")

	t.Setenv("PONTOS_SPACE", "greenbone")
	t.Setenv("PONTOS_TAG_PREFIX", "release-")
	t.Setenv("PONTOS_RELEASE__PRERELEASE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "greenbone", cfg.Space)
	assert.Equal(t, "release-", cfg.TagPrefix)
	assert.True(t, cfg.Release.Prerelease)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "space: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project config")
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogFile)
}

func TestValidateConfigValues(t *testing.T) {
	tests := map[string]struct {
		mutate      func(*Configuration)
		wantField   string
		wantMessage string
	}{
		"empty changelog file": {
			mutate:      func(c *Configuration) { c.ChangelogFile = "" },
			wantField:   "changelog_file",
			wantMessage: "is required",
		},
		"empty manifest file": {
			mutate:      func(c *Configuration) { c.ManifestFile = "" },
			wantField:   "manifest_file",
			wantMessage: "is required",
		},
		"empty remote": {
			mutate:      func(c *Configuration) { c.Remote = "" },
			wantField:   "remote",
			wantMessage: "is required",
		},
		"negative timeout": {
			mutate:      func(c *Configuration) { c.Timeout = -1 },
			wantField:   "timeout",
			wantMessage: "must be at least 0",
		},
		"whitespace tag prefix": {
			mutate:      func(c *Configuration) { c.TagPrefix = "v " },
			wantField:   "tag_prefix",
			wantMessage: "must not contain whitespace",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Configuration{
				ChangelogFile: "CHANGELOG.md",
				ManifestFile:  "pontos.toml",
				Remote:        "origin",
			}
			tc.mutate(&cfg)

			err := ValidateConfigValues(&cfg)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
			assert.Equal(t, tc.wantMessage, verr.Message)
		})
	}
}

func TestValidateYAMLSyntax(t *testing.T) {
	valid := writeConfig(t, "space: acme\n")
	assert.NoError(t, ValidateYAMLSyntax(valid))

	invalid := writeConfig(t, "space: [unclosed\n")
	err := ValidateYAMLSyntax(invalid)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, invalid, verr.FilePath)

	assert.NoError(t, ValidateYAMLSyntax(filepath.Join(t.TempDir(), "missing.yml")))
	assert.NoError(t, ValidateYAMLSyntax(writeConfig(t, "  \n")))
}

func TestGetDefaultConfigTemplateIsValidYAML(t *testing.T) {
	path := writeConfig(t, GetDefaultConfigTemplate())
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "v", cfg.TagPrefix)
	assert.Equal(t, "origin", cfg.Remote)
}
