package config

// GetDefaultConfigTemplate returns a fully commented config template that
// helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# Pontos Configuration
# Project settings override user settings; PONTOS_* env vars override both.

# File locations, relative to the project root
changelog_file: CHANGELOG.md          # Keep a Changelog formatted file
manifest_file: pontos.toml            # Project manifest with version info

# Release settings
tag_prefix: v                         # Prefix for git tags and comparison links
space: ""                             # GitHub owner (user or organisation)
project: ""                           # GitHub repository (empty = manifest name)
remote: origin                        # Git remote pushed to
timeout: 60                           # Network timeout in seconds
insert_skeleton: false                # Re-insert empty Unreleased section on release

# GitHub release options
release:
  draft: false                        # Create releases as drafts
  prerelease: false                   # Mark releases as prereleases
  name: ""                            # Release title (empty = derived from tag)
  target_commitish: ""                # Branch or commit to release (empty = default branch)
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog_file":  "CHANGELOG.md",
		"manifest_file":   "pontos.toml",
		"tag_prefix":      "v",
		"space":           "",
		"project":         "",
		"remote":          "origin",
		"timeout":         60,
		"insert_skeleton": false,
		"release": map[string]interface{}{
			"draft":            false,
			"prerelease":       false,
			"name":             "",
			"target_commitish": "",
		},
	}
}
