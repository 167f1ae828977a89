// Package cli tests the root command and global flags for pontos.
// Related: internal/cli/root.go

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "pontos", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Version)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name),
			"flag %s should exist", name)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "changelog")
	assert.Contains(t, names, "version")
	assert.Contains(t, names, "release")
}

func TestChangelogCmd_Subcommands(t *testing.T) {
	var names []string
	for _, cmd := range changelogCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "extract")
	assert.Contains(t, names, "update")
}

func TestExitError(t *testing.T) {
	err := NewExitError(ExitNothingToRelease)
	require.Error(t, err)
	assert.Equal(t, ExitNothingToRelease, err.Code)
	assert.Contains(t, err.Error(), "2")
}
