// Package cli tests the version commands for pontos.
// Related: internal/cli/version.go

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nichtsfrei/pontos/internal/config"
)

func setupVersionTest(t *testing.T) (*cobra.Command, *bytes.Buffer, string) {
	t.Helper()
	manifestFileFlag = ""
	versionForceFlag = false
	cfg = &config.Configuration{ManifestFile: "pontos.toml"}

	dir := t.TempDir()
	manifest := filepath.Join(dir, "pontos.toml")
	content := "[project]\nname = \"widget\"\nversion = \"1.0.0\"\n\n" +
		"[pontos.version]\nversion-file = \"VERSION\"\n"
	require.NoError(t, os.WriteFile(manifest, []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.0.0\n"), 0o644))
	manifestFileFlag = manifest

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out, dir
}

func TestVersionShow(t *testing.T) {
	cmd, out, _ := setupVersionTest(t)

	vc, err := versionCommand(cmd)
	require.NoError(t, err)
	require.NoError(t, vc.Show())
	assert.Equal(t, "1.0.0\n", out.String())
}

func TestVersionCommand_MissingManifest(t *testing.T) {
	cmd, _, _ := setupVersionTest(t)
	manifestFileFlag = filepath.Join(t.TempDir(), "pontos.toml")

	_, err := versionCommand(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestVersionUpdateCmd(t *testing.T) {
	cmd, out, dir := setupVersionTest(t)

	require.NoError(t, versionUpdateCmd.RunE(cmd, []string{"v1.2.3"}))
	assert.Contains(t, out.String(), "Updated version from 1.0.0 to 1.2.3")

	data, err := os.ReadFile(filepath.Join(dir, "VERSION"))
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", string(data))
}

func TestVersionUpdateCmd_InvalidVersion(t *testing.T) {
	cmd, _, _ := setupVersionTest(t)

	err := versionUpdateCmd.RunE(cmd, []string{"not-a-version"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a semantic version")
}

func TestVersionVerifyCmd(t *testing.T) {
	cmd, _, _ := setupVersionTest(t)

	require.NoError(t, versionVerifyCmd.RunE(cmd, []string{"current"}))
	require.NoError(t, versionVerifyCmd.RunE(cmd, []string{"1.0.0"}))

	err := versionVerifyCmd.RunE(cmd, []string{"2.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}
