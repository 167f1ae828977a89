package version

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, versionFile, version string) string {
	t.Helper()
	path := filepath.Join(dir, "pontos.toml")
	content := "[project]\nname = \"widget\"\nversion = \"" + version + "\"\n\n" +
		"[pontos.version]\nversion-file = \"" + versionFile + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewCommand_MissingManifest(t *testing.T) {
	_, err := NewCommand(filepath.Join(t.TempDir(), "pontos.toml"), nil)
	require.Error(t, err)

	var verr *VersionError
	assert.ErrorAs(t, err, &verr)
}

func TestNewCommand_MissingVersionFileKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pontos.toml")
	require.NoError(t, os.WriteFile(path, []byte("[project]\nname = \"widget\"\n"), 0o644))

	_, err := NewCommand(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version-file key not set")
}

func TestUpdate_WritesManifestAndPlainFile(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "VERSION", "1.0.0")

	var out bytes.Buffer
	cmd, err := NewCommand(manifest, &out)
	require.NoError(t, err)

	changed, err := cmd.Update("v1.2.3", false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, out.String(), "Updated version from 1.0.0 to 1.2.3")

	data, err := os.ReadFile(filepath.Join(dir, "VERSION"))
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", string(data))

	m, err := LoadManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", m.Project.Version)
	assert.Equal(t, "VERSION", m.Pontos.Version.VersionFile)
}

func TestUpdate_WritesGeneratedGoFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "internal", "widget"), 0o755))
	manifest := writeManifest(t, dir, "internal/widget/version.go", "0.1.0")

	cmd, err := NewCommand(manifest, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = cmd.Update("0.2.0", false)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "internal", "widget", "version.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package widget")
	assert.Contains(t, string(data), `const Version = "0.2.0"`)
	assert.Contains(t, string(data), "DO NOT EDIT")

	current, err := cmd.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", current)
}

func TestUpdate_AlreadyUpToDate(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "VERSION", "1.2.3")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.2.3\n"), 0o644))

	var out bytes.Buffer
	cmd, err := NewCommand(manifest, &out)
	require.NoError(t, err)

	changed, err := cmd.Update("v1.2.3", false)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Contains(t, out.String(), "already up-to-date")

	// force overrides the equality check
	changed, err = cmd.Update("v1.2.3", true)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "VERSION", "1.2.3")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.2.3\n"), 0o644))

	var out bytes.Buffer
	cmd, err := NewCommand(manifest, &out)
	require.NoError(t, err)

	require.NoError(t, cmd.Verify("current"))
	require.NoError(t, cmd.Verify("v1.2.3"))
	assert.Contains(t, out.String(), "OK")

	err = cmd.Verify("2.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match the current version")
}

func TestVerify_ManifestMismatch(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "VERSION", "9.9.9")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.2.3\n"), 0o644))

	cmd, err := NewCommand(manifest, &bytes.Buffer{})
	require.NoError(t, err)

	err = cmd.Verify("current")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doesn't match the current version")
}

func TestCurrentVersion_MissingFile(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "VERSION", "1.0.0")

	cmd, err := NewCommand(manifest, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = cmd.CurrentVersion()
	require.Error(t, err)

	var verr *VersionError
	assert.ErrorAs(t, err, &verr)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "VERSION", "1.0.0")

	cmd, err := NewCommand(manifest, &bytes.Buffer{})
	require.NoError(t, err)

	files, err := cmd.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{manifest, filepath.Join(dir, "VERSION")}, files)
}

func TestProjectName(t *testing.T) {
	dir := t.TempDir()
	manifest := writeManifest(t, dir, "VERSION", "1.0.0")

	cmd, err := NewCommand(manifest, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "widget", cmd.ProjectName())
}
