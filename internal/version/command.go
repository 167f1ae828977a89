package version

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// goVersionTemplate is the generated source written when the configured
// version file has a .go suffix, so projects can link the version straight
// into their binaries.
const goVersionTemplate = `// Code generated by pontos. DO NOT EDIT.

package %s

// Version is the current release version.
const Version = %q
`

var goVersionPattern = regexp.MustCompile(`Version\s*=\s*"([^"]+)"`)

// Command updates and verifies a project's version declarations. A Command
// is bound to one manifest; the version file it maintains is named by the
// manifest's [pontos.version] section.
type Command struct {
	manifestPath string
	out          io.Writer
}

// NewCommand binds a command to the given manifest path. It fails with a
// *VersionError when the manifest is missing or does not declare a version
// file.
func NewCommand(manifestPath string, out io.Writer) (*Command, error) {
	if manifestPath == "" {
		manifestPath = DefaultManifestFile
	}
	if out == nil {
		out = os.Stdout
	}

	m, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if m.Pontos.Version.VersionFile == "" {
		return nil, errorf("version-file key not set in [pontos.version] section of %s", manifestPath)
	}

	return &Command{manifestPath: manifestPath, out: out}, nil
}

// versionFilePath resolves the version file relative to the manifest.
func (c *Command) versionFilePath(m *Manifest) string {
	file := m.Pontos.Version.VersionFile
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(filepath.Dir(c.manifestPath), file)
}

// CurrentVersion reads the version recorded in the version file.
func (c *Command) CurrentVersion() (string, error) {
	m, err := LoadManifest(c.manifestPath)
	if err != nil {
		return "", err
	}

	path := c.versionFilePath(m)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errorf("could not load version from %s: file not found", path)
		}
		return "", fmt.Errorf("reading version file %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".go") {
		match := goVersionPattern.FindStringSubmatch(string(data))
		if match == nil {
			return "", errorf("could not load version from %s: no Version constant found", path)
		}
		return match[1], nil
	}

	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", errorf("could not load version from %s: file is empty", path)
	}
	return v, nil
}

// ProjectName returns the manifest's project name, or "" when the
// manifest cannot be read.
func (c *Command) ProjectName() string {
	m, err := LoadManifest(c.manifestPath)
	if err != nil {
		return ""
	}
	return m.Project.Name
}

// Show prints the current version.
func (c *Command) Show() error {
	v, err := c.CurrentVersion()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, v)
	return nil
}

// Verify checks that the version file and the manifest agree, and that both
// are in normalized form. When version is anything other than "current" it
// must also match the recorded version.
func (c *Command) Verify(version string) error {
	current, err := c.CurrentVersion()
	if err != nil {
		return err
	}
	if !IsSemver(current) {
		return errorf("the version %s in the version file is not in normalized form", current)
	}

	m, err := LoadManifest(c.manifestPath)
	if err != nil {
		return err
	}
	manifestVersion, err := m.ManifestVersion()
	if err != nil {
		return err
	}
	if manifestVersion != current {
		return errorf("the version %s in %s doesn't match the current version %s",
			manifestVersion, c.manifestPath, current)
	}

	if version != "current" {
		if provided := Strip(version); provided != current {
			return errorf("provided version %s does not match the current version %s", provided, current)
		}
	}

	fmt.Fprintln(c.out, "OK")
	return nil
}

// Update writes newVersion to both the manifest and the version file.
// When the version file already records an equal version and force is
// unset, nothing is written and false is returned.
func (c *Command) Update(newVersion string, force bool) (bool, error) {
	m, err := LoadManifest(c.manifestPath)
	if err != nil {
		return false, err
	}

	previous, _ := m.ManifestVersion()
	path := c.versionFilePath(m)

	if _, err := os.Stat(path); err == nil && !force {
		current, err := c.CurrentVersion()
		if err != nil {
			return false, err
		}
		if Equal(newVersion, current) {
			fmt.Fprintln(c.out, "Version is already up-to-date.")
			return false, nil
		}
	}

	safe := Safe(newVersion)

	m.Project.Version = safe
	if err := m.Save(c.manifestPath); err != nil {
		return false, err
	}
	if err := c.writeVersionFile(path, safe); err != nil {
		return false, err
	}

	fmt.Fprintf(c.out, "Updated version from %s to %s\n", previous, safe)
	return true, nil
}

// writeVersionFile renders the version file. A .go suffix produces a
// generated Go source; anything else gets the bare version string.
func (c *Command) writeVersionFile(path, version string) error {
	var content string
	if strings.HasSuffix(path, ".go") {
		content = fmt.Sprintf(goVersionTemplate, packageNameFor(path), version)
	} else {
		content = version + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing version file %s: %w", path, err)
	}
	return nil
}

// packageNameFor derives a Go package name from the version file's parent
// directory, falling back to "version" for unusable names.
func packageNameFor(path string) string {
	name := filepath.Base(filepath.Dir(path))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, name)
	if name == "" || name == "." || (name[0] >= '0' && name[0] <= '9') {
		return "version"
	}
	return name
}

// Files lists the paths Update touches, for staging in a release commit.
func (c *Command) Files() ([]string, error) {
	m, err := LoadManifest(c.manifestPath)
	if err != nil {
		return nil, err
	}
	return []string{c.manifestPath, c.versionFilePath(m)}, nil
}
