package version

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultManifestFile is the project manifest looked up in the working
// directory when no path is configured.
const DefaultManifestFile = "pontos.toml"

// Manifest is the pontos project manifest. The [project] table declares the
// project name and current version; [pontos.version] names the version file
// kept in sync with the manifest.
type Manifest struct {
	Project struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"project"`

	Pontos struct {
		Version struct {
			VersionFile string `toml:"version-file"`
		} `toml:"version"`
	} `toml:"pontos"`
}

// LoadManifest reads and decodes a pontos.toml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errorf("%s file not found", path)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Save writes the manifest back to disk.
func (m *Manifest) Save(path string) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// ManifestVersion returns the declared project version, or a *VersionError
// when the field is absent.
func (m *Manifest) ManifestVersion() (string, error) {
	if m.Project.Version == "" {
		return "", errorf("version information not found in [project] section")
	}
	return m.Project.Version, nil
}
