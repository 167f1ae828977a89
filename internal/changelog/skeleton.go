package changelog

import "fmt"

// skeleton renders an empty Unreleased section, inserted directly ahead of
// a freshly renamed release section so the changelog stays ready for new
// entries. The comparison link points from the new tag to HEAD. The extra
// trailing newline separates the skeleton from the renamed heading.
func skeleton(compareBase, tagPrefix, version string) string {
	return fmt.Sprintf(`## [Unreleased]
### Added
### Changed
### Deprecated
### Removed
### Fixed

[Unreleased]: %s/compare/%s%s...HEAD

`, compareBase, tagPrefix, version) + "\n"
}
