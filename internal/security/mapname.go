// Package security validates user-supplied identifiers before they reach the
// filesystem. Map names arrive from the surrounding application and become
// directory names under the store root, so they must not be able to traverse
// out of it.
package security

import (
	"fmt"
	"strings"
)

// maxMapNameLen bounds names so they stay usable as directory entries.
const maxMapNameLen = 128

// ValidateMapName reports whether a name can safely become a directory under
// the store root. It rejects empty names, path separators, relative
// components, hidden-file prefixes, and names long enough to trouble the
// filesystem.
func ValidateMapName(name string) error {
	if name == "" {
		return fmt.Errorf("map name must not be empty")
	}
	if len(name) > maxMapNameLen {
		return fmt.Errorf("map name exceeds %d characters", maxMapNameLen)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("map name %q must not contain path separators", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("map name %q is a relative path component", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("map name %q must not start with a dot", name)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("map name contains a NUL byte")
	}
	return nil
}
