package errors

import (
	"strings"
	"unicode"
)

const maxNameLength = 256

// ValidatePackageName rejects crate names that are empty or that would escape
// the cache layout when used as a path segment.
//
// The checks are registry-agnostic:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or parent directory references
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxNameLength)
	}
	if err := checkSegment(name); err != "" {
		return New(ErrCodeInvalidPackage, "package name %q %s", name, err)
	}
	return nil
}

// ValidateVersion applies the same path-segment rules to a version string.
// Versions are opaque here; semver syntax is not enforced.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidVersion, "version cannot be empty")
	}
	if err := checkSegment(version); err != "" {
		return New(ErrCodeInvalidVersion, "version %q %s", version, err)
	}
	return nil
}

func checkSegment(s string) string {
	for _, r := range s {
		if unicode.IsControl(r) {
			return "contains control characters"
		}
	}
	if s == "." || strings.Contains(s, "..") {
		return "contains a parent directory reference"
	}
	if strings.ContainsAny(s, `/\`) {
		return "contains a path separator"
	}
	return ""
}
