// Package pathutil converts between absolute and relative paths.
//
// The pipeline works with absolute paths internally (vault file descriptors,
// media sources) but every persisted artifact — posts catalogue, media
// catalogue, issues report — records vault-relative paths so output is
// portable across machines.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to one relative to rootDir. Falls
// back to the original path if conversion fails, the path is already
// relative, or the path lies outside rootDir.
//
// Examples:
//   - ToRelative("/vault/notes/a.md", "/vault") → "notes/a.md"
//   - ToRelative("/other/a.md", "/vault") → "/other/a.md" (outside root)
//   - ToRelative("notes/a.md", "/vault") → "notes/a.md" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}

	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return filepath.ToSlash(relPath)
}

// ToSlashRel is ToRelative followed by forward-slash normalization, the
// form used for URLs, catalogue keys, and gitignore-style pattern matching.
func ToSlashRel(absPath, rootDir string) string {
	return filepath.ToSlash(ToRelative(absPath, rootDir))
}

// IsWithin reports whether candidate is rootDir itself or a descendant of
// it, guarding against path-separator false positives (e.g. "/vault-2"
// matching a naive prefix check against "/vault").
func IsWithin(candidate, rootDir string) bool {
	candidate = filepath.Clean(candidate)
	rootDir = filepath.Clean(rootDir)

	if candidate == rootDir {
		return true
	}

	rel, err := filepath.Rel(rootDir, candidate)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
