package ops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/folio/internal/errors"
)

// ValidateContentName checks a file name requested through the content
// endpoint. It must be a bare .md file name:
// 1. No path separators and no ".." (the file must sit directly in the directory)
// 2. .md extension
// 3. No control characters
func ValidateContentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewInvalidRequest("file name is required")
	}
	if containsTraversal(name) || strings.ContainsAny(name, `/\`) {
		return errors.NewInvalidRequest("file name must not contain path separators or traversal (..)")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return errors.NewInvalidRequest("file name contains control characters")
		}
	}
	if !strings.EqualFold(filepath.Ext(name), ".md") {
		return errors.NewInvalidRequest("file name must have .md extension")
	}
	return nil
}

// resolveContentPath validates name and returns its path inside dir.
// Symlinks are rejected so a link cannot expose files outside dir.
func resolveContentPath(dir, name string) (string, error) {
	if err := ValidateContentName(name); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileNotFound(name)
		}
		return "", errors.NewInternal(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return "", errors.NewInvalidRequest("path must not be a symlink")
	}
	if !info.Mode().IsRegular() {
		return "", errors.NewFileNotFound(name)
	}
	return path, nil
}

// containsTraversal checks if path contains ".." as a path component.
func containsTraversal(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return true
		}
	}
	return false
}
