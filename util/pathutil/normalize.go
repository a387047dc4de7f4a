package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizeForLookup creates a canonical path suitable for use as a map key
// or in comparisons. It performs the following steps:
// 1. Converts forward and backward slashes to the platform separator.
// 2. Makes the path absolute and cleans it.
// 3. Evaluates any symbolic links.
// 4. Converts the path to lowercase when fold is true (for case-insensitive
// filesystems; callers default to folding).
func NormalizeForLookup(path string, fold bool) (string, error) {
	// Backslash separators appear in configs written on Windows even when
	// the watcher itself runs elsewhere.
	cleaned := filepath.FromSlash(strings.ReplaceAll(path, `\`, "/"))

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return "", err
	}
	canonicalPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// If symlink evaluation fails (e.g., path doesn't exist yet),
		// fall back to the absolute path.
		canonicalPath = absPath
	}

	if fold {
		return strings.ToLower(canonicalPath), nil
	}

	return canonicalPath, nil
}

// ComparePaths checks if two paths refer to the same location under the
// given fold policy.
func ComparePaths(path1, path2 string, fold bool) (bool, error) {
	norm1, err := NormalizeForLookup(path1, fold)
	if err != nil {
		return false, err
	}
	norm2, err := NormalizeForLookup(path2, fold)
	if err != nil {
		return false, err
	}
	return norm1 == norm2, nil
}
