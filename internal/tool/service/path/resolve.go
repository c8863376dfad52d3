package path

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver turns paths typed by the user or sent by the model into
// absolute paths, and absolute paths back into short display forms.
type Resolver struct {
	workDir string
	home    string
}

// NewResolver creates a resolver for workDir. home may be empty, which
// disables "~" expansion.
func NewResolver(workDir, home string) *Resolver {
	return &Resolver{
		workDir: workDir,
		home:    home,
	}
}

// CanonicaliseRoot canonicalises a working directory by making it absolute and resolving symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkDirError{Root: absRoot, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkDirError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkDirError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkDirError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Abs resolves path to a clean absolute path. A leading "~" is the home
// directory and relative paths are taken from the working directory.
func (r *Resolver) Abs(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrEmptyPath
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if r.home == "" {
			return "", ErrHomeNotSet
		}
		return filepath.Clean(filepath.Join(r.home, strings.TrimPrefix(path, "~"))), nil
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if r.workDir == "" {
		return "", ErrWorkDirNotSet
	}
	return filepath.Clean(filepath.Join(r.workDir, path)), nil
}

// Display shortens an absolute path: relative inside the working
// directory, "~/..." inside home, unchanged otherwise.
func (r *Resolver) Display(path string) string {
	if rel, ok := within(r.workDir, path); ok {
		if rel == "." {
			return "."
		}
		return filepath.ToSlash(rel)
	}
	if rel, ok := within(r.home, path); ok {
		if rel == "." {
			return "~"
		}
		return "~/" + filepath.ToSlash(rel)
	}
	return path
}

// within reports path relative to root when path is root or below it.
func within(root, path string) (string, bool) {
	if root == "" || !filepath.IsAbs(path) {
		return "", false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
