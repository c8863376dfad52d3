package fs

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// OSFileSystem implements filesystem operations using the local OS filesystem primitives.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Stat returns file info for a path (follows symlinks).
func (fs *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads a regular file, refusing files larger than maxSize bytes.
// A maxSize of 0 disables the limit.
func (fs *OSFileSystem) ReadFile(path string, maxSize int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &IsDirectoryError{Path: path}
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, &FileTooLargeError{Path: path, Size: info.Size(), Limit: maxSize}
	}

	var r io.Reader = file
	if maxSize > 0 {
		// The file may grow between Stat and Read.
		r = io.LimitReader(file, maxSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && int64(len(content)) > maxSize {
		return nil, &FileTooLargeError{Path: path, Size: int64(len(content)), Limit: maxSize}
	}
	return content, nil
}

// ReadDir lists the entries of a directory sorted by name.
func (fs *OSFileSystem) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// UserHomeDir returns the current user's home directory.
func (fs *OSFileSystem) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// ExpandHome replaces a leading "~" with the user's home directory.
func (fs *OSFileSystem) ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := fs.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Glob expands each pattern and returns the sorted, de-duplicated matches
// that satisfy keep. Patterns without wildcards match themselves when they
// exist.
func (fs *OSFileSystem) Glob(patterns []string, keep func(os.FileInfo) bool) ([]string, error) {
	seen := make(map[string]struct{})
	var matches []string

	for _, pattern := range patterns {
		expanded, err := fs.ExpandHome(pattern)
		if err != nil {
			return nil, err
		}
		paths, err := filepath.Glob(expanded)
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Cause: err}
		}
		for _, p := range paths {
			p = filepath.Clean(p)
			if _, ok := seen[p]; ok {
				continue
			}
			info, err := os.Stat(p)
			if err != nil || (keep != nil && !keep(info)) {
				continue
			}
			seen[p] = struct{}{}
			matches = append(matches, p)
		}
	}

	sort.Strings(matches)
	return matches, nil
}

// IsRegular keeps regular files.
func IsRegular(info os.FileInfo) bool { return info.Mode().IsRegular() }

// IsDir keeps directories.
func IsDir(info os.FileInfo) bool { return info.IsDir() }
