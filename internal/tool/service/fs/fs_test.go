package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	fs := NewOSFileSystem()

	t.Run("Within limit", func(t *testing.T) {
		path := filepath.Join(dir, "small.txt")
		writeFile(t, path, "hello")

		data, err := fs.ReadFile(path, 10)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("No limit", func(t *testing.T) {
		path := filepath.Join(dir, "any.txt")
		writeFile(t, path, "anything at all")

		data, err := fs.ReadFile(path, 0)
		require.NoError(t, err)
		assert.Equal(t, "anything at all", string(data))
	})

	t.Run("Too large", func(t *testing.T) {
		path := filepath.Join(dir, "big.txt")
		writeFile(t, path, "0123456789")

		_, err := fs.ReadFile(path, 4)
		var tooLarge *FileTooLargeError
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, int64(10), tooLarge.Size)
	})

	t.Run("Directory", func(t *testing.T) {
		_, err := fs.ReadFile(dir, 0)
		var isDir *IsDirectoryError
		assert.ErrorAs(t, err, &isDir)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := fs.ReadFile(filepath.Join(dir, "nope"), 0)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	fs := NewOSFileSystem()

	got, err := fs.ExpandHome("~/notes.md")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/notes.md", got)

	got, err = fs.ExpandHome("relative/~file")
	require.NoError(t, err)
	assert.Equal(t, "relative/~file", got)
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	fs := NewOSFileSystem()
	writeFile(t, filepath.Join(dir, "b.go"), "")
	writeFile(t, filepath.Join(dir, "a.go"), "")
	writeFile(t, filepath.Join(dir, "sub", "c.go"), "")

	t.Run("Files only, sorted, deduplicated", func(t *testing.T) {
		got, err := fs.Glob([]string{
			filepath.Join(dir, "*.go"),
			filepath.Join(dir, "a.go"),
		}, IsRegular)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.go"), filepath.Join(dir, "b.go")}, got)
	})

	t.Run("Directories only", func(t *testing.T) {
		got, err := fs.Glob([]string{filepath.Join(dir, "*")}, IsDir)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "sub")}, got)
	})

	t.Run("Bad pattern", func(t *testing.T) {
		_, err := fs.Glob([]string{filepath.Join(dir, "[")}, nil)
		var patternErr *PatternError
		assert.ErrorAs(t, err, &patternErr)
	})
}
