package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/pocket-budget/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	newDir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))

	// Existing directories are left alone.
	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
}

func TestOpenFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("hello"), 0600))

	f, err := fileutils.OpenFile(testFile)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = fileutils.OpenFile(filepath.Join(tmpDir, "missing.txt"))
	assert.ErrorContains(t, err, "file does not exist")
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")

	f, err := fileutils.CreateFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("x")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.True(t, fileutils.FileExists(path))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prefs")
	path := filepath.Join(dir, "preferences.yaml")

	require.NoError(t, fileutils.WriteFileAtomic(path, []byte("first")))
	require.NoError(t, fileutils.WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestWriteFileAtomic_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "occupied")
	require.NoError(t, os.Mkdir(target, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0600))

	assert.Error(t, fileutils.WriteFileAtomic(target, []byte("data")))
	assert.True(t, fileutils.DirectoryExists(target))
}

func TestListFilesWithExtension(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt", filepath.Join("sub", "c.csv")} {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	}

	files, err := fileutils.ListFilesWithExtension(tmpDir, ".csv")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.CSV"),
		filepath.Join(tmpDir, "b.csv"),
		filepath.Join(tmpDir, "sub", "c.csv"),
	}, files)

	_, err = fileutils.ListFilesWithExtension(filepath.Join(tmpDir, "missing"), ".csv")
	assert.Error(t, err)
}
