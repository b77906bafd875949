package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julien-sobczak/the-noteweaver/pkg/clock"
	"github.com/julien-sobczak/the-noteweaver/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello")
	writeFile(t, filepath.Join(dir, "sub/b.txt"), "world!")

	size, err := filesystem.DirSize(dir)
	require.NoError(t, err)
	assert.EqualValues(t, 11, size)

	t.Run("Reproducible", func(t *testing.T) {
		defer filesystem.UseReproducibleStat()()
		writeFile(t, filepath.Join(dir, "empty.txt"), "")

		size, err := filesystem.DirSize(dir)
		require.NoError(t, err)
		assert.EqualValues(t, 2, size)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := filesystem.DirSize(filepath.Join(dir, "missing"))
		assert.Error(t, err)
	})
}

func TestStat(t *testing.T) {
	clock.FreezeAt(time.Date(2023, 1, 1, 14, 0, 0, 0, time.UTC))
	defer clock.Unfreeze()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, "temporary file content")

	stat, err := filesystem.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 22, stat.Size())
	assert.WithinDuration(t, time.Now(), stat.ModTime(), 10*time.Second)

	restore := filesystem.UseReproducibleStat()
	stat, err = filesystem.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stat.Size())
	assert.Equal(t, clock.Now(), stat.ModTime())
	assert.Equal(t, "a.txt", stat.Name())

	_, err = filesystem.Stat(filepath.Join(dir, "missing.txt"))
	assert.True(t, os.IsNotExist(err))

	restore()
	stat, err = filesystem.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 22, stat.Size())
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "a/c.txt"), "c")
	writeFile(t, filepath.Join(dir, ".hidden/d.txt"), "d")
	writeFile(t, filepath.Join(dir, ".e.txt"), "e")

	paths, err := filesystem.ListFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/c.txt", "b.txt"}, paths)
}

/* Test Helpers */

func writeFile(t *testing.T, path string, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
