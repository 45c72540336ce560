package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles_SingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shot.jpg")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	entries, err := collectFiles(src, false, "")
	require.NoError(t, err)
	assert.Equal(t, []fileEntry{{sourcePath: src, destPath: "/shot.jpg"}}, entries)

	entries, err = collectFiles(src, false, "/day1")
	require.NoError(t, err)
	assert.Equal(t, "/day1/shot.jpg", entries[0].destPath)
}

func TestCollectFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.jpg"), []byte("b"), 0o644))

	_, err := collectFiles(dir, false, "")
	require.Error(t, err)

	entries, err := collectFiles(dir, true, "")
	require.NoError(t, err)

	var dests []string
	for _, e := range entries {
		dests = append(dests, e.destPath)
	}
	assert.ElementsMatch(t, []string{"/a.jpg", "/sub/b.jpg"}, dests)
}

func TestCollectFiles_Missing(t *testing.T) {
	_, err := collectFiles(filepath.Join(t.TempDir(), "nope"), false, "")

	assert.ErrorIs(t, err, os.ErrNotExist)
}
