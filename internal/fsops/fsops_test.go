package fsops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, path string, size int) {
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestIsMediaFile(t *testing.T) {
	assert.True(t, IsMediaFile("episode.mkv"))
	assert.True(t, IsMediaFile("Movie.MP4"))
	assert.False(t, IsMediaFile("poster.jpg"))
	assert.False(t, IsMediaFile("noext"))
}

func TestOSExists(t *testing.T) {
	dir := t.TempDir()
	fs := OS{}

	assert.True(t, fs.Exists(dir))
	assert.False(t, fs.Exists(filepath.Join(dir, "missing")))
}

func TestOSDirSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mkv"), 100)
	writeFile(t, filepath.Join(dir, "sub", "b.mkv"), 200)
	writeFile(t, filepath.Join(dir, "sub", "c.nfo"), 10)

	fs := OS{}
	size, err := fs.DirSize(context.Background(), dir)
	assert.NoError(t, err)
	assert.Equal(t, int64(310), size)
}

func TestOSMediaFileCount(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mkv"), 1)
	writeFile(t, filepath.Join(dir, "sub", "b.mp4"), 1)
	writeFile(t, filepath.Join(dir, "sub", "poster.jpg"), 1)
	writeFile(t, filepath.Join(dir, "notes.txt"), 1)

	fs := OS{}
	count, err := fs.MediaFileCount(context.Background(), dir)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestOSRemoveAll(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dup")
	writeFile(t, filepath.Join(target, "a.mkv"), 1)

	fs := OS{}
	assert.NoError(t, fs.RemoveAll(context.Background(), target))
	assert.False(t, fs.Exists(target))
}

func TestOSDirSizeCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mkv"), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs := OS{}
	_, err := fs.DirSize(ctx, dir)
	assert.Error(t, err)
}
