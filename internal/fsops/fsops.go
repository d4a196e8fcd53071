package fsops

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FS abstracts the filesystem primitives the cleanup engine needs, so the
// decision logic can be exercised without touching a real disk.
type FS interface {
	Exists(path string) bool
	// DirSize returns the recursive byte size of path. A missing path yields
	// 0; callers distinguish that from an empty directory via Exists.
	DirSize(ctx context.Context, path string) (int64, error)
	// MediaFileCount returns the number of video files under path.
	MediaFileCount(ctx context.Context, path string) (int, error)
	RemoveAll(ctx context.Context, path string) error
}

// MediaExtensions lists the file extensions counted as playable video.
var MediaExtensions = map[string]struct{}{
	".mkv":  {},
	".mp4":  {},
	".avi":  {},
	".m4v":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
	".mpg":  {},
	".mpeg": {},
	".ts":   {},
	".m2ts": {},
	".iso":  {},
}

// IsMediaFile reports whether name has a known video extension.
func IsMediaFile(name string) bool {
	_, ok := MediaExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// OS is the real-disk implementation of FS.
type OS struct{}

func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OS) DirSize(ctx context.Context, path string) (int64, error) {
	var total int64
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Unreadable entries are skipped rather than failing the whole
			// scan; large media mounts routinely contain odd permissions.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total, err
}

func (OS) MediaFileCount(ctx context.Context, path string) (int, error) {
	count := 0
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsMediaFile(d.Name()) {
			count++
		}
		return nil
	})
	return count, err
}

func (OS) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(path)
}
