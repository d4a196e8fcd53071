package engine

import (
	"context"

	"github.com/xxxsen/mediadup/internal/fsops"
)

// Metrics are the on-disk measurements of one folder, computed lazily and at
// most once per path per session. Size and MediaFiles are zero when the path
// is missing; Exists keeps that distinguishable from a real empty folder.
type Metrics struct {
	Exists     bool
	Size       int64
	MediaFiles int
}

// Measure collects the metrics for path. Scan errors other than context
// cancellation are not possible; unreadable subtrees are simply not counted.
func Measure(ctx context.Context, fs fsops.FS, path string) (Metrics, error) {
	m := Metrics{}
	if !fs.Exists(path) {
		return m, nil
	}
	m.Exists = true

	size, err := fs.DirSize(ctx, path)
	if err != nil {
		return m, err
	}
	m.Size = size

	count, err := fs.MediaFileCount(ctx, path)
	if err != nil {
		return m, err
	}
	m.MediaFiles = count
	return m, nil
}
