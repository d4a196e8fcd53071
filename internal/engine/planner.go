package engine

import (
	"strings"

	"github.com/xxxsen/mediadup/internal/model"
)

// NameEligible reports whether the configured name filter admits the
// duplicate. Either side of the pair may satisfy the substring: a duplicate
// is not excluded just because its own name lacks the pattern when the
// group's canonical path carries it, and vice versa. An empty filter admits
// everything.
func NameEligible(canonicalPath, dupPath string, cfg model.RunConfig) bool {
	if cfg.Filter == "" {
		return true
	}
	needle := strings.ToLower(cfg.Filter)
	return strings.Contains(strings.ToLower(dupPath), needle) ||
		strings.Contains(strings.ToLower(canonicalPath), needle)
}

// SizeEligible reports whether size falls inside the configured bounds.
// Size filtering is applied per duplicate, not per group.
func SizeEligible(size int64, cfg model.RunConfig) bool {
	return size >= cfg.MinSize && size <= cfg.MaxSize
}
