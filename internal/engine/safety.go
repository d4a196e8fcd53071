package engine

import (
	"path/filepath"
	"strings"

	"github.com/xxxsen/mediadup/internal/model"
)

// osCriticalRoots are never deletable regardless of configured rules.
var osCriticalRoots = map[string]struct{}{
	"/":     {},
	"/home": {},
	"/usr":  {},
	"/var":  {},
	"/etc":  {},
	"/boot": {},
}

// mediaBaseTokens are the base names a protection rule applies to. Rules are
// scoped to media-looking subdirectories, not arbitrary descendants.
var mediaBaseTokens = map[string]struct{}{
	"movies":     {},
	"tv":         {},
	"television": {},
	"films":      {},
	"videos":     {},
}

// IsProtected reports whether path must not be deleted without an explicit
// override: either it is an OS-critical root, or some rule root contains it
// and its base name is a recognized media directory name.
func IsProtected(path string, rules []model.ProtectionRule) bool {
	clean := filepath.Clean(path)
	if _, ok := osCriticalRoots[clean]; ok {
		return true
	}

	base := strings.ToLower(filepath.Base(clean))
	if _, ok := mediaBaseTokens[base]; !ok {
		return false
	}

	for _, rule := range rules {
		root := filepath.Clean(rule.Root)
		if root == "" || root == "." {
			continue
		}
		if clean == root || strings.HasPrefix(clean, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// MediaType is the coarse classification of a path's library kind.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaMovie
	MediaTV
)

func (t MediaType) String() string {
	switch t {
	case MediaMovie:
		return "movie"
	case MediaTV:
		return "tv"
	default:
		return "unknown"
	}
}

var movieTokens = []string{"movie", "film"}
var tvTokens = []string{"tv", "television", "series"}

func classifySegment(segment string) MediaType {
	seg := strings.ToLower(segment)
	for _, tok := range movieTokens {
		if strings.Contains(seg, tok) {
			return MediaMovie
		}
	}
	for _, tok := range tvTokens {
		if strings.Contains(seg, tok) {
			return MediaTV
		}
	}
	return MediaUnknown
}

// ClassifyMediaType inspects the parent directory name first and falls back
// to any remaining path segment.
func ClassifyMediaType(path string) MediaType {
	clean := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(clean))
	if t := classifySegment(parent); t != MediaUnknown {
		return t
	}
	for _, seg := range strings.Split(clean, string(filepath.Separator)) {
		if seg == "" {
			continue
		}
		if t := classifySegment(seg); t != MediaUnknown {
			return t
		}
	}
	return MediaUnknown
}

// MediaTypesMatch reports whether the two paths plausibly hold the same kind
// of library content. With strict=false an unclassifiable side counts as a
// match; with strict=true it does not.
func MediaTypesMatch(a, b string, strict bool) (match bool, typeA, typeB MediaType) {
	typeA = ClassifyMediaType(a)
	typeB = ClassifyMediaType(b)

	if typeA == MediaUnknown || typeB == MediaUnknown {
		return !strict, typeA, typeB
	}
	return typeA == typeB, typeA, typeB
}
