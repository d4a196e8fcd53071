package arr

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Match is a resolved canonical location for one duplicate folder.
type Match struct {
	Kind      Kind
	Title     string
	Path      string
	MatchType string
}

type entry struct {
	kind  Kind
	title string
	path  string
}

// Resolver maps duplicate folders to the official path one of the managers
// tracks. Paths fed into it must already be host paths; pass a translate
// function to rewrite container paths from the manager's point of view.
type Resolver struct {
	entries      []entry
	folderToPath map[string]entry
}

// NewResolver builds a resolver over the manager records. translate may be
// nil when the managers see the same paths as the host.
func NewResolver(series, movies []Record, translate func(string) string) *Resolver {
	if translate == nil {
		translate = func(p string) string { return p }
	}

	r := &Resolver{folderToPath: make(map[string]entry)}
	add := func(records []Record, kind Kind) {
		for _, rec := range records {
			e := entry{kind: kind, title: rec.Title, path: translate(rec.Path)}
			r.entries = append(r.entries, e)
			r.folderToPath[strings.ToLower(filepath.Base(e.path))] = e
		}
	}
	add(series, KindSeries)
	add(movies, KindMovie)
	return r
}

// Resolve finds the official path for one duplicate folder. Match types, in
// order of preference: direct folder-name hit, strict path comparison
// against each duplicate path, fuzzy folder-name containment.
func (r *Resolver) Resolve(folderName string, duplicatePaths []string) *Match {
	if e, ok := r.folderToPath[strings.ToLower(folderName)]; ok {
		return &Match{Kind: e.kind, Title: e.title, Path: e.path, MatchType: "direct"}
	}

	for _, e := range r.entries {
		for _, dup := range duplicatePaths {
			if pathsRelated(e.path, dup, folderName) {
				return &Match{Kind: e.kind, Title: e.title, Path: e.path, MatchType: "path_comparison"}
			}
		}
	}

	if folderName != "" {
		lower := strings.ToLower(folderName)
		for _, e := range r.entries {
			base := strings.ToLower(filepath.Base(e.path))
			if base == lower || strings.Contains(base, lower) || strings.Contains(lower, base) {
				return &Match{Kind: e.kind, Title: e.title, Path: e.path, MatchType: "fuzzy_name"}
			}
		}
	}

	return nil
}

// pathsRelated applies the strict comparison between a tracked path and a
// duplicate candidate: basename containment is required, then an exact
// match, shared parent, subdirectory relation or a media-path relation.
func pathsRelated(official, dup, folderName string) bool {
	officialBase := strings.ToLower(filepath.Base(official))
	dupBase := strings.ToLower(filepath.Base(dup))

	if officialBase != dupBase &&
		!strings.Contains(officialBase, dupBase) &&
		!strings.Contains(dupBase, officialBase) {
		return false
	}

	if official == dup {
		return true
	}
	if filepath.Dir(official) == filepath.Dir(dup) {
		return true
	}
	if strings.HasPrefix(official, dup+"/") || strings.HasPrefix(dup, official+"/") {
		return true
	}
	return relatedMediaPaths(official, dup, folderName)
}

var movieNameRegexp = regexp.MustCompile(`^(.+?)(?:\s+\((\d{4})\))?$`)

var mediaParentDirs = map[string]struct{}{
	"movies":     {},
	"television": {},
	"tv":         {},
	"series":     {},
	"films":      {},
	"shows":      {},
}

// relatedMediaPaths checks whether two paths plausibly point at the same
// title: same basename, matching folder label, matching "Name (Year)" stem,
// or same basename under recognizable media parent directories.
func relatedMediaPaths(a, b, folderName string) bool {
	baseA := filepath.Base(a)
	baseB := filepath.Base(b)

	if strings.EqualFold(baseA, baseB) {
		return true
	}
	if folderName != "" && (strings.EqualFold(baseA, folderName) || strings.EqualFold(baseB, folderName)) {
		return true
	}

	matchA := movieNameRegexp.FindStringSubmatch(baseA)
	matchB := movieNameRegexp.FindStringSubmatch(baseB)
	if matchA != nil && matchB != nil {
		nameA := strings.ToLower(strings.TrimSpace(matchA[1]))
		nameB := strings.ToLower(strings.TrimSpace(matchB[1]))
		if nameA == nameB {
			return true
		}
		// Accounts for "Extended", "Director's Cut" and similar suffixes.
		if strings.Contains(nameA, nameB) || strings.Contains(nameB, nameA) {
			return true
		}
	}

	parentA := strings.ToLower(filepath.Base(filepath.Dir(a)))
	parentB := strings.ToLower(filepath.Base(filepath.Dir(b)))
	_, mediaA := mediaParentDirs[parentA]
	_, mediaB := mediaParentDirs[parentB]
	return mediaA && mediaB && strings.EqualFold(baseA, baseB)
}
