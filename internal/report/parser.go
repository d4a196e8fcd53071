package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/xxxsen/mediadup/internal/model"
)

const officialSuffix = " (OFFICIAL)"

var officialPathRegexp = regexp.MustCompile(`^Official Path(?:\s*\(([^)]*)\))?:\s*(.*)$`)

// Parse reads a duplicate report (the line format produced by the scan and
// lookup commands, and by the older report tooling) into duplicate groups.
// The header banner, separator lines and the trailing summary block are
// tolerated; a path annotated (OFFICIAL) or equal to the official path is
// excluded from the duplicate list.
func Parse(r io.Reader) ([]*model.DuplicateGroup, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var groups []*model.DuplicateGroup
	var current *model.DuplicateGroup

	flush := func() {
		if current != nil && current.Label != "" {
			if current.CanonicalPath == "" {
				current.CanonicalPath = model.CanonicalUnknown
			}
			groups = append(groups, current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "="):
			continue

		case strings.HasPrefix(trimmed, "Summary:"):
			flush()
			// Everything after the summary marker is aggregate counts.
			for scanner.Scan() {
			}

		case strings.HasPrefix(trimmed, "Folder:"):
			flush()
			current = &model.DuplicateGroup{
				Label: strings.TrimSpace(strings.TrimPrefix(trimmed, "Folder:")),
			}

		case strings.HasPrefix(trimmed, "Official Path"):
			if current == nil {
				continue
			}
			m := officialPathRegexp.FindStringSubmatch(trimmed)
			if m == nil {
				continue
			}
			value := strings.TrimSpace(m[2])
			if value == "" || strings.HasPrefix(value, model.CanonicalUnknown) {
				current.CanonicalPath = model.CanonicalUnknown
				continue
			}
			current.CanonicalPath = value
			current.CanonicalKind = normalizeKind(m[1])

		case strings.HasPrefix(trimmed, "Title:"):
			if current != nil {
				current.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "Title:"))
			}

		case strings.HasPrefix(trimmed, "Match Type:"):
			if current != nil {
				current.MatchType = strings.TrimSpace(strings.TrimPrefix(trimmed, "Match Type:"))
			}

		case strings.HasPrefix(trimmed, "Duplicate Paths:"):
			// List marker only.

		case strings.HasPrefix(line, " ") && strings.HasPrefix(trimmed, "/"):
			if current == nil {
				continue
			}
			path := trimmed
			official := false
			if strings.HasSuffix(path, officialSuffix) {
				path = strings.TrimSuffix(path, officialSuffix)
				official = true
			}
			if official || path == current.CanonicalPath {
				continue
			}
			current.DuplicatePaths = append(current.DuplicatePaths, path)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	flush()
	return groups, nil
}

// ParseFile parses the report at path.
func ParseFile(path string) ([]*model.DuplicateGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// normalizeKind maps the annotation in the official-path parentheses to a
// canonical kind. Older reports carry the manager name instead of the type.
func normalizeKind(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "movie", "radarr":
		return "movie"
	case "series", "sonarr":
		return "series"
	default:
		return ""
	}
}
