package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xxxsen/mediadup/internal/model"
)

const separator = "=================================================="

// Write renders groups in the duplicate-report line format, ending with the
// aggregate summary block. The output round-trips through Parse.
func Write(w io.Writer, title string, groups []*model.DuplicateGroup) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "=== %s ===\n\n", title)

	found := 0
	for _, g := range groups {
		fmt.Fprintf(bw, "Folder: %s\n", g.Label)

		if g.CanonicalKnown() {
			found++
			kind := g.CanonicalKind
			if kind == "" {
				fmt.Fprintf(bw, "Official Path: %s\n", g.CanonicalPath)
			} else {
				fmt.Fprintf(bw, "Official Path (%s): %s\n", kind, g.CanonicalPath)
			}
			if g.Title != "" {
				fmt.Fprintf(bw, "Title: %s\n", g.Title)
			}
			if g.MatchType != "" {
				fmt.Fprintf(bw, "Match Type: %s\n", g.MatchType)
			}
		} else {
			fmt.Fprintln(bw, "Official Path: Unknown (not found in Sonarr or Radarr)")
		}

		fmt.Fprintln(bw, "\nDuplicate Paths:")
		for _, p := range g.DuplicatePaths {
			fmt.Fprintf(bw, "  %s\n", p)
		}
		if g.CanonicalKnown() {
			fmt.Fprintf(bw, "  %s%s\n", g.CanonicalPath, officialSuffix)
		}

		fmt.Fprintf(bw, "\n%s\n\n", separator)
	}

	totalPaths := 0
	for _, g := range groups {
		totalPaths += len(g.DuplicatePaths)
	}
	fmt.Fprintln(bw, "\nSummary:")
	fmt.Fprintf(bw, "Total duplicate folders: %d\n", len(groups))
	fmt.Fprintf(bw, "Total duplicate paths: %d\n", totalPaths)
	fmt.Fprintf(bw, "Found in Sonarr/Radarr: %d\n", found)
	fmt.Fprintf(bw, "Not found in Sonarr/Radarr: %d\n", len(groups)-found)

	return bw.Flush()
}

// WriteFile writes the report to path, creating or truncating it.
func WriteFile(path, title string, groups []*model.DuplicateGroup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	if err := Write(f, title, groups); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report %s: %w", path, err)
	}
	return nil
}

// Render returns the report as a string, mainly for logging and tests.
func Render(title string, groups []*model.DuplicateGroup) string {
	var b strings.Builder
	_ = Write(&b, title, groups)
	return b.String()
}
