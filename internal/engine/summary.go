package engine

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/xxxsen/mediadup/internal/model"
)

// RenderSummary formats the end-of-session report for the operator. A dry
// run states explicitly that nothing was removed; the permissive media-type
// bias is called out whenever it was active.
func RenderSummary(acct model.SessionAccounting, cfg model.RunConfig) string {
	var b strings.Builder

	b.WriteString("=== Cleanup Session Summary ===\n")
	if cfg.DryRun {
		b.WriteString("mode: DRY RUN - no files were removed\n")
	} else {
		b.WriteString(fmt.Sprintf("mode: %s\n", cfg.Mode))
	}

	b.WriteString(fmt.Sprintf("groups total:          %d\n", acct.GroupsTotal))
	b.WriteString(fmt.Sprintf("groups processed:      %d\n", acct.GroupsProcessed))
	b.WriteString(fmt.Sprintf("groups skipped:        %d\n", acct.GroupsSkipped))
	b.WriteString(fmt.Sprintf("size-filtered skips:   %d\n", acct.SizeSkipped))
	b.WriteString(fmt.Sprintf("warnings raised:       %d\n", acct.Warnings))
	b.WriteString(fmt.Sprintf("failures:              %d\n", acct.Failures))

	verb := "deleted"
	reclaim := "bytes reclaimed"
	if cfg.DryRun {
		verb = "would delete"
		reclaim = "bytes would reclaim"
	}
	b.WriteString(fmt.Sprintf("duplicates %s:    %d\n", verb, acct.DuplicatesProcessed))
	b.WriteString(fmt.Sprintf("%s:   %s\n", reclaim, humanize.IBytes(uint64(acct.BytesReclaimed))))

	if !cfg.StrictMediaType {
		b.WriteString("note: media type matching was permissive; unclassified folders were treated as matching (enable strict_media_type to tighten)\n")
	}
	return b.String()
}
