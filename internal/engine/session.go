package engine

import (
	"context"
	"time"

	"github.com/xxxsen/mediadup/internal/fsops"
	"github.com/xxxsen/mediadup/internal/model"
)

// Deps are the injected collaborators of a cleanup session.
type Deps struct {
	FS       fsops.FS
	Confirm  Confirmer
	Recorder Recorder
}

// RunSession processes every duplicate group strictly sequentially and
// returns the final accounting. Per-path failures never escape the loop;
// the only errors returned are context cancellation during a scan, so an
// interrupt can stop the run between paths without corrupting the totals.
func RunSession(ctx context.Context, deps Deps, groups []*model.DuplicateGroup, rules []model.ProtectionRule, cfg model.RunConfig) (model.SessionAccounting, error) {
	acct := model.SessionAccounting{}
	rec := deps.Recorder
	if rec == nil {
		rec = NopRecorder
	}
	assessor := NewAssessor(rules, cfg)
	executor := NewExecutor(deps.FS, deps.Confirm, rec, cfg)

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return acct, err
		}
		acct.GroupsTotal++

		if reason := groupSkipReason(deps.FS, group); reason != "" {
			acct.GroupsSkipped++
			rec.Record(ctx, Event{
				Time:   time.Now(),
				Type:   EventGroupSkipped,
				Group:  group.Label,
				Path:   group.CanonicalPath,
				Reason: reason,
			})
			continue
		}

		acct.GroupsProcessed++
		rec.Record(ctx, Event{
			Time:  time.Now(),
			Type:  EventGroupStarted,
			Group: group.Label,
			Path:  group.CanonicalPath,
		})

		canonical, err := Measure(ctx, deps.FS, group.CanonicalPath)
		if err != nil {
			return acct, err
		}

		for _, dupPath := range group.DuplicatePaths {
			if err := ctx.Err(); err != nil {
				return acct, err
			}

			dup, err := Measure(ctx, deps.FS, dupPath)
			if err != nil {
				return acct, err
			}

			flags := assessor.Assess(group.CanonicalPath, dupPath, canonical, dup)
			if len(flags) > 0 {
				acct.Warnings++
			}
			rec.Record(ctx, Event{
				Time:  time.Now(),
				Type:  EventAssessed,
				Group: group.Label,
				Path:  dupPath,
				Flags: flags,
				Bytes: dup.Size,
			})

			executor.Execute(ctx, group, dupPath, dup, flags, &acct)
		}
	}

	rec.Record(ctx, Event{
		Time:  time.Now(),
		Type:  EventSessionEnded,
		Bytes: acct.BytesReclaimed,
	})
	return acct, nil
}

// groupSkipReason returns a non-empty reason when the whole group must be
// skipped: unknown canonical, canonical missing on disk or nothing to do.
// The engine never guesses a canonical path.
func groupSkipReason(fs fsops.FS, group *model.DuplicateGroup) string {
	if !group.CanonicalKnown() {
		return "canonical path unknown, not managed by Sonarr or Radarr"
	}
	if len(group.DuplicatePaths) == 0 {
		return "no duplicate paths listed"
	}
	if !fs.Exists(group.CanonicalPath) {
		return "canonical path missing on disk"
	}
	return ""
}
