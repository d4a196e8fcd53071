package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xxxsen/mediadup/internal/fsops"
	"github.com/xxxsen/mediadup/internal/model"
)

// Executor drives one duplicate path through the deletion state machine.
// Confirmation decisions are pure functions of the flags and mode; the
// blocking prompt itself is the injected Confirmer.
type Executor struct {
	fs      fsops.FS
	confirm Confirmer
	rec     Recorder
	cfg     model.RunConfig
}

// NewExecutor builds an executor. A nil confirmer declines every prompt,
// which is the safe default for non-interactive environments.
func NewExecutor(fs fsops.FS, confirm Confirmer, rec Recorder, cfg model.RunConfig) *Executor {
	if confirm == nil {
		confirm = func(context.Context, string) (bool, error) { return false, nil }
	}
	if rec == nil {
		rec = NopRecorder
	}
	return &Executor{fs: fs, confirm: confirm, rec: rec, cfg: cfg}
}

func (e *Executor) transition(ctx context.Context, group, path string, state model.PathState, reason string, bytes int64) model.PathState {
	e.rec.Record(ctx, Event{
		Time:   time.Now(),
		Type:   EventTransition,
		Group:  group,
		Path:   path,
		State:  state,
		Reason: reason,
		Bytes:  bytes,
	})
	return state
}

// ask runs the blocking confirmation. A read error is treated as a decline;
// for a destructive operation the only safe interpretation of a broken
// prompt channel is "no".
func (e *Executor) ask(ctx context.Context, prompt string) bool {
	ok, err := e.confirm(ctx, prompt)
	if err != nil {
		return false
	}
	return ok
}

// Execute applies the ordered transition rules to one duplicate and returns
// its terminal state. Accounting is mutated only on Deleted, SimulatedDelete
// and SkippedSize; a failed removal leaves the totals untouched because the
// directory is presumed to still exist.
func (e *Executor) Execute(ctx context.Context, group *model.DuplicateGroup, dupPath string, m Metrics, flags []model.RiskFlag, acct *model.SessionAccounting) model.PathState {
	if !m.Exists {
		return e.transition(ctx, group.Label, dupPath, model.StateSkippedMissing,
			"duplicate path does not exist on disk", 0)
	}

	if !NameEligible(group.CanonicalPath, dupPath, e.cfg) {
		return e.transition(ctx, group.Label, dupPath, model.StateSkippedFilter,
			fmt.Sprintf("neither duplicate nor canonical path matches filter %q", e.cfg.Filter), 0)
	}

	if !SizeEligible(m.Size, e.cfg) {
		acct.SizeSkipped++
		return e.transition(ctx, group.Label, dupPath, model.StateSkippedSize,
			fmt.Sprintf("size %s outside configured range [%d, %d]", humanize.IBytes(uint64(m.Size)), e.cfg.MinSize, e.cfg.MaxSize), 0)
	}

	if model.HasRisk(flags, model.RiskProtectedDirectory) {
		if e.cfg.DryRun {
			// The override would be asked for real; in a simulation the
			// answer can never authorize a deletion.
			return e.transition(ctx, group.Label, dupPath, model.StateSkippedProtected,
				"protected directory, override not granted in dry-run", 0)
		}
		prompt := fmt.Sprintf("PROTECTED directory %s - really delete it?", dupPath)
		if !e.ask(ctx, prompt) {
			return e.transition(ctx, group.Label, dupPath, model.StateSkippedProtected,
				"protected directory, override declined", 0)
		}
	}

	if model.HasRisk(flags, model.RiskLargeDirectory) && e.cfg.Mode == model.ConfirmAutomatic {
		if e.cfg.DryRun {
			return e.transition(ctx, group.Label, dupPath, model.StateSkippedDeclined,
				"large directory, override auto-declined in dry-run", 0)
		}
		prompt := fmt.Sprintf("LARGE directory %s (%s) - delete anyway?", dupPath, humanize.IBytes(uint64(m.Size)))
		if !e.ask(ctx, prompt) {
			return e.transition(ctx, group.Label, dupPath, model.StateSkippedDeclined,
				"large directory, confirmation declined", 0)
		}
	}

	if e.cfg.Mode == model.ConfirmInteractive {
		prompt := fmt.Sprintf("Delete %s (%s, %d video files)?", dupPath, humanize.IBytes(uint64(m.Size)), m.MediaFiles)
		if !e.ask(ctx, prompt) {
			return e.transition(ctx, group.Label, dupPath, model.StateSkippedDeclined,
				"declined by operator", 0)
		}
	}

	if e.cfg.DryRun {
		acct.DuplicatesProcessed++
		acct.BytesReclaimed += m.Size
		return e.transition(ctx, group.Label, dupPath, model.StateSimulatedDelete,
			"dry-run, directory left untouched", m.Size)
	}

	if err := e.fs.RemoveAll(ctx, dupPath); err != nil {
		acct.Failures++
		return e.transition(ctx, group.Label, dupPath, model.StateFailed,
			fmt.Sprintf("remove failed: %v", err), 0)
	}

	// Counted only after the removal reported success, so an interrupt mid
	// delete never leaves the totals ahead of the filesystem.
	acct.DuplicatesProcessed++
	acct.BytesReclaimed += m.Size
	return e.transition(ctx, group.Label, dupPath, model.StateDeleted, "", m.Size)
}
