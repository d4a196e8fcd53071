package model

import "math"

// CanonicalUnknown is the sentinel canonical path of a group that no media
// manager claimed. Groups carrying it are skipped, never auto-resolved.
const CanonicalUnknown = "Unknown"

// ProtectionRule marks a root directory whose media-named children must never
// be deleted without an explicit override.
type ProtectionRule struct {
	Root string `json:"root"`
}

// DuplicateGroup is one media title with its verified location and the
// redundant copies found elsewhere.
type DuplicateGroup struct {
	Label          string   `json:"label"`
	CanonicalPath  string   `json:"canonical_path"`
	CanonicalKind  string   `json:"canonical_kind,omitempty"` // "movie" or "series"
	Title          string   `json:"title,omitempty"`
	MatchType      string   `json:"match_type,omitempty"`
	DuplicatePaths []string `json:"duplicate_paths"`
}

// CanonicalKnown reports whether an external manager claimed this group.
func (g *DuplicateGroup) CanonicalKnown() bool {
	return g.CanonicalPath != "" && g.CanonicalPath != CanonicalUnknown
}

// RiskKind identifies one class of warning raised during assessment.
type RiskKind int

const (
	RiskSizeMismatch RiskKind = iota + 1
	RiskVideoCountMismatch
	RiskProtectedDirectory
	RiskMediaTypeMismatch
	RiskLargeDirectory
	RiskPathNotFound
)

func (k RiskKind) String() string {
	switch k {
	case RiskSizeMismatch:
		return "size-mismatch"
	case RiskVideoCountMismatch:
		return "video-count-mismatch"
	case RiskProtectedDirectory:
		return "protected-directory"
	case RiskMediaTypeMismatch:
		return "media-type-mismatch"
	case RiskLargeDirectory:
		return "large-directory"
	case RiskPathNotFound:
		return "path-not-found"
	default:
		return "unknown"
	}
}

// RiskFlag is one structured warning attached to a duplicate. Flags gate
// confirmation requirements; only RiskProtectedDirectory blocks on its own.
type RiskFlag struct {
	Kind   RiskKind
	Reason string
}

// HasRisk reports whether the flag set contains the given kind.
func HasRisk(flags []RiskFlag, kind RiskKind) bool {
	for _, f := range flags {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// PathState is the terminal (or initial) state of one duplicate path in the
// deletion state machine.
type PathState int

const (
	StatePending PathState = iota
	StateSkippedFilter
	StateSkippedSize
	StateSkippedMissing
	StateSkippedProtected
	StateSkippedDeclined
	StateDeleted
	StateSimulatedDelete
	StateFailed
)

func (s PathState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSkippedFilter:
		return "skipped-filter"
	case StateSkippedSize:
		return "skipped-size"
	case StateSkippedMissing:
		return "skipped-missing"
	case StateSkippedProtected:
		return "skipped-protected"
	case StateSkippedDeclined:
		return "skipped-declined"
	case StateDeleted:
		return "deleted"
	case StateSimulatedDelete:
		return "simulated-delete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends processing for a path.
func (s PathState) Terminal() bool {
	return s != StatePending
}

// ConfirmMode controls when the executor suspends for operator input.
type ConfirmMode string

const (
	ConfirmInteractive ConfirmMode = "interactive"
	ConfirmAutomatic   ConfirmMode = "automatic"
)

// SessionAccounting carries the running totals of one cleanup session. It is
// owned by the session loop and mutated only on terminal transitions.
type SessionAccounting struct {
	GroupsTotal         int   `json:"groups_total"`
	GroupsProcessed     int   `json:"groups_processed"`
	GroupsSkipped       int   `json:"groups_skipped"`
	SizeSkipped         int   `json:"size_skipped"`
	Warnings            int   `json:"warnings"`
	DuplicatesProcessed int   `json:"duplicates_processed"`
	BytesReclaimed      int64 `json:"bytes_reclaimed"`
	Failures            int   `json:"failures"`
}

// RunConfig is the immutable per-invocation configuration of a session.
type RunConfig struct {
	DryRun          bool
	Mode            ConfirmMode
	Filter          string
	MinSize         int64
	MaxSize         int64
	SizeRatio       float64
	CountRatio      float64
	LargeDirBytes   int64
	StrictMediaType bool
}

// DefaultRunConfig returns a RunConfig with the documented defaults:
// interactive confirmation, unbounded size range, 3x size ratio, 2x media
// count ratio and a 100 GB large-directory tripwire.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Mode:          ConfirmInteractive,
		MinSize:       0,
		MaxSize:       math.MaxInt64,
		SizeRatio:     3.0,
		CountRatio:    2.0,
		LargeDirBytes: 100_000_000_000,
	}
}
