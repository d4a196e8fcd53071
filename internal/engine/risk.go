package engine

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/xxxsen/mediadup/internal/model"
)

// Assessor compares a duplicate against its canonical sibling and the
// protection rules, producing the full risk picture for the executor.
type Assessor struct {
	rules []model.ProtectionRule
	cfg   model.RunConfig
}

// NewAssessor builds an assessor over the given protection rules.
func NewAssessor(rules []model.ProtectionRule, cfg model.RunConfig) *Assessor {
	return &Assessor{rules: rules, cfg: cfg}
}

func ratioExceeds(a, b float64, limit float64) (float64, bool) {
	if a <= 0 || b <= 0 {
		return 0, false
	}
	ratio := a / b
	if ratio < 1 {
		ratio = b / a
	}
	return ratio, ratio > limit
}

// Assess evaluates one duplicate. A missing duplicate short-circuits with a
// single path-not-found flag; every other check is always computed so the
// caller sees all warnings at once.
func (a *Assessor) Assess(canonicalPath, dupPath string, canonical, dup Metrics) []model.RiskFlag {
	if !dup.Exists {
		return []model.RiskFlag{{
			Kind:   model.RiskPathNotFound,
			Reason: fmt.Sprintf("duplicate path %s does not exist on disk", dupPath),
		}}
	}

	flags := make([]model.RiskFlag, 0, 4)

	if ratio, hit := ratioExceeds(float64(canonical.Size), float64(dup.Size), a.cfg.SizeRatio); hit {
		flags = append(flags, model.RiskFlag{
			Kind: model.RiskSizeMismatch,
			Reason: fmt.Sprintf("size differs %.1fx (canonical %s, duplicate %s)",
				ratio, humanize.IBytes(uint64(canonical.Size)), humanize.IBytes(uint64(dup.Size))),
		})
	}

	if ratio, hit := ratioExceeds(float64(canonical.MediaFiles), float64(dup.MediaFiles), a.cfg.CountRatio); hit {
		flags = append(flags, model.RiskFlag{
			Kind: model.RiskVideoCountMismatch,
			Reason: fmt.Sprintf("video count differs %.1fx (canonical %d, duplicate %d)",
				ratio, canonical.MediaFiles, dup.MediaFiles),
		})
	}

	if IsProtected(dupPath, a.rules) {
		flags = append(flags, model.RiskFlag{
			Kind:   model.RiskProtectedDirectory,
			Reason: fmt.Sprintf("%s is a protected media root", dupPath),
		})
	}

	if match, typeA, typeB := MediaTypesMatch(canonicalPath, dupPath, a.cfg.StrictMediaType); !match {
		reason := fmt.Sprintf("canonical classified as %s, duplicate as %s", typeA, typeB)
		if typeA == MediaUnknown || typeB == MediaUnknown {
			reason += " (strict type matching enabled)"
		}
		flags = append(flags, model.RiskFlag{
			Kind:   model.RiskMediaTypeMismatch,
			Reason: reason,
		})
	}

	if dup.Size > a.cfg.LargeDirBytes {
		flags = append(flags, model.RiskFlag{
			Kind: model.RiskLargeDirectory,
			Reason: fmt.Sprintf("duplicate holds %s, above the %s tripwire",
				humanize.IBytes(uint64(dup.Size)), humanize.IBytes(uint64(a.cfg.LargeDirBytes))),
		})
	}

	return flags
}
