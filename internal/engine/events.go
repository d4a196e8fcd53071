package engine

import (
	"context"
	"time"

	"github.com/xxxsen/mediadup/internal/model"
)

// EventType enumerates the entries of the session event stream.
type EventType int

const (
	EventGroupStarted EventType = iota + 1
	EventGroupSkipped
	EventAssessed
	EventTransition
	EventSessionEnded
)

func (t EventType) String() string {
	switch t {
	case EventGroupStarted:
		return "group-started"
	case EventGroupSkipped:
		return "group-skipped"
	case EventAssessed:
		return "assessed"
	case EventTransition:
		return "transition"
	case EventSessionEnded:
		return "session-ended"
	default:
		return "unknown"
	}
}

// Event is one entry of the structured session stream consumed by the CLI
// layer for logging, colorizing and persistence.
type Event struct {
	Time  time.Time
	Type  EventType
	Group string
	Path  string
	State model.PathState
	Flags []model.RiskFlag
	// Reason explains skips and failures; for skip states it names the
	// triggering flag or filter.
	Reason string
	Bytes  int64
}

// Recorder receives every session event. Implementations must not block the
// session loop for long; deletion is strictly sequential.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, ev Event)

func (f RecorderFunc) Record(ctx context.Context, ev Event) { f(ctx, ev) }

// NopRecorder discards all events.
var NopRecorder Recorder = RecorderFunc(func(context.Context, Event) {})

// Confirmer asks the operator a yes/no question and blocks until answered.
// The executor separates this I/O from the pure decision of whether to ask.
type Confirmer func(ctx context.Context, prompt string) (bool, error)
