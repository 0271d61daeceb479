package data

import "context"

// Source is the resumable lazy-sequence primitive: a state machine that
// produces Records in a deterministic order given its configuration and
// prior call history.
//
// Lifecycle: constructed with immutable configuration, driven through zero
// or more Next calls, optionally Reset back to its just-constructed state,
// optionally checkpointed at any point via RecordPosition, and optionally
// restored via ReloadPosition, which must only be called on a source in its
// just-constructed or just-reset state. A composed pipeline exclusively owns
// its constituent sources.
type Source interface {
	// Next returns the next record in the sequence. Returns
	// (zero, false, nil) when exhausted; once exhausted, further calls keep
	// returning (zero, false, nil). Errors propagate from upstream and are
	// never swallowed.
	Next(ctx context.Context) (Record, bool, error)

	// Reset restores the source to its just-constructed cursor state,
	// discarding any buffered look-ahead.
	Reset() error

	// RecordPosition appends enough values to the tape to reconstruct the
	// current cursor state. Callable at any point between Next calls,
	// including the initial and exhausted states. It does not move the
	// source's own cursor.
	RecordPosition(t *Tape) error

	// ReloadPosition consumes values from the tape, in the exact order and
	// count RecordPosition wrote them, and sets the cursor accordingly.
	// Calling it on a source that has already advanced is a contract
	// violation.
	ReloadPosition(t *Tape) error

	// Close releases resources held by the source, including any background
	// prefetch workers. A pipeline may be abandoned mid-iteration at any
	// time.
	Close() error
}

// MapFunc transforms one record into another.
type MapFunc func(ctx context.Context, r Record) (Record, error)

// Predicate decides whether a record passes a filter stage.
type Predicate func(r Record) bool

// TapFunc observes a record as a side effect, without altering it. Used for
// metrics and logging taps.
type TapFunc func(ctx context.Context, r Record) error

// PipelineFunc builds a sub-pipeline from a record, for YieldFrom stages.
// Each call must return a fresh pipeline in its initial state.
type PipelineFunc func(r Record) (*Pipeline, error)
