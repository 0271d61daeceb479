// Package data provides the resumable, composable lazy-sequence substrate
// for streaming data-loading pipelines.
//
// A Source produces an ordered lazy sequence of Records and can capture its
// exact point of consumption into a Tape (RecordPosition) and later restore
// it (ReloadPosition), so a long-running consumer can resume after an
// interruption without re-reading or re-shuffling already-consumed data.
//
// Pipelines are lazy and pull-based: no work happens until the consumer
// calls Next. Each stage pulls from its upstream stage on demand, exactly as
// in a hand-written iterator chain; Prefetch is the only stage that runs
// upstream pulls ahead of consumption, and it never reorders records.
//
// # Position convention
//
// Tape fragments are written innermost-first: every stage records its
// upstream's position before its own state, and the terminal Pipeline writes
// its fragment last. ReloadPosition consumes fragments in the same order.
// A pipeline of depth N therefore produces a tape that is the concatenation
// of each stage's fragment, outermost-last. Reloading requires a source in
// its just-constructed or just-reset state; anything else is a contract
// violation and fails loudly.
//
// # Usage
//
//	p, err := data.Count(5).Map(double).Prefetch(4).AndReturn()
//	...
//	tape, err := p.Position()          // checkpoint
//	...
//	q, err := data.Count(5).Map(double).Prefetch(4).AndReturn()
//	err = q.LoadPosition(tape)         // resume exactly where p stopped
package data
