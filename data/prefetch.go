package data

import (
	"context"

	"github.com/mduppes/fairseq2/errors"
)

type fetchResult struct {
	rec Record
	err error
}

// prefetchSource runs upstream Next calls on a background worker ahead of
// consumption, buffering up to depth records in a channel. Records are
// yielded in exactly the order the upstream would produce them without
// prefetching.
//
// Checkpointing must account for in-flight records: they have been pulled
// from the upstream but not yet yielded, so losing them on restore would
// replay the stream incorrectly. RecordPosition therefore stops the worker,
// drains the channel into a pending queue, and serializes the pending
// records after the upstream fragment. The observable Next sequence is
// unaffected; Next serves the pending queue first and restarts the worker.
type prefetchSource struct {
	src   Source
	depth int

	pending    []Record
	pendingErr error
	ch         chan fetchResult
	quit       chan struct{}
	started    bool
	advanced   bool
	exhausted  bool
}

func newPrefetchSource(src Source, depth int) *prefetchSource {
	return &prefetchSource{src: src, depth: depth}
}

func (s *prefetchSource) Next(ctx context.Context) (Record, bool, error) {
	s.advanced = true

	if len(s.pending) > 0 {
		rec := s.pending[0]
		s.pending = s.pending[1:]
		return rec, true, nil
	}
	if s.pendingErr != nil {
		return Record{}, false, s.pendingErr
	}
	if s.exhausted {
		return Record{}, false, nil
	}

	if !s.started {
		s.start(ctx)
	}

	select {
	case r, open := <-s.ch:
		if !open {
			s.started = false
			s.exhausted = true
			return Record{}, false, nil
		}
		if r.err != nil {
			s.started = false
			s.pendingErr = r.err
			return Record{}, false, r.err
		}
		return r.rec, true, nil
	case <-ctx.Done():
		return Record{}, false, ctx.Err()
	}
}

func (s *prefetchSource) start(ctx context.Context) {
	s.ch = make(chan fetchResult, s.depth)
	s.quit = make(chan struct{})
	s.started = true

	go func(ch chan fetchResult, quit chan struct{}) {
		for {
			select {
			case <-quit:
				close(ch)
				return
			default:
			}
			rec, ok, err := s.src.Next(ctx)
			if err != nil {
				ch <- fetchResult{err: err}
				close(ch)
				return
			}
			if !ok {
				close(ch)
				return
			}
			// Blocking send is safe: the consumer either keeps pulling or
			// drains the channel to completion in stopAndDrain.
			ch <- fetchResult{rec: rec}
		}
	}(s.ch, s.quit)
}

// stopAndDrain stops the worker and moves every buffered record into the
// pending queue. A worker error is parked in pendingErr and resurfaces after
// the pending records are served.
func (s *prefetchSource) stopAndDrain() {
	if !s.started {
		return
	}
	close(s.quit)
	for r := range s.ch {
		if r.err != nil {
			s.pendingErr = r.err
			continue
		}
		s.pending = append(s.pending, r.rec)
	}
	s.started = false
}

func (s *prefetchSource) Reset() error {
	s.stopAndDrain()
	s.pending = nil
	s.pendingErr = nil
	s.advanced = false
	s.exhausted = false
	return s.src.Reset()
}

func (s *prefetchSource) RecordPosition(t *Tape) error {
	s.stopAndDrain()
	if err := s.src.RecordPosition(t); err != nil {
		return err
	}
	t.WriteInt(int64(len(s.pending)))
	for _, rec := range s.pending {
		if err := t.WriteRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *prefetchSource) ReloadPosition(t *Tape) error {
	if s.advanced || s.started || len(s.pending) > 0 {
		return errors.ContractViolation("reload position on a prefetch source that has already advanced")
	}
	if err := s.src.ReloadPosition(t); err != nil {
		return err
	}
	n, err := t.ReadInt()
	if err != nil {
		return err
	}
	if n < 0 {
		return errors.MalformedInput("negative prefetch pending count", nil)
	}
	pending := make([]Record, 0, n)
	for i := int64(0); i < n; i++ {
		rec, err := t.ReadRecord()
		if err != nil {
			return err
		}
		pending = append(pending, rec)
	}
	s.pending = pending
	s.advanced = true
	return nil
}

func (s *prefetchSource) Close() error {
	s.stopAndDrain()
	return s.src.Close()
}
