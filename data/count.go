package data

import (
	"context"

	"github.com/mduppes/fairseq2/errors"
)

// countSource yields an infinite sequence of integers starting at start.
// Its entire cursor state is the counter itself, which makes it the minimal
// reference implementation of the position contract.
type countSource struct {
	start   int64
	counter int64
}

func newCountSource(start int64) *countSource {
	return &countSource{start: start, counter: start}
}

func (s *countSource) Next(_ context.Context) (Record, bool, error) {
	rec := Int(s.counter)
	s.counter++
	return rec, true, nil
}

func (s *countSource) Reset() error {
	s.counter = s.start
	return nil
}

func (s *countSource) RecordPosition(t *Tape) error {
	t.WriteInt(s.counter)
	return nil
}

func (s *countSource) ReloadPosition(t *Tape) error {
	if s.counter != s.start {
		return errors.ContractViolation("reload position on a count source that has already advanced")
	}
	v, err := t.ReadInt()
	if err != nil {
		return err
	}
	s.counter = v
	return nil
}

func (s *countSource) Close() error { return nil }
