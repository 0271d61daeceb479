package data

import (
	"context"
	"fmt"

	"github.com/mduppes/fairseq2/errors"
)

// listSource yields the elements of an in-memory sequence in order. Cursor
// state is the next index; index == len(items) is the exhausted state.
type listSource struct {
	items []Record
	index int
}

func newListSource(items []Record) *listSource {
	copied := make([]Record, len(items))
	copy(copied, items)
	return &listSource{items: copied}
}

func (s *listSource) Next(_ context.Context) (Record, bool, error) {
	if s.index >= len(s.items) {
		return Record{}, false, nil
	}
	rec := s.items[s.index]
	s.index++
	return rec, true, nil
}

func (s *listSource) Reset() error {
	s.index = 0
	return nil
}

func (s *listSource) RecordPosition(t *Tape) error {
	t.WriteInt(int64(s.index))
	return nil
}

func (s *listSource) ReloadPosition(t *Tape) error {
	if s.index != 0 {
		return errors.ContractViolation("reload position on a list source that has already advanced")
	}
	v, err := t.ReadInt()
	if err != nil {
		return err
	}
	if v < 0 || v > int64(len(s.items)) {
		return errors.MalformedInput(
			fmt.Sprintf("list position %d out of range [0, %d]", v, len(s.items)), nil)
	}
	s.index = int(v)
	return nil
}

func (s *listSource) Close() error { return nil }
