package data

import (
	"context"
	"fmt"

	"github.com/mduppes/fairseq2/errors"
)

// yieldFromSource maps every upstream record to a sub-pipeline and yields
// the sub-pipeline's records before pulling the next upstream record.
// Cursor state is the upstream position, whether a child is open, the record
// that spawned the open child, and the child's own position. The spawning
// record must go on the tape because the upstream cursor has already moved
// past it.
type yieldFromSource struct {
	src Source
	fn  PipelineFunc

	cur      *Pipeline
	curRec   Record
	advanced bool
}

func (s *yieldFromSource) Next(ctx context.Context) (Record, bool, error) {
	for {
		if s.cur != nil {
			rec, ok, err := s.cur.Next(ctx)
			if err != nil {
				return Record{}, false, errors.Upstream("yield_from", err)
			}
			if ok {
				s.advanced = true
				return rec, true, nil
			}
			_ = s.cur.Close()
			s.cur = nil
		}

		rec, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return Record{}, false, err
		}
		child, err := s.fn(rec)
		if err != nil {
			return Record{}, false, errors.Upstream("yield_from", err)
		}
		s.cur = child
		s.curRec = rec
		s.advanced = true
	}
}

func (s *yieldFromSource) Reset() error {
	if s.cur != nil {
		_ = s.cur.Close()
		s.cur = nil
	}
	s.advanced = false
	return s.src.Reset()
}

func (s *yieldFromSource) RecordPosition(t *Tape) error {
	if err := s.src.RecordPosition(t); err != nil {
		return err
	}
	if s.cur == nil {
		t.WriteInt(0)
		return nil
	}
	t.WriteInt(1)
	if err := t.WriteRecord(s.curRec); err != nil {
		return err
	}
	return s.cur.RecordPosition(t)
}

func (s *yieldFromSource) ReloadPosition(t *Tape) error {
	if s.advanced || s.cur != nil {
		return errors.ContractViolation("reload position on a yield-from source that has already advanced")
	}
	if err := s.src.ReloadPosition(t); err != nil {
		return err
	}
	flag, err := t.ReadInt()
	if err != nil {
		return err
	}
	switch flag {
	case 0:
		return nil
	case 1:
	default:
		return errors.MalformedInput(fmt.Sprintf("yield-from child flag %d is not a boolean", flag), nil)
	}
	rec, err := t.ReadRecord()
	if err != nil {
		return err
	}
	child, err := s.fn(rec)
	if err != nil {
		return errors.Upstream("yield_from", err)
	}
	if err := child.ReloadPosition(t); err != nil {
		_ = child.Close()
		return err
	}
	s.cur = child
	s.curRec = rec
	s.advanced = true
	return nil
}

func (s *yieldFromSource) Close() error {
	if s.cur != nil {
		_ = s.cur.Close()
		s.cur = nil
	}
	return s.src.Close()
}
