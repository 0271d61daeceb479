package data

import (
	"context"

	"github.com/mduppes/fairseq2/errors"
)

// mapSource applies fn to every upstream record. It has no cursor state of
// its own; its position is entirely the upstream's position.
type mapSource struct {
	src Source
	fn  MapFunc
}

func (s *mapSource) Next(ctx context.Context) (Record, bool, error) {
	rec, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return Record{}, false, err
	}
	out, err := s.fn(ctx, rec)
	if err != nil {
		return Record{}, false, errors.Upstream("map", err)
	}
	return out, true, nil
}

func (s *mapSource) Reset() error                  { return s.src.Reset() }
func (s *mapSource) RecordPosition(t *Tape) error  { return s.src.RecordPosition(t) }
func (s *mapSource) ReloadPosition(t *Tape) error  { return s.src.ReloadPosition(t) }
func (s *mapSource) Close() error                  { return s.src.Close() }

// filterSource keeps only upstream records satisfying pred. Stateless beyond
// the upstream cursor.
type filterSource struct {
	src  Source
	pred Predicate
}

func (s *filterSource) Next(ctx context.Context) (Record, bool, error) {
	for {
		rec, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return Record{}, false, err
		}
		if s.pred(rec) {
			return rec, true, nil
		}
	}
}

func (s *filterSource) Reset() error                 { return s.src.Reset() }
func (s *filterSource) RecordPosition(t *Tape) error { return s.src.RecordPosition(t) }
func (s *filterSource) ReloadPosition(t *Tape) error { return s.src.ReloadPosition(t) }
func (s *filterSource) Close() error                 { return s.src.Close() }

// tapSource calls fn as a side effect for every record and passes the record
// through unchanged. Stateless beyond the upstream cursor.
type tapSource struct {
	src Source
	fn  TapFunc
}

func (s *tapSource) Next(ctx context.Context) (Record, bool, error) {
	rec, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return Record{}, false, err
	}
	if err := s.fn(ctx, rec); err != nil {
		return Record{}, false, errors.Upstream("tap", err)
	}
	return rec, true, nil
}

func (s *tapSource) Reset() error                 { return s.src.Reset() }
func (s *tapSource) RecordPosition(t *Tape) error { return s.src.RecordPosition(t) }
func (s *tapSource) ReloadPosition(t *Tape) error { return s.src.ReloadPosition(t) }
func (s *tapSource) Close() error                 { return s.src.Close() }

// takeSource yields at most n upstream records. Cursor state is the yielded
// count, recorded after the upstream fragment.
type takeSource struct {
	src     Source
	n       int64
	yielded int64
}

func (s *takeSource) Next(ctx context.Context) (Record, bool, error) {
	if s.yielded >= s.n {
		return Record{}, false, nil
	}
	rec, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return Record{}, false, err
	}
	s.yielded++
	return rec, true, nil
}

func (s *takeSource) Reset() error {
	if err := s.src.Reset(); err != nil {
		return err
	}
	s.yielded = 0
	return nil
}

func (s *takeSource) RecordPosition(t *Tape) error {
	if err := s.src.RecordPosition(t); err != nil {
		return err
	}
	t.WriteInt(s.yielded)
	return nil
}

func (s *takeSource) ReloadPosition(t *Tape) error {
	if s.yielded != 0 {
		return errors.ContractViolation("reload position on a take source that has already advanced")
	}
	if err := s.src.ReloadPosition(t); err != nil {
		return err
	}
	v, err := t.ReadInt()
	if err != nil {
		return err
	}
	if v < 0 || v > s.n {
		return errors.MalformedInput("take position out of range", nil)
	}
	s.yielded = v
	return nil
}

func (s *takeSource) Close() error { return s.src.Close() }
