package data

import "context"

// batchSource groups upstream records into fixed-size list records. The
// accumulator lives only within a single Next call, never between calls, so
// the stage's position is entirely the upstream's position.
type batchSource struct {
	src           Source
	size          int
	dropRemainder bool
}

func (s *batchSource) Next(ctx context.Context) (Record, bool, error) {
	batch := make([]Record, 0, s.size)
	for len(batch) < s.size {
		rec, ok, err := s.src.Next(ctx)
		if err != nil {
			return Record{}, false, err
		}
		if !ok {
			break
		}
		batch = append(batch, rec)
	}
	if len(batch) == 0 {
		return Record{}, false, nil
	}
	if len(batch) < s.size && s.dropRemainder {
		return Record{}, false, nil
	}
	return List(batch...), true, nil
}

func (s *batchSource) Reset() error                 { return s.src.Reset() }
func (s *batchSource) RecordPosition(t *Tape) error { return s.src.RecordPosition(t) }
func (s *batchSource) ReloadPosition(t *Tape) error { return s.src.ReloadPosition(t) }
func (s *batchSource) Close() error                 { return s.src.Close() }
