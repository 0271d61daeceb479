package data

import (
	"context"
	"fmt"

	"github.com/mduppes/fairseq2/errors"
)

// shuffleSource yields upstream records in pseudo-random order using a
// bounded reservoir of at most window records. Cursor state is the upstream
// position plus the reservoir contents and the generator state, all of which
// go on the tape so a reload reproduces the exact remaining order.
type shuffleSource struct {
	src    Source
	window int
	seed   uint64

	rng     *pcgRand
	buf     []Record
	filled  bool
	srcDone bool
}

func newShuffleSource(src Source, window int, seed uint64) *shuffleSource {
	return &shuffleSource{src: src, window: window, seed: seed, rng: newPcgRand(seed)}
}

func (s *shuffleSource) Next(ctx context.Context) (Record, bool, error) {
	if !s.filled {
		for len(s.buf) < s.window {
			rec, ok, err := s.src.Next(ctx)
			if err != nil {
				return Record{}, false, err
			}
			if !ok {
				s.srcDone = true
				break
			}
			s.buf = append(s.buf, rec)
		}
		s.filled = true
	}

	if len(s.buf) == 0 {
		return Record{}, false, nil
	}

	j := s.rng.intn(len(s.buf))
	out := s.buf[j]

	if !s.srcDone {
		rec, ok, err := s.src.Next(ctx)
		if err != nil {
			return Record{}, false, err
		}
		if ok {
			s.buf[j] = rec
			return out, true, nil
		}
		s.srcDone = true
	}

	// Upstream is drained; shrink the reservoir.
	s.buf[j] = s.buf[len(s.buf)-1]
	s.buf = s.buf[:len(s.buf)-1]
	return out, true, nil
}

func (s *shuffleSource) Reset() error {
	if err := s.src.Reset(); err != nil {
		return err
	}
	s.rng = newPcgRand(s.seed)
	s.buf = nil
	s.filled = false
	s.srcDone = false
	return nil
}

func (s *shuffleSource) RecordPosition(t *Tape) error {
	if err := s.src.RecordPosition(t); err != nil {
		return err
	}
	t.WriteInt(int64(len(s.buf)))
	for _, rec := range s.buf {
		if err := t.WriteRecord(rec); err != nil {
			return err
		}
	}
	t.WriteInt(boolToInt(s.filled))
	t.WriteInt(boolToInt(s.srcDone))
	state, inc := s.rng.snapshot()
	t.WriteInt(int64(state))
	t.WriteInt(int64(inc))
	return nil
}

func (s *shuffleSource) ReloadPosition(t *Tape) error {
	if s.filled || len(s.buf) > 0 {
		return errors.ContractViolation("reload position on a shuffle source that has already advanced")
	}
	if err := s.src.ReloadPosition(t); err != nil {
		return err
	}
	n, err := t.ReadInt()
	if err != nil {
		return err
	}
	if n < 0 || n > int64(s.window) {
		return errors.MalformedInput(
			fmt.Sprintf("shuffle buffer length %d out of range [0, %d]", n, s.window), nil)
	}
	buf := make([]Record, 0, n)
	for i := int64(0); i < n; i++ {
		rec, err := t.ReadRecord()
		if err != nil {
			return err
		}
		buf = append(buf, rec)
	}
	filled, err := readBool(t)
	if err != nil {
		return err
	}
	srcDone, err := readBool(t)
	if err != nil {
		return err
	}
	state, err := t.ReadInt()
	if err != nil {
		return err
	}
	inc, err := t.ReadInt()
	if err != nil {
		return err
	}
	s.buf = buf
	s.filled = filled
	s.srcDone = srcDone
	s.rng.restore(uint64(state), uint64(inc))
	return nil
}

func (s *shuffleSource) Close() error { return s.src.Close() }

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func readBool(t *Tape) (bool, error) {
	v, err := t.ReadInt()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.MalformedInput(fmt.Sprintf("flag value %d is not a boolean", v), nil)
	}
}
