package data

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/mduppes/fairseq2/errors"
)

func TestPrefetchSource_PreservesOrder(t *testing.T) {
	items := []Record{Int(1), Int(2), Int(3), Int(4), Int(5)}
	s := newPrefetchSource(newListSource(items), 2)
	defer s.Close()
	got := collectInts(t, s, 10)
	if !int64SliceEqual(got, []int64{1, 2, 3, 4, 5}) {
		t.Errorf("got %v", got)
	}
}

func TestPrefetchSource_ExhaustionIdempotent(t *testing.T) {
	s := newPrefetchSource(newListSource([]Record{Int(1)}), 2)
	defer s.Close()
	drain(t, s)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, ok, err := s.Next(ctx)
		if err != nil || ok {
			t.Fatalf("got ok=%v err=%v", ok, err)
		}
	}
}

func TestPrefetchSource_RoundTripWithInFlightRecords(t *testing.T) {
	items := []Record{Int(1), Int(2), Int(3), Int(4), Int(5), Int(6)}
	s := newPrefetchSource(newListSource(items), 3)
	defer s.Close()
	collectInts(t, s, 2)

	// Checkpointing drains the worker; records already pulled from the
	// upstream but not yet yielded must survive the round trip.
	tape := NewTape()
	if err := s.RecordPosition(tape); err != nil {
		t.Fatal(err)
	}
	want := collectInts(t, s, 10)

	tape.Rewind()
	fresh := newPrefetchSource(newListSource(items), 3)
	defer fresh.Close()
	if err := fresh.ReloadPosition(tape); err != nil {
		t.Fatal(err)
	}
	got := collectInts(t, fresh, 10)
	if !int64SliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !int64SliceEqual(append([]int64{1, 2}, got...), []int64{1, 2, 3, 4, 5, 6}) {
		t.Errorf("full sequence broken: %v", got)
	}
}

func TestPrefetchSource_Reset(t *testing.T) {
	items := []Record{Int(1), Int(2), Int(3)}
	s := newPrefetchSource(newListSource(items), 2)
	defer s.Close()
	collectInts(t, s, 2)
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	got := collectInts(t, s, 10)
	if !int64SliceEqual(got, []int64{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
}

func TestPrefetchSource_ReloadAfterAdvance(t *testing.T) {
	s := newPrefetchSource(newListSource([]Record{Int(1), Int(2)}), 2)
	defer s.Close()
	collectInts(t, s, 1)

	tape := NewTape()
	tape.WriteInt(0)
	tape.WriteInt(0)
	err := s.ReloadPosition(tape)
	if !errors.HasCode(err, errors.ErrCodeContractViolation) {
		t.Errorf("expected contract violation, got %v", err)
	}
}

type failingSource struct {
	recs []Record
	err  error
	idx  int
}

func (s *failingSource) Next(_ context.Context) (Record, bool, error) {
	if s.idx < len(s.recs) {
		rec := s.recs[s.idx]
		s.idx++
		return rec, true, nil
	}
	return Record{}, false, s.err
}

func (s *failingSource) Reset() error                  { s.idx = 0; return nil }
func (s *failingSource) RecordPosition(_ *Tape) error  { return nil }
func (s *failingSource) ReloadPosition(_ *Tape) error  { return nil }
func (s *failingSource) Close() error                  { return nil }

func TestPrefetchSource_UpstreamErrorAfterBufferedRecords(t *testing.T) {
	cause := stderrors.New("read failed")
	s := newPrefetchSource(&failingSource{recs: []Record{Int(1), Int(2)}, err: cause}, 4)
	defer s.Close()

	got := collectInts(t, s, 2)
	if !int64SliceEqual(got, []int64{1, 2}) {
		t.Fatalf("got %v", got)
	}
	_, _, err := s.Next(context.Background())
	if !stderrors.Is(err, cause) {
		t.Errorf("got %v", err)
	}
	// The error repeats rather than silently restarting the upstream.
	_, _, err = s.Next(context.Background())
	if !stderrors.Is(err, cause) {
		t.Errorf("got %v", err)
	}
}

func TestPrefetchSource_CloseWhileWorkerRunning(t *testing.T) {
	s := newPrefetchSource(newCountSource(0), 2)
	collectInts(t, s, 1)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
