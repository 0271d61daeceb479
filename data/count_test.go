package data

import (
	"testing"

	"github.com/mduppes/fairseq2/errors"
)

func TestCountSource_Sequence(t *testing.T) {
	s := newCountSource(5)
	got := collectInts(t, s, 3)
	if !int64SliceEqual(got, []int64{5, 6, 7}) {
		t.Errorf("got %v", got)
	}
}

func TestCountSource_RecordReload(t *testing.T) {
	s := newCountSource(5)
	collectInts(t, s, 3)

	tape := NewTape()
	if err := s.RecordPosition(tape); err != nil {
		t.Fatal(err)
	}
	if v, err := tape.ReadInt(); err != nil || v != 8 {
		t.Fatalf("tape should encode 8, got %d, %v", v, err)
	}

	tape.Rewind()
	fresh := newCountSource(5)
	if err := fresh.ReloadPosition(tape); err != nil {
		t.Fatal(err)
	}
	got := collectInts(t, fresh, 2)
	if !int64SliceEqual(got, []int64{8, 9}) {
		t.Errorf("got %v", got)
	}
}

func TestCountSource_Reset(t *testing.T) {
	s := newCountSource(10)
	collectInts(t, s, 4)
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	got := collectInts(t, s, 2)
	if !int64SliceEqual(got, []int64{10, 11}) {
		t.Errorf("got %v", got)
	}
}

func TestCountSource_ReloadAfterAdvance(t *testing.T) {
	s := newCountSource(0)
	collectInts(t, s, 1)

	tape := NewTape()
	tape.WriteInt(5)
	err := s.ReloadPosition(tape)
	if !errors.HasCode(err, errors.ErrCodeContractViolation) {
		t.Errorf("expected contract violation, got %v", err)
	}
}

func TestCountSource_RecordAtInitialState(t *testing.T) {
	s := newCountSource(3)
	tape := NewTape()
	if err := s.RecordPosition(tape); err != nil {
		t.Fatal(err)
	}
	fresh := newCountSource(3)
	tape.Rewind()
	if err := fresh.ReloadPosition(tape); err != nil {
		t.Fatal(err)
	}
	got := collectInts(t, fresh, 1)
	if !int64SliceEqual(got, []int64{3}) {
		t.Errorf("got %v", got)
	}
}
