package data

import (
	"context"
	"testing"
)

func batchValues(t *testing.T, recs []Record) [][]int64 {
	t.Helper()
	var out [][]int64
	for _, rec := range recs {
		items, ok := rec.AsList()
		if !ok {
			t.Fatalf("expected list record, got %s", rec.Kind())
		}
		var vals []int64
		for _, item := range items {
			v, _ := item.AsInt()
			vals = append(vals, v)
		}
		out = append(out, vals)
	}
	return out
}

func TestBatchSource_FullBatches(t *testing.T) {
	s := &batchSource{src: newListSource([]Record{Int(1), Int(2), Int(3), Int(4)}), size: 2}
	got := batchValues(t, drain(t, s))
	want := [][]int64{{1, 2}, {3, 4}}
	if len(got) != 2 || !int64SliceEqual(got[0], want[0]) || !int64SliceEqual(got[1], want[1]) {
		t.Errorf("got %v", got)
	}
}

func TestBatchSource_PartialRemainder(t *testing.T) {
	s := &batchSource{src: newListSource([]Record{Int(1), Int(2), Int(3)}), size: 2}
	got := batchValues(t, drain(t, s))
	if len(got) != 2 || !int64SliceEqual(got[1], []int64{3}) {
		t.Errorf("got %v", got)
	}
}

func TestBatchSource_EmptyUpstream(t *testing.T) {
	s := &batchSource{src: newListSource(nil), size: 2}
	if _, ok, err := s.Next(context.Background()); ok || err != nil {
		t.Errorf("empty upstream should exhaust, got ok=%v err=%v", ok, err)
	}
}

func TestBatchSource_DropRemainder(t *testing.T) {
	s := &batchSource{src: newListSource([]Record{Int(1), Int(2), Int(3)}), size: 2, dropRemainder: true}
	got := batchValues(t, drain(t, s))
	if len(got) != 1 || !int64SliceEqual(got[0], []int64{1, 2}) {
		t.Errorf("got %v", got)
	}
}

func TestBatchSource_RoundTrip(t *testing.T) {
	items := []Record{Int(1), Int(2), Int(3), Int(4), Int(5), Int(6)}
	s := &batchSource{src: newListSource(items), size: 2}

	// Consume one batch, checkpoint, restore into a fresh chain.
	if _, _, err := s.Next(context.Background()); err != nil {
		t.Fatal(err)
	}
	tape := NewTape()
	if err := s.RecordPosition(tape); err != nil {
		t.Fatal(err)
	}
	tape.Rewind()

	fresh := &batchSource{src: newListSource(items), size: 2}
	if err := fresh.ReloadPosition(tape); err != nil {
		t.Fatal(err)
	}
	got := batchValues(t, drain(t, fresh))
	if len(got) != 2 || !int64SliceEqual(got[0], []int64{3, 4}) || !int64SliceEqual(got[1], []int64{5, 6}) {
		t.Errorf("got %v", got)
	}
}
