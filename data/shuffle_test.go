package data

import (
	"sort"
	"testing"
)

func TestShuffleSource_YieldsPermutation(t *testing.T) {
	items := []Record{Int(1), Int(2), Int(3), Int(4), Int(5)}
	s := newShuffleSource(newListSource(items), 3, 42)
	got := collectInts(t, s, 10)
	if len(got) != 5 {
		t.Fatalf("got %d records", len(got))
	}
	sorted := append([]int64(nil), got...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if !int64SliceEqual(sorted, []int64{1, 2, 3, 4, 5}) {
		t.Errorf("not a permutation: %v", got)
	}
}

func TestShuffleSource_SameSeedSameOrder(t *testing.T) {
	items := []Record{Int(1), Int(2), Int(3), Int(4), Int(5), Int(6)}
	a := newShuffleSource(newListSource(items), 4, 7)
	b := newShuffleSource(newListSource(items), 4, 7)
	if !int64SliceEqual(collectInts(t, a, 10), collectInts(t, b, 10)) {
		t.Error("same seed must reproduce the same order")
	}
}

func TestShuffleSource_ResetEquivalence(t *testing.T) {
	items := []Record{Int(1), Int(2), Int(3), Int(4)}
	s := newShuffleSource(newListSource(items), 2, 11)
	first := collectInts(t, s, 10)
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	second := collectInts(t, s, 10)
	if !int64SliceEqual(first, second) {
		t.Errorf("reset changed the order: %v vs %v", first, second)
	}
}

func TestShuffleSource_RoundTripMidStream(t *testing.T) {
	items := []Record{Int(1), Int(2), Int(3), Int(4), Int(5), Int(6), Int(7)}
	s := newShuffleSource(newListSource(items), 3, 99)
	collectInts(t, s, 3)

	tape := NewTape()
	if err := s.RecordPosition(tape); err != nil {
		t.Fatal(err)
	}
	want := collectInts(t, s, 10)

	tape.Rewind()
	fresh := newShuffleSource(newListSource(items), 3, 99)
	if err := fresh.ReloadPosition(tape); err != nil {
		t.Fatal(err)
	}
	got := collectInts(t, fresh, 10)
	if !int64SliceEqual(got, want) {
		t.Errorf("reloaded continuation %v, want %v", got, want)
	}
}

func TestShuffleSource_RoundTripAtInitialState(t *testing.T) {
	items := []Record{Int(1), Int(2), Int(3)}
	s := newShuffleSource(newListSource(items), 2, 5)
	tape := NewTape()
	if err := s.RecordPosition(tape); err != nil {
		t.Fatal(err)
	}
	want := collectInts(t, s, 10)

	tape.Rewind()
	fresh := newShuffleSource(newListSource(items), 2, 5)
	if err := fresh.ReloadPosition(tape); err != nil {
		t.Fatal(err)
	}
	if got := collectInts(t, fresh, 10); !int64SliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPcgRand_SnapshotRestore(t *testing.T) {
	r := newPcgRand(123)
	r.intn(100)
	state, inc := r.snapshot()
	want := []int{r.intn(100), r.intn(100), r.intn(100)}

	r2 := newPcgRand(0)
	r2.restore(state, inc)
	got := []int{r2.intn(100), r2.intn(100), r2.intn(100)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("restored generator diverged: %v vs %v", got, want)
		}
	}
}
