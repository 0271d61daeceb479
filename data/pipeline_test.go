package data

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/mduppes/fairseq2/errors"
)

func TestPipeline_NextAndStates(t *testing.T) {
	p, err := ReadSequence([]Record{Int(1), Int(2)}).AndReturn()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	got := collectInts(t, p, 10)
	if !int64SliceEqual(got, []int64{1, 2}) {
		t.Errorf("got %v", got)
	}
	// Exhausted stays exhausted.
	_, ok, err := p.Next(context.Background())
	if err != nil || ok {
		t.Errorf("got ok=%v err=%v", ok, err)
	}
	// Reset goes back to the start.
	if err := p.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := collectInts(t, p, 10); !int64SliceEqual(got, []int64{1, 2}) {
		t.Errorf("after reset got %v", got)
	}
}

func TestPipeline_BrokenRepeatsError(t *testing.T) {
	cause := stderrors.New("stage failed")
	p, err := ReadSequence([]Record{Int(1), Int(2)}).
		Map(func(_ context.Context, r Record) (Record, error) {
			if v, _ := r.AsInt(); v == 2 {
				return Record{}, cause
			}
			return r, nil
		}).
		AndReturn()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	if _, ok, err := p.Next(ctx); !ok || err != nil {
		t.Fatalf("got ok=%v err=%v", ok, err)
	}
	_, _, err1 := p.Next(ctx)
	if !stderrors.Is(err1, cause) {
		t.Fatalf("got %v", err1)
	}
	_, _, err2 := p.Next(ctx)
	if err2 != err1 {
		t.Error("broken pipeline must repeat the same error")
	}

	// A broken pipeline has no position.
	if _, err := p.Position(); !errors.HasCode(err, errors.ErrCodeContractViolation) {
		t.Errorf("got %v", err)
	}
}

func TestPipeline_CompositionOrderInvariant(t *testing.T) {
	// For count -> take, the tape must be the count fragment (counter),
	// then the take fragment (yielded), then the pipeline state.
	p, err := Count(5).Take(4).AndReturn()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	collectInts(t, p, 2)

	tape, err := p.Position()
	if err != nil {
		t.Fatal(err)
	}
	vals := tape.Values()
	if len(vals) != 3 {
		t.Fatalf("tape has %d values", len(vals))
	}
	if v, _ := vals[0].AsInt(); v != 7 {
		t.Errorf("count fragment = %d, want 7", v)
	}
	if v, _ := vals[1].AsInt(); v != 2 {
		t.Errorf("take fragment = %d, want 2", v)
	}
	if v, _ := vals[2].AsInt(); v != int64(stateActive) {
		t.Errorf("pipeline fragment = %d, want %d", v, stateActive)
	}
}

func TestPipeline_RoundTrip(t *testing.T) {
	build := func() *Pipeline {
		p, err := Count(0).
			Filter(func(r Record) bool { v, _ := r.AsInt(); return v%2 == 0 }).
			Take(5).
			AndReturn()
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	p := build()
	defer p.Close()
	collectInts(t, p, 2)

	tape, err := p.Position()
	if err != nil {
		t.Fatal(err)
	}
	want := collectInts(t, p, 10)

	q := build()
	defer q.Close()
	if err := q.LoadPosition(tape); err != nil {
		t.Fatal(err)
	}
	got := collectInts(t, q, 10)
	if !int64SliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPipeline_LoadPositionAtExhaustion(t *testing.T) {
	build := func() *Pipeline {
		p, err := ReadSequence([]Record{Int(1), Int(2)}).AndReturn()
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	p := build()
	defer p.Close()
	drain(t, p)

	tape, err := p.Position()
	if err != nil {
		t.Fatal(err)
	}

	q := build()
	defer q.Close()
	if err := q.LoadPosition(tape); err != nil {
		t.Fatal(err)
	}
	_, ok, err := q.Next(context.Background())
	if err != nil || ok {
		t.Errorf("restored pipeline should be exhausted, got ok=%v err=%v", ok, err)
	}
}

func TestPipeline_ReloadOnActivePipeline(t *testing.T) {
	p, err := Count(0).AndReturn()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	tape, err := p.Position()
	if err != nil {
		t.Fatal(err)
	}
	collectInts(t, p, 1)

	tape.Rewind()
	err = p.ReloadPosition(tape)
	if !errors.HasCode(err, errors.ErrCodeContractViolation) {
		t.Errorf("expected contract violation, got %v", err)
	}
}

func TestPipeline_DeepChainRoundTrip(t *testing.T) {
	build := func() *Pipeline {
		p, err := Count(1).
			Map(func(_ context.Context, r Record) (Record, error) {
				v, _ := r.AsInt()
				return Int(v * 10), nil
			}).
			Take(20).
			Shuffle(4, 123).
			Batch(3, false).
			Prefetch(2).
			AndReturn(WithName("deep"))
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	p := build()
	defer p.Close()
	for i := 0; i < 2; i++ {
		if _, ok, err := p.Next(context.Background()); !ok || err != nil {
			t.Fatalf("next %d: ok=%v err=%v", i, ok, err)
		}
	}

	tape, err := p.Position()
	if err != nil {
		t.Fatal(err)
	}
	want := drain(t, p)

	q := build()
	defer q.Close()
	if err := q.LoadPosition(tape); err != nil {
		t.Fatal(err)
	}
	got := drain(t, q)
	if !recordsEqual(got, want) {
		t.Errorf("deep chain diverged after restore:\ngot  %v\nwant %v", got, want)
	}
}

func TestPipeline_AsYieldFromChild(t *testing.T) {
	p, err := ReadSequence([]Record{Ints(1, 3), Ints(7, 9)}).
		YieldFrom(rangePipeline).
		AndReturn()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	got := collectInts(t, p, 20)
	if !int64SliceEqual(got, []int64{1, 2, 7, 8}) {
		t.Errorf("got %v", got)
	}
}
