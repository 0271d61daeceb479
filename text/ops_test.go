package text

import (
	"context"
	"testing"

	"github.com/mduppes/fairseq2/data"
	"github.com/mduppes/fairseq2/errors"
)

func TestEncodeDecodeOps_PipelineRoundTrip(t *testing.T) {
	tok := NewProcessor(loadTestModel(t), 1)

	p, err := data.ReadSequence([]data.Record{data.Text("hello world"), data.Text("he")}).
		Map(EncodeOp(tok)).
		Map(DecodeOp(tok)).
		AndReturn()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	var got []string
	for {
		rec, ok, err := p.Next(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		text, ok := rec.AsText()
		if !ok {
			t.Fatalf("got %v", rec)
		}
		got = append(got, text)
	}
	if len(got) != 2 || got[0] != "hello world" || got[1] != "he" {
		t.Errorf("got %v", got)
	}
}

func TestEncodeOp_ProducesIndices(t *testing.T) {
	tok := NewProcessor(loadTestModel(t), 1)

	rec, err := EncodeOp(tok)(context.Background(), data.Text("hello"))
	if err != nil {
		t.Fatal(err)
	}
	list, ok := rec.AsList()
	if !ok {
		t.Fatalf("got %v", rec)
	}
	if len(list) != 1 {
		t.Fatalf("got %d indices", len(list))
	}
	if v, _ := list[0].AsInt(); v != int64(tok.TokenToIndex("▁hello")) {
		t.Errorf("got %d", v)
	}
}

func TestEncodeOp_RejectsNonText(t *testing.T) {
	tok := NewProcessor(loadTestModel(t), 1)
	_, err := EncodeOp(tok)(context.Background(), data.Int(3))
	if !errors.HasCode(err, errors.ErrCodeMalformedInput) {
		t.Errorf("got %v", err)
	}
}

func TestDecodeOp_RejectsNonIntItems(t *testing.T) {
	tok := NewProcessor(loadTestModel(t), 1)
	_, err := DecodeOp(tok)(context.Background(), data.List(data.Text("x")))
	if !errors.HasCode(err, errors.ErrCodeMalformedInput) {
		t.Errorf("got %v", err)
	}
}
