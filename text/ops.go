package text

import (
	"context"

	"github.com/mduppes/fairseq2/data"
	"github.com/mduppes/fairseq2/errors"
)

// EncodeOp returns a map stage that replaces a text record with the list of
// its token indices.
func EncodeOp(tok Tokenizer) data.MapFunc {
	return func(_ context.Context, r data.Record) (data.Record, error) {
		text, ok := r.AsText()
		if !ok {
			return data.Record{}, errors.MalformedInput("encode stage expects a text record", nil)
		}
		indices, err := tok.Encode(text)
		if err != nil {
			return data.Record{}, errors.Upstream("tokenizer", err)
		}
		items := make([]data.Record, len(indices))
		for i, idx := range indices {
			items[i] = data.Int(int64(idx))
		}
		return data.List(items...), nil
	}
}

// DecodeOp returns a map stage that replaces a list of token indices with
// the decoded text record.
func DecodeOp(tok Tokenizer) data.MapFunc {
	return func(_ context.Context, r data.Record) (data.Record, error) {
		list, ok := r.AsList()
		if !ok {
			return data.Record{}, errors.MalformedInput("decode stage expects a list record", nil)
		}
		indices := make([]int32, len(list))
		for i, item := range list {
			v, ok := item.AsInt()
			if !ok {
				return data.Record{}, errors.MalformedInput("decode stage expects integer token indices", nil)
			}
			indices[i] = int32(v)
		}
		text, err := tok.Decode(indices)
		if err != nil {
			return data.Record{}, errors.Upstream("tokenizer", err)
		}
		return data.Text(text), nil
	}
}
