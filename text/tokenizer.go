package text

// Tokenizer converts between text and vocabulary indices. Implementations
// must be safe for concurrent use by multiple pipeline stages.
type Tokenizer interface {
	// Encode splits text into pieces and returns their indices.
	Encode(text string) ([]int32, error)

	// Decode reconstructs text from indices. Control and unknown pieces are
	// skipped. An out-of-range index is a contract violation.
	Decode(indices []int32) (string, error)

	// Sample returns a randomized segmentation of text, choosing among up to
	// nbestSize candidate pieces at each position with probability weighted
	// by alpha-smoothed piece scores. nbestSize <= 1 degenerates to Encode.
	Sample(text string, nbestSize int, alpha float64) ([]int32, error)

	// TokenToIndex returns the index of token, or the unknown index when the
	// token is not in the vocabulary.
	TokenToIndex(token string) int32

	// IndexToToken returns the piece at idx. An out-of-range index is a
	// contract violation.
	IndexToToken(idx int32) (string, error)

	// VocabSize returns the number of pieces in the vocabulary.
	VocabSize() int

	// UnkIdx, BosIdx and EosIdx return the respective special-token indices,
	// or -1 when the model defines none. PadIdx is always non-negative.
	UnkIdx() int32
	BosIdx() int32
	EosIdx() int32
	PadIdx() int32
}
