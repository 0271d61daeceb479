package text

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mduppes/fairseq2/errors"
	"github.com/mduppes/fairseq2/logger"
)

// PieceType classifies a vocabulary piece.
type PieceType string

const (
	// PieceNormal pieces take part in text matching.
	PieceNormal PieceType = "normal"
	// PieceControl pieces are markers such as <s> and </s>; they never match
	// raw text and are skipped on decode.
	PieceControl PieceType = "control"
	// PieceUnknown is the fallback piece for unmatchable input.
	PieceUnknown PieceType = "unknown"
)

// Piece is a single vocabulary entry of a tokenizer model.
type Piece struct {
	Piece string    `json:"piece"`
	Score float64   `json:"score"`
	Type  PieceType `json:"type"`
}

// Options configures model loading. Control tokens are appended to the
// vocabulary as control pieces in the given order. The token "<pad>" adds a
// pad piece at the end; "<pad>@0" adds it and moves it to index 0.
type Options struct {
	ControlTokens []string
}

// modelFile is the on-disk JSON shape of a tokenizer model.
type modelFile struct {
	Pieces   []Piece `json:"pieces"`
	UnkPiece string  `json:"unk_piece"`
	BosPiece string  `json:"bos_piece"`
	EosPiece string  `json:"eos_piece"`
	PadPiece string  `json:"pad_piece"`
}

// Model is a loaded tokenizer vocabulary with resolved special-token
// indices. It is immutable after LoadModel returns.
type Model struct {
	pieces []Piece
	index  map[string]int32

	unkIdx int32
	bosIdx int32
	eosIdx int32
	padIdx int32

	// maxPieceLen is the longest piece length in runes, bounding the
	// longest-match search window.
	maxPieceLen int
}

// LoadModel reads a JSON piece-list model from path and applies opts.
// A missing file maps to NotFound, an unreadable one to PermissionDenied,
// and a corrupt or inconsistent model to MalformedInput. A model whose pad
// index resolves below zero fails loading.
func LoadModel(path string, opts Options) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FromFile(path, err)
	}

	var f modelFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.MalformedInput(fmt.Sprintf("%s is not a valid tokenizer model", path), err)
	}
	if len(f.Pieces) == 0 {
		return nil, errors.MalformedInput(fmt.Sprintf("%s contains no vocabulary pieces", path), nil)
	}
	if f.UnkPiece == "" {
		f.UnkPiece = "<unk>"
	}
	if f.BosPiece == "" {
		f.BosPiece = "<s>"
	}
	if f.EosPiece == "" {
		f.EosPiece = "</s>"
	}

	applyControlTokens(&f, opts)

	m := &Model{
		pieces: f.Pieces,
		index:  make(map[string]int32, len(f.Pieces)),
	}
	for i, p := range f.Pieces {
		if p.Piece == "" {
			return nil, errors.MalformedInput(fmt.Sprintf("piece %d is empty", i), nil)
		}
		if _, dup := m.index[p.Piece]; dup {
			return nil, errors.MalformedInput(fmt.Sprintf("piece %q appears more than once", p.Piece), nil)
		}
		m.index[p.Piece] = int32(i)
		if n := len([]rune(p.Piece)); n > m.maxPieceLen {
			m.maxPieceLen = n
		}
	}

	m.unkIdx = m.lookup(f.UnkPiece)
	m.bosIdx = m.lookup(f.BosPiece)
	m.eosIdx = m.lookup(f.EosPiece)
	m.padIdx = m.lookup(f.PadPiece)

	if m.padIdx < 0 {
		return nil, errors.MalformedInput("model has no padding token specified", nil)
	}

	logger.WithComponent("tokenizer").Debug("model loaded", map[string]interface{}{
		"path":       path,
		"vocab_size": len(m.pieces),
		"pad_idx":    m.padIdx,
	})
	return m, nil
}

// applyControlTokens appends the configured control tokens as control
// pieces. "<pad>@0" is the documented special case: the pad piece is added
// and then moved to the front by shifting every other piece up one slot, so
// legacy consumers that expect padding at index 0 keep working.
func applyControlTokens(f *modelFile, opts Options) {
	for _, token := range opts.ControlTokens {
		if token == "" {
			continue
		}
		if token == "<pad>" || token == "<pad>@0" {
			f.PadPiece = "<pad>"
			f.Pieces = append(f.Pieces, Piece{Piece: "<pad>", Type: PieceControl})
			if token == "<pad>@0" {
				last := len(f.Pieces) - 1
				pad := f.Pieces[last]
				copy(f.Pieces[1:], f.Pieces[:last])
				f.Pieces[0] = pad
			}
		} else {
			f.Pieces = append(f.Pieces, Piece{Piece: token, Type: PieceControl})
		}
	}
}

// lookup returns the index of piece, or -1 when piece is empty or absent.
func (m *Model) lookup(piece string) int32 {
	if piece == "" {
		return -1
	}
	if idx, ok := m.index[piece]; ok {
		return idx
	}
	return -1
}

// VocabSize returns the number of pieces in the vocabulary.
func (m *Model) VocabSize() int { return len(m.pieces) }

// UnkIdx returns the unknown-token index, or -1 when the model has none.
func (m *Model) UnkIdx() int32 { return m.unkIdx }

// BosIdx returns the beginning-of-sequence index, or -1 when absent.
func (m *Model) BosIdx() int32 { return m.bosIdx }

// EosIdx returns the end-of-sequence index, or -1 when absent.
func (m *Model) EosIdx() int32 { return m.eosIdx }

// PadIdx returns the padding-token index. It is always non-negative on a
// successfully loaded model.
func (m *Model) PadIdx() int32 { return m.padIdx }
