package text

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/mduppes/fairseq2/errors"
)

// wordBoundary is the marker a subword model uses in place of a space. Text
// is prefixed with it so that word-initial pieces match at position zero.
const wordBoundary = "▁"

// Processor is a greedy longest-match tokenizer over a loaded Model.
type Processor struct {
	model *Model

	mu  sync.Mutex
	rng *rand.Rand
}

var _ Tokenizer = (*Processor)(nil)

// NewProcessor wraps model in a processor. seed drives Sample; Encode and
// Decode are deterministic regardless.
func NewProcessor(model *Model, seed int64) *Processor {
	return &Processor{
		model: model,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Encode splits text into pieces by greedy longest match. Runs of input
// that match no piece consume one rune and yield the unknown index.
func (p *Processor) Encode(text string) ([]int32, error) {
	runes := normalize(text)
	out := make([]int32, 0, len(runes))
	for i := 0; i < len(runes); {
		idx, n := p.longestMatch(runes, i)
		if n == 0 {
			if p.model.unkIdx < 0 {
				return nil, errors.MalformedInput(
					fmt.Sprintf("no piece matches input at rune %d and the model has no unknown token", i), nil)
			}
			out = append(out, p.model.unkIdx)
			i++
			continue
		}
		out = append(out, idx)
		i += n
	}
	return out, nil
}

// Sample segments text like Encode but picks among the nbestSize best
// matching pieces at each position, weighted by exp(alpha * score).
func (p *Processor) Sample(text string, nbestSize int, alpha float64) ([]int32, error) {
	if nbestSize <= 1 {
		return p.Encode(text)
	}
	runes := normalize(text)
	out := make([]int32, 0, len(runes))
	for i := 0; i < len(runes); {
		cands := p.matchesAt(runes, i)
		if len(cands) == 0 {
			if p.model.unkIdx < 0 {
				return nil, errors.MalformedInput(
					fmt.Sprintf("no piece matches input at rune %d and the model has no unknown token", i), nil)
			}
			out = append(out, p.model.unkIdx)
			i++
			continue
		}
		if len(cands) > nbestSize {
			cands = cands[:nbestSize]
		}
		c := p.pick(cands, alpha)
		out = append(out, c.idx)
		i += c.runes
	}
	return out, nil
}

// Decode concatenates the normal pieces at the given indices and restores
// spaces from the word-boundary markers.
func (p *Processor) Decode(indices []int32) (string, error) {
	var sb strings.Builder
	for _, idx := range indices {
		if idx < 0 || int(idx) >= len(p.model.pieces) {
			return "", errors.ContractViolation(fmt.Sprintf("index %d is out of range", idx))
		}
		pc := p.model.pieces[idx]
		if pc.Type != PieceNormal {
			continue
		}
		sb.WriteString(pc.Piece)
	}
	text := strings.ReplaceAll(sb.String(), wordBoundary, " ")
	return strings.TrimPrefix(text, " "), nil
}

// TokenToIndex returns the index of token, falling back to the unknown
// index for out-of-vocabulary tokens.
func (p *Processor) TokenToIndex(token string) int32 {
	if idx, ok := p.model.index[token]; ok {
		return idx
	}
	return p.model.unkIdx
}

// IndexToToken returns the piece at idx.
func (p *Processor) IndexToToken(idx int32) (string, error) {
	if idx < 0 || int(idx) >= len(p.model.pieces) {
		return "", errors.ContractViolation(fmt.Sprintf("index %d is out of range", idx))
	}
	return p.model.pieces[idx].Piece, nil
}

func (p *Processor) VocabSize() int { return p.model.VocabSize() }
func (p *Processor) UnkIdx() int32  { return p.model.UnkIdx() }
func (p *Processor) BosIdx() int32  { return p.model.BosIdx() }
func (p *Processor) EosIdx() int32  { return p.model.EosIdx() }
func (p *Processor) PadIdx() int32  { return p.model.PadIdx() }

// normalize replaces spaces with the word-boundary marker and prefixes one
// so word-initial pieces can match the first word.
func normalize(text string) []rune {
	return []rune(wordBoundary + strings.ReplaceAll(text, " ", wordBoundary))
}

type candidate struct {
	idx   int32
	runes int
	score float64
}

// longestMatch returns the longest normal piece matching runes at pos, or
// n == 0 when none matches.
func (p *Processor) longestMatch(runes []rune, pos int) (idx int32, n int) {
	max := p.model.maxPieceLen
	if rem := len(runes) - pos; rem < max {
		max = rem
	}
	for l := max; l >= 1; l-- {
		if i, ok := p.model.index[string(runes[pos:pos+l])]; ok && p.model.pieces[i].Type == PieceNormal {
			return i, l
		}
	}
	return 0, 0
}

// matchesAt returns every normal piece matching runes at pos, longest first.
func (p *Processor) matchesAt(runes []rune, pos int) []candidate {
	max := p.model.maxPieceLen
	if rem := len(runes) - pos; rem < max {
		max = rem
	}
	var cands []candidate
	for l := max; l >= 1; l-- {
		if i, ok := p.model.index[string(runes[pos:pos+l])]; ok && p.model.pieces[i].Type == PieceNormal {
			cands = append(cands, candidate{idx: i, runes: l, score: p.model.pieces[i].Score})
		}
	}
	return cands
}

// pick draws one candidate with probability proportional to
// exp(alpha * score). Scores are log probabilities, so alpha == 1 samples
// from the model distribution and larger alpha sharpens it.
func (p *Processor) pick(cands []candidate, alpha float64) candidate {
	weights := make([]float64, len(cands))
	var total float64
	for i, c := range cands {
		weights[i] = math.Exp(alpha * c.score)
		total += weights[i]
	}
	p.mu.Lock()
	r := p.rng.Float64() * total
	p.mu.Unlock()
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return cands[i]
		}
	}
	return cands[len(cands)-1]
}
