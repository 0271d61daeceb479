package data

import (
	"fmt"

	"github.com/mduppes/fairseq2/errors"
)

// Builder composes a chain of sources into a Pipeline. Stage methods record
// the first configuration error and turn the rest into no-ops; AndReturn
// surfaces it. Invalid stage parameters are caller bugs and reported as
// contract violations.
type Builder struct {
	src Source
	err error
}

// Count starts a builder on an infinite integer sequence beginning at start.
func Count(start int64) *Builder {
	return &Builder{src: newCountSource(start)}
}

// ReadSequence starts a builder on an in-memory sequence of records.
func ReadSequence(items []Record) *Builder {
	return &Builder{src: newListSource(items)}
}

// FromSource starts a builder on a caller-provided source, for variants
// implemented outside this package (file readers, dataset shards).
func FromSource(src Source) *Builder {
	b := &Builder{src: src}
	if src == nil {
		b.err = errors.ContractViolation("builder requires a non-nil source")
	}
	return b
}

// Map appends a transform stage.
func (b *Builder) Map(fn MapFunc) *Builder {
	if b.err != nil {
		return b
	}
	if fn == nil {
		b.err = errors.ContractViolation("map requires a non-nil function")
		return b
	}
	b.src = &mapSource{src: b.src, fn: fn}
	return b
}

// Filter appends a predicate stage.
func (b *Builder) Filter(pred Predicate) *Builder {
	if b.err != nil {
		return b
	}
	if pred == nil {
		b.err = errors.ContractViolation("filter requires a non-nil predicate")
		return b
	}
	b.src = &filterSource{src: b.src, pred: pred}
	return b
}

// Tap appends a side-effect stage. Use for metrics and logging.
func (b *Builder) Tap(fn TapFunc) *Builder {
	if b.err != nil {
		return b
	}
	if fn == nil {
		b.err = errors.ContractViolation("tap requires a non-nil function")
		return b
	}
	b.src = &tapSource{src: b.src, fn: fn}
	return b
}

// Take appends a stage yielding at most n records.
func (b *Builder) Take(n int64) *Builder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.err = errors.ContractViolation(fmt.Sprintf("take count must be non-negative, got %d", n))
		return b
	}
	b.src = &takeSource{src: b.src, n: n}
	return b
}

// Batch appends a stage grouping records into lists of size. When the
// upstream ends mid-batch the partial batch is yielded unless dropRemainder
// is set.
func (b *Builder) Batch(size int, dropRemainder bool) *Builder {
	if b.err != nil {
		return b
	}
	if size < 1 {
		b.err = errors.ContractViolation(fmt.Sprintf("batch size must be at least 1, got %d", size))
		return b
	}
	b.src = &batchSource{src: b.src, size: size, dropRemainder: dropRemainder}
	return b
}

// Shuffle appends a bounded-reservoir shuffle stage with at most window
// buffered records. The same seed reproduces the same order.
func (b *Builder) Shuffle(window int, seed uint64) *Builder {
	if b.err != nil {
		return b
	}
	if window < 1 {
		b.err = errors.ContractViolation(fmt.Sprintf("shuffle window must be at least 1, got %d", window))
		return b
	}
	b.src = newShuffleSource(b.src, window, seed)
	return b
}

// Prefetch appends a stage that pulls up to depth records ahead of
// consumption on a background worker. Ordering is preserved.
func (b *Builder) Prefetch(depth int) *Builder {
	if b.err != nil {
		return b
	}
	if depth < 1 {
		b.err = errors.ContractViolation(fmt.Sprintf("prefetch depth must be at least 1, got %d", depth))
		return b
	}
	b.src = newPrefetchSource(b.src, depth)
	return b
}

// YieldFrom appends a stage mapping every record to a sub-pipeline and
// flattening the results.
func (b *Builder) YieldFrom(fn PipelineFunc) *Builder {
	if b.err != nil {
		return b
	}
	if fn == nil {
		b.err = errors.ContractViolation("yield-from requires a non-nil function")
		return b
	}
	b.src = &yieldFromSource{src: b.src, fn: fn}
	return b
}

// Option configures the pipeline returned by AndReturn.
type Option func(*Pipeline)

// WithName sets the pipeline name used in logs and checkpoint files.
func WithName(name string) Option {
	return func(p *Pipeline) { p.name = name }
}

// AndReturn finalizes the chain into a Pipeline, surfacing any stage
// configuration error recorded along the way.
func (b *Builder) AndReturn(opts ...Option) (*Pipeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	p := &Pipeline{name: "pipeline", src: b.src}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}
