package data

import (
	"context"
	"fmt"

	"github.com/mduppes/fairseq2/errors"
)

type pipelineState int64

const (
	stateInitial pipelineState = iota
	stateActive
	stateExhausted
	stateBroken
)

func (s pipelineState) String() string {
	switch s {
	case stateInitial:
		return "initial"
	case stateActive:
		return "active"
	case stateExhausted:
		return "exhausted"
	case stateBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// Pipeline is a fully composed chain of sources behind a single Source
// surface. It tracks the terminal iteration state: once a stage reports an
// error the pipeline is broken and every further Next repeats that error;
// once exhausted it stays exhausted until Reset.
//
// Pipeline itself satisfies Source, so a pipeline can serve as a yield-from
// child inside another pipeline.
type Pipeline struct {
	name  string
	src   Source
	state pipelineState
	err   error
}

// Name returns the pipeline's name, used in logs and checkpoint files.
func (p *Pipeline) Name() string { return p.name }

// Next returns the next record of the composed sequence.
func (p *Pipeline) Next(ctx context.Context) (Record, bool, error) {
	switch p.state {
	case stateBroken:
		return Record{}, false, p.err
	case stateExhausted:
		return Record{}, false, nil
	}
	rec, ok, err := p.src.Next(ctx)
	if err != nil {
		p.state = stateBroken
		p.err = err
		return Record{}, false, err
	}
	if !ok {
		p.state = stateExhausted
		return Record{}, false, nil
	}
	p.state = stateActive
	return rec, true, nil
}

// Reset restores every stage to its just-constructed state.
func (p *Pipeline) Reset() error {
	if err := p.src.Reset(); err != nil {
		return err
	}
	p.state = stateInitial
	p.err = nil
	return nil
}

// RecordPosition appends the positions of all stages to the tape,
// innermost-first, followed by the pipeline's own terminal state. A broken
// pipeline has no meaningful position.
func (p *Pipeline) RecordPosition(t *Tape) error {
	if p.state == stateBroken {
		return errors.ContractViolation("record position on a broken pipeline")
	}
	if err := p.src.RecordPosition(t); err != nil {
		return err
	}
	t.WriteInt(int64(p.state))
	return nil
}

// ReloadPosition consumes stage positions from the tape, innermost-first.
// The pipeline must be in its just-constructed or just-reset state; use
// LoadPosition to restore an arbitrary pipeline.
func (p *Pipeline) ReloadPosition(t *Tape) error {
	if p.state != stateInitial {
		return errors.ContractViolation(
			fmt.Sprintf("reload position on a %s pipeline; reset it first", p.state))
	}
	if err := p.src.ReloadPosition(t); err != nil {
		return err
	}
	v, err := t.ReadInt()
	if err != nil {
		return err
	}
	st := pipelineState(v)
	switch st {
	case stateInitial, stateActive, stateExhausted:
		p.state = st
	default:
		return errors.MalformedInput(fmt.Sprintf("pipeline state %d out of range", v), nil)
	}
	return nil
}

// Close releases all stage resources. The pipeline may be abandoned
// mid-iteration at any time.
func (p *Pipeline) Close() error { return p.src.Close() }

// Position captures the current point of consumption into a fresh tape.
func (p *Pipeline) Position() (*Tape, error) {
	t := NewTape()
	if err := p.RecordPosition(t); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadPosition resets the pipeline and restores it from the tape's start.
// The tape must come from Position on a pipeline of identical construction.
func (p *Pipeline) LoadPosition(t *Tape) error {
	if err := p.Reset(); err != nil {
		return err
	}
	t.Rewind()
	return p.ReloadPosition(t)
}
