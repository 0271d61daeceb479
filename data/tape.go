package data

import (
	"fmt"

	"github.com/mduppes/fairseq2/errors"
)

// Tape is an ordered, appendable log of primitive values used to serialize
// and restore a source's cursor state. It carries two cursors: an
// append-only write cursor used during RecordPosition and a sequential read
// cursor used during ReloadPosition. Tapes are not random-access; readers
// must consume values in the exact order and count they were written, and
// any mismatch is a contract violation.
//
// Tape values are restricted to scalars, text, bytes, and lists thereof.
// Maps are not tape-able.
type Tape struct {
	values []Record
	read   int
}

// NewTape creates an empty tape.
func NewTape() *Tape { return &Tape{} }

// TapeOf creates a tape pre-filled with the given values, read cursor at the
// start. Used when decoding a persisted tape.
func TapeOf(values ...Record) (*Tape, error) {
	for _, v := range values {
		if err := checkTapeable(v); err != nil {
			return nil, err
		}
	}
	vs := make([]Record, len(values))
	copy(vs, values)
	return &Tape{values: vs}, nil
}

// Len returns the total number of values written.
func (t *Tape) Len() int { return len(t.values) }

// Remaining returns the number of values not yet read.
func (t *Tape) Remaining() int { return len(t.values) - t.read }

// Rewind moves the read cursor back to the start of the tape.
func (t *Tape) Rewind() { t.read = 0 }

// Values returns a copy of all values on the tape, in write order.
func (t *Tape) Values() []Record {
	vs := make([]Record, len(t.values))
	copy(vs, t.values)
	return vs
}

// WriteInt appends an integer value.
func (t *Tape) WriteInt(v int64) { t.values = append(t.values, Int(v)) }

// WriteFloat appends a floating-point value.
func (t *Tape) WriteFloat(v float64) { t.values = append(t.values, Float(v)) }

// WriteText appends a text value.
func (t *Tape) WriteText(v string) { t.values = append(t.values, Text(v)) }

// WriteBytes appends a byte-sequence value.
func (t *Tape) WriteBytes(v []byte) { t.values = append(t.values, Bytes(v)) }

// WriteRecord appends an arbitrary record value. Maps (at any nesting depth)
// are rejected as a contract violation.
func (t *Tape) WriteRecord(r Record) error {
	if err := checkTapeable(r); err != nil {
		return err
	}
	t.values = append(t.values, r)
	return nil
}

// ReadInt consumes the next value, which must be an integer.
func (t *Tape) ReadInt() (int64, error) {
	r, err := t.next(KindInt)
	if err != nil {
		return 0, err
	}
	return r.i, nil
}

// ReadFloat consumes the next value, which must be a float.
func (t *Tape) ReadFloat() (float64, error) {
	r, err := t.next(KindFloat)
	if err != nil {
		return 0, err
	}
	return r.f, nil
}

// ReadText consumes the next value, which must be text.
func (t *Tape) ReadText() (string, error) {
	r, err := t.next(KindText)
	if err != nil {
		return "", err
	}
	return r.s, nil
}

// ReadBytes consumes the next value, which must be a byte sequence.
func (t *Tape) ReadBytes() ([]byte, error) {
	r, err := t.next(KindBytes)
	if err != nil {
		return nil, err
	}
	return r.b, nil
}

// ReadRecord consumes the next value of any kind.
func (t *Tape) ReadRecord() (Record, error) {
	if t.read >= len(t.values) {
		return Record{}, errors.ContractViolation("tape underrun: no values left to read")
	}
	r := t.values[t.read]
	t.read++
	return r, nil
}

func (t *Tape) next(kind Kind) (Record, error) {
	if t.read >= len(t.values) {
		return Record{}, errors.ContractViolation("tape underrun: no values left to read")
	}
	r := t.values[t.read]
	if r.kind != kind {
		return Record{}, errors.ContractViolation(
			fmt.Sprintf("tape value %d is %s, expected %s", t.read, r.kind, kind))
	}
	t.read++
	return r, nil
}

func checkTapeable(r Record) error {
	switch r.kind {
	case KindMap:
		return errors.ContractViolation("maps cannot be written to a tape")
	case KindList:
		for _, item := range r.list {
			if err := checkTapeable(item); err != nil {
				return err
			}
		}
	}
	return nil
}
