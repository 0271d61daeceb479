package checkpoint

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/mduppes/fairseq2/data"
	"github.com/mduppes/fairseq2/errors"
)

// Value encoding: a 1-byte kind tag followed by a big-endian payload.
// Variable-length payloads carry a 4-byte length prefix; lists carry a
// 4-byte element count and recurse. The format is self-delimiting, so a
// tape decodes without any out-of-band framing.
const (
	tagInt   byte = 0x01
	tagFloat byte = 0x02
	tagText  byte = 0x03
	tagBytes byte = 0x04
	tagList  byte = 0x05
)

// EncodeTape serializes every value on the tape, in write order.
func EncodeTape(t *data.Tape) ([]byte, error) {
	values := t.Values()
	var buf bytes.Buffer
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(values)))
	buf.Write(n[:])
	for _, v := range values {
		if err := encodeValue(&buf, v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeTape reconstructs a tape from its serialized form, read cursor at
// the start. Truncated or unrecognized input maps to MalformedInput.
func DecodeTape(raw []byte) (*data.Tape, error) {
	r := bytes.NewReader(raw)
	count, err := readUint32(r)
	if err != nil {
		return nil, errors.MalformedInput("checkpoint tape is truncated", err)
	}
	values := make([]data.Record, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if r.Len() != 0 {
		return nil, errors.MalformedInput(
			fmt.Sprintf("checkpoint tape has %d trailing bytes", r.Len()), nil)
	}
	return data.TapeOf(values...)
}

func encodeValue(buf *bytes.Buffer, r data.Record) error {
	switch r.Kind() {
	case data.KindInt:
		v, _ := r.AsInt()
		buf.WriteByte(tagInt)
		var p [8]byte
		binary.BigEndian.PutUint64(p[:], uint64(v))
		buf.Write(p[:])
	case data.KindFloat:
		v, _ := r.AsFloat()
		buf.WriteByte(tagFloat)
		var p [8]byte
		binary.BigEndian.PutUint64(p[:], math.Float64bits(v))
		buf.Write(p[:])
	case data.KindText:
		v, _ := r.AsText()
		buf.WriteByte(tagText)
		writeLenPrefixed(buf, []byte(v))
	case data.KindBytes:
		v, _ := r.AsBytes()
		buf.WriteByte(tagBytes)
		writeLenPrefixed(buf, v)
	case data.KindList:
		items, _ := r.AsList()
		buf.WriteByte(tagList)
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(items)))
		buf.Write(n[:])
		for _, item := range items {
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
	default:
		return errors.ContractViolation(
			fmt.Sprintf("%s values cannot be serialized to a checkpoint", r.Kind()))
	}
	return nil
}

func decodeValue(r *bytes.Reader) (data.Record, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return data.Record{}, errors.MalformedInput("checkpoint tape is truncated", err)
	}
	switch tag {
	case tagInt:
		v, err := readUint64(r)
		if err != nil {
			return data.Record{}, errors.MalformedInput("checkpoint tape is truncated", err)
		}
		return data.Int(int64(v)), nil
	case tagFloat:
		v, err := readUint64(r)
		if err != nil {
			return data.Record{}, errors.MalformedInput("checkpoint tape is truncated", err)
		}
		return data.Float(math.Float64frombits(v)), nil
	case tagText:
		b, err := readLenPrefixed(r)
		if err != nil {
			return data.Record{}, err
		}
		return data.Text(string(b)), nil
	case tagBytes:
		b, err := readLenPrefixed(r)
		if err != nil {
			return data.Record{}, err
		}
		return data.Bytes(b), nil
	case tagList:
		count, err := readUint32(r)
		if err != nil {
			return data.Record{}, errors.MalformedInput("checkpoint tape is truncated", err)
		}
		items := make([]data.Record, 0, count)
		for i := uint32(0); i < count; i++ {
			item, err := decodeValue(r)
			if err != nil {
				return data.Record{}, err
			}
			items = append(items, item)
		}
		return data.List(items...), nil
	default:
		return data.Record{}, errors.MalformedInput(
			fmt.Sprintf("unknown checkpoint value tag 0x%02x", tag), nil)
	}
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(b)))
	buf.Write(n[:])
	buf.Write(b)
}

func readLenPrefixed(r *bytes.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, errors.MalformedInput("checkpoint tape is truncated", err)
	}
	if int(n) > r.Len() {
		return nil, errors.MalformedInput(
			fmt.Sprintf("checkpoint value claims %d bytes but only %d remain", n, r.Len()), nil)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errors.MalformedInput("checkpoint tape is truncated", err)
	}
	return b, nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var p [4]byte
	if _, err := io.ReadFull(r, p[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p[:]), nil
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var p [8]byte
	if _, err := io.ReadFull(r, p[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p[:]), nil
}
