package data

import "bytes"

// Kind identifies the variant held by a Record.
type Kind uint8

const (
	// KindInt is a 64-bit signed integer.
	KindInt Kind = iota
	// KindFloat is a 64-bit float.
	KindFloat
	// KindText is a UTF-8 string.
	KindText
	// KindBytes is an opaque byte sequence.
	KindBytes
	// KindList is an ordered sequence of Records.
	KindList
	// KindMap is a mapping of text keys to Records.
	KindMap
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Record is one unit of data flowing through a pipeline: a closed tagged
// variant over scalars, text, bytes, lists, and maps. Records are immutable
// by convention: construction copies container inputs, and accessors hand
// out internal storage that callers must not mutate. A Record has no
// identity beyond value equality.
type Record struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    []byte
	list []Record
	m    map[string]Record
}

// Int creates an integer Record.
func Int(v int64) Record { return Record{kind: KindInt, i: v} }

// Float creates a floating-point Record.
func Float(v float64) Record { return Record{kind: KindFloat, f: v} }

// Text creates a text Record.
func Text(v string) Record { return Record{kind: KindText, s: v} }

// Bytes creates a byte-sequence Record. The input is copied.
func Bytes(v []byte) Record {
	b := make([]byte, len(v))
	copy(b, v)
	return Record{kind: KindBytes, b: b}
}

// List creates an ordered-sequence Record. The input is copied.
func List(items ...Record) Record {
	l := make([]Record, len(items))
	copy(l, items)
	return Record{kind: KindList, list: l}
}

// Ints creates a list Record from integer values.
func Ints(vs ...int64) Record {
	l := make([]Record, len(vs))
	for i, v := range vs {
		l[i] = Int(v)
	}
	return Record{kind: KindList, list: l}
}

// MapOf creates a mapping Record. The input is copied.
func MapOf(m map[string]Record) Record {
	c := make(map[string]Record, len(m))
	for k, v := range m {
		c[k] = v
	}
	return Record{kind: KindMap, m: c}
}

// Kind returns the variant held by the record.
func (r Record) Kind() Kind { return r.kind }

// AsInt returns the integer value. Returns false if the record is not an
// integer.
func (r Record) AsInt() (int64, bool) {
	if r.kind != KindInt {
		return 0, false
	}
	return r.i, true
}

// AsFloat returns the floating-point value.
func (r Record) AsFloat() (float64, bool) {
	if r.kind != KindFloat {
		return 0, false
	}
	return r.f, true
}

// AsText returns the text value.
func (r Record) AsText() (string, bool) {
	if r.kind != KindText {
		return "", false
	}
	return r.s, true
}

// AsBytes returns the byte-sequence value. The returned slice is internal
// storage and must not be mutated.
func (r Record) AsBytes() ([]byte, bool) {
	if r.kind != KindBytes {
		return nil, false
	}
	return r.b, true
}

// AsList returns the list elements. The returned slice is internal storage
// and must not be mutated.
func (r Record) AsList() ([]Record, bool) {
	if r.kind != KindList {
		return nil, false
	}
	return r.list, true
}

// AsMap returns the mapping. The returned map is internal storage and must
// not be mutated.
func (r Record) AsMap() (map[string]Record, bool) {
	if r.kind != KindMap {
		return nil, false
	}
	return r.m, true
}

// Equal reports deep value equality between two records.
func (r Record) Equal(o Record) bool {
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case KindInt:
		return r.i == o.i
	case KindFloat:
		return r.f == o.f
	case KindText:
		return r.s == o.s
	case KindBytes:
		return bytes.Equal(r.b, o.b)
	case KindList:
		if len(r.list) != len(o.list) {
			return false
		}
		for i := range r.list {
			if !r.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(r.m) != len(o.m) {
			return false
		}
		for k, v := range r.m {
			ov, ok := o.m[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
