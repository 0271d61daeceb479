package data

import (
	"context"
	"testing"
)

// collectInts pulls up to n records and returns their integer values.
func collectInts(t *testing.T, src Source, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	var out []int64
	for i := 0; i < n; i++ {
		rec, ok, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if !ok {
			break
		}
		v, isInt := rec.AsInt()
		if !isInt {
			t.Fatalf("next %d: expected int record, got %s", i, rec.Kind())
		}
		out = append(out, v)
	}
	return out
}

// drain pulls records until exhaustion and returns them.
func drain(t *testing.T, src Source) []Record {
	t.Helper()
	ctx := context.Background()
	var out []Record
	for {
		rec, ok, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if !ok {
			return out
		}
		out = append(out, rec)
	}
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func recordsEqual(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
