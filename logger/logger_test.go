package logger

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("got level %q", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("got format %q", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("timestamp should default on")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "loud", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid level to fail")
	}
	cfg = Config{Level: "debug", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid format to fail")
	}
	cfg = Config{Level: "debug", Format: "console"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two")
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("got %v", m)
	}
	// Odd trailing value is dropped.
	m = Fields("a", 1, "orphan")
	if len(m) != 1 {
		t.Errorf("got %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("save", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("got %v", m[FieldDuration])
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test").WithComponent("tape")
	if l == nil {
		t.Fatal("nil logger")
	}
	// Must not panic.
	l.Debug("component logger works")
}
