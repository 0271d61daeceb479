package errors

import (
	stderrors "errors"
	"io/fs"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	e := New(ErrCodeMalformedInput, "bad tape")
	if got := e.Error(); got != "MALFORMED_INPUT: bad tape" {
		t.Errorf("got %q", got)
	}

	e = e.WithCause(stderrors.New("boom"))
	if got := e.Error(); !strings.Contains(got, "cause: boom") {
		t.Errorf("expected cause in message, got %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("root")
	e := Internal(cause)
	if !stderrors.Is(e, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestUpstream_PassThrough(t *testing.T) {
	orig := ContractViolation("reload on active source")
	wrapped := Upstream("map", orig)
	if wrapped != orig {
		t.Error("coded error should pass through unchanged")
	}
	if !HasCode(wrapped, ErrCodeContractViolation) {
		t.Errorf("got code %s", CodeOf(wrapped))
	}
}

func TestUpstream_WrapsPlainError(t *testing.T) {
	cause := stderrors.New("connection reset")
	wrapped := Upstream("tokenizer", cause)
	if !HasCode(wrapped, ErrCodeUpstream) {
		t.Errorf("got code %s", CodeOf(wrapped))
	}
	if !IsRetryable(wrapped) {
		t.Error("upstream failures should be retryable")
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("cause should be preserved")
	}
}

func TestFromFile(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"not found", fs.ErrNotExist, ErrCodeNotFound},
		{"permission", fs.ErrPermission, ErrCodePermissionDenied},
		{"other", stderrors.New("disk error"), ErrCodeMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromFile("/some/path", tt.err)
			if e.Code != tt.code {
				t.Errorf("got %s, want %s", e.Code, tt.code)
			}
		})
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	if got := CodeOf(stderrors.New("x")); got != ErrCodeInternal {
		t.Errorf("got %s", got)
	}
}

func TestIsRetryableCode(t *testing.T) {
	if IsRetryableCode(ErrCodeContractViolation) {
		t.Error("contract violations must never be retryable")
	}
	if !IsRetryableCode(ErrCodeUpstream) {
		t.Error("upstream failures should be retryable")
	}
}
