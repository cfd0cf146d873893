package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeInvalidFormat, "unknown format: %s", "bmp"),
			want: "INVALID_FORMAT: unknown format: bmp",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeInternal, stderrors.New("boom"), "compute layout"),
			want: "INTERNAL_ERROR: compute layout: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeSessionNotFound, "session %s", "abc")

	if !Is(err, ErrCodeSessionNotFound) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeTreeNotFound) {
		t.Error("Is() = true for different code")
	}
	if Is(stderrors.New("plain"), ErrCodeSessionNotFound) {
		t.Error("Is() = true for a non-structured error")
	}

	// Code survives further wrapping with %w.
	wrapped := fmt.Errorf("handler: %w", err)
	if !Is(wrapped, ErrCodeSessionNotFound) {
		t.Error("Is() = false after fmt.Errorf wrapping")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidTree, "bad")); got != ErrCodeInvalidTree {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInvalidTree)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode = %q, want empty", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "context")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is cannot reach the cause through Unwrap")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidStyle, "unknown style")); got != "unknown style" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage = %q", got)
	}
}
