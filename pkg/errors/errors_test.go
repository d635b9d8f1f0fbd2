package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidDimension, "%s height %g", "deck", -1.0)
	if got, want := err.Error(), "INVALID_DIMENSION: deck height -1"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("unexpected EOF")
	wrapped := Wrap(ErrCodeInvalidDocument, cause, "decode %s", "bridge.json")
	if got, want := wrapped.Error(), "INVALID_DOCUMENT: decode bridge.json: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is(wrapped, cause) = false")
	}
}

func TestClassification(t *testing.T) {
	stale := New(ErrCodeStaleGeneration, "element replaced")
	tests := []struct {
		name     string
		err      error
		code     Code
		message  string
		notFound bool
		invalid  bool
	}{
		{"plain", errors.New("plain"), "", "plain", false, false},
		{"element", New(ErrCodeElementNotFound, "no cable"), ErrCodeElementNotFound, "no cable", true, false},
		{"model", Wrap(ErrCodeModelNotFound, errors.New("no documents"), "m1"), ErrCodeModelNotFound, "m1", true, false},
		{"session", New(ErrCodeSessionNotFound, "s"), ErrCodeSessionNotFound, "s", true, false},
		{"ground", New(ErrCodeInvalidRelationType, "ground"), ErrCodeInvalidRelationType, "ground", false, true},
		{"stale", stale, ErrCodeStaleGeneration, "element replaced", false, true},
		{"fmt wrapped", fmt.Errorf("apply: %w", stale), ErrCodeStaleGeneration, "element replaced", false, true},
		{"outer code wins", Wrap(ErrCodeInternal, stale, "boom"), ErrCodeInternal, "boom", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsInvalid(tt.err); got != tt.invalid {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.invalid)
			}
		})
	}
}

func TestNilError(t *testing.T) {
	if Is(nil, ErrCodeInternal) || GetCode(nil) != "" || IsNotFound(nil) {
		t.Error("nil error must not classify")
	}
}
