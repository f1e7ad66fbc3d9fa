package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidEntity, "bad field: %s", "canvas_id")

	if err.Code != ErrCodeInvalidEntity {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidEntity)
	}

	if err.Message != "bad field: canvas_id" {
		t.Errorf("Message = %v, want %v", err.Message, "bad field: canvas_id")
	}

	expected := "INVALID_ENTITY: bad field: canvas_id"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeLayoutRow, cause, "layout row 3")

	if err.Code != ErrCodeLayoutRow {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeLayoutRow)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeMalformedRow, "test"),
			code:     ErrCodeMalformedRow,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeMalformedRow, "test"),
			code:     ErrCodeCanvasNotFound,
			expected: false,
		},
		{
			name:     "wrapped error reports outer code",
			err:      Wrap(ErrCodeLayoutRow, New(ErrCodeLayerNotFound, "inner"), "outer"),
			code:     ErrCodeLayoutRow,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeMalformedRow,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeMalformedRow,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if code := GetCode(New(ErrCodeDuplicateLayer, "dup")); code != ErrCodeDuplicateLayer {
		t.Errorf("GetCode() = %v, want %v", code, ErrCodeDuplicateLayer)
	}

	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode(plain) = %v, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeCanvasNotFound, "canvas %q not found", "c1")
	if msg := UserMessage(err); msg != `canvas "c1" not found` {
		t.Errorf("UserMessage() = %v", msg)
	}

	plain := errors.New("plain error")
	if msg := UserMessage(plain); msg != "plain error" {
		t.Errorf("UserMessage(plain) = %v", msg)
	}
}

func TestCausePreservedThroughLayers(t *testing.T) {
	// A resolver failure is wrapped into a LAYOUT_ROW error; the inner
	// code must still be discoverable via the chain.
	inner := New(ErrCodeAmbiguousLayer, "layer %q in both tables", "bg")
	outer := Wrap(ErrCodeLayoutRow, inner, "layout row 2")

	var e *Error
	if !errors.As(errors.Unwrap(outer), &e) || e.Code != ErrCodeAmbiguousLayer {
		t.Errorf("inner code lost: %v", outer)
	}
}
