package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
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
			err:  New(ErrCodeInvalidPipeline, "nil root"),
			want: "INVALID_PIPELINE: nil root",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeGraphvizUnavailable, stderrors.New("no engine"), "cannot render"),
			want: "GRAPHVIZ_UNAVAILABLE: cannot render: no engine",
		},
		{
			name: "FormattedMessage",
			err:  New(ErrCodeMalformedPipeline, "expected %d children, got %d", 2, 3),
			want: "MALFORMED_PIPELINE: expected 2 children, got 3",
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
	err := New(ErrCodeMalformedPipeline, "bad arity")
	if !Is(err, ErrCodeMalformedPipeline) {
		t.Error("Is(matching code) = false")
	}
	if Is(err, ErrCodeInvalidPipeline) {
		t.Error("Is(other code) = true")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is(plain error) = true")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeGraphvizUnavailable, "no engine")
	outer := fmt.Errorf("render failed: %w", inner)
	if !Is(outer, ErrCodeGraphvizUnavailable) {
		t.Error("Is did not unwrap the chain")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "wrapped")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is did not find the cause")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidInput, "x")); got != ErrCodeInvalidInput {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInvalidInput)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidPipeline, "nil root")
	if got := UserMessage(err); got != "nil root" {
		t.Errorf("UserMessage = %q, want %q", got, "nil root")
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); !strings.Contains(got, "plain failure") {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
