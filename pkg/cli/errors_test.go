package cli

import (
	"errors"
	"testing"
)

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("analyze", underlyingErr)

	expected := "command analyze failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitError(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{"bare code", &ExitError{Code: ExitFailed}, "exit status 1"},
		{"wrapped", &ExitError{Code: ExitFailed, Err: errors.New("2 files not compliant")}, "2 files not compliant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	inner := errors.New("not compliant")
	wrapped := NewCommandError("analyze", NewExitError(ExitFailed, inner))

	var exitErr *ExitError
	if !errors.As(wrapped, &exitErr) {
		t.Fatal("errors.As() did not find the ExitError")
	}
	if exitErr.Code != ExitFailed || !exitErr.Silent {
		t.Errorf("ExitError = %+v", exitErr)
	}
	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is() did not reach the inner error")
	}
}
