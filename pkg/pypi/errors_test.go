package pypi

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := newError("username must be provided")
	if err.Error() != "username must be provided" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("expected nil cause")
	}
}

func TestError_Wrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := wrapError(cause, "error fetching user profile for %q", "testuser")

	want := `error fetching user profile for "testuser": connection refused`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatal("expected errors.As to find *Error")
	}
	if perr.Message != `error fetching user profile for "testuser"` {
		t.Errorf("unexpected message: %q", perr.Message)
	}
}

func TestError_NestedWrap(t *testing.T) {
	inner := newError(`package "package2" not found`)
	outer := wrapError(inner, `failed to get details for package "package2"`)

	// Both messages survive in the chain.
	if !errors.Is(outer, inner) {
		t.Error("expected inner error in chain")
	}
	got := outer.Error()
	want := `failed to get details for package "package2": package "package2" not found`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
