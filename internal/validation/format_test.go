package validation

import (
	"errors"
	"testing"
)

type policy string

const (
	replace policy = "replace"
	keep    policy = "keep-unconfirmed"
)

func TestFormatValidValues(t *testing.T) {
	got := FormatValidValues([]policy{replace, keep})
	want := "replace, keep-unconfirmed"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatInvalidValueError(t *testing.T) {
	base := errors.New("invalid full sync policy")
	err := FormatInvalidValueError(base, policy("sometimes"), []policy{replace, keep})
	if !errors.Is(err, base) {
		t.Fatalf("expected error to wrap %v", base)
	}

	want := "invalid full sync policy \"sometimes\" (valid: replace, keep-unconfirmed)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestOneOf(t *testing.T) {
	base := errors.New("invalid policy")

	got, err := OneOf(base, keep, []policy{replace, keep})
	if err != nil || got != keep {
		t.Fatalf("expected %q, got %q (%v)", keep, got, err)
	}

	got, err = OneOf(base, policy("never"), []policy{replace, keep})
	if !errors.Is(err, base) || got != "" {
		t.Fatalf("expected wrapped error and empty value, got %q (%v)", got, err)
	}
}
