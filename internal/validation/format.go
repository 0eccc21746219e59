// Package validation checks values against fixed sets of names.
package validation

import (
	"fmt"
	"strings"
)

// FormatValidValues joins string-like values for error messages.
func FormatValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// FormatInvalidValueError wraps base with the rejected value and the list of
// accepted ones.
func FormatInvalidValueError[T ~string](base error, value T, valid []T) error {
	return fmt.Errorf("%w %q (valid: %s)", base, string(value), FormatValidValues(valid))
}

// OneOf returns value if it is one of valid, and otherwise an error built by
// FormatInvalidValueError.
func OneOf[T ~string](base error, value T, valid []T) (T, error) {
	for _, candidate := range valid {
		if value == candidate {
			return value, nil
		}
	}
	return "", FormatInvalidValueError(base, value, valid)
}
