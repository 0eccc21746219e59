package ui

import (
	"bytes"
	"reflect"
	"testing"
)

func TestUniqueIDPrefixLengths(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		minimum int
		want    map[string]int
	}{
		{
			name:    "distinct first characters",
			ids:     []string{"abc", "xyz"},
			minimum: 1,
			want:    map[string]int{"abc": 1, "xyz": 1},
		},
		{
			name:    "shared stem",
			ids:     []string{"abcd1", "abce2", "b"},
			minimum: 1,
			want:    map[string]int{"abcd1": 4, "abce2": 4, "b": 1},
		},
		{
			name:    "minimum applies",
			ids:     []string{"0f3a9c", "9b1e77"},
			minimum: MinIDPrefix,
			want:    map[string]int{"0f3a9c": 4, "9b1e77": 4},
		},
		{
			name:    "prefix of another id",
			ids:     []string{"ab", "abc"},
			minimum: 1,
			want:    map[string]int{"ab": 2, "abc": 3},
		},
		{
			name:    "duplicates and blanks ignored",
			ids:     []string{"", "abc", "abc"},
			minimum: 8,
			want:    map[string]int{"abc": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueIDPrefixLengths(tt.ids, tt.minimum)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestThemeIDPlainWithoutColor(t *testing.T) {
	var out bytes.Buffer
	theme := NewTheme(&out)

	if got := theme.ID("0f3a9c", 4); got != "0f3a9c" {
		t.Fatalf("expected unstyled id, got %q", got)
	}
	if got := theme.ID("ab", 0); got != "ab" {
		t.Fatalf("expected unstyled id, got %q", got)
	}
}
