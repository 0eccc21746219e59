package ui

import (
	"strings"
	"testing"
)

func TestTruncateTableCellCountsRunes(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellNormalizesLineBreaks(t *testing.T) {
	value := "Hello\nWorld\r\nAgain\tTab"

	got := TruncateTableCell(value)

	if got != "Hello World Again Tab" {
		t.Fatalf("expected line breaks to normalize, got %q", got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellAddsEllipsis(t *testing.T) {
	got := TruncateTableCell(strings.Repeat("b", tableCellMaxWidth+10))

	if len(got) != tableCellMaxWidth || !strings.HasSuffix(got, tableCellEllipsis) {
		t.Fatalf("expected %d columns ending in ellipsis, got %q", tableCellMaxWidth, got)
	}
}

func TestFormatTableNormalizesLineBreaks(t *testing.T) {
	headers := []string{"COL"}
	rows := [][]string{{"Hello\nWorld\r\nAgain\tTab"}}

	got := FormatTable(headers, rows)

	expected := "COL\nHello World Again Tab\n"
	if got != expected {
		t.Fatalf("expected normalized table output, got %q", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	builder := NewTableBuilder([]string{"TYPE", "UUID"}, 2)
	builder.AddRow([]string{"item_add", "u1"})
	builder.AddRow([]string{"item_complete", "u2"})

	expected := "" +
		"TYPE           UUID\n" +
		"item_add       u1\n" +
		"item_complete  u2\n"
	if got := builder.String(); got != expected {
		t.Fatalf("expected aligned table:\n%s\ngot:\n%s", expected, got)
	}
}
