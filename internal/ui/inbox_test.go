package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amonks/tuido/model"
)

func TestRenderInbox_Plain(t *testing.T) {
	items := []model.Item{
		{ID: "i1", Content: "buy milk"},
		{ID: "t1", Content: "call\nmom"},
	}

	var out bytes.Buffer
	err := RenderInbox(&out, items, InboxOptions{
		Theme:         NewTheme(&out),
		IsUnconfirmed: func(id string) bool { return id == "t1" },
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	expected := "Inbox: \n[1] buy milk\n[2] call mom (unsynced)\n"
	if out.String() != expected {
		t.Fatalf("expected %q, got %q", expected, out.String())
	}
}

func TestRenderInbox_Empty(t *testing.T) {
	var out bytes.Buffer
	if err := RenderInbox(&out, nil, InboxOptions{Theme: NewTheme(&out)}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.String() != "Inbox: \n" {
		t.Fatalf("expected heading only, got %q", out.String())
	}
}

func TestRenderInbox_WrapsWithHangingIndent(t *testing.T) {
	items := []model.Item{{ID: "i1", Content: "one two three four five six seven eight"}}

	var out bytes.Buffer
	if err := RenderInbox(&out, items, InboxOptions{Theme: NewTheme(&out), Width: 20}); err != nil {
		t.Fatalf("render: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected wrapped output, got %q", out.String())
	}
	if !strings.HasPrefix(lines[1], "[1] one") {
		t.Errorf("unexpected first line %q", lines[1])
	}
	for _, line := range lines[2:] {
		if !strings.HasPrefix(line, "    ") {
			t.Errorf("expected continuation indented under the content, got %q", line)
		}
		if len(line) > 20 {
			t.Errorf("expected line within 20 columns, got %q", line)
		}
	}
}

func TestColorDisabledForBuffers(t *testing.T) {
	var out bytes.Buffer
	if ColorEnabled(&out) {
		t.Error("expected no color for a buffer")
	}
	if TerminalWidth(&out) != 0 {
		t.Error("expected zero width for a buffer")
	}
	if got := NewTheme(&out).Index("[1]"); got != "[1]" {
		t.Errorf("expected unstyled text, got %q", got)
	}
}
