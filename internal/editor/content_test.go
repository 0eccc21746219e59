package editor

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRenderContent(t *testing.T) {
	got := RenderContent("buy milk\r\n\n")

	if !strings.HasPrefix(got, "buy milk\n\n"+Scissors+"\n") {
		t.Fatalf("expected text then scissors, got %q", got)
	}
}

func TestParseContent(t *testing.T) {
	tests := []struct {
		name    string
		edited  string
		want    string
		wantErr error
	}{
		{name: "above scissors", edited: "buy milk\n\n" + instructions, want: "buy milk"},
		{name: "keeps markdown heading", edited: "# Groceries\n- milk\n" + instructions, want: "# Groceries\n- milk"},
		{name: "no scissors", edited: "  call mom  \n", want: "call mom"},
		{name: "crlf", edited: "one\r\ntwo\r\n" + Scissors + "\r\nignored", want: "one\ntwo"},
		{name: "empty", edited: "\n\n" + instructions, wantErr: ErrEmpty},
		{name: "text below scissors only", edited: Scissors + "\nhidden", wantErr: ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContent(tt.edited)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := Command(); !reflect.DeepEqual(got, []string{"vi"}) {
		t.Fatalf("expected vi fallback, got %v", got)
	}

	t.Setenv("EDITOR", "code --wait")
	if got := Command(); !reflect.DeepEqual(got, []string{"code", "--wait"}) {
		t.Fatalf("expected EDITOR with args, got %v", got)
	}

	t.Setenv("VISUAL", "nvim")
	if got := Command(); !reflect.DeepEqual(got, []string{"nvim"}) {
		t.Fatalf("expected VISUAL to win, got %v", got)
	}
}

func TestEditContentUsesEditor(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	body := "#!/bin/sh\nprintf 'from editor\\n\\n' > \"$1.new\"\ncat \"$1\" >> \"$1.new\"\nmv \"$1.new\" \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write fake editor: %v", err)
	}
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)

	got, err := EditContent("")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got != "from editor" {
		t.Fatalf("expected editor text, got %q", got)
	}
}

func TestEditContentReportsEditorFailure(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "false")

	if _, err := EditContent("x"); err == nil || !strings.Contains(err.Error(), "editor exited with status 1") {
		t.Fatalf("expected editor failure, got %v", err)
	}
}
