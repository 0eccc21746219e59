package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tuido.log")
	logger := New(Options{Path: path})

	logger.Named("sync").Printf("synced %d commands", 2)
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "sync: synced 2 commands") {
		t.Fatalf("expected prefixed log line, got %q", data)
	}
}

func TestNew_VerboseMirrorsToStderr(t *testing.T) {
	var stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "tuido.log")
	logger := New(Options{Path: path, Verbose: true, Stderr: &stderr})
	defer logger.Close()

	logger.Printf("hello")

	if !strings.Contains(stderr.String(), "tuido: ") || !strings.Contains(stderr.String(), "hello") {
		t.Fatalf("expected stderr copy, got %q", stderr.String())
	}
}

func TestNew_QuietWithoutFileDiscards(t *testing.T) {
	var stderr bytes.Buffer
	logger := New(Options{Stderr: &stderr})
	logger.Printf("dropped")

	if stderr.Len() != 0 {
		t.Fatalf("expected no output, got %q", stderr.String())
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
