package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// EnsureLocalDir creates the default tuido data directory under homeDir.
func EnsureLocalDir(homeDir string) error {
	if err := os.MkdirAll(filepath.Join(homeDir, ".local", "share", "tuido"), 0o755); err != nil {
		return fmt.Errorf("create local dir: %w", err)
	}
	return nil
}

// SetupTestHome creates a temp home directory with the default data
// directory, sets HOME, and clears XDG_DATA_HOME.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureLocalDir(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_DATA_HOME", "")
	return homeDir
}
