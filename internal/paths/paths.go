package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user data directory.
const AppName = "tuido"

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// DefaultLocalDir returns the default tuido data directory:
// $XDG_DATA_HOME/tuido when set, otherwise ~/.local/share/tuido.
func DefaultLocalDir() (string, error) {
	if dataHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); dataHome != "" && filepath.IsAbs(dataHome) {
		return filepath.Join(dataHome, AppName), nil
	}

	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// ResolveLocalDir returns dir cleaned and made absolute, or the default
// directory when dir is blank. A leading ~/ expands to the home directory.
func ResolveLocalDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return DefaultLocalDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := HomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve local dir %s: %w", dir, err)
	}
	return abs, nil
}
