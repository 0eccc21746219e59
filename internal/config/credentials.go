package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// CredentialsFile holds the API token inside the local directory.
const CredentialsFile = "client_auth.toml"

// TokenURL is where users find their API token.
const TokenURL = "https://todoist.com/app/settings/integrations/developer"

// ErrMissingToken indicates no API token has been stored.
var ErrMissingToken = errors.New("Could not find an API token. Go to " + TokenURL +
	" to get yours, then re-run with command 'set-token <TOKEN>'.")

// ConfigError reports an unusable credential or settings file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if errors.Is(e.Err, ErrMissingToken) || e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type credentials struct {
	APIToken string `toml:"api_token"`
}

// CredentialsPath returns the credential file path for localDir.
func CredentialsPath(localDir string) string {
	return filepath.Join(localDir, CredentialsFile)
}

// LoadToken reads the stored API token. A missing file or blank token
// returns a *ConfigError wrapping ErrMissingToken.
func LoadToken(localDir string) (string, error) {
	path := CredentialsPath(localDir)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", &ConfigError{Path: path, Err: ErrMissingToken}
	}
	if err != nil {
		return "", &ConfigError{Path: path, Err: fmt.Errorf("read: %w", err)}
	}

	var creds credentials
	if _, err := toml.Decode(string(data), &creds); err != nil {
		return "", &ConfigError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}

	token := NormalizeToken(creds.APIToken)
	if token == "" {
		return "", &ConfigError{Path: path, Err: ErrMissingToken}
	}
	return token, nil
}

// SaveToken stores token in the credential file, readable only by the
// owner, and returns the file path.
func SaveToken(localDir, token string) (string, error) {
	token = NormalizeToken(token)
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}

	if err := os.MkdirAll(localDir, 0755); err != nil {
		return "", fmt.Errorf("create local dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(credentials{APIToken: token}); err != nil {
		return "", fmt.Errorf("encode credentials: %w", err)
	}

	path := CredentialsPath(localDir)
	tmpFile, err := os.CreateTemp(localDir, CredentialsFile+".tmp")
	if err != nil {
		return "", fmt.Errorf("create temp credentials file: %w", err)
	}
	name := tmpFile.Name()
	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		os.Remove(name)
		return "", fmt.Errorf("chmod temp credentials file: %w", err)
	}
	_, err = tmpFile.Write(buf.Bytes())
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return "", fmt.Errorf("write temp credentials file: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("rename credentials file: %w", err)
	}
	return path, nil
}

// NormalizeToken trims whitespace and a leading "Bearer " prefix.
func NormalizeToken(token string) string {
	token = strings.TrimSpace(token)
	if strings.EqualFold(token, "bearer") {
		return ""
	}
	if prefix, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(prefix, "bearer") {
		token = strings.TrimSpace(rest)
	}
	return token
}
