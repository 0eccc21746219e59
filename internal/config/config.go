// Package config loads the API token and the runtime settings.
//
// The token lives in client_auth.toml in the local directory. Settings come
// from command-line flags, TUIDO_* environment variables, and an optional
// config.toml in the local directory, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amonks/tuido/internal/paths"
	internalstrings "github.com/amonks/tuido/internal/strings"
	"github.com/amonks/tuido/model"
	"github.com/amonks/tuido/syncapi"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// SettingsFile is the optional settings file inside the local directory.
const SettingsFile = "config.toml"

// LogFile is the default log file name inside the local directory.
const LogFile = "tuido.log"

// Setting keys. Flags use the same names with dashes.
const (
	KeySyncURL        = "sync_url"
	KeyLocalDir       = "local_dir"
	KeyTimeout        = "timeout"
	KeyFullSyncPolicy = "full_sync_policy"
	KeyVerbose        = "verbose"
	KeyLogFile        = "log_file"
)

// DefaultTimeout bounds one sync exchange.
const DefaultTimeout = 30 * time.Second

// Settings are the resolved runtime settings.
type Settings struct {
	SyncURL        string
	LocalDir       string
	Timeout        time.Duration
	FullSyncPolicy model.FullSyncPolicy
	Verbose        bool
	LogFile        string
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeySyncURL, syncapi.DefaultBaseURL)
	v.SetDefault(KeyTimeout, DefaultTimeout.String())
	v.SetDefault(KeyFullSyncPolicy, string(model.PolicyReplace))
	v.SetDefault(KeyVerbose, false)
	v.SetEnvPrefix("TUIDO")
	v.AutomaticEnv()
	return v
}

// BindFlags binds each known setting to the flag of the same name in flags,
// if present.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{KeySyncURL, KeyLocalDir, KeyTimeout, KeyFullSyncPolicy, KeyVerbose, KeyLogFile} {
		flag := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}
	return nil
}

// LoadSettings resolves the local directory, reads its settings file if one
// exists, and returns the merged settings.
func LoadSettings(v *viper.Viper) (Settings, error) {
	localDir, err := paths.ResolveLocalDir(v.GetString(KeyLocalDir))
	if err != nil {
		return Settings{}, &ConfigError{Err: err}
	}

	settingsPath := filepath.Join(localDir, SettingsFile)
	if _, err := os.Stat(settingsPath); err == nil {
		v.SetConfigFile(settingsPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, &ConfigError{Path: settingsPath, Err: fmt.Errorf("parse: %w", err)}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Settings{}, &ConfigError{Path: settingsPath, Err: err}
	}

	timeout, err := parseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return Settings{}, &ConfigError{Path: settingsPath, Err: err}
	}

	policy, err := model.ParseFullSyncPolicy(v.GetString(KeyFullSyncPolicy))
	if err != nil {
		return Settings{}, &ConfigError{Path: settingsPath, Err: err}
	}

	syncURL := internalstrings.TrimTrailingSlash(strings.TrimSpace(v.GetString(KeySyncURL)))
	if syncURL == "" {
		syncURL = syncapi.DefaultBaseURL
	}

	logFile := strings.TrimSpace(v.GetString(KeyLogFile))
	if logFile == "" {
		logFile = filepath.Join(localDir, LogFile)
	}

	return Settings{
		SyncURL:        syncURL,
		LocalDir:       localDir,
		Timeout:        timeout,
		FullSyncPolicy: policy,
		Verbose:        v.GetBool(KeyVerbose),
		LogFile:        logFile,
	}, nil
}

func parseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTimeout, nil
	}
	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", value, err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", timeout)
	}
	return timeout, nil
}
