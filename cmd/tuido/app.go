package main

import (
	"context"
	"net/http"

	"github.com/amonks/tuido/client"
	"github.com/amonks/tuido/internal/config"
	"github.com/amonks/tuido/internal/logging"
	"github.com/amonks/tuido/model"
	"github.com/amonks/tuido/store"
	"github.com/amonks/tuido/syncapi"
	"github.com/spf13/cobra"
)

// app is the per-invocation state built before any subcommand runs.
type app struct {
	settings config.Settings
	logger   *logging.Logger
}

var currentApp *app

func loadApp(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(settingsViper)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Options{
		Path:    settings.LogFile,
		Verbose: settings.Verbose,
		Stderr:  cmd.ErrOrStderr(),
	})
	logger.Printf("%s: local dir %s", cmd.CommandPath(), settings.LocalDir)
	currentApp = &app{settings: settings, logger: logger}
	return nil
}

func closeApp() {
	if currentApp != nil {
		currentApp.logger.Close()
		currentApp = nil
	}
}

// withClient opens the store, runs fn with a client over it, and releases
// the store. The API token is only read if fn syncs.
func withClient(cmd *cobra.Command, opts client.Options, fn func(*client.Client) error) error {
	a := currentApp
	s, err := store.Open(a.settings.LocalDir)
	if err != nil {
		return err
	}
	defer s.Close()

	opts.Logger = a.logger.Named("sync")
	opts.FullSyncPolicy = a.settings.FullSyncPolicy
	opts.Timeout = a.settings.Timeout
	if opts.Progress == nil {
		opts.Progress = cmd.OutOrStdout()
	}
	transport := &lazyTransport{settings: a.settings}
	return fn(client.New(s, transport, opts))
}

// loadModel reads the persisted model under the store lock.
func loadModel() (*model.Model, error) {
	s, err := store.Open(currentApp.settings.LocalDir)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Load()
}

// lazyTransport reads the API token on first use, so purely local commands
// work without one.
type lazyTransport struct {
	settings config.Settings
	client   *syncapi.Client
}

func (t *lazyTransport) Sync(ctx context.Context, request model.Request) (*model.Response, error) {
	if t.client == nil {
		token, err := config.LoadToken(t.settings.LocalDir)
		if err != nil {
			return nil, err
		}
		t.client = syncapi.NewClient(t.settings.SyncURL, token, &http.Client{})
	}
	return t.client.Sync(ctx, request)
}
