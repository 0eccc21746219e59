// Package main implements the tuido CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/amonks/tuido/internal/config"
	"github.com/amonks/tuido/internal/ui"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeApp()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tuido",
	Short: "A local-first Todoist inbox",
	Long: `tuido keeps a local copy of your Todoist inbox.

Changes are saved locally first and sent to Todoist on the next sync, so
add and complete work offline with --no-sync.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadApp,
}

var settingsViper = config.NewViper()

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("sync-url", "", "Override the URL for the Todoist Sync API")
	flags.String("local-dir", "", "Override the local app storage directory")
	flags.String("timeout", "", "Time limit for one sync exchange (e.g. 10s)")
	flags.String("full-sync-policy", "", "What a full sync does with unsynced items (replace, keep-unconfirmed)")
	flags.BoolP("verbose", "v", false, "Mirror log output to stderr")
	_ = flags.MarkHidden("sync-url")
	_ = flags.MarkHidden("local-dir")

	if err := config.BindFlags(settingsViper, flags); err != nil {
		panic(err)
	}
}

func printError(w io.Writer, err error) {
	theme := ui.NewTheme(w)
	fmt.Fprintf(w, "%s %v\n", theme.Error("Error:"), err)
}
