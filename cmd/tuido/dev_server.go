package main

import (
	"fmt"

	"github.com/amonks/tuido/model"
	"github.com/amonks/tuido/syncapi"
	"github.com/spf13/cobra"
)

var devServerCmd = &cobra.Command{
	Use:    "dev-server",
	Short:  "Run an in-memory sync server for local testing",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runDevServer,
}

var (
	devServerAddr  string
	devServerToken string
	devServerInbox string
)

func init() {
	rootCmd.AddCommand(devServerCmd)

	devServerCmd.Flags().StringVar(&devServerAddr, "addr", "127.0.0.1:8089", "Address to listen on")
	devServerCmd.Flags().StringVar(&devServerToken, "token", "", "API token to require (empty accepts any)")
	devServerCmd.Flags().StringVar(&devServerInbox, "inbox", "inbox", "Inbox project ID to report")
}

func runDevServer(cmd *cobra.Command, args []string) error {
	server := syncapi.NewServer(syncapi.ServerOptions{
		Token:  devServerToken,
		User:   model.User{FullName: "Dev User", InboxProjectID: devServerInbox},
		Logger: currentApp.logger.Named("server"),
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (use --sync-url http://%s)\n", devServerAddr, devServerAddr)
	return server.Serve(cmd.Context(), devServerAddr)
}
