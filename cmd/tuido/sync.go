package main

import (
	"fmt"

	"github.com/amonks/tuido/client"
	"github.com/amonks/tuido/internal/config"
	"github.com/amonks/tuido/internal/ui"
	"github.com/amonks/tuido/model"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync data with the Todoist server",
	Long: `Sync data with the Todoist server.

Pending changes are sent in order. A full sync then replaces the local
items with the server's; --incremental only fetches what changed since the
last sync.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

var syncIncremental bool

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List changes waiting to be sent to the server",
	Args:  cobra.NoArgs,
	RunE:  runPending,
}

var pendingJSON bool

var setTokenCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store a Todoist API token",
	Long: `Store a Todoist API token.

Find your token at ` + config.TokenURL + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runSetToken,
}

func init() {
	rootCmd.AddCommand(syncCmd, pendingCmd, setTokenCmd)

	syncCmd.Flags().BoolVarP(&syncIncremental, "incremental", "i", false, "Only sync changes made since the last sync")
	pendingCmd.Flags().BoolVar(&pendingJSON, "json", false, "Output as JSON")
}

func runSync(cmd *cobra.Command, args []string) error {
	mode := client.Full
	if syncIncremental {
		mode = client.Incremental
	}
	return withClient(cmd, client.Options{}, func(c *client.Client) error {
		result, err := c.Sync(cmd.Context(), mode)
		if err != nil {
			return err
		}
		if len(result.Failures) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d change(s) rejected by the server; see 'tuido pending'.\n", len(result.Failures))
		}
		return nil
	})
}

// pendingEntry is the JSON shape of one queued command.
type pendingEntry struct {
	Type    model.CommandType `json:"type"`
	UUID    string            `json:"uuid"`
	ItemID  string            `json:"item_id"`
	Content string            `json:"content"`
}

func pendingEntries(m *model.Model) []pendingEntry {
	entries := make([]pendingEntry, 0, m.Commands.Len())
	for _, command := range m.Commands {
		entry := pendingEntry{Type: command.Type, UUID: command.UUID}
		switch args := command.Args.(type) {
		case model.AddItemArgs:
			entry.ItemID = command.TempID
			entry.Content = args.Content
		case model.CompleteItemArgs:
			entry.ItemID = args.ID
			for _, item := range m.Items {
				if item.ID == args.ID {
					entry.Content = item.Content
					break
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func runPending(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	entries := pendingEntries(m)
	out := cmd.OutOrStdout()

	if pendingJSON {
		return encodeJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No pending changes.")
		return nil
	}

	theme := ui.NewTheme(out)
	uuids := make([]string, 0, len(entries))
	for _, entry := range entries {
		uuids = append(uuids, entry.UUID)
	}
	prefixes := ui.UniqueIDPrefixLengths(uuids, ui.MinIDPrefix)

	builder := ui.NewTableBuilder([]string{
		theme.Label("TYPE"),
		theme.Label("UUID"),
		theme.Label("ITEM"),
		theme.Label("CONTENT"),
	}, len(entries))
	for _, entry := range entries {
		builder.AddRow([]string{
			string(entry.Type),
			theme.ID(entry.UUID, prefixes[entry.UUID]),
			entry.ItemID,
			ui.TruncateTableCell(entry.Content),
		})
	}
	fmt.Fprint(out, builder.String())
	return nil
}

func runSetToken(cmd *cobra.Command, args []string) error {
	path, err := config.SaveToken(currentApp.settings.LocalDir, args[0])
	if err != nil {
		return err
	}
	currentApp.logger.Printf("stored API token in %s", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Stored API token in '%s'.\n", path)
	return nil
}
