package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amonks/tuido/client"
	"github.com/amonks/tuido/internal/editor"
	"github.com/amonks/tuido/internal/markdown"
	"github.com/amonks/tuido/internal/ui"
	"github.com/amonks/tuido/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text]...",
	Short: "Add a new todo to your inbox",
	Long: `Add a new todo to your inbox.

The words of [text] are joined with spaces. Without text, or with --edit,
$EDITOR opens to write the todo. The todo is saved locally and then sent to
Todoist with an incremental sync unless --no-sync is given.`,
	RunE: runAdd,
}

var (
	addNoSync bool
	addEdit   bool
)

var completeCmd = &cobra.Command{
	Use:   "complete <n>",
	Short: "Mark a todo in the inbox complete",
	Long: `Mark a todo in the inbox complete.

<n> is the number shown next to the todo by the list command.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

var completeNoSync bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the items in your inbox",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var listJSON bool

var showCmd = &cobra.Command{
	Use:   "show <n>",
	Short: "Show one inbox todo with its content rendered",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

func init() {
	rootCmd.AddCommand(addCmd, completeCmd, listCmd, showCmd)

	addCmd.Flags().BoolVarP(&addNoSync, "no-sync", "n", false, "Don't sync data with the server")
	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false, "Write the todo in $EDITOR (default without text when interactive)")
	completeCmd.Flags().BoolVarP(&completeNoSync, "no-sync", "n", false, "Don't sync data with the server")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
}

func runAdd(cmd *cobra.Command, args []string) error {
	content, err := resolveAddContent(args, addEdit, editor.IsInteractive())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts := client.Options{Saved: func(item model.Item) {
		fmt.Fprintf(out, "'%s' added to inbox.\n", item.Content)
	}}
	return withClient(cmd, opts, func(c *client.Client) error {
		_, err := c.Add(cmd.Context(), content, mutationSyncMode(addNoSync))
		return err
	})
}

func resolveAddContent(args []string, edit, interactive bool) (string, error) {
	content := strings.Join(args, " ")
	if edit || (len(args) == 0 && interactive) {
		return editor.EditContent(content)
	}
	if len(args) == 0 {
		return "", fmt.Errorf("add needs the todo text, or --edit to write it in $EDITOR")
	}
	return content, nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	n, err := parseItemNumber(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts := client.Options{Saved: func(item model.Item) {
		fmt.Fprintf(out, "'%s' marked complete.\n", item.Content)
	}}
	return withClient(cmd, opts, func(c *client.Client) error {
		_, err := c.Complete(cmd.Context(), n, mutationSyncMode(completeNoSync))
		return err
	})
}

func mutationSyncMode(noSync bool) client.SyncMode {
	if noSync {
		return client.NoSync
	}
	return client.Incremental
}

func parseItemNumber(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid item number %q: use the number shown by 'tuido list'", value)
	}
	return n, nil
}

// inboxEntry is the JSON shape of one inbox line.
type inboxEntry struct {
	Number    int        `json:"number"`
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Content   string     `json:"content"`
	Due       *model.Due `json:"due,omitempty"`
	Unsynced  bool       `json:"unsynced"`
}

func newInboxEntry(m *model.Model, n int, item model.Item) inboxEntry {
	return inboxEntry{
		Number:    n,
		ID:        item.ID,
		ProjectID: item.ProjectID,
		Content:   item.Content,
		Due:       item.Due,
		Unsynced:  m.IsUnconfirmed(item.ID),
	}
}

func runList(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	items := m.ListInbox()
	out := cmd.OutOrStdout()

	if listJSON {
		entries := make([]inboxEntry, 0, len(items))
		for i, item := range items {
			entries = append(entries, newInboxEntry(m, i+1, item))
		}
		return encodeJSON(out, entries)
	}

	return ui.RenderInbox(out, items, ui.InboxOptions{
		Theme:         ui.NewTheme(out),
		Width:         ui.TerminalWidth(out),
		IsUnconfirmed: m.IsUnconfirmed,
	})
}

func runShow(cmd *cobra.Command, args []string) error {
	n, err := parseItemNumber(args[0])
	if err != nil {
		return err
	}
	m, err := loadModel()
	if err != nil {
		return err
	}
	item, err := m.InboxItem(n)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if showJSON {
		return encodeJSON(out, newInboxEntry(m, n, item))
	}

	theme := ui.NewTheme(out)
	fmt.Fprintf(out, "%s %s\n", theme.Label("ID:"), item.ID)
	fmt.Fprintf(out, "%s %s\n", theme.Label("Project:"), item.ProjectID)
	status := "synced"
	if m.IsUnconfirmed(item.ID) {
		status = theme.Unsynced(ui.UnsyncedMarker)
	}
	fmt.Fprintf(out, "%s %s\n", theme.Label("Status:"), status)
	if item.Due != nil {
		due := item.Due.Date
		if item.Due.String != "" {
			due = fmt.Sprintf("%s (%s)", item.Due.Date, item.Due.String)
		}
		if item.Due.IsRecurring {
			due += " " + theme.Muted("recurring")
		}
		fmt.Fprintf(out, "%s %s\n", theme.Label("Due:"), due)
	}
	fmt.Fprintln(out)

	width := ui.TerminalWidth(out)
	if width == 0 {
		width = 80
	}
	rendered := markdown.Render(width, 2, []byte(item.Content))
	if len(rendered) > 0 {
		fmt.Fprintf(out, "%s\n", rendered)
	}
	return nil
}
