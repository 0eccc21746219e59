package ui

import (
	"fmt"
	"io"
	"strings"

	internalstrings "github.com/amonks/tuido/internal/strings"
	"github.com/amonks/tuido/model"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// InboxHeading starts every inbox listing.
const InboxHeading = "Inbox: "

// UnsyncedMarker follows items the server has not confirmed yet.
const UnsyncedMarker = "(unsynced)"

// InboxOptions controls RenderInbox.
type InboxOptions struct {
	Theme Theme

	// Width wraps content to this many columns. Zero disables wrapping.
	Width int

	// IsUnconfirmed reports whether an item still carries a temporary ID.
	IsUnconfirmed func(id string) bool
}

// RenderInbox writes the numbered inbox listing. Numbers are the 1-based
// display indexes accepted by complete and show.
func RenderInbox(w io.Writer, items []model.Item, opts InboxOptions) error {
	if _, err := fmt.Fprintln(w, opts.Theme.Label(InboxHeading)); err != nil {
		return err
	}
	for i, item := range items {
		if _, err := fmt.Fprintln(w, formatInboxLine(i+1, item, opts)); err != nil {
			return err
		}
	}
	return nil
}

func formatInboxLine(n int, item model.Item, opts InboxOptions) string {
	prefix := fmt.Sprintf("[%d] ", n)
	content := internalstrings.NormalizeWhitespace(item.Content)
	unsynced := opts.IsUnconfirmed != nil && opts.IsUnconfirmed(item.ID)
	if unsynced {
		content += " " + UnsyncedMarker
	}

	if opts.Width > len(prefix)+10 {
		wrapped := wordwrap.String(content, opts.Width-len(prefix))
		if first, rest, ok := strings.Cut(wrapped, "\n"); ok {
			content = first + "\n" + indent.String(rest, uint(len(prefix)))
		}
	}

	if unsynced {
		if head, ok := strings.CutSuffix(content, UnsyncedMarker); ok {
			content = head + opts.Theme.Unsynced(UnsyncedMarker)
		}
	}
	return opts.Theme.Index(strings.TrimSpace(prefix)) + " " + content
}
