package model

import "github.com/google/uuid"

// Model is the local store: the item mirror, the account metadata, the sync
// cursor, and the commands waiting for the server.
type Model struct {
	// SyncToken is the server cursor. FullSyncToken requests a full resync.
	SyncToken string

	// Items are kept in the order the server (or the user) produced them.
	Items []Item

	User User

	Commands Queue

	newID func() string
}

// New returns an empty model that will perform a full sync next.
func New() *Model {
	return &Model{SyncToken: FullSyncToken}
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	clone := *m
	clone.Items = cloneItems(m.Items)
	clone.Commands = m.Commands.Clone()
	return &clone
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	cloned := make([]Item, len(items))
	for i, item := range items {
		if item.Due != nil {
			due := *item.Due
			item.Due = &due
		}
		cloned[i] = item
	}
	return cloned
}

// Inbox returns the unchecked items in the inbox project, in item order.
func (m *Model) Inbox() []Item {
	if !m.User.HasInbox() {
		return nil
	}
	var inbox []Item
	for _, item := range m.Items {
		if item.ProjectID == m.User.InboxProjectID && !item.Checked {
			inbox = append(inbox, item)
		}
	}
	return inbox
}

// InboxItem returns the inbox item at the 1-based display index n.
func (m *Model) InboxItem(n int) (Item, error) {
	inbox := m.Inbox()
	if n < 1 || n > len(inbox) {
		return Item{}, &NotFoundError{Index: n, Len: len(inbox)}
	}
	return inbox[n-1], nil
}

// IsUnconfirmed reports whether the item with id still waits for the server
// to acknowledge its creation.
func (m *Model) IsUnconfirmed(id string) bool {
	return m.Commands.IsUnconfirmed(id)
}

func (m *Model) itemIndex(id string) int {
	for i := range m.Items {
		if m.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) generateID() string {
	if m.newID != nil {
		return m.newID()
	}
	return uuid.NewString()
}

// FullSyncRequest builds a request that discards the cursor and fetches
// every resource, carrying the whole command queue.
func (m *Model) FullSyncRequest() Request {
	return m.request(FullSyncToken, ResourceAll)
}

// IncrementalSyncRequest builds a request from the stored cursor, carrying
// the whole command queue.
func (m *Model) IncrementalSyncRequest() Request {
	token := m.SyncToken
	if token == "" {
		token = FullSyncToken
	}
	return m.request(token, ResourceAll)
}

// BootstrapRequest builds a user-only request used to learn the inbox
// project before any item has been fetched. It carries no commands.
func BootstrapRequest() Request {
	return Request{
		SyncToken:     FullSyncToken,
		ResourceTypes: []string{ResourceUser},
		Commands:      []Command{},
	}
}

func (m *Model) request(token, resource string) Request {
	commands := []Command(m.Commands.Clone())
	if commands == nil {
		commands = []Command{}
	}
	return Request{
		SyncToken:     token,
		ResourceTypes: []string{resource},
		Commands:      commands,
	}
}
