// Package model holds the local mirror of a remote task service and the
// engine that keeps it in step with the server.
//
// The Model is mutated optimistically by AddTodo and CompleteTodo, each of
// which also queues a Command describing the change. A sync round-trip sends
// the queued Commands in a Request and folds the Response back in with
// Update, which resolves temporary item IDs and drops acknowledged Commands.
//
// Nothing in this package performs I/O; persistence lives in the store
// package and the network exchange in syncapi.
package model

// FullSyncToken is the sync token that asks the server for a full resync.
const FullSyncToken = "*"

// Resource types understood by the client.
const (
	ResourceAll  = "all"
	ResourceUser = "user"
)

// Item is a task.
type Item struct {
	// ID is a server-issued identifier, or a temporary identifier for an
	// item created locally that the server has not acknowledged yet.
	ID string `json:"id"`

	// ProjectID is the project the item belongs to.
	ProjectID string `json:"project_id"`

	// Content is the item text. The service treats it as markdown.
	Content string `json:"content"`

	// Checked reports whether the item is complete.
	Checked bool `json:"checked"`

	// Due is the optional due date or recurrence, carried as-is.
	Due *Due `json:"due,omitempty"`
}

// Due describes when an item is due. The client never interprets it.
type Due struct {
	Date        string `json:"date"`
	String      string `json:"string,omitempty"`
	Lang        string `json:"lang,omitempty"`
	IsRecurring bool   `json:"is_recurring"`
	Timezone    string `json:"timezone,omitempty"`
}

// User is the remote account metadata the client needs.
type User struct {
	FullName string `json:"full_name"`

	// InboxProjectID identifies the project shown as the inbox. An empty
	// value matches no item.
	InboxProjectID string `json:"inbox_project_id"`
}

// HasInbox reports whether the inbox project is known.
func (u User) HasInbox() bool {
	return u.InboxProjectID != ""
}

// Request is the payload sent to the sync endpoint.
type Request struct {
	SyncToken     string    `json:"sync_token"`
	ResourceTypes []string  `json:"resource_types"`
	Commands      []Command `json:"commands"`
}

// Response is the payload returned by the sync endpoint.
type Response struct {
	SyncToken     string                   `json:"sync_token"`
	Items         []Item                   `json:"items,omitempty"`
	User          *User                    `json:"user,omitempty"`
	FullSync      bool                     `json:"full_sync"`
	SyncStatus    map[string]CommandStatus `json:"sync_status,omitempty"`
	TempIDMapping map[string]string        `json:"temp_id_mapping"`
}
