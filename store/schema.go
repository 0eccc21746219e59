package store

import (
	"fmt"

	"github.com/amonks/tuido/model"
)

// schemaVersion is written into the cache document. Files without a version
// field predate it and hold the raw sync response; they load as version 0.
const schemaVersion = 1

// cacheDocument is the on-disk form of everything in the model except the
// command queue. Its fields are owned by this package and map explicitly to
// and from the model, so the wire protocol can change without touching it.
type cacheDocument struct {
	Version   int          `json:"version"`
	SyncToken string       `json:"sync_token"`
	Items     []storedItem `json:"items"`
	User      storedUser   `json:"user"`
}

type storedItem struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"project_id"`
	Content   string     `json:"content"`
	Checked   bool       `json:"checked"`
	Due       *storedDue `json:"due,omitempty"`
}

type storedDue struct {
	Date        string `json:"date"`
	String      string `json:"string,omitempty"`
	Lang        string `json:"lang,omitempty"`
	IsRecurring bool   `json:"is_recurring,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

type storedUser struct {
	FullName       string `json:"full_name"`
	InboxProjectID string `json:"inbox_project_id"`
}

// storedCommand is one entry of the commands document. Args are flattened
// into a single struct; which fields are meaningful depends on Type.
type storedCommand struct {
	Type   string     `json:"type"`
	UUID   string     `json:"uuid"`
	TempID string     `json:"temp_id,omitempty"`
	Args   storedArgs `json:"args"`
}

type storedArgs struct {
	ID        string `json:"id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

func toCacheDocument(m *model.Model) cacheDocument {
	doc := cacheDocument{
		Version:   schemaVersion,
		SyncToken: m.SyncToken,
		Items:     make([]storedItem, 0, len(m.Items)),
		User: storedUser{
			FullName:       m.User.FullName,
			InboxProjectID: m.User.InboxProjectID,
		},
	}
	for _, item := range m.Items {
		stored := storedItem{
			ID:        item.ID,
			ProjectID: item.ProjectID,
			Content:   item.Content,
			Checked:   item.Checked,
		}
		if item.Due != nil {
			stored.Due = &storedDue{
				Date:        item.Due.Date,
				String:      item.Due.String,
				Lang:        item.Due.Lang,
				IsRecurring: item.Due.IsRecurring,
				Timezone:    item.Due.Timezone,
			}
		}
		doc.Items = append(doc.Items, stored)
	}
	return doc
}

func (doc cacheDocument) apply(m *model.Model) {
	m.SyncToken = doc.SyncToken
	if m.SyncToken == "" {
		m.SyncToken = model.FullSyncToken
	}
	m.User = model.User{
		FullName:       doc.User.FullName,
		InboxProjectID: doc.User.InboxProjectID,
	}
	m.Items = make([]model.Item, 0, len(doc.Items))
	for _, stored := range doc.Items {
		item := model.Item{
			ID:        stored.ID,
			ProjectID: stored.ProjectID,
			Content:   stored.Content,
			Checked:   stored.Checked,
		}
		if stored.Due != nil {
			item.Due = &model.Due{
				Date:        stored.Due.Date,
				String:      stored.Due.String,
				Lang:        stored.Due.Lang,
				IsRecurring: stored.Due.IsRecurring,
				Timezone:    stored.Due.Timezone,
			}
		}
		m.Items = append(m.Items, item)
	}
}

func toStoredCommands(queue model.Queue) ([]storedCommand, error) {
	stored := make([]storedCommand, 0, len(queue))
	for _, command := range queue {
		entry := storedCommand{
			Type:   string(command.Type),
			UUID:   command.UUID,
			TempID: command.TempID,
		}
		switch args := command.Args.(type) {
		case model.AddItemArgs:
			entry.Args = storedArgs{ProjectID: args.ProjectID, Content: args.Content}
		case model.CompleteItemArgs:
			entry.Args = storedArgs{ID: args.ID}
		default:
			return nil, fmt.Errorf("command %s: unsupported args %T", command.UUID, command.Args)
		}
		stored = append(stored, entry)
	}
	return stored, nil
}

func fromStoredCommands(stored []storedCommand) (model.Queue, error) {
	var queue model.Queue
	for i, entry := range stored {
		command := model.Command{
			Type:   model.CommandType(entry.Type),
			UUID:   entry.UUID,
			TempID: entry.TempID,
		}
		switch command.Type {
		case model.CommandItemAdd:
			command.Args = model.AddItemArgs{ProjectID: entry.Args.ProjectID, Content: entry.Args.Content}
		case model.CommandItemComplete:
			command.Args = model.CompleteItemArgs{ID: entry.Args.ID}
		}
		if err := queue.Append(command); err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
	}
	return queue, nil
}
