package model

import (
	"fmt"
	"strings"
)

// AddTodo creates an item in the inbox under a fresh temporary ID and queues
// the matching item_add command. The model is unchanged on error.
func (m *Model) AddTodo(content string) (Item, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Item{}, ErrEmptyContent
	}
	if !m.User.HasInbox() {
		return Item{}, ErrInboxUnknown
	}

	tempID := m.generateID()
	if m.itemIndex(tempID) >= 0 {
		return Item{}, fmt.Errorf("generated item id %s is already in use", tempID)
	}
	inbox := m.User.InboxProjectID
	item := Item{
		ID:        tempID,
		ProjectID: inbox,
		Content:   content,
	}
	command := Command{
		Type:   CommandItemAdd,
		UUID:   m.generateID(),
		TempID: tempID,
		Args: AddItemArgs{
			ProjectID: inbox,
			Content:   content,
		},
	}

	if err := m.Commands.Append(command); err != nil {
		return Item{}, err
	}
	m.Items = append(m.Items, item)
	return item, nil
}

// CompleteTodo marks the inbox item at the 1-based display index n complete
// and queues the matching item_complete command. An index outside the inbox
// returns a *NotFoundError and leaves the model unchanged.
func (m *Model) CompleteTodo(n int) (Item, error) {
	target, err := m.InboxItem(n)
	if err != nil {
		return Item{}, err
	}

	// Locate by ID rather than position so the index cannot drift.
	index := m.itemIndex(target.ID)
	if index < 0 {
		return Item{}, &NotFoundError{Index: n, Len: len(m.Inbox())}
	}

	command := Command{
		Type: CommandItemComplete,
		UUID: m.generateID(),
		Args: CompleteItemArgs{ID: target.ID},
	}
	if err := m.Commands.Append(command); err != nil {
		return Item{}, err
	}
	m.Items[index].Checked = true
	return m.Items[index], nil
}

// ListInbox returns the current inbox view. It never mutates the model.
func (m *Model) ListInbox() []Item {
	return m.Inbox()
}
