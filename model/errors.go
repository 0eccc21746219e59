package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a display index does not name an inbox item.
	ErrNotFound = errors.New("item not found")

	// ErrEmptyContent is returned when an item would be created without text.
	ErrEmptyContent = errors.New("item content cannot be empty")

	// ErrInboxUnknown is returned when the inbox project has not been learned
	// from the server yet.
	ErrInboxUnknown = errors.New("inbox project is unknown; run a sync first")

	// ErrDuplicateCommand is returned when a command UUID is already queued.
	ErrDuplicateCommand = errors.New("command already queued")

	// ErrUnknownCommandType is returned when decoding a command of a type the
	// client does not understand.
	ErrUnknownCommandType = errors.New("unknown command type")

	// ErrInvalidFullSyncPolicy is returned for an unknown policy name.
	ErrInvalidFullSyncPolicy = errors.New("invalid full sync policy")
)

// NotFoundError reports a display index outside the current inbox.
type NotFoundError struct {
	Index int
	Len   int
}

func (e *NotFoundError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("no item %d: the inbox is empty", e.Index)
	}
	return fmt.Sprintf("no item %d: the inbox has items 1-%d", e.Index, e.Len)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
