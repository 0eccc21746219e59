package client

import "fmt"

// SyncError reports that a mutation was saved locally but the sync that
// followed it failed. The change stays queued for the next sync.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("saved locally, but sync failed (it will be retried on the next sync): %v", e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
