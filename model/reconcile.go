package model

import (
	"strings"

	"github.com/amonks/tuido/internal/validation"
)

// FullSyncPolicy decides what happens to local state the server has not
// seen yet when a full sync replaces the item list.
type FullSyncPolicy string

const (
	// PolicyReplace makes the item list exactly the server's list.
	PolicyReplace FullSyncPolicy = "replace"

	// PolicyKeepUnconfirmed replays the intents of commands that are still
	// queued after the sync: items created locally and not yet acknowledged
	// are kept, and items with a queued completion stay checked.
	PolicyKeepUnconfirmed FullSyncPolicy = "keep-unconfirmed"
)

// ValidFullSyncPolicies returns all valid policy values.
func ValidFullSyncPolicies() []FullSyncPolicy {
	return []FullSyncPolicy{PolicyReplace, PolicyKeepUnconfirmed}
}

// ParseFullSyncPolicy normalizes a policy name. Empty means PolicyReplace.
func ParseFullSyncPolicy(value string) (FullSyncPolicy, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return PolicyReplace, nil
	}
	return validation.OneOf(ErrInvalidFullSyncPolicy, FullSyncPolicy(value), ValidFullSyncPolicies())
}

// UpdateResult summarizes what a response changed.
type UpdateResult struct {
	FullSync bool

	// Remapped counts items whose temporary ID was replaced.
	Remapped int

	// RemappedCommands counts queued completions whose target was a
	// temporary ID and now is the real one.
	RemappedCommands int

	// Acknowledged counts commands removed from the queue.
	Acknowledged int

	// Failures lists queued commands the server rejected.
	Failures []CommandFailure

	// Kept counts local items carried across a full sync by
	// PolicyKeepUnconfirmed.
	Kept int
}

// Update folds a sync response into the model using PolicyReplace.
func (m *Model) Update(response Response) UpdateResult {
	return m.UpdateWithPolicy(response, PolicyReplace)
}

// UpdateWithPolicy folds a sync response into the model.
//
// The cursor always advances and a returned user always replaces the local
// one. A full response replaces the items; an incremental one only renames
// items listed in the temp ID mapping. Commands acknowledged with "ok" are
// then dropped from the queue, and queued completions of mapped temporary
// IDs are pointed at the real ones. Applying the same response twice has the same
// effect as applying it once.
func (m *Model) UpdateWithPolicy(response Response, policy FullSyncPolicy) UpdateResult {
	result := UpdateResult{FullSync: response.FullSync}

	m.SyncToken = response.SyncToken

	if response.User != nil {
		m.User = *response.User
	}

	previous := m.Items
	if response.FullSync {
		m.Items = cloneItems(response.Items)
	} else {
		result.Remapped = m.remapTempIDs(response.TempIDMapping)
	}

	result.Acknowledged, result.Failures = m.Commands.Prune(response.SyncStatus)
	result.RemappedCommands = m.Commands.RemapItemIDs(response.TempIDMapping)

	if response.FullSync && policy == PolicyKeepUnconfirmed {
		result.Kept = m.replayQueued(previous, response.TempIDMapping)
	}

	return result
}

func (m *Model) remapTempIDs(mapping map[string]string) int {
	remapped := 0
	for tempID, realID := range mapping {
		if tempID == realID {
			continue
		}
		index := m.itemIndex(tempID)
		if index < 0 {
			continue
		}
		m.Items[index].ID = realID
		remapped++
	}
	return remapped
}

// replayQueued restores the optimistic effect of commands that survived the
// prune on top of a freshly replaced item list.
func (m *Model) replayQueued(previous []Item, mapping map[string]string) int {
	kept := 0
	for _, item := range previous {
		if !m.Commands.IsUnconfirmed(item.ID) {
			continue
		}
		if _, mapped := mapping[item.ID]; mapped {
			continue
		}
		if m.itemIndex(item.ID) >= 0 {
			continue
		}
		m.Items = append(m.Items, item)
		kept++
	}

	for _, command := range m.Commands {
		args, ok := command.Args.(CompleteItemArgs)
		if !ok {
			continue
		}
		if index := m.itemIndex(args.ID); index >= 0 {
			m.Items[index].Checked = true
		}
	}
	return kept
}
