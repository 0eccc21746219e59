package model

import "fmt"

// Queue is the ordered list of commands the server has not acknowledged.
// Order is preserved when the queue is sent.
type Queue []Command

// Len returns the number of queued commands.
func (q Queue) Len() int {
	return len(q)
}

// Contains reports whether a command with the given UUID is queued.
func (q Queue) Contains(uuid string) bool {
	for _, command := range q {
		if command.UUID == uuid {
			return true
		}
	}
	return false
}

// Append queues a command. UUIDs must be unique within the queue.
func (q *Queue) Append(command Command) error {
	if command.UUID == "" {
		return fmt.Errorf("command has no uuid")
	}
	if !command.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCommandType, command.Type)
	}
	if q.Contains(command.UUID) {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, command.UUID)
	}
	*q = append(*q, command)
	return nil
}

// IsUnconfirmed reports whether id is the temporary ID of a queued command,
// meaning the item carrying it has not been acknowledged by the server.
func (q Queue) IsUnconfirmed(id string) bool {
	if id == "" {
		return false
	}
	for _, command := range q {
		if command.TempID == id {
			return true
		}
	}
	return false
}

// CommandFailure describes a command the server rejected.
type CommandFailure struct {
	UUID   string
	Type   CommandType
	Status CommandStatus
}

// Prune removes every command whose status is "ok" in a single pass and
// returns how many were removed. Commands the server rejected are reported
// as failures and stay queued, as do commands it did not mention.
func (q *Queue) Prune(statuses map[string]CommandStatus) (int, []CommandFailure) {
	if len(statuses) == 0 {
		return 0, nil
	}

	var failures []CommandFailure
	kept := (*q)[:0]
	for _, command := range *q {
		status, ok := statuses[command.UUID]
		if ok && status.OK {
			continue
		}
		if ok {
			failures = append(failures, CommandFailure{
				UUID:   command.UUID,
				Type:   command.Type,
				Status: status,
			})
		}
		kept = append(kept, command)
	}
	removed := len(*q) - len(kept)
	for i := len(kept); i < len(*q); i++ {
		(*q)[i] = Command{}
	}
	*q = kept
	return removed, failures
}

// RemapItemIDs points queued completions of temporary IDs at the real IDs
// the server assigned, and returns how many commands changed.
func (q Queue) RemapItemIDs(mapping map[string]string) int {
	remapped := 0
	for i, command := range q {
		args, ok := command.Args.(CompleteItemArgs)
		if !ok {
			continue
		}
		realID, ok := mapping[args.ID]
		if !ok || realID == args.ID {
			continue
		}
		q[i].Args = CompleteItemArgs{ID: realID}
		remapped++
	}
	return remapped
}

// Clone returns a copy that shares no backing array with q.
func (q Queue) Clone() Queue {
	if q == nil {
		return nil
	}
	return append(Queue(nil), q...)
}
