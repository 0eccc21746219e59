package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CommandType tags the kind of mutation a Command carries.
type CommandType string

const (
	// CommandItemAdd creates an item.
	CommandItemAdd CommandType = "item_add"

	// CommandItemComplete marks an item complete.
	CommandItemComplete CommandType = "item_complete"
)

// ValidCommandTypes returns all command types the client can send.
func ValidCommandTypes() []CommandType {
	return []CommandType{CommandItemAdd, CommandItemComplete}
}

// IsValid returns true if the command type is known.
func (t CommandType) IsValid() bool {
	for _, valid := range ValidCommandTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// CommandArgs is the type-specific argument payload of a Command.
// It is either AddItemArgs or CompleteItemArgs.
type CommandArgs interface {
	commandType() CommandType
}

// AddItemArgs are the arguments of an item_add command.
type AddItemArgs struct {
	ProjectID string `json:"project_id"`
	Content   string `json:"content"`
}

func (AddItemArgs) commandType() CommandType { return CommandItemAdd }

// CompleteItemArgs are the arguments of an item_complete command.
type CompleteItemArgs struct {
	ID string `json:"id"`
}

func (CompleteItemArgs) commandType() CommandType { return CommandItemComplete }

// Command is one queued mutation, already reflected in the local items.
type Command struct {
	Type CommandType

	// UUID identifies the command; the server acknowledges by it.
	UUID string

	// TempID is set for commands that create an entity, and names the
	// temporary ID the entity carries until the server maps it.
	TempID string

	Args CommandArgs
}

type commandJSON struct {
	Type   CommandType     `json:"type"`
	UUID   string          `json:"uuid"`
	TempID *string         `json:"temp_id"`
	Args   json.RawMessage `json:"args"`
}

// MarshalJSON encodes the command in wire form. A missing temp ID is null.
func (c Command) MarshalJSON() ([]byte, error) {
	if c.Args == nil {
		return nil, fmt.Errorf("command %s has no args", c.UUID)
	}
	if c.Args.commandType() != c.Type {
		return nil, fmt.Errorf("command %s: %s args on %s command", c.UUID, c.Args.commandType(), c.Type)
	}
	args, err := json.Marshal(c.Args)
	if err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	wire := commandJSON{Type: c.Type, UUID: c.UUID, Args: args}
	if c.TempID != "" {
		tempID := c.TempID
		wire.TempID = &tempID
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a wire command, choosing the args shape by type.
func (c *Command) UnmarshalJSON(data []byte) error {
	var wire commandJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	args, err := decodeArgs(wire.Type, wire.Args)
	if err != nil {
		return err
	}
	*c = Command{Type: wire.Type, UUID: wire.UUID, Args: args}
	if wire.TempID != nil {
		c.TempID = *wire.TempID
	}
	return nil
}

func decodeArgs(typ CommandType, raw json.RawMessage) (CommandArgs, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	switch typ {
	case CommandItemAdd:
		var args AddItemArgs
		if err := decoder.Decode(&args); err != nil {
			return nil, fmt.Errorf("decode %s args: %w", typ, err)
		}
		return args, nil
	case CommandItemComplete:
		var args CompleteItemArgs
		if err := decoder.Decode(&args); err != nil {
			return nil, fmt.Errorf("decode %s args: %w", typ, err)
		}
		return args, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommandType, typ)
	}
}

// CommandStatus is the server's verdict on one command.
//
// The service reports success as the JSON string "ok" and failure as an
// object carrying an error code and message.
type CommandStatus struct {
	OK        bool
	ErrorCode int
	Error     string
}

// StatusOK is the acknowledgment status.
var StatusOK = CommandStatus{OK: true}

// UnmarshalJSON accepts either a status string or an error object.
func (s *CommandStatus) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = CommandStatus{OK: text == "ok"}
		if !s.OK {
			s.Error = text
		}
		return nil
	}
	var object struct {
		ErrorCode int    `json:"error_code"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(data, &object); err != nil {
		return fmt.Errorf("decode command status: %w", err)
	}
	*s = CommandStatus{ErrorCode: object.ErrorCode, Error: object.Error}
	return nil
}

// MarshalJSON writes "ok" for success and an error object otherwise.
func (s CommandStatus) MarshalJSON() ([]byte, error) {
	if s.OK {
		return json.Marshal("ok")
	}
	return json.Marshal(struct {
		ErrorCode int    `json:"error_code"`
		Error     string `json:"error"`
	}{s.ErrorCode, s.Error})
}

func (s CommandStatus) String() string {
	if s.OK {
		return "ok"
	}
	if s.ErrorCode != 0 {
		return fmt.Sprintf("%s (code %d)", s.Error, s.ErrorCode)
	}
	return s.Error
}
