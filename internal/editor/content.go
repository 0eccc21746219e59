package editor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	internalstrings "github.com/amonks/tuido/internal/strings"
)

// Scissors separates the todo text from the instructions below it.
const Scissors = "# ------------------------ >8 ------------------------"

const instructions = Scissors + `
# Write the todo above the scissors line. Markdown is allowed.
# Everything from the scissors line down is ignored.
# Leave the todo empty to cancel.
`

// ErrEmpty is returned when the edited todo has no text.
var ErrEmpty = errors.New("empty todo, nothing added")

// RenderContent returns the file presented to the editor.
func RenderContent(initial string) string {
	initial = internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(initial))
	return initial + "\n\n" + instructions
}

// ParseContent returns the text above the scissors line, trimmed. Blank text
// returns ErrEmpty.
func ParseContent(edited string) (string, error) {
	edited = internalstrings.NormalizeNewlines(edited)
	lines := strings.Split(edited, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == Scissors {
			lines = lines[:i]
			break
		}
	}
	content := strings.TrimSpace(strings.Join(lines, "\n"))
	if content == "" {
		return "", ErrEmpty
	}
	return content, nil
}

// EditContent opens the editor on initial and returns the todo text the
// user wrote.
func EditContent(initial string) (string, error) {
	tmpfile, err := os.CreateTemp("", "tuido-todo-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(RenderContent(initial)); err != nil {
		tmpfile.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return ParseContent(string(edited))
}
