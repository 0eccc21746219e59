package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme styles text for one output stream. Without color support every
// method returns its input unchanged.
type Theme struct {
	enabled  bool
	index    lipgloss.Style
	unsynced lipgloss.Style
	muted    lipgloss.Style
	label    lipgloss.Style
	errStyle lipgloss.Style
	idPrefix lipgloss.Style
}

// NewTheme returns the theme for w.
func NewTheme(w io.Writer) Theme {
	renderer := lipgloss.NewRenderer(w)
	return Theme{
		enabled:  ColorEnabled(w),
		index:    renderer.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		unsynced: renderer.NewStyle().Foreground(lipgloss.Color("3")).Italic(true),
		muted:    renderer.NewStyle().Foreground(lipgloss.Color("244")),
		label:    renderer.NewStyle().Bold(true),
		errStyle: renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		idPrefix: renderer.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	}
}

// Index styles an inbox position such as "[1]".
func (t Theme) Index(s string) string { return t.render(t.index, s) }

// Unsynced styles the marker shown on items the server has not confirmed.
func (t Theme) Unsynced(s string) string { return t.render(t.unsynced, s) }

// Muted styles secondary details.
func (t Theme) Muted(s string) string { return t.render(t.muted, s) }

// Label styles field names and headings.
func (t Theme) Label(s string) string { return t.render(t.label, s) }

// Error styles error prefixes.
func (t Theme) Error(s string) string { return t.render(t.errStyle, s) }

func (t Theme) render(style lipgloss.Style, s string) string {
	if !t.enabled {
		return s
	}
	return style.Render(s)
}
