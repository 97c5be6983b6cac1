// Package help renders the key binding reference as Markdown through
// glamour.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/tplgallery/header/internal/theme"
)

// Style names accepted by New.
const (
	StyleDark  = "dark"
	StyleNoTTY = "notty"
)

// Section is one titled group of bindings.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Model caches the rendered reference for the last width.
type Model struct {
	sections []Section
	style    string

	width    int
	rendered string
}

// New creates a help panel for sections using a glamour standard style.
func New(style string, sections ...Section) Model {
	return Model{sections: sections, style: style}
}

// Markdown returns the reference as a Markdown document.
func (m Model) Markdown() string {
	var b strings.Builder
	b.WriteString("# Keys\n")
	for _, s := range m.sections {
		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n|---|---|\n", s.Title)
		for _, kb := range s.Bindings {
			h := kb.Help()
			if h.Key == "" || !kb.Enabled() {
				continue
			}
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	return b.String()
}

// SetWidth re-renders when the width changes.
func (m *Model) SetWidth(width int) {
	if width == m.width && m.rendered != "" {
		return
	}
	m.width = width
	m.rendered = m.render()
}

func (m Model) render() string {
	md := m.Markdown()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(max(m.width-6, 20)),
	)
	if err != nil {
		log.Warn().Err(err).Msg("help renderer")
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.Warn().Err(err).Msg("help render")
		return md
	}
	return strings.Trim(out, "\n")
}

// View renders the panel.
func (m Model) View() string {
	body := m.rendered
	if body == "" {
		body = m.render()
	}
	footer := theme.StyleDimmed.Render("?/esc:close")
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, body, footer))
}
