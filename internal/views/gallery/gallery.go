// Package gallery lists the template catalog filtered by the shared search
// term. It never talks to the header; both meet in the cache.
package gallery

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tplgallery/header/internal/cache"
	"github.com/tplgallery/header/internal/filter"
	"github.com/tplgallery/header/internal/theme"
)

// Model holds the catalog and the last search term seen.
type Model struct {
	watch   *filter.Watch
	catalog []string
	term    string

	Width  int
	Height int
}

// New creates a gallery over catalog following the filter in c.
func New(c *cache.Client, catalog []string) Model {
	return Model{
		watch:   filter.NewWatch(c),
		catalog: catalog,
		term:    filter.SearchTerm(c),
	}
}

// Init waits for the first filter change.
func (m Model) Init() tea.Cmd { return m.watch.Next() }

// Close stops following the filter.
func (m Model) Close() { m.watch.Close() }

// Term returns the search term the list is filtered by.
func (m Model) Term() string { return m.term }

// Update re-filters on writes to the shared filter.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(filter.ChangedMsg); ok && m.watch.Owns(msg) {
		m.term = msg.State.SearchTerm
		return m, m.watch.Next()
	}
	return m, nil
}

// Matches returns the catalog entries containing the term, ignoring case.
// An empty term matches everything.
func (m Model) Matches() []string {
	if m.term == "" {
		return m.catalog
	}
	needle := strings.ToLower(m.term)
	var out []string
	for _, name := range m.catalog {
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
		}
	}
	return out
}

// View renders the filtered list.
func (m Model) View() string {
	matches := m.Matches()

	var summary string
	if m.term == "" {
		summary = fmt.Sprintf("%d templates", len(m.catalog))
	} else {
		summary = fmt.Sprintf("%d of %d templates match %q", len(matches), len(m.catalog), m.term)
	}

	lines := []string{
		theme.StyleHeader.Render("TEMPLATES") + "  " + theme.StyleDimmed.Render(summary),
		"",
	}
	if len(matches) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No templates found."))
	}

	rows := len(matches)
	if m.Height > 2 && rows > m.Height-2 {
		rows = m.Height - 2
	}
	for _, name := range matches[:rows] {
		lines = append(lines, "  "+m.highlight(name))
	}
	if rows < len(matches) {
		lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("  … %d more", len(matches)-rows)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// highlight marks the first occurrence of the term in name, compared rune
// by rune so case folding never splits a character.
func (m Model) highlight(name string) string {
	if m.Width > 4 {
		name = ansi.Truncate(name, m.Width-4, "…")
	}
	i, j, ok := findFold(name, m.term)
	if !ok {
		return name
	}
	return name[:i] + theme.StyleLogo.Render(name[i:j]) + name[j:]
}

// findFold returns the byte span in s of the first case-insensitive match
// of sub. Both ends fall on rune boundaries of s.
func findFold(s, sub string) (start, end int, ok bool) {
	n := utf8.RuneCountInString(sub)
	if n == 0 {
		return 0, 0, false
	}
	for start = range s {
		end = start
		for k := 0; k < n && end < len(s); k++ {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
		}
		if utf8.RuneCountInString(s[start:end]) < n {
			return 0, 0, false
		}
		if strings.EqualFold(s[start:end], sub) {
			return start, end, true
		}
	}
	return 0, 0, false
}
