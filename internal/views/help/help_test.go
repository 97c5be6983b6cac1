package help

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func sections() []Section {
	hidden := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"))
	hidden.SetEnabled(false)
	return []Section{
		{Title: "Header", Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
			key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign out")),
			hidden,
		}},
		{Title: "Global", Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
			key.NewBinding(key.WithKeys("z")),
		}},
	}
}

func TestMarkdown(t *testing.T) {
	md := New(StyleNoTTY, sections()...).Markdown()
	assert.Contains(t, md, "## Header")
	assert.Contains(t, md, "| `/` | search |")
	assert.Contains(t, md, "| `q` | quit |")
	assert.NotContains(t, md, "hidden")
}

func TestView(t *testing.T) {
	m := New(StyleNoTTY, sections()...)
	m.SetWidth(80)
	v := ansi.Strip(m.View())
	for _, want := range []string{"Header", "search", "sign out", "quit", "esc:close"} {
		assert.Contains(t, v, want)
	}
}

func TestSetWidthCaches(t *testing.T) {
	m := New(StyleNoTTY, sections()...)
	m.SetWidth(80)
	first := m.rendered
	m.sections = nil
	m.SetWidth(80)
	assert.Equal(t, first, m.rendered)
	m.SetWidth(60)
	assert.NotEqual(t, first, m.rendered)
}

func TestUnknownStyleFallsBackToMarkdown(t *testing.T) {
	m := New("no-such-style", sections()...)
	assert.Contains(t, m.View(), "| `/` | search |")
}
