package motion

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// events runs cmd and collects the EventMsgs it produces, skipping frames.
func events(cmd tea.Cmd) []Event {
	if cmd == nil {
		return nil
	}
	var out []Event
	switch msg := cmd().(type) {
	case EventMsg:
		out = append(out, msg.Event)
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, events(c)...)
		}
	}
	return out
}

func TestStartsHidden(t *testing.T) {
	tr := New("menu", false)
	assert.False(t, tr.Shown())
	assert.False(t, tr.Visible())
	assert.Equal(t, 0.0, tr.Progress())
}

func TestSetEmitsOneEventPerChange(t *testing.T) {
	tr := New("menu", true)

	assert.Equal(t, []Event{{Name: "menu", Kind: Enter}}, events(tr.Set(true)))
	assert.Nil(t, tr.Set(true), "no event without a change")
	assert.Equal(t, []Event{{Name: "menu", Kind: Exit}}, events(tr.Set(false)))
	assert.Nil(t, tr.Set(false))
}

func TestInstantSnaps(t *testing.T) {
	tr := New("clear", true)
	tr.Set(true)
	assert.Equal(t, 1.0, tr.Progress())
	assert.False(t, tr.Animating())
	tr.Set(false)
	assert.False(t, tr.Visible())
}

func TestSpringSettles(t *testing.T) {
	tr := New("menu", false)
	require.NotNil(t, tr.Set(true))
	require.True(t, tr.Animating())
	assert.True(t, tr.Visible())

	frames := 0
	for tr.Animating() && frames < 10*fps {
		tr.Update(FrameMsg{Name: "menu"})
		frames++
	}
	assert.False(t, tr.Animating(), "spring should settle")
	assert.Equal(t, 1.0, tr.Progress())
	assert.Greater(t, frames, 1)
}

func TestExitKeepsVisibleUntilSettled(t *testing.T) {
	tr := New("menu", false)
	tr.Set(true)
	tr.Settle()

	tr.Set(false)
	assert.False(t, tr.Shown())
	assert.True(t, tr.Visible(), "still rendering the exit")

	for tr.Animating() {
		tr.Update(FrameMsg{Name: "menu"})
	}
	assert.False(t, tr.Visible())
}

func TestUpdateIgnoresOtherNames(t *testing.T) {
	tr := New("menu", false)
	tr.Set(true)
	assert.Nil(t, tr.Update(FrameMsg{Name: "clear"}))
	assert.Equal(t, 0.0, tr.Progress())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "enter", Enter.String())
	assert.Equal(t, "exit", Exit.String())
}
