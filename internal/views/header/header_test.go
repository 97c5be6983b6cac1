package header

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tplgallery/header/internal/cache"
	"github.com/tplgallery/header/internal/client"
	"github.com/tplgallery/header/internal/filter"
	"github.com/tplgallery/header/internal/motion"
	"github.com/tplgallery/header/internal/router"
	"github.com/tplgallery/header/internal/session"
)

var (
	alice = session.Session{UID: "u1", Email: "alice@example.com", DisplayName: "Alice"}
	root  = session.Session{UID: "root", Email: "root@example.com"}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// run executes cmd and any batch it expands to. Commands waiting on the
// provider must have a push pending.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed runs cmd and hands every resulting message back to the header.
func feed(h Model, cmd tea.Cmd) (Model, tea.Cmd, []tea.Msg) {
	msgs := run(cmd)
	var next []tea.Cmd
	for _, msg := range msgs {
		var c tea.Cmd
		h, c = h.Update(msg)
		next = append(next, c)
	}
	return h, tea.Batch(next...), msgs
}

func press(h Model, k tea.KeyMsg) (Model, []tea.Msg) {
	h, cmd := h.Update(k)
	return h, run(cmd)
}

func navigations(msgs []tea.Msg) []router.Destination {
	var out []router.Destination
	for _, m := range msgs {
		if nav, ok := m.(router.NavigateMsg); ok {
			out = append(out, nav.To)
		}
	}
	return out
}

// mount creates a header and resolves it against the provider's current
// session.
func mount(t *testing.T, c *cache.Client, p *client.Memory, admins ...string) (Model, tea.Cmd) {
	t.Helper()
	h := New(c, p, Options{
		Placeholder:   "Search here.......",
		Admins:        session.NewAllowlist(admins),
		InstantMotion: true,
	})
	h.Width = 80
	t.Cleanup(h.Close)

	wait := h.observer.Subscribe()
	require.NotNil(t, wait)
	h, wait, _ = feed(h, wait)
	return h, wait
}

func signedIn(t *testing.T, s session.Session) *client.Memory {
	t.Helper()
	p := client.NewMemory(s)
	_, err := p.StartSession(context.Background(), s.UID)
	require.NoError(t, err)
	return p
}

func TestHeaderStartsLoading(t *testing.T) {
	h := New(cache.New(), client.NewMemory(), Options{InstantMotion: true})
	defer h.Close()
	h.Width = 80

	assert.Equal(t, session.Loading{}, h.State())
	assert.NotContains(t, h.View(), "Login")

	h, _ = press(h, runes("m"))
	assert.False(t, h.MenuOpen(), "menu stays closed while loading")
}

func TestHeaderAnonymous(t *testing.T) {
	h, _ := mount(t, cache.New(), client.NewMemory())

	assert.Equal(t, session.Anonymous{}, h.State())
	assert.Contains(t, h.View(), "Login")

	h, _ = press(h, runes("m"))
	assert.False(t, h.MenuOpen())
	assert.Empty(t, h.MenuView())

	_, msgs := press(h, runes("l"))
	assert.Equal(t, []router.Destination{router.Login}, navigations(msgs))
}

func TestHeaderSignOutFlow(t *testing.T) {
	c := cache.New()
	p := signedIn(t, alice)
	h, _ := mount(t, c, p)

	require.Equal(t, session.Authenticated{Session: alice}, h.State())
	assert.Contains(t, h.View(), "A")

	h, msgs := press(h, runes("m"))
	require.True(t, h.MenuOpen())
	assert.Contains(t, msgs, motion.EventMsg{Event: motion.Event{Name: MotionMenu, Kind: motion.Enter}})

	menu := h.MenuView()
	assert.Contains(t, menu, "Alice")
	assert.Contains(t, menu, "My Account")
	assert.Contains(t, menu, "Sign Out")
	assert.NotContains(t, menu, "Add new template")

	h, cmd := h.Update(runes("s"))
	require.NotNil(t, cmd)
	assert.Contains(t, h.MenuView(), "Signing out")

	h, _ = press(h, runes("s"))
	h, _, msgs = feed(h, cmd)
	require.Len(t, msgs, 1)

	assert.False(t, h.MenuOpen())
	assert.Equal(t, session.Anonymous{}, h.State())
	assert.NoError(t, h.LastError())
	assert.Equal(t, 1, p.EndCalls())

	v, ok := c.Get(session.CacheKey)
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestHeaderSignOutFailure(t *testing.T) {
	p := signedIn(t, alice)
	p.FailEndSession(errors.New("network down"))
	h, _ := mount(t, cache.New(), p)

	h, _ = press(h, runes("m"))
	h, cmd := h.Update(runes("s"))
	h, _, _ = feed(h, cmd)

	assert.ErrorIs(t, h.LastError(), session.ErrSignOut)
	assert.True(t, session.IsAuthenticated(h.State()))
	assert.True(t, h.MenuOpen())
	assert.Equal(t, boxHeight+1, h.Height())
	assert.Contains(t, h.View(), "network down")
}

func TestHeaderRemoteSignOutClosesMenu(t *testing.T) {
	p := signedIn(t, alice)
	h, wait := mount(t, cache.New(), p)

	h, _ = press(h, runes("m"))
	require.True(t, h.MenuOpen())

	p.Publish(nil)
	h, _, _ = feed(h, wait)

	assert.False(t, h.MenuOpen())
	assert.Empty(t, h.MenuView())
	assert.Equal(t, session.Anonymous{}, h.State())
}

func TestHeaderMenuNavigation(t *testing.T) {
	tests := []struct {
		name   string
		admins []string
		key    string
		want   []router.Destination
	}{
		{"profile", nil, "p", []router.Destination{router.Profile("root")}},
		{"new template as admin", []string{"root"}, "n", []router.Destination{router.TemplateCreate}},
		{"new template without rights", nil, "n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := mount(t, cache.New(), signedIn(t, root), tt.admins...)
			h, _ = press(h, runes("m"))
			require.True(t, h.MenuOpen())

			h, msgs := press(h, runes(tt.key))
			assert.Equal(t, tt.want, navigations(msgs))
			assert.Equal(t, tt.want == nil, h.MenuOpen())
		})
	}
}

func TestHeaderAdminMenuItem(t *testing.T) {
	h, _ := mount(t, cache.New(), signedIn(t, root), "root")
	h, _ = press(h, runes("m"))
	assert.Contains(t, h.MenuView(), "Add new template")
}

func TestHeaderEscapeLeavesMenu(t *testing.T) {
	h, _ := mount(t, cache.New(), signedIn(t, alice))
	h, _ = press(h, runes("m"))
	h, _ = press(h, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.MenuOpen())
	assert.Empty(t, h.MenuView())
}

func TestHeaderSearchWritesStore(t *testing.T) {
	c := cache.New()
	h, _ := mount(t, c, client.NewMemory())

	assert.Equal(t, "", h.SearchValue())
	assert.False(t, h.ClearVisible())

	// Typing is not run through press: the cursor blink commands sleep.
	h, _ = h.Update(runes("/"))
	require.True(t, h.Focused())
	h, _ = h.Update(runes("c"))
	h, _ = h.Update(runes("v"))

	assert.Equal(t, "cv", filter.SearchTerm(c))
	assert.True(t, h.ClearVisible())

	h, msgs := press(h, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, "", filter.SearchTerm(c))
	assert.Equal(t, "", h.SearchValue())
	assert.False(t, h.ClearVisible())
	assert.Contains(t, msgs, motion.EventMsg{Event: motion.Event{Name: MotionClear, Kind: motion.Exit}})

	h, _ = press(h, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.Focused())
}

func TestHeaderFocusedInputSwallowsShortcuts(t *testing.T) {
	c := cache.New()
	h, _ := mount(t, c, signedIn(t, alice))

	h, _ = h.Update(runes("/"))
	h, _ = h.Update(runes("m"))
	assert.False(t, h.MenuOpen())
	assert.Equal(t, "m", filter.SearchTerm(c))
}

func TestHeaderFollowsForeignWrites(t *testing.T) {
	c := cache.New()
	h, _ := mount(t, c, client.NewMemory())

	filter.SetSearchTerm(c, "modern")
	h, _, _ = feed(h, h.watch.Next())
	assert.Equal(t, "modern", h.SearchValue())
	assert.True(t, h.ClearVisible())
}

func TestHeaderLateEchoKeepsKeystrokes(t *testing.T) {
	c := cache.New()
	h, _ := mount(t, c, client.NewMemory())

	h, _ = h.Update(runes("/"))
	h, _ = h.Update(runes("a"))
	echoA := h.watch.Next()()
	h, _ = h.Update(runes("b"))
	h, _ = h.Update(echoA)
	assert.Equal(t, "ab", h.SearchValue())

	echoAB := h.watch.Next()()
	h, _ = h.Update(runes("c"))
	h, _ = h.Update(echoAB)

	assert.Equal(t, "abc", h.SearchValue())
	assert.Equal(t, "abc", filter.SearchTerm(c))
	assert.True(t, h.ClearVisible())
}

func TestHeaderMountReadsExistingFilter(t *testing.T) {
	c := cache.New()
	filter.SetSearchTerm(c, "cv")
	h := New(c, client.NewMemory(), Options{})
	defer h.Close()

	assert.Equal(t, "cv", h.SearchValue())
	assert.True(t, h.ClearVisible())
}

func TestHeaderRemountStartsLoading(t *testing.T) {
	c := cache.New()
	p := signedIn(t, alice)
	first, _ := mount(t, c, p)
	require.True(t, session.IsAuthenticated(first.State()))
	first.Close()

	second := New(c, p, Options{})
	defer second.Close()
	assert.Equal(t, session.Loading{}, second.State())
}

func TestHeaderDropsPushesAfterClose(t *testing.T) {
	h, _ := mount(t, cache.New(), client.NewMemory())
	h.Close()

	push := session.PushMsg{ObserverID: h.ObserverID(), Push: session.Push{Session: &alice}}
	h, cmd := h.Update(push)
	assert.Nil(t, cmd)
	assert.Equal(t, session.Anonymous{}, h.State())
}

func TestHeaderMouse(t *testing.T) {
	h, _ := mount(t, cache.New(), signedIn(t, alice))
	l := h.layout()

	click := tea.MouseMsg{X: l.affordance.x0, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	h, _ = h.Update(click)
	require.True(t, h.MenuOpen())

	x, y := h.MenuOrigin()
	h, _ = h.Update(tea.MouseMsg{X: x + 2, Y: y + 2, Action: tea.MouseActionMotion})
	assert.True(t, h.MenuOpen(), "moving inside the menu keeps it open")

	h, _ = h.Update(tea.MouseMsg{X: 0, Y: 20, Action: tea.MouseActionMotion})
	assert.False(t, h.MenuOpen(), "leaving the menu closes it")

	logo := tea.MouseMsg{X: l.logo.x0, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	_, cmd := h.Update(logo)
	assert.Equal(t, []router.Destination{router.Home}, navigations(run(cmd)))
}

func TestHeaderPhotoAvatar(t *testing.T) {
	withPhoto := alice
	withPhoto.PhotoURL = "https://example.com/a.png"
	h, _ := mount(t, cache.New(), signedIn(t, withPhoto))
	assert.Contains(t, h.affordanceView(), "◉")
}
