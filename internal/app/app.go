// Package app is the root Bubble Tea model: the header on top, the page for
// the current route below it, and the event log overlay.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/tplgallery/header/internal/cache"
	"github.com/tplgallery/header/internal/config"
	"github.com/tplgallery/header/internal/filter"
	"github.com/tplgallery/header/internal/motion"
	"github.com/tplgallery/header/internal/router"
	"github.com/tplgallery/header/internal/session"
	"github.com/tplgallery/header/internal/theme"
	"github.com/tplgallery/header/internal/views/debug"
	"github.com/tplgallery/header/internal/views/gallery"
	"github.com/tplgallery/header/internal/views/header"
	"github.com/tplgallery/header/internal/views/help"
)

const loginTimeout = 10 * time.Second

// LoginStarter is implemented by providers that can sign in a seeded
// account on request.
type LoginStarter interface {
	StartSession(ctx context.Context, uid string) (*session.Session, error)
}

// Resyncer is implemented by providers that can resend the current
// session.
type Resyncer interface {
	Resync() error
}

type loginMsg struct {
	UID string
	Err error
}

// Model is the root Bubble Tea model.
type Model struct {
	cache    *cache.Client
	provider session.Provider
	cfg      *config.Config
	history  *router.History

	keys   KeyMap
	width  int
	height int

	header    header.Model
	gallery   gallery.Model
	debug     debug.Model
	showDebug bool
	help      help.Model
	showHelp  bool
}

// New creates the root model. Nothing is requested from p until Init.
func New(c *cache.Client, p session.Provider, cfg *config.Config) Model {
	return Model{
		cache:    c,
		provider: p,
		cfg:      cfg,
		history:  router.NewHistory(),
		keys:     DefaultKeyMap(),
		header:   header.New(c, p, headerOptions(cfg)),
		gallery:  gallery.New(c, cfg.Catalog),
		debug:    debug.New(),
		help:     newHelp(DefaultKeyMap()),
	}
}

func newHelp(keys KeyMap) help.Model {
	hk := header.DefaultKeyMap()
	return help.New(help.StyleDark,
		help.Section{Title: "Header", Bindings: []key.Binding{
			hk.Search, hk.Clear, hk.Blur, hk.Menu, hk.Login, hk.Home,
		}},
		help.Section{Title: "Account menu", Bindings: []key.Binding{
			hk.Profile, hk.NewTemplate, hk.SignOut,
		}},
		help.Section{Title: "Global", Bindings: []key.Binding{
			keys.Back, keys.Account, keys.Resync, keys.Remount, keys.Debug, keys.Help, keys.Quit,
		}},
	)
}

func headerOptions(cfg *config.Config) header.Options {
	return header.Options{
		Placeholder:   cfg.Search.Placeholder,
		Admins:        cfg.Allowlist(),
		Session:       cfg.SessionOptions(),
		InstantMotion: cfg.Motion.Instant,
	}
}

// Init mounts the header and the gallery.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.header.Init(), m.gallery.Init())
}

// Route returns the current destination.
func (m Model) Route() router.Destination { return m.history.Current() }

// Header returns the mounted header.
func (m Model) Header() header.Model { return m.header }

// Gallery returns the template list.
func (m Model) Gallery() gallery.Model { return m.gallery }

// Events returns the event log.
func (m Model) Events() []debug.Entry { return m.debug.Entries }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.Width = msg.Width
		m.gallery.Width = msg.Width
		m.gallery.Height = msg.Height - m.header.Height() - 2
		m.help.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case session.PushMsg:
		var cmd tea.Cmd
		m.header, cmd = m.header.Update(msg)
		if msg.ObserverID == m.header.ObserverID() {
			m.logPush(msg)
		}
		return m, cmd

	case session.SignOutMsg:
		var cmd tea.Cmd
		m.header, cmd = m.header.Update(msg)
		if msg.ObserverID == m.header.ObserverID() {
			if msg.Err != nil {
				m.debug.Add(debug.KindErr, msg.Err.Error())
			} else {
				m.debug.Add(debug.KindIdP, "signed out")
			}
		}
		return m, cmd

	case filter.ChangedMsg:
		var hc, gc tea.Cmd
		m.header, hc = m.header.Update(msg)
		before := m.gallery.Term()
		m.gallery, gc = m.gallery.Update(msg)
		if gc != nil && m.gallery.Term() != before {
			m.debug.Addf(debug.KindFilter, "search %q: %d matches", m.gallery.Term(), len(m.gallery.Matches()))
		}
		return m, tea.Batch(hc, gc)

	case router.NavigateMsg:
		m.history.Navigate(msg.To)
		m.debug.Addf(debug.KindNav, "navigate %s", msg.To.Path())
		log.Info().Str("path", msg.To.Path()).Msg("navigate")
		return m, nil

	case motion.EventMsg:
		m.debug.Addf(debug.KindAnim, "%s %s", msg.Event.Name, msg.Event.Kind)
		return m, nil

	case loginMsg:
		if msg.Err != nil {
			m.debug.Addf(debug.KindErr, "login %s: %v", msg.UID, msg.Err)
			return m, nil
		}
		m.debug.Addf(debug.KindIdP, "login %s", msg.UID)
		m.history.Navigate(router.Home)
		return m, nil
	}

	var cmd tea.Cmd
	m.header, cmd = m.header.Update(msg)
	return m, cmd
}

func (m *Model) logPush(msg session.PushMsg) {
	switch {
	case msg.Closed:
		m.debug.Add(debug.KindErr, "session stream closed")
	case msg.Push.Err != nil:
		m.debug.Add(debug.KindErr, msg.Push.Err.Error())
	default:
		m.debug.Add(debug.KindIdP, m.header.State().String())
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showDebug {
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Debug):
			m.showDebug = false
		case key.Matches(msg, m.keys.Up):
			m.debug.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.debug.ScrollDown(1)
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help):
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}

	if !m.header.Focused() && !m.header.MenuOpen() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Debug):
			m.showDebug = true
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Back):
			to := m.history.Back()
			m.debug.Addf(debug.KindNav, "back %s", to.Path())
			return m, nil
		case key.Matches(msg, m.keys.Resync):
			m.resync()
			return m, nil
		case key.Matches(msg, m.keys.Remount):
			return m.remount()
		case key.Matches(msg, m.keys.Account) && m.Route() == router.Login:
			return m, m.login(msg.String())
		}
	} else if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	var cmd tea.Cmd
	m.header, cmd = m.header.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.header.Close()
	m.gallery.Close()
	return m, tea.Quit
}

// remount tears the header down and mounts a fresh one, which starts over
// in Loading.
func (m Model) remount() (tea.Model, tea.Cmd) {
	m.header.Close()
	h := header.New(m.cache, m.provider, headerOptions(m.cfg))
	h.Width = m.width
	m.header = h
	m.debug.Add(debug.KindIdP, "header remounted")
	return m, h.Init()
}

func (m *Model) resync() {
	r, ok := m.provider.(Resyncer)
	if !ok {
		return
	}
	if err := r.Resync(); err != nil {
		m.debug.Addf(debug.KindErr, "resync: %v", err)
		return
	}
	m.debug.Add(debug.KindIdP, "resync requested")
}

func (m Model) login(digit string) tea.Cmd {
	starter, ok := m.provider.(LoginStarter)
	if !ok {
		return nil
	}
	i := int(digit[0] - '1')
	if i < 0 || i >= len(m.cfg.Accounts) {
		return nil
	}
	uid := m.cfg.Accounts[i].UID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()
		_, err := starter.StartSession(ctx, uid)
		return loginMsg{UID: uid, Err: err}
	}
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	sections := []string{
		m.header.View(),
		m.page(),
	}
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	rows := strings.Count(view, "\n") + 1
	if pad := m.height - 1 - rows; pad > 0 {
		view += strings.Repeat("\n", pad)
	}
	view += "\n" + theme.StyleDimmed.Render(m.hint())

	if menu := m.header.MenuView(); menu != "" {
		x, y := m.header.MenuOrigin()
		view = splice(view, menu, x, y)
	}
	if m.showDebug {
		view = splice(view, m.debug.View(m.width-4, m.height-2), 1, 1)
	}
	if m.showHelp {
		view = splice(view, m.help.View(), 2, 1)
	}
	return view
}

func (m Model) hint() string {
	switch {
	case m.header.Focused():
		return "  type to search  ctrl+x:clear  esc:done"
	case m.header.MenuOpen():
		return "  p:my account  n:new template  s:sign out  esc:close"
	}
	return "  /:search  m:account  h:home  l:login  backspace:back  r:resync  d:event log  ?:keys  q:quit"
}

// page renders the body for the current route.
func (m Model) page() string {
	route := m.Route()
	switch route.Kind {
	case router.KindLogin:
		return m.loginPage()
	case router.KindProfile:
		return m.profilePage(route.Param)
	case router.KindTemplateCreate:
		return m.titled("NEW TEMPLATE", theme.StyleDimmed.Render("  The template editor opens here."))
	default:
		return m.gallery.View()
	}
}

func (m Model) titled(title string, body ...string) string {
	lines := append([]string{theme.StyleHeader.Render(title), ""}, body...)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) loginPage() string {
	if _, ok := m.provider.(LoginStarter); !ok || len(m.cfg.Accounts) == 0 {
		return m.titled("SIGN IN", theme.StyleDimmed.Render("  Sign in with your identity provider."))
	}
	lines := []string{theme.StyleDimmed.Render("  Choose an account:")}
	for i, a := range m.cfg.Accounts {
		if i >= 9 {
			break
		}
		label := a.Email
		if a.DisplayName != "" {
			label = a.DisplayName + " <" + a.Email + ">"
		}
		lines = append(lines, fmt.Sprintf("  %d  %s", i+1, label))
	}
	return m.titled("SIGN IN", lines...)
}

func (m Model) profilePage(uid string) string {
	s, ok := session.Current(m.header.State())
	if !ok || s.UID != uid {
		return m.titled("MY ACCOUNT", theme.StyleDimmed.Render("  Not signed in as "+uid+"."))
	}
	rows := []string{
		"  uid    " + s.UID,
		"  email  " + s.Email,
	}
	if s.DisplayName != "" {
		rows = append(rows, "  name   "+s.DisplayName)
	}
	if m.cfg.Allowlist().IsAdmin(s.UID) {
		rows = append(rows, "  role   "+theme.GlyphAdmin+" admin")
	}
	return m.titled("MY ACCOUNT", rows...)
}

// ErrNoProvider is returned by Run when no provider is given.
var ErrNoProvider = errors.New("no identity provider")

// Run starts the TUI and blocks until it exits.
func Run(c *cache.Client, p session.Provider, cfg *config.Config, opts ...tea.ProgramOption) error {
	if p == nil {
		return ErrNoProvider
	}
	_, err := tea.NewProgram(New(c, p, cfg), opts...).Run()
	return err
}
