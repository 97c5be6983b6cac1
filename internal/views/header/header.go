// Package header renders the page header: branding, the live search box and
// the session affordance with its user menu.
package header

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"

	"github.com/tplgallery/header/internal/cache"
	"github.com/tplgallery/header/internal/filter"
	"github.com/tplgallery/header/internal/menu"
	"github.com/tplgallery/header/internal/motion"
	"github.com/tplgallery/header/internal/router"
	"github.com/tplgallery/header/internal/session"
	"github.com/tplgallery/header/internal/theme"
)

// Transition names reported in motion events.
const (
	MotionMenu  = "header.menu"
	MotionClear = "header.clear"
)

const (
	boxHeight = 3
	menuWidth = 30
	logoText  = "Templates"
)

// Options configures a Header.
type Options struct {
	Placeholder   string
	Admins        session.Allowlist
	Session       session.Options
	InstantMotion bool
}

// Model is the header component. Copies share the session observer and the
// filter watch; Close releases both.
type Model struct {
	cache    *cache.Client
	observer *session.Observer
	watch    *filter.Watch
	admins   session.Allowlist
	keys     KeyMap

	input   textinput.Model
	spinner spinner.Model
	menu    menu.Controller
	menuFx  motion.Transition
	clearFx motion.Transition

	lastErr error

	Width int
}

// New creates a header reading and writing the shared state in c. Nothing
// is requested from p until Init.
func New(c *cache.Client, p session.Provider, opts Options) Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = opts.Placeholder
	in.SetValue(filter.SearchTerm(c))

	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.ColorBrand)),
	)

	m := Model{
		cache:    c,
		observer: session.NewObserver(p, c, opts.Session),
		watch:    filter.NewWatch(c),
		admins:   opts.Admins,
		keys:     DefaultKeyMap(),
		input:    in,
		spinner:  sp,
		menuFx:   motion.New(MotionMenu, opts.InstantMotion),
		clearFx:  motion.New(MotionClear, opts.InstantMotion),
	}
	if in.Value() != "" {
		m.clearFx.Set(true)
		m.clearFx.Settle()
	}
	return m
}

// Init subscribes to the provider and the shared filter.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.observer.Subscribe(), m.spinner.Tick, m.watch.Next())
}

// Close unmounts the header. Results still in flight are discarded when
// they arrive.
func (m Model) Close() {
	m.observer.Unsubscribe()
	m.watch.Close()
}

// State returns the current session state.
func (m Model) State() session.State { return m.observer.State() }

// ObserverID identifies this header's session messages.
func (m Model) ObserverID() string { return m.observer.ID() }

// MenuOpen reports whether the user menu is open.
func (m Model) MenuOpen() bool { return m.menu.IsOpen() }

// Focused reports whether the search box has keyboard focus.
func (m Model) Focused() bool { return m.input.Focused() }

// SearchValue returns what the search box shows.
func (m Model) SearchValue() string { return m.input.Value() }

// ClearVisible reports whether the clear button is shown.
func (m Model) ClearVisible() bool { return m.clearFx.Shown() }

// LastError returns the most recent sign-out failure.
func (m Model) LastError() error { return m.lastErr }

// Height returns the number of rows View occupies.
func (m Model) Height() int {
	if m.lastErr != nil {
		return boxHeight + 1
	}
	return boxHeight
}

// Update handles messages addressed to the header.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case session.PushMsg:
		cmds = append(cmds, m.observer.Apply(msg))

	case session.SignOutMsg:
		applied, err := m.observer.ApplySignOut(msg)
		if applied {
			m.lastErr = err
		}

	case filter.ChangedMsg:
		if !m.watch.Owns(msg) {
			return m, nil
		}
		// The message may be an echo of an older write; the store is current.
		cur, _ := filter.Read(m.cache)
		if m.input.Value() != cur.SearchTerm {
			m.input.SetValue(cur.SearchTerm)
		}
		cmds = append(cmds, m.clearFx.Set(cur.ShowClear()), m.watch.Next())

	case motion.FrameMsg:
		cmds = append(cmds, m.menuFx.Update(msg), m.clearFx.Update(msg))

	case spinner.TickMsg:
		if _, loading := m.State().(session.Loading); !loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m, cmd = m.handleMouse(msg)
		cmds = append(cmds, cmd)

	default:
		// Cursor blink.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.syncMenu())
	return m, tea.Batch(cmds...)
}

// syncMenu closes the menu once the session is gone.
func (m *Model) syncMenu() tea.Cmd {
	if m.menu.Sync(m.State()) {
		return m.menuFx.Set(false)
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Blur), key.Matches(msg, m.keys.Submit):
			m.input.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			cmd := m.clear()
			return m, cmd
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			s := filter.SetSearchTerm(m.cache, v)
			cmd = tea.Batch(cmd, m.clearFx.Set(s.ShowClear()))
		}
		return m, cmd
	}

	if m.menu.IsOpen() {
		switch {
		case key.Matches(msg, m.keys.Profile):
			return m.activate(itemProfile)
		case key.Matches(msg, m.keys.NewTemplate):
			return m.activate(itemNewTemplate)
		case key.Matches(msg, m.keys.SignOut):
			return m.activate(itemSignOut)
		case key.Matches(msg, m.keys.Blur):
			cmd := m.leaveMenu()
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		cmd := m.clear()
		return m, cmd
	case key.Matches(msg, m.keys.Menu):
		cmd := m.toggleMenu()
		return m, cmd
	case key.Matches(msg, m.keys.Login):
		if _, ok := m.State().(session.Anonymous); ok {
			return m, navigate(router.Login)
		}
	case key.Matches(msg, m.keys.Home):
		return m, navigate(router.Home)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	menuX, menuY, menuW, menuH := m.menuRect()
	inMenu := m.menu.IsOpen() &&
		msg.X >= menuX && msg.X < menuX+menuW && msg.Y >= menuY && msg.Y < menuY+menuH
	l := m.layout()
	onAvatar := msg.Y < boxHeight && l.affordance.contains(msg.X)

	if msg.Action == tea.MouseActionMotion {
		if m.menu.IsOpen() && !inMenu && !onAvatar {
			cmd := m.leaveMenu()
			return m, cmd
		}
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if inMenu {
		row := msg.Y - menuY - 1
		for _, it := range m.menuItems() {
			if it.row == row {
				return m.activate(it.kind)
			}
		}
		return m, nil
	}
	if msg.Y >= boxHeight {
		return m, nil
	}

	switch {
	case l.logo.contains(msg.X):
		return m, navigate(router.Home)
	case l.clear.contains(msg.X):
		cmd := m.clear()
		return m, cmd
	case l.search.contains(msg.X):
		cmd := m.input.Focus()
		return m, cmd
	case onAvatar:
		switch m.State().(type) {
		case session.Anonymous:
			return m, navigate(router.Login)
		case session.Authenticated:
			cmd := m.toggleMenu()
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) clear() tea.Cmd {
	filter.Clear(m.cache)
	m.input.SetValue("")
	return m.clearFx.Set(false)
}

func (m *Model) toggleMenu() tea.Cmd {
	if m.menu.Toggle(m.State()) {
		return m.menuFx.Set(m.menu.IsOpen())
	}
	return nil
}

func (m *Model) leaveMenu() tea.Cmd {
	if m.menu.Leave() {
		return m.menuFx.Set(false)
	}
	return nil
}

type itemKind int

const (
	itemProfile itemKind = iota
	itemNewTemplate
	itemSignOut
)

func (m Model) activate(kind itemKind) (Model, tea.Cmd) {
	sess, ok := session.Current(m.State())
	if !ok {
		return m, nil
	}
	switch kind {
	case itemProfile:
		cmd := tea.Batch(m.leaveMenu(), navigate(router.Profile(sess.UID)))
		return m, cmd
	case itemNewTemplate:
		if !m.admins.IsAdmin(sess.UID) {
			return m, nil
		}
		cmd := tea.Batch(m.leaveMenu(), navigate(router.TemplateCreate))
		return m, cmd
	case itemSignOut:
		cmd := m.observer.SignOut()
		if cmd != nil {
			m.lastErr = nil
			log.Info().Str("uid", sess.UID).Msg("sign out requested")
		}
		return m, cmd
	}
	return m, nil
}

func navigate(to router.Destination) tea.Cmd {
	return func() tea.Msg { return router.NavigateMsg{To: to} }
}

// --- layout ---

type span struct{ x0, x1 int }

func (s span) contains(x int) bool { return x >= s.x0 && x < s.x1 }

type layout struct {
	logo, search, clear, affordance span
	line                            string
}

// layout renders the content row and records where each part landed, in
// screen columns, for mouse hit testing.
func (m Model) layout() layout {
	var l layout
	inner := m.Width - 4
	logo := theme.StyleLogo.Render(theme.GlyphLogo + " " + logoText)
	aff := m.affordanceView()

	clr := ""
	if m.clearFx.Visible() {
		st := theme.StyleClear
		if !m.clearFx.Shown() {
			st = st.Foreground(theme.ColorDimmed)
		}
		clr = st.Render(theme.GlyphClear)
	}

	in := m.input
	in.Width = max(inner-lipgloss.Width(logo)-lipgloss.Width(aff)-lipgloss.Width(clr)-8, 4)
	search := theme.StyleSearch.Render(theme.GlyphSearch + " " + in.View())

	x := 2
	l.logo = span{x, x + lipgloss.Width(logo)}
	x = l.logo.x1 + 1
	l.search = span{x, x + lipgloss.Width(search)}
	x = l.search.x1
	parts := logo + " " + search
	if clr != "" {
		l.clear = span{x, x + lipgloss.Width(clr)}
		parts += clr
	}

	gap := max(inner-lipgloss.Width(parts)-lipgloss.Width(aff), 1)
	l.affordance = span{2 + lipgloss.Width(parts) + gap, 2 + lipgloss.Width(parts) + gap + lipgloss.Width(aff)}
	l.line = parts + strings.Repeat(" ", gap) + aff
	return l
}

func (m Model) affordanceView() string {
	switch st := m.State().(type) {
	case session.Authenticated:
		return avatar(st.Session, theme.StyleAvatar)
	case session.Anonymous:
		return theme.StyleButton.Render("Login")
	default:
		return m.spinner.View()
	}
}

func avatar(s session.Session, style lipgloss.Style) string {
	if s.PhotoURL != "" {
		return style.Render(theme.GlyphPhoto)
	}
	return style.Render(s.Initial())
}

// View renders the header bar and, below it, a sign-out error if any.
func (m Model) View() string {
	if m.Width <= 0 {
		return ""
	}
	box := theme.StyleBorder.
		Width(m.Width-2).
		Padding(0, 1).
		Render(m.layout().line)
	if m.lastErr == nil {
		return box
	}
	notice := ansi.Truncate(m.lastErr.Error(), m.Width-2, "…")
	return lipgloss.JoinVertical(lipgloss.Left, box, theme.StyleError.Render(" "+notice))
}

// --- user menu ---

type menuItem struct {
	kind  itemKind
	row   int
	label string
}

// menuLines returns the content rows of the menu and the items among them.
func (m Model) menuLines() ([]string, []menuItem) {
	sess, ok := session.Current(m.State())
	if !ok {
		return nil, nil
	}
	inner := menuWidth - 6

	lines := []string{avatar(sess, theme.StyleAvatar.Padding(0, 2))}
	if sess.DisplayName != "" {
		lines = append(lines, theme.StyleSelected.Render(ansi.Truncate(sess.DisplayName, inner, "…")))
	}
	lines = append(lines, theme.StyleDimmed.Render(strings.Repeat("─", inner)))

	var items []menuItem
	add := func(kind itemKind, label string, style lipgloss.Style) {
		items = append(items, menuItem{kind: kind, row: len(lines), label: label})
		lines = append(lines, style.Render(label))
	}
	add(itemProfile, "My Account", theme.StyleMenuItem)
	if m.admins.IsAdmin(sess.UID) {
		add(itemNewTemplate, theme.GlyphAdmin+" Add new template", theme.StyleMenuItem)
	}
	signOut := theme.GlyphSignOut + " Sign Out"
	if m.observer.SigningOut() {
		signOut = theme.GlyphSignOut + " Signing out…"
	}
	add(itemSignOut, signOut, theme.StyleSignOut)
	return lines, items
}

func (m Model) menuItems() []menuItem {
	_, items := m.menuLines()
	return items
}

// menuRect returns the screen rectangle of the menu overlay.
func (m Model) menuRect() (x, y, w, h int) {
	lines, _ := m.menuLines()
	w = min(menuWidth, max(m.Width, 0))
	return max(m.Width-menuWidth, 0), boxHeight, w, len(lines) + 2
}

// MenuView renders the user menu overlay, revealed top-down as it opens.
// It is empty while the menu is fully hidden.
func (m Model) MenuView() string {
	if !m.menuFx.Visible() {
		return ""
	}
	lines, _ := m.menuLines()
	if len(lines) == 0 {
		return ""
	}
	box := theme.StyleMenu.Width(menuWidth - 2).Render(strings.Join(lines, "\n"))
	rows := strings.Split(box, "\n")
	n := int(math.Ceil(m.menuFx.Progress() * float64(len(rows))))
	if n <= 0 {
		return ""
	}
	return strings.Join(rows[:min(n, len(rows))], "\n")
}

// MenuOrigin returns where the app should place MenuView.
func (m Model) MenuOrigin() (x, y int) {
	x, y, _, _ = m.menuRect()
	return x, y
}
