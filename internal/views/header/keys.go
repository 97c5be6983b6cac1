package header

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the header's keyboard bindings.
type KeyMap struct {
	Search      key.Binding
	Submit      key.Binding
	Blur        key.Binding
	Clear       key.Binding
	Menu        key.Binding
	Profile     key.Binding
	NewTemplate key.Binding
	SignOut     key.Binding
	Login       key.Binding
	Home        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear search"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m", "enter"),
			key.WithHelp("m", "account menu"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "my account"),
		),
		NewTemplate: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new template"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sign out"),
		),
		Login: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "login"),
		),
		Home: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "home"),
		),
	}
}
