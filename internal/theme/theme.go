// Package theme provides the Lip Gloss color palette, glyphs and reusable
// styles for the header. It is a leaf package with no internal imports to
// avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Brand colors.
var (
	ColorBrand    = lipgloss.Color("#498FCD")
	ColorAvatarBg = lipgloss.Color("#1d4ed8")
	ColorAvatarFg = lipgloss.Color("#f9fafb")
)

// Surface colors.
var (
	ColorInputBg  = lipgloss.Color("#e5e7eb")
	ColorInputFg  = lipgloss.Color("#111827")
	ColorButtonBg = lipgloss.Color("#d1d5db")
	ColorMenuBg   = lipgloss.Color("#ffffff")
	ColorMenuFg   = lipgloss.Color("#111827")
)

// Text colors.
var (
	ColorTextLight = lipgloss.Color("#6b7280")
	ColorTextDark  = lipgloss.Color("#111827")
	ColorSignOut   = lipgloss.Color("#f87171")
	ColorSignOutHi = lipgloss.Color("#7f1d1d")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#d1d5db")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorAccent  = lipgloss.Color("#7c3aed")
)

// Glyphs.
const (
	GlyphLogo    = "◆"
	GlyphSearch  = "⌕"
	GlyphClear   = "x"
	GlyphSignOut = "⇥"
	GlyphPhoto   = "◉"
	GlyphAdmin   = "★"
)

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleLogo = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBrand)

	StyleSearch = lipgloss.NewStyle().
			Background(ColorInputBg).
			Foreground(ColorInputFg).
			Padding(0, 1)

	StyleClear = lipgloss.NewStyle().
			Background(ColorButtonBg).
			Foreground(ColorTextDark).
			Padding(0, 1)

	StyleButton = lipgloss.NewStyle().
			Background(ColorButtonBg).
			Foreground(ColorTextDark).
			Padding(0, 2)

	StyleAvatar = lipgloss.NewStyle().
			Bold(true).
			Background(ColorAvatarBg).
			Foreground(ColorAvatarFg).
			Padding(0, 1)

	StyleMenu = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Background(ColorMenuBg).
			Foreground(ColorMenuFg).
			Padding(0, 2)

	StyleMenuItem = lipgloss.NewStyle().
			Foreground(ColorTextLight)

	StyleSignOut = lipgloss.NewStyle().
			Foreground(ColorSignOut)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)
)

// KindColor returns the color used for a debug log kind.
func KindColor(kind string) lipgloss.Color {
	switch kind {
	case "idp":
		return ColorBrand
	case "err":
		return ColorDanger
	case "nav":
		return ColorAccent
	case "anim":
		return ColorHealthy
	case "filt":
		return ColorWarning
	default:
		return ColorDimmed
	}
}
