package app

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// splice draws overlay over view with its top-left corner at (x, y),
// keeping the escape sequences of the covered text intact on both sides.
// Rows below the end of view are appended.
func splice(view, overlay string, x, y int) string {
	if overlay == "" {
		return view
	}
	rows := strings.Split(view, "\n")
	over := strings.Split(overlay, "\n")
	for len(rows) < y+len(over) {
		rows = append(rows, "")
	}

	for i, o := range over {
		row := rows[y+i]
		w := ansi.StringWidth(row)

		var b strings.Builder
		b.WriteString(ansi.Truncate(row, x, ""))
		if w < x {
			b.WriteString(strings.Repeat(" ", x-w))
		}
		b.WriteString("\x1b[0m")
		b.WriteString(o)
		b.WriteString("\x1b[0m")
		if end := x + ansi.StringWidth(o); end < w {
			b.WriteString(ansi.TruncateLeft(row, end, ""))
		}
		rows[y+i] = b.String()
	}
	return strings.Join(rows, "\n")
}
