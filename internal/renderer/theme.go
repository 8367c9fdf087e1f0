package renderer

import "github.com/dshills/scrawl/internal/renderer/core"

// Theme holds the styles the renderer paints with.
type Theme struct {
	Text          core.Style
	Gutter        core.Style
	GutterCurrent core.Style
	Literal       core.Style
	Divider       core.Style
	Status        core.Style
	StatusError   core.Style
	StatusMode    core.Style
	Popup         core.Style
	Handle        core.Style
}

// DefaultTheme returns the built-in theme. The handle is drawn in guide.
func DefaultTheme(guide core.Color) Theme {
	text := core.DefaultStyle()
	return Theme{
		Text:          text,
		Gutter:        text.Dim(),
		GutterCurrent: text.Bold(),
		Literal:       text.WithForeground(core.ColorYellow).Underline().Bold(),
		Divider:       text.Dim(),
		Status:        text.Reverse(),
		StatusError:   text.WithForeground(core.ColorWhite).WithBackground(core.ColorRed).Bold(),
		StatusMode:    text.WithForeground(core.ColorBlack).WithBackground(core.ColorCyan).Bold(),
		Popup:         text.WithForeground(core.ColorWhite).WithBackground(core.ColorFromRGB(40, 40, 40)),
		Handle:        text.WithForeground(guide).Bold(),
	}
}
