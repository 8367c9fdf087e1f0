package renderer

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/scrawl/internal/manip"
	"github.com/dshills/scrawl/internal/renderer/core"
)

// Swatch is a clickable palette entry of the color picker.
type Swatch struct {
	Rect  core.ScreenRect
	Value string
}

// swatchWidth is the number of cells per palette entry.
const swatchWidth = 2

// Palette returns the picker colors: twelve hues followed by black, gray
// and white.
func Palette() []string {
	out := make([]string, 0, 15)
	for h := 0; h < 360; h += 30 {
		out = append(out, colorful.Hsv(float64(h), 1, 1).Hex())
	}
	return append(out, "#000000", "#808080", "#ffffff")
}

// DrawColorPicker draws the picker popup with its top left corner at at,
// shifted left to fit inside bounds, and returns the swatch hit areas.
func DrawColorPicker(s Surface, at core.ScreenPos, bounds core.ScreenRect, picker manip.ColorPicker, theme Theme) []Swatch {
	if !picker.Visible {
		return nil
	}
	palette := Palette()
	width := len(palette) * swatchWidth
	if at.Col+width > bounds.Right {
		at.Col = max(bounds.Left, bounds.Right-width)
	}
	if at.Row+2 > bounds.Bottom {
		at.Row = max(bounds.Top, at.Row-3)
	}

	current, ok := core.ColorFromCSS(picker.Value, core.ColorDefault)
	if !ok {
		current = core.ColorDefault
	}
	header := " " + picker.Value + "  wheel: hue"
	for i := 0; i < width; i++ {
		c := core.NewStyledCell(' ', theme.Popup)
		if i < swatchWidth {
			c.Style = c.Style.WithBackground(current)
		} else if i-swatchWidth < len(header) {
			c.Rune = rune(header[i-swatchWidth])
		}
		s.SetCell(at.Col+i, at.Row, c)
	}

	swatches := make([]Swatch, 0, len(palette))
	for i, value := range palette {
		col, _ := core.ColorFromCSS(value, core.ColorDefault)
		rect := core.RectFromSize(at.Row+1, at.Col+i*swatchWidth, 1, swatchWidth)
		for x := rect.Left; x < rect.Right; x++ {
			s.SetCell(x, rect.Top, core.NewStyledCell(' ', theme.Popup.WithBackground(col)))
		}
		swatches = append(swatches, Swatch{Rect: rect, Value: value})
	}
	return swatches
}

// DrawHandle draws the point handle on the canvas and returns its cell.
func DrawHandle(s Surface, v Viewport, handle manip.PointHandle, bg core.Color, theme Theme) (core.ScreenPos, bool) {
	if !handle.Visible {
		return core.ScreenPos{}, false
	}
	pos, ok := v.ToCell(handle.Position)
	if !ok {
		return pos, false
	}
	s.SetCell(pos.Col, pos.Row, core.NewStyledCell(handleRune, theme.Handle.WithBackground(bg)))
	return pos, true
}
