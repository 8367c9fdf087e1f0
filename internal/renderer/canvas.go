package renderer

import (
	"math"

	"github.com/dshills/scrawl/internal/renderer/core"
	"github.com/dshills/scrawl/internal/scene"
)

// Surface receives drawn cells. Every backend is a Surface.
type Surface interface {
	SetCell(x, y int, cell core.Cell)
}

// Runes used to paint the canvas.
const (
	strokeRune = '•'
	guideRune  = '·'
	fillRune   = ' '
	handleRune = '◆'
)

// Viewport maps canvas units onto a screen rectangle. Canvas (0,0) is the
// top left corner of the first cell.
type Viewport struct {
	Rect       core.ScreenRect
	CellWidth  float64
	CellHeight float64
}

// ToCanvas returns the canvas position of the top left corner of the
// screen cell (x, y).
func (v Viewport) ToCanvas(x, y int) scene.Point {
	return scene.Pt(float64(x-v.Rect.Left)*v.CellWidth, float64(y-v.Rect.Top)*v.CellHeight)
}

// ToCell returns the screen cell containing canvas position p, and whether
// it lies inside the viewport.
func (v Viewport) ToCell(p scene.Point) (core.ScreenPos, bool) {
	pos := core.ScreenPos{
		Col: v.Rect.Left + int(math.Floor(p.X/v.CellWidth)),
		Row: v.Rect.Top + int(math.Floor(p.Y/v.CellHeight)),
	}
	return pos, v.Rect.Contains(pos)
}

// Contains reports whether the screen cell (x, y) is on the canvas.
func (v Viewport) Contains(x, y int) bool {
	return v.Rect.Contains(core.ScreenPos{Row: y, Col: x})
}

// DrawScene paints the background and every visible layer of sc.
func DrawScene(s Surface, v Viewport, sc *scene.Scene, bg core.Color) {
	base := core.DefaultStyle().WithBackground(bg)
	for y := v.Rect.Top; y < v.Rect.Bottom; y++ {
		for x := v.Rect.Left; x < v.Rect.Right; x++ {
			s.SetCell(x, y, core.NewStyledCell(' ', base))
		}
	}
	if sc == nil {
		return
	}

	fills := make(map[core.ScreenPos]core.Color)
	for _, layer := range sc.Layers() {
		if !layer.Visible {
			continue
		}
		r := strokeRune
		if layer.Name == scene.GuideLayerName {
			r = guideRune
		}
		layer.Walk(func(it *scene.Item) {
			drawItem(s, v, layer, it, r, bg, fills)
		})
	}
}

func drawItem(s Surface, v Viewport, layer *scene.Layer, it *scene.Item, r rune, bg core.Color, fills map[core.ScreenPos]core.Color) {
	outline := it.Outline()
	if len(outline) == 0 {
		return
	}
	pts := make([]scene.Point, len(outline))
	for i, p := range outline {
		pts[i] = layer.LocalToGlobal(p)
	}

	if fill, ok := core.ColorFromCSS(it.Style.FillColor, bg); ok && it.IsClosed() {
		fillPolygon(s, v, pts, fill, fills)
	}

	stroke, ok := core.ColorFromCSS(it.Style.StrokeColor, bg)
	if !ok {
		return
	}
	plot := func(pos core.ScreenPos) {
		if !v.Rect.Contains(pos) {
			return
		}
		back, filled := fills[pos]
		if !filled {
			back = bg
		}
		st := core.DefaultStyle().WithForeground(stroke).WithBackground(back)
		s.SetCell(pos.Col, pos.Row, core.NewStyledCell(r, st))
	}

	if len(pts) == 1 {
		pos, _ := v.ToCell(pts[0])
		plot(pos)
		return
	}
	segment := func(p, q scene.Point) {
		a, _ := v.ToCell(p)
		b, _ := v.ToCell(q)
		if v.far(a) || v.far(b) {
			return
		}
		line(a, b, plot)
	}
	for i := 1; i < len(pts); i++ {
		segment(pts[i-1], pts[i])
	}
	if it.Closed() {
		segment(pts[len(pts)-1], pts[0])
	}
}

// maxReach bounds how far outside the viewport a segment end may lie and
// still be walked.
const maxReach = 4096

func (v Viewport) far(p core.ScreenPos) bool {
	return p.Col < v.Rect.Left-maxReach || p.Col > v.Rect.Right+maxReach ||
		p.Row < v.Rect.Top-maxReach || p.Row > v.Rect.Bottom+maxReach
}

// line walks the cells from a to b with Bresenham's algorithm.
func line(a, b core.ScreenPos, plot func(core.ScreenPos)) {
	dx := abs(b.Col - a.Col)
	dy := -abs(b.Row - a.Row)
	sx, sy := 1, 1
	if a.Col > b.Col {
		sx = -1
	}
	if a.Row > b.Row {
		sy = -1
	}
	err := dx + dy
	for {
		plot(a)
		if a == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.Col += sx
		}
		if e2 <= dx {
			err += dx
			a.Row += sy
		}
	}
}

// fillPolygon paints the cells whose centers lie inside pts (even-odd rule).
func fillPolygon(s Surface, v Viewport, pts []scene.Point, fill core.Color, fills map[core.ScreenPos]core.Color) {
	st := core.DefaultStyle().WithBackground(fill)
	for y := v.Rect.Top; y < v.Rect.Bottom; y++ {
		cy := (float64(y-v.Rect.Top) + 0.5) * v.CellHeight
		for x := v.Rect.Left; x < v.Rect.Right; x++ {
			cx := (float64(x-v.Rect.Left) + 0.5) * v.CellWidth
			if inside(pts, cx, cy) {
				pos := core.ScreenPos{Row: y, Col: x}
				fills[pos] = fill
				s.SetCell(x, y, core.NewStyledCell(fillRune, st))
			}
		}
	}
}

func inside(pts []scene.Point, x, y float64) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
