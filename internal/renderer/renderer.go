package renderer

import (
	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/manip"
	"github.com/dshills/scrawl/internal/renderer/backend"
	"github.com/dshills/scrawl/internal/renderer/core"
	"github.com/dshills/scrawl/internal/scene"
)

// Options configures the renderer.
type Options struct {
	// EditorWidth is the code pane width in columns.
	EditorWidth int
	TabWidth    int

	// CellWidth and CellHeight are canvas units per terminal cell.
	CellWidth  float64
	CellHeight float64

	// Background and GuideColor are CSS colors.
	Background string
	GuideColor string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		EditorWidth: 60,
		TabWidth:    4,
		CellWidth:   8,
		CellHeight:  16,
		Background:  "#ffffff",
		GuideColor:  "#00aaff",
	}
}

// Region identifies what a screen cell shows.
type Region int

const (
	RegionNone Region = iota
	RegionEditor
	RegionCanvas
	RegionStatus
	RegionPicker
)

// Layout is the split of the screen into panes.
type Layout struct {
	Editor core.ScreenRect
	Canvas core.ScreenRect
	Status core.ScreenRect
}

// ComputeLayout splits a width x height screen. The code pane takes
// editorWidth columns, leaving at least a quarter of the screen for the
// canvas, and a divider column separates the two.
func ComputeLayout(width, height, editorWidth int) Layout {
	if width <= 0 || height <= 0 {
		return Layout{}
	}
	body := height - 1
	ew := min(editorWidth, width*3/4)
	return Layout{
		Editor: core.RectFromSize(0, 0, body, ew),
		Canvas: core.RectFromSize(0, ew+1, body, max(0, width-ew-1)),
		Status: core.RectFromSize(body, 0, 1, width),
	}
}

// Frame is everything one Render call draws.
type Frame struct {
	Text   TextSource
	Scene  *scene.Scene
	Active *manip.LiteralMatch
	Picker manip.ColorPicker
	Handle manip.PointHandle
	Status Status
}

// Renderer draws frames to a backend and answers hit tests against the
// last frame drawn.
type Renderer struct {
	backend backend.Backend
	opts    Options
	theme   Theme
	editor  *EditorView
	bg      core.Color

	layout    Layout
	viewport  Viewport
	swatches  []Swatch
	handle    core.ScreenPos
	hasHandle bool
}

// New creates a renderer over b.
func New(b backend.Backend, opts Options) *Renderer {
	def := DefaultOptions()
	if opts.CellWidth <= 0 || opts.CellHeight <= 0 {
		opts.CellWidth, opts.CellHeight = def.CellWidth, def.CellHeight
	}
	if opts.EditorWidth <= 0 {
		opts.EditorWidth = def.EditorWidth
	}
	bg, ok := core.ColorFromCSS(opts.Background, core.ColorWhite)
	if !ok {
		bg = core.ColorWhite
	}
	guide, ok := core.ColorFromCSS(opts.GuideColor, bg)
	if !ok {
		guide = core.ColorCyan
	}
	return &Renderer{
		backend: b,
		opts:    opts,
		theme:   DefaultTheme(guide),
		editor:  NewEditorView(opts.TabWidth),
		bg:      bg,
	}
}

// Resize recomputes the layout for the backend's current size.
func (r *Renderer) Resize() {
	w, h := r.backend.Size()
	r.layout = ComputeLayout(w, h, r.opts.EditorWidth)
	r.viewport = Viewport{Rect: r.layout.Canvas, CellWidth: r.opts.CellWidth, CellHeight: r.opts.CellHeight}
}

// Render draws f and flushes the backend.
func (r *Renderer) Render(f Frame) {
	r.Resize()
	b := r.backend

	if f.Scene != nil && f.Scene.Background != "" {
		if bg, ok := core.ColorFromCSS(f.Scene.Background, core.ColorWhite); ok {
			r.bg = bg
		}
	}
	DrawScene(b, r.viewport, f.Scene, r.bg)
	r.handle, r.hasHandle = DrawHandle(b, r.viewport, f.Handle, r.bg, r.theme)

	for y := r.layout.Editor.Top; y < r.layout.Editor.Bottom; y++ {
		b.SetCell(r.layout.Editor.Right, y, core.NewStyledCell('│', r.theme.Divider))
	}

	caret := core.ScreenPos{Row: -1}
	if f.Text != nil {
		caret = r.editor.Draw(b, r.layout.Editor, f.Text, f.Active, r.theme)
	}

	r.swatches = nil
	if f.Picker.Visible && f.Text != nil {
		if at, ok := r.editor.ScreenPos(f.Text, f.Picker.Anchor); ok {
			bounds := core.ScreenRect{Top: 0, Left: 0, Bottom: r.layout.Status.Top, Right: r.layout.Status.Right}
			r.swatches = DrawColorPicker(b, core.ScreenPos{Row: at.Row + 1, Col: at.Col}, bounds, f.Picker, r.theme)
		}
	}

	DrawStatus(b, r.layout.Status, f.Status, r.theme)

	if r.layout.Editor.Contains(caret) {
		b.ShowCursor(caret.Col, caret.Row)
	} else {
		b.HideCursor()
	}
	b.Show()
}

// Viewport returns the canvas viewport of the last frame.
func (r *Renderer) Viewport() Viewport {
	return r.viewport
}

// Layout returns the pane layout of the last frame.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// Region returns what the screen cell (x, y) showed in the last frame.
// The picker popup takes precedence over the pane beneath it.
func (r *Renderer) Region(x, y int) Region {
	pos := core.ScreenPos{Row: y, Col: x}
	if _, ok := r.SwatchAt(x, y); ok {
		return RegionPicker
	}
	switch {
	case r.layout.Editor.Contains(pos):
		return RegionEditor
	case r.layout.Canvas.Contains(pos):
		return RegionCanvas
	case r.layout.Status.Contains(pos):
		return RegionStatus
	default:
		return RegionNone
	}
}

// EditorPosition returns the buffer position under screen cell (x, y).
func (r *Renderer) EditorPosition(src TextSource, x, y int) (buffer.Position, bool) {
	return r.editor.PositionAt(src, x, y)
}

// SwatchAt returns the picker color under screen cell (x, y).
func (r *Renderer) SwatchAt(x, y int) (string, bool) {
	pos := core.ScreenPos{Row: y, Col: x}
	for _, s := range r.swatches {
		if s.Rect.Contains(pos) {
			return s.Value, true
		}
	}
	return "", false
}

// HandleAt reports whether screen cell (x, y) is on or next to the point
// handle.
func (r *Renderer) HandleAt(x, y int) bool {
	if !r.hasHandle {
		return false
	}
	return abs(x-r.handle.Col) <= 1 && abs(y-r.handle.Row) <= 1
}
