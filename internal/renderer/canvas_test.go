package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/scrawl/internal/renderer/backend"
	"github.com/dshills/scrawl/internal/renderer/core"
	"github.com/dshills/scrawl/internal/scene"
)

func testViewport() Viewport {
	return Viewport{Rect: core.RectFromSize(0, 0, 5, 10), CellWidth: 8, CellHeight: 16}
}

func TestViewportMapping(t *testing.T) {
	v := testViewport()
	v.Rect = core.RectFromSize(1, 2, 5, 10)

	if got := v.ToCanvas(4, 2); got != scene.Pt(16, 16) {
		t.Errorf("ToCanvas = %v", got)
	}
	pos, ok := v.ToCell(scene.Pt(17, 33))
	if !ok || pos != (core.ScreenPos{Row: 3, Col: 4}) {
		t.Errorf("ToCell = %v %v", pos, ok)
	}
	if _, ok := v.ToCell(scene.Pt(-1, 0)); ok {
		t.Error("negative x should be outside")
	}

	// Round trip through the cell origin.
	p := v.ToCanvas(7, 4)
	if pos, _ := v.ToCell(p); pos != (core.ScreenPos{Row: 4, Col: 7}) {
		t.Errorf("round trip = %v", pos)
	}
}

func TestDrawSceneStroke(t *testing.T) {
	b := backend.NewNullBackend(10, 5)
	_ = b.Init()

	sc := scene.New()
	ln := scene.NewLine(scene.Pt(0, 0), scene.Pt(72, 0))
	ln.Style.StrokeColor = "red"
	sc.ToolLayer().Add(ln)
	guide := scene.NewLine(scene.Pt(0, 32), scene.Pt(16, 32))
	guide.Style.StrokeColor = "blue"
	sc.GuideLayer().Add(guide)

	DrawScene(b, testViewport(), sc, core.ColorWhite)

	if got := b.Row(0); got != strings.Repeat("•", 10) {
		t.Errorf("row 0 = %q", got)
	}
	if c := b.GetCell(3, 0); c.Style.Foreground != core.ColorRed || c.Style.Background != core.ColorWhite {
		t.Errorf("stroke style = %+v", c.Style)
	}
	if got := b.Row(2); got != "···       " {
		t.Errorf("guide row = %q", got)
	}
	if got := b.Row(4); got != strings.Repeat(" ", 10) {
		t.Errorf("empty row = %q", got)
	}
}

func TestDrawSceneFill(t *testing.T) {
	b := backend.NewNullBackend(10, 5)
	_ = b.Init()

	sc := scene.New()
	rect := scene.NewRectangle(scene.Pt(8, 16), scene.Pt(32, 48))
	rect.Style.FillColor = "blue"
	sc.ToolLayer().Add(rect)

	DrawScene(b, testViewport(), sc, core.ColorWhite)

	blue := core.ColorFromRGB(0, 0, 255)
	tests := []struct {
		x, y int
		want core.Color
	}{
		{1, 1, blue},
		{3, 2, blue},
		{0, 0, core.ColorWhite},
		{4, 1, core.ColorWhite},
		{2, 3, core.ColorWhite},
	}
	for _, tt := range tests {
		if got := b.GetCell(tt.x, tt.y).Style.Background; got != tt.want {
			t.Errorf("cell (%d,%d) background = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDrawSceneSkipsHiddenAndFar(t *testing.T) {
	b := backend.NewNullBackend(10, 5)
	_ = b.Init()

	sc := scene.New()
	hidden := scene.NewLine(scene.Pt(0, 0), scene.Pt(72, 0))
	hidden.Style.StrokeColor = "red"
	hidden.Visible = false
	far := scene.NewLine(scene.Pt(0, 16), scene.Pt(1e12, 16))
	far.Style.StrokeColor = "red"
	sc.ToolLayer().Add(hidden, far)

	DrawScene(b, testViewport(), sc, core.ColorWhite)

	if got := b.Row(0); got != strings.Repeat(" ", 10) {
		t.Errorf("hidden item drawn: %q", got)
	}
	if got := b.Row(1); got != strings.Repeat(" ", 10) {
		t.Errorf("far segment drawn: %q", got)
	}
}
