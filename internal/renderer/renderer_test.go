package renderer

import (
	"testing"

	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/manip"
	"github.com/dshills/scrawl/internal/renderer/backend"
	"github.com/dshills/scrawl/internal/renderer/core"
	"github.com/dshills/scrawl/internal/scene"
)

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(80, 20, 30)
	if l.Editor != core.RectFromSize(0, 0, 19, 30) {
		t.Errorf("editor = %+v", l.Editor)
	}
	if l.Canvas != core.RectFromSize(0, 31, 19, 49) {
		t.Errorf("canvas = %+v", l.Canvas)
	}
	if l.Status != core.RectFromSize(19, 0, 1, 80) {
		t.Errorf("status = %+v", l.Status)
	}

	// A narrow screen keeps a quarter for the canvas.
	if l := ComputeLayout(40, 10, 60); l.Editor.Width() != 30 {
		t.Errorf("narrow editor width = %d", l.Editor.Width())
	}
	if l := ComputeLayout(0, 0, 60); !l.Editor.IsEmpty() {
		t.Error("empty screen should give empty layout")
	}
}

func TestRendererFrame(t *testing.T) {
	b := backend.NewNullBackend(80, 20)
	_ = b.Init()
	opts := DefaultOptions()
	opts.EditorWidth = 30
	r := New(b, opts)

	buf := buffer.NewBufferFromString(`c = "red"`, buffer.WithCursor(buffer.Position{Line: 1, Column: 6}))
	active := manip.Locate(buf.LineText(1), 6)
	if active == nil || active.Kind != manip.Color {
		t.Fatalf("expected color literal, got %v", active)
	}

	r.Render(Frame{
		Text:   buf,
		Scene:  scene.New(),
		Active: active,
		Picker: manip.ColorPicker{Visible: true, Value: "#ff0000", Anchor: buffer.Position{Line: 1, Column: 5}},
		Handle: manip.PointHandle{Visible: true, Position: scene.Pt(80, 32)},
		Status: Status{Tool: "pencil", State: "idle", Line: 1, Column: 6},
	})

	if b.Shows() != 1 {
		t.Errorf("Show called %d times", b.Shows())
	}
	if x, y, visible := b.CursorPosition(); !visible || x != 8 || y != 0 {
		t.Errorf("cursor = (%d,%d) visible=%v", x, y, visible)
	}

	// Picker popup sits under the literal, swatches on its second row.
	if v, ok := r.SwatchAt(7, 2); !ok || v != Palette()[0] {
		t.Errorf("SwatchAt(7,2) = %q %v", v, ok)
	}
	if v, ok := r.SwatchAt(9, 2); !ok || v != Palette()[1] {
		t.Errorf("SwatchAt(9,2) = %q %v", v, ok)
	}

	if !r.HandleAt(41, 2) || !r.HandleAt(42, 3) || r.HandleAt(45, 2) {
		t.Error("handle hit test wrong")
	}
	if c := b.GetCell(41, 2); c.Rune != handleRune {
		t.Errorf("handle cell = %q", c.Rune)
	}

	regions := []struct {
		x, y int
		want Region
	}{
		{7, 2, RegionPicker},
		{5, 10, RegionEditor},
		{40, 5, RegionCanvas},
		{0, 19, RegionStatus},
		{30, 5, RegionNone},
	}
	for _, tt := range regions {
		if got := r.Region(tt.x, tt.y); got != tt.want {
			t.Errorf("Region(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	if got := r.Viewport().ToCanvas(41, 2); got != scene.Pt(80, 32) {
		t.Errorf("ToCanvas = %v", got)
	}
	if pos, ok := r.EditorPosition(buf, 8, 0); !ok || pos != (buffer.Position{Line: 1, Column: 6}) {
		t.Errorf("EditorPosition = %v %v", pos, ok)
	}
}

func TestRendererHidesOverlays(t *testing.T) {
	b := backend.NewNullBackend(80, 20)
	_ = b.Init()
	r := New(b, DefaultOptions())

	buf := buffer.NewBufferFromString("local r")
	r.Render(Frame{Text: buf, Scene: scene.New()})

	if _, ok := r.SwatchAt(7, 2); ok {
		t.Error("no picker expected")
	}
	if r.HandleAt(41, 2) {
		t.Error("no handle expected")
	}
}

func TestPalette(t *testing.T) {
	p := Palette()
	if len(p) != 15 {
		t.Fatalf("palette size = %d", len(p))
	}
	if p[0] != "#ff0000" || p[4] != "#00ff00" || p[8] != "#0000ff" || p[14] != "#ffffff" {
		t.Errorf("unexpected palette %v", p)
	}
}
