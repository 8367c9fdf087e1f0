package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/manip"
	"github.com/dshills/scrawl/internal/renderer/backend"
	"github.com/dshills/scrawl/internal/renderer/core"
)

func TestEditorViewDraw(t *testing.T) {
	b := backend.NewNullBackend(20, 3)
	_ = b.Init()
	buf := buffer.NewBufferFromString("local r = 5\nx\ty", buffer.WithCursor(buffer.Position{Line: 1, Column: 11}))
	active := manip.Locate(buf.LineText(1), 11)

	e := NewEditorView(4)
	theme := DefaultTheme(core.ColorCyan)
	caret := e.Draw(b, core.RectFromSize(0, 0, 3, 20), buf, active, theme)

	rows := []string{
		" 1 local r = 5      ",
		" 2 x   y            ",
		strings.Repeat(" ", 20),
	}
	for i, want := range rows {
		if got := b.Row(i); got != want {
			t.Errorf("row %d = %q, want %q", i, got, want)
		}
	}
	if caret != (core.ScreenPos{Row: 0, Col: 13}) {
		t.Errorf("caret = %v", caret)
	}
	if st := b.GetCell(13, 0).Style; st != theme.Literal {
		t.Errorf("literal style = %+v", st)
	}
	if st := b.GetCell(11, 0).Style; st == theme.Literal {
		t.Error("text outside the literal should not be highlighted")
	}
}

func TestEditorViewScroll(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = strings.Repeat("x", i)
	}
	buf := buffer.NewBufferFromString(strings.Join(lines, "\n"), buffer.WithCursor(buffer.Position{Line: 8, Column: 1}))
	b := backend.NewNullBackend(20, 3)
	_ = b.Init()

	e := NewEditorView(4)
	caret := e.Draw(b, core.RectFromSize(0, 0, 3, 20), buf, nil, DefaultTheme(core.ColorCyan))
	if e.Top != 6 {
		t.Errorf("Top = %d, want 6", e.Top)
	}
	if caret.Row != 2 {
		t.Errorf("caret row = %d, want 2", caret.Row)
	}
	if got := b.Row(0); !strings.HasPrefix(got, "  6 xxxxx") {
		t.Errorf("first row = %q", got)
	}

	buf.SetCursor(buffer.Position{Line: 1, Column: 1})
	e.Draw(b, core.RectFromSize(0, 0, 3, 20), buf, nil, DefaultTheme(core.ColorCyan))
	if e.Top != 1 {
		t.Errorf("Top after moving up = %d, want 1", e.Top)
	}
}

func TestEditorViewPositionAt(t *testing.T) {
	b := backend.NewNullBackend(20, 3)
	_ = b.Init()
	buf := buffer.NewBufferFromString("local r = 5\nx\ty")
	e := NewEditorView(4)
	e.Draw(b, core.RectFromSize(0, 0, 3, 20), buf, nil, DefaultTheme(core.ColorCyan))

	tests := []struct {
		x, y int
		want buffer.Position
		ok   bool
	}{
		{13, 0, buffer.Position{Line: 1, Column: 11}, true},
		{3, 0, buffer.Position{Line: 1, Column: 1}, true},
		{19, 0, buffer.Position{Line: 1, Column: 12}, true},
		{6, 1, buffer.Position{Line: 2, Column: 2}, true},
		{7, 1, buffer.Position{Line: 2, Column: 3}, true},
		{5, 2, buffer.Position{Line: 2, Column: 2}, true},
		{1, 0, buffer.Position{}, false},
		{25, 0, buffer.Position{}, false},
	}
	for _, tt := range tests {
		got, ok := e.PositionAt(buf, tt.x, tt.y)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("PositionAt(%d,%d) = %v %v, want %v %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
		}
	}

	pos, ok := e.ScreenPos(buf, buffer.Position{Line: 2, Column: 3})
	if !ok || pos != (core.ScreenPos{Row: 1, Col: 7}) {
		t.Errorf("ScreenPos = %v %v", pos, ok)
	}
}
