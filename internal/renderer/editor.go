package renderer

import (
	"strconv"

	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/manip"
	"github.com/dshills/scrawl/internal/renderer/core"
)

// TextSource is the read side of the script buffer.
type TextSource interface {
	LineCount() int
	LineText(line int) string
	Cursor() buffer.Position
}

// EditorView draws the code pane and keeps the caret scrolled into view.
type EditorView struct {
	TabWidth int

	// Top is the first visible line; Left the first visible display column.
	Top  int
	Left int

	rect   core.ScreenRect
	gutter int
}

// NewEditorView creates an editor view.
func NewEditorView(tabWidth int) *EditorView {
	return &EditorView{TabWidth: tabWidth, Top: 1}
}

func (e *EditorView) textLeft() int {
	return e.rect.Left + e.gutter
}

func (e *EditorView) textWidth() int {
	return max(1, e.rect.Width()-e.gutter)
}

// scroll adjusts Top and Left so the caret is visible.
func (e *EditorView) scroll(caretLine, caretVis int) {
	h := e.rect.Height()
	if caretLine < e.Top {
		e.Top = caretLine
	} else if h > 0 && caretLine >= e.Top+h {
		e.Top = caretLine - h + 1
	}
	if e.Top < 1 {
		e.Top = 1
	}
	w := e.textWidth()
	if caretVis < e.Left {
		e.Left = caretVis
	} else if caretVis >= e.Left+w {
		e.Left = caretVis - w + 1
	}
}

// Draw renders src into rect. The active literal, if any, is underlined on
// the caret line. It returns the screen position of the caret.
func (e *EditorView) Draw(s Surface, rect core.ScreenRect, src TextSource, active *manip.LiteralMatch, theme Theme) core.ScreenPos {
	e.rect = rect
	count := src.LineCount()
	e.gutter = len(strconv.Itoa(max(count, 1))) + 2

	caret := src.Cursor()
	caretLayout := LayoutLine(src.LineText(caret.Line), e.TabWidth, theme.Text)
	e.scroll(caret.Line, caretLayout.VisualColumn(caret.Column))

	for row := 0; row < rect.Height(); row++ {
		y := rect.Top + row
		n := e.Top + row
		for x := rect.Left; x < rect.Right; x++ {
			s.SetCell(x, y, core.NewStyledCell(' ', theme.Text))
		}
		if n > count {
			continue
		}

		num := strconv.Itoa(n)
		numStyle := theme.Gutter
		if n == caret.Line {
			numStyle = theme.GutterCurrent
		}
		for i, r := range num {
			s.SetCell(rect.Left+e.gutter-1-len(num)+i, y, core.NewStyledCell(r, numStyle))
		}

		layout := caretLayout
		if n != caret.Line {
			layout = LayoutLine(src.LineText(n), e.TabWidth, theme.Text)
		} else if active != nil {
			lit := theme.Literal
			layout.Style(active.StartColumn, active.EndColumn, func(core.Style) core.Style { return lit })
		}

		cells := layout.Cells()
		for vis := e.Left; vis < len(cells) && vis-e.Left < e.textWidth(); vis++ {
			c := cells[vis]
			if c.Width == 0 && c.Rune == 0 {
				continue
			}
			s.SetCell(e.textLeft()+vis-e.Left, y, c)
		}
	}

	return core.ScreenPos{
		Row: rect.Top + caret.Line - e.Top,
		Col: e.textLeft() + caretLayout.VisualColumn(caret.Column) - e.Left,
	}
}

// PositionAt returns the buffer position shown at screen cell (x, y), and
// false when the cell is outside the text area.
func (e *EditorView) PositionAt(src TextSource, x, y int) (buffer.Position, bool) {
	if !e.rect.Contains(core.ScreenPos{Row: y, Col: x}) || x < e.textLeft() {
		return buffer.Position{}, false
	}
	line := e.Top + y - e.rect.Top
	if line > src.LineCount() {
		line = src.LineCount()
	}
	layout := LayoutLine(src.LineText(line), e.TabWidth, core.DefaultStyle())
	return buffer.Position{Line: line, Column: layout.BufferColumn(x - e.textLeft() + e.Left)}, true
}

// ScreenPos returns the screen cell of buffer position pos, and false when
// it is scrolled out of view.
func (e *EditorView) ScreenPos(src TextSource, pos buffer.Position) (core.ScreenPos, bool) {
	layout := LayoutLine(src.LineText(pos.Line), e.TabWidth, core.DefaultStyle())
	p := core.ScreenPos{
		Row: e.rect.Top + pos.Line - e.Top,
		Col: e.textLeft() + layout.VisualColumn(pos.Column) - e.Left,
	}
	return p, e.rect.Contains(p) && p.Col >= e.textLeft()
}
