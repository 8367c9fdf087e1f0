package renderer

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/scrawl/internal/renderer/core"
)

// LineLayout maps the 1-based rune columns of one buffer line to display
// columns, expanding tabs and measuring grapheme clusters.
type LineLayout struct {
	cells []core.Cell
	// starts[i] is the display column of rune column i+1. One extra entry
	// holds the end of the line.
	starts []int
}

// LayoutLine lays out line with the given tab width and style.
func LayoutLine(line string, tabWidth int, style core.Style) *LineLayout {
	if tabWidth < 1 {
		tabWidth = 4
	}
	l := &LineLayout{}
	col := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		runes := g.Runes()
		for range runes {
			l.starts = append(l.starts, col)
		}
		if runes[0] == '\t' {
			n := tabWidth - col%tabWidth
			for i := 0; i < n; i++ {
				l.cells = append(l.cells, core.NewStyledCell(' ', style))
			}
			col += n
			continue
		}
		w := g.Width()
		if w == 0 {
			// Control characters get a visible placeholder.
			l.cells = append(l.cells, core.NewStyledCell('?', style.Dim()))
			col++
			continue
		}
		l.cells = append(l.cells, core.Cell{Rune: runes[0], Width: w, Style: style})
		for i := 1; i < w; i++ {
			l.cells = append(l.cells, core.Cell{Width: 0, Style: style})
		}
		col += w
	}
	l.starts = append(l.starts, col)
	return l
}

// Width returns the display width of the line.
func (l *LineLayout) Width() int {
	return len(l.cells)
}

// Cells returns the laid out cells. Wide characters are followed by
// zero-width continuation cells.
func (l *LineLayout) Cells() []core.Cell {
	return l.cells
}

// VisualColumn returns the display column (0-based) of rune column col
// (1-based). Columns past the end map past the last cell.
func (l *LineLayout) VisualColumn(col int) int {
	if col < 1 {
		return 0
	}
	if col > len(l.starts) {
		return l.starts[len(l.starts)-1] + col - len(l.starts)
	}
	return l.starts[col-1]
}

// BufferColumn returns the rune column (1-based) shown at display column
// vis. Positions past the end map to the column after the last rune.
func (l *LineLayout) BufferColumn(vis int) int {
	for i := len(l.starts) - 1; i >= 0; i-- {
		if l.starts[i] <= vis {
			return i + 1
		}
	}
	return 1
}

// Style applies style to rune columns [start, end).
func (l *LineLayout) Style(start, end int, fn func(core.Style) core.Style) {
	from, to := l.VisualColumn(start), l.VisualColumn(end)
	for i := from; i < to && i < len(l.cells); i++ {
		l.cells[i].Style = fn(l.cells[i].Style)
	}
}
