package renderer

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/rivo/uniseg"

	"github.com/dshills/scrawl/internal/renderer/core"
)

// Status is the content of the status line.
type Status struct {
	// Tool is the tool name and State its lifecycle state.
	Tool  string
	State string

	File     string
	Modified bool

	Line, Column int

	// Literal describes the literal under the caret.
	Literal string

	// Message is shown after the file name. Error messages are highlighted.
	Message string
	Error   bool

	AutoRefresh bool
	Recording   bool
}

// left returns the mode badge and the descriptive part.
func (st Status) left() (badge, text string) {
	badge = " " + strings.ToUpper(st.State) + " "
	var sb strings.Builder
	sb.WriteString(" ")
	sb.WriteString(st.Tool)
	if st.File != "" {
		sb.WriteString(" │ ")
		sb.WriteString(st.File)
		if st.Modified {
			sb.WriteString(" [+]")
		}
	}
	if st.Message != "" {
		sb.WriteString(" │ ")
		sb.WriteString(st.Message)
	}
	return badge, sb.String()
}

func (st Status) right() string {
	var parts []string
	if st.Literal != "" {
		parts = append(parts, st.Literal)
	}
	if st.Recording {
		parts = append(parts, "REC")
	}
	if !st.AutoRefresh {
		parts = append(parts, "manual")
	}
	parts = append(parts, fmt.Sprintf("Ln %d, Col %d ", st.Line, st.Column))
	return strings.Join(parts, " │ ")
}

// DrawStatus renders st into the single row rect. The right part is kept
// whole; the message is truncated to fit.
func DrawStatus(s Surface, rect core.ScreenRect, st Status, theme Theme) {
	width := rect.Width()
	if width <= 0 {
		return
	}
	badge, text := st.left()
	right := st.right()

	rightWidth := uniseg.StringWidth(right)
	if rightWidth > width {
		right = truncate.String(right, uint(width))
		rightWidth = uniseg.StringWidth(right)
	}
	badge = truncate.String(badge, uint(width-rightWidth))
	avail := width - rightWidth - uniseg.StringWidth(badge)
	if avail <= 0 {
		text = ""
	} else {
		text = truncate.StringWithTail(text, uint(avail), "…")
	}

	textStyle := theme.Status
	if st.Error {
		textStyle = theme.StatusError
	}

	x := rect.Left
	x = drawString(s, x, rect.Top, badge, theme.StatusMode)
	x = drawString(s, x, rect.Top, text, textStyle)
	for ; x < rect.Right-rightWidth; x++ {
		s.SetCell(x, rect.Top, core.NewStyledCell(' ', textStyle))
	}
	drawString(s, x, rect.Top, right, theme.Status)
}

// drawString draws str from x and returns the column after it.
func drawString(s Surface, x, y int, str string, style core.Style) int {
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		s.SetCell(x, y, core.Cell{Rune: g.Runes()[0], Width: w, Style: style})
		for i := 1; i < w; i++ {
			s.SetCell(x+i, y, core.Cell{Style: style})
		}
		x += w
	}
	return x
}
