package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/scrawl/internal/renderer/backend"
	"github.com/dshills/scrawl/internal/renderer/core"
)

func TestDrawStatus(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		prefix string
		suffix string
	}{
		{
			name:   "fits",
			status: Status{Tool: "pencil", State: "idle", Line: 3, Column: 7, AutoRefresh: true},
			prefix: " IDLE  pencil",
			suffix: "Ln 3, Col 7 ",
		},
		{
			name: "message truncated",
			status: Status{Tool: "pencil", State: "drawing", File: "tool.lua",
				Message: "a very long message that cannot possibly fit", Line: 1, Column: 1, AutoRefresh: true},
			prefix: " DRAWING  pencil",
			suffix: "…Ln 1, Col 1 ",
		},
		{
			name:   "flags",
			status: Status{Tool: "t", State: "idle", Literal: "number 5", Recording: true, Line: 1, Column: 2},
			prefix: " IDLE ",
			suffix: "number 5 │ REC │ manual │ Ln 1, Col 2 ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := backend.NewNullBackend(60, 1)
			_ = b.Init()
			DrawStatus(b, core.RectFromSize(0, 0, 1, 60), tt.status, DefaultTheme(core.ColorCyan))
			row := b.Row(0)
			if !strings.HasPrefix(row, tt.prefix) || !strings.HasSuffix(row, tt.suffix) {
				t.Errorf("row = %q", row)
			}
		})
	}
}

func TestDrawStatusError(t *testing.T) {
	b := backend.NewNullBackend(40, 1)
	_ = b.Init()
	theme := DefaultTheme(core.ColorCyan)
	DrawStatus(b, core.RectFromSize(0, 0, 1, 40), Status{Tool: "t", State: "idle", Message: "boom", Error: true}, theme)
	if st := b.GetCell(8, 0).Style; st != theme.StatusError {
		t.Errorf("error style = %+v", st)
	}
}
