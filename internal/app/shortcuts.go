package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/scene"
	"github.com/dshills/scrawl/internal/tool"
)

// Studio key bindings.
var (
	QuitKeys        = []string{"Ctrl+Q"}
	SaveKeys        = []string{"Ctrl+S"}
	RunKeys         = []string{"F5"}
	AutoRefreshKeys = []string{"Ctrl+R"}
	CopySVGKeys     = []string{"Ctrl+Y"}
	ClearKeys       = []string{"Ctrl+L"}
)

func (s *Studio) bindShortcuts() {
	s.keys.Bind(QuitKeys, func() { s.quit = true })
	s.keys.Bind(SaveKeys, s.save)
	s.keys.Bind(RunKeys, s.run)
	s.keys.Bind(AutoRefreshKeys, s.toggleAutoRefresh)
	s.keys.Bind(CopySVGKeys, s.copySVG)
	s.keys.Bind(ClearKeys, s.clearCanvas)
}

// finishBinder binds the tool's finish keys and records the end of the
// session when they fire.
type finishBinder struct {
	s *Studio
}

func (b finishBinder) Bind(keys []string, action func()) func() {
	return b.s.keys.Bind(keys, func() {
		if b.s.machine.Session().IsDrawing {
			b.s.record(PointerEnd, tool.Event{PointerType: tool.PointerMouse})
		}
		action()
	})
}

func (s *Studio) save() {
	if err := s.doc.Save(); err != nil {
		s.setError(err)
		return
	}
	s.logger.Info("saved", zap.String("path", s.doc.Path))
	s.setMessage("saved " + s.doc.Name)
}

// run recompiles the tool now, whatever the auto refresh setting.
func (s *Studio) run() {
	s.compile()
}

func (s *Studio) toggleAutoRefresh() {
	s.autoRefresh = !s.autoRefresh
	if s.autoRefresh {
		s.setMessage("auto refresh on")
		s.compile()
		return
	}
	s.setMessage("auto refresh off, F5 runs")
}

func (s *Studio) copySVG() {
	svg := s.scene.SVG(scene.SVGOptions{Width: s.cfg.Canvas.Width, Height: s.cfg.Canvas.Height})
	if err := s.copy(svg); err != nil {
		s.setError(err)
		return
	}
	s.setMessage("copied canvas as SVG")
}

func (s *Studio) clearCanvas() {
	s.machine.End(context.Background())
	s.scene.Clear()
	s.setMessage("canvas cleared")
}
