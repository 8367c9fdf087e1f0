package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/input/key"
	"github.com/dshills/scrawl/internal/input/pointer"
	"github.com/dshills/scrawl/internal/renderer"
	"github.com/dshills/scrawl/internal/renderer/backend"
	"github.com/dshills/scrawl/internal/scene"
	"github.com/dshills/scrawl/internal/tool"
)

// pageLines is how far PageUp and PageDown move the caret.
const pageLines = 10

// Interrupt payloads posted to the backend from other goroutines.
type (
	stopRequest   struct{}
	reloadRequest struct{ Path string }
	watchFailure  struct{ Err error }
)

// HandleEvent processes one backend event. It returns ErrQuit when the
// studio should exit.
func (s *Studio) HandleEvent(ctx context.Context, ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		s.handleKey(ev.Key)
	case backend.EventMouse:
		s.handlePointer(ctx, ev.Pointer)
	case backend.EventResize:
		if s.render != nil {
			s.render.Resize()
		}
	case backend.EventInterrupt:
		s.handleInterrupt(ev.Data)
	}

	if s.needsCompile {
		s.compile()
	}
	if s.quit {
		return ErrQuit
	}
	return nil
}

func (s *Studio) handleInterrupt(data any) {
	switch d := data.(type) {
	case stopRequest:
		s.quit = true
	case reloadRequest:
		s.reload()
	case watchFailure:
		s.logger.Warn("watcher", zap.Error(d.Err))
		s.setError(d.Err)
	}
}

// reload picks up an external change to the script file.
func (s *Studio) reload() {
	changed, err := s.doc.Reload()
	if err != nil {
		s.setError(err)
		return
	}
	if !changed {
		return
	}
	s.logger.Info("script reloaded", zap.String("path", s.doc.Path))
	s.compile()
	if s.compileErr == nil {
		s.setMessage("reloaded " + s.doc.Name)
	}
}

func (s *Studio) handleKey(ev key.Event) {
	s.controller.EndWheel()
	if s.keys.Dispatch(ev) {
		return
	}

	b := s.doc.Buffer
	cur := b.Cursor()
	var err error
	switch {
	case ev.IsChar():
		_, err = b.Insert(cur, string(ev.Rune))
	case ev.Modifiers.HasCtrl() || ev.Modifiers.HasAlt():
		return
	case ev.Key == key.KeyEnter:
		_, err = b.Insert(cur, "\n")
	case ev.Key == key.KeyTab:
		_, err = b.Insert(cur, "\t")
	case ev.Key == key.KeyBackspace:
		switch {
		case cur.Column > 1:
			_, err = b.Delete(buffer.NewLineRange(cur.Line, cur.Column-1, cur.Column))
		case cur.Line > 1:
			prev := buffer.Position{Line: cur.Line - 1, Column: b.LineLen(cur.Line-1) + 1}
			_, err = b.Delete(buffer.Range{Start: prev, End: cur})
		}
	case ev.Key == key.KeyDelete:
		switch {
		case cur.Column <= b.LineLen(cur.Line):
			_, err = b.Delete(buffer.NewLineRange(cur.Line, cur.Column, cur.Column+1))
		case cur.Line < b.LineCount():
			_, err = b.Delete(buffer.Range{Start: cur, End: buffer.Position{Line: cur.Line + 1, Column: 1}})
		}
	case ev.Key == key.KeyLeft:
		b.MoveCursor(0, -1)
	case ev.Key == key.KeyRight:
		b.MoveCursor(0, 1)
	case ev.Key == key.KeyUp:
		b.MoveCursor(-1, 0)
	case ev.Key == key.KeyDown:
		b.MoveCursor(1, 0)
	case ev.Key == key.KeyPageUp:
		b.SetCursor(buffer.Position{Line: max(1, cur.Line-pageLines), Column: cur.Column})
	case ev.Key == key.KeyPageDown:
		b.SetCursor(buffer.Position{Line: min(b.LineCount(), cur.Line+pageLines), Column: cur.Column})
	case ev.Key == key.KeyHome:
		b.SetCursor(buffer.Position{Line: cur.Line, Column: 1})
	case ev.Key == key.KeyEnd:
		b.SetCursor(buffer.Position{Line: cur.Line, Column: b.LineLen(cur.Line) + 1})
	}
	if err != nil {
		s.logger.Warn("edit failed", zap.Stringer("key", ev), zap.Error(err))
	}
}

func (s *Studio) handlePointer(ctx context.Context, r pointer.Report) {
	if s.render == nil {
		return
	}
	ev := s.pointer.Handle(r)
	x, y := ev.Position.X, ev.Position.Y
	region := s.render.Region(x, y)

	switch ev.Action {
	case pointer.ActionWheel:
		if region != renderer.RegionStatus {
			s.report(s.controller.ApplyGestureDelta(ev.Delta))
		}

	case pointer.ActionPress:
		s.controller.EndWheel()
		s.press(ctx, ev, region)

	case pointer.ActionDrag:
		switch {
		case s.controller.Dragging():
			s.report(s.controller.DragHandle(s.canvasPoint(x, y)))
		case s.toolPressed:
			s.toolEvent(ctx, PointerMove, ev)
		}

	case pointer.ActionMove:
		if region == renderer.RegionCanvas {
			s.toolEvent(ctx, PointerMove, ev)
		}

	case pointer.ActionRelease:
		switch {
		case s.controller.Dragging():
			s.controller.EndHandleDrag()
		case s.toolPressed:
			s.toolPressed = false
			s.toolEvent(ctx, PointerUp, ev)
		}
	}
}

func (s *Studio) press(ctx context.Context, ev pointer.Event, region renderer.Region) {
	x, y := ev.Position.X, ev.Position.Y
	switch region {
	case renderer.RegionPicker:
		if value, ok := s.render.SwatchAt(x, y); ok {
			s.report(s.controller.PickColor(value))
		}
	case renderer.RegionEditor:
		if pos, ok := s.render.EditorPosition(s.doc.Buffer, x, y); ok && ev.Button == pointer.ButtonLeft {
			s.doc.Buffer.SetCursor(pos)
		}
	case renderer.RegionCanvas:
		if ev.Button != pointer.ButtonLeft {
			return
		}
		if s.render.HandleAt(x, y) {
			s.report(s.controller.BeginHandleDrag(s.canvasPoint(x, y)))
			return
		}
		s.toolPressed = true
		s.toolEvent(ctx, PointerDown, ev)
	}
}

func (s *Studio) canvasPoint(x, y int) scene.Point {
	return s.render.Viewport().ToCanvas(x, y)
}

// toolEvent forwards a pointer event to the tool and records it.
func (s *Studio) toolEvent(ctx context.Context, kind PointerKind, ev pointer.Event) {
	te := tool.Event{
		Point:       s.canvasPoint(ev.Position.X, ev.Position.Y),
		Alt:         ev.Modifiers.HasAlt(),
		Shift:       ev.Modifiers.HasShift(),
		PointerType: tool.PointerMouse,
	}
	drawing := s.machine.Session().IsDrawing
	if kind != PointerMove || drawing {
		s.record(kind, te)
	}

	switch kind {
	case PointerDown:
		s.machine.PointerDown(ctx, te)
	case PointerMove:
		if drawing {
			s.machine.PointerMove(ctx, te)
		}
	case PointerUp:
		s.machine.PointerUp(ctx, te)
	}
}

func (s *Studio) record(kind PointerKind, ev tool.Event) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(kind, ev); err != nil {
		s.logger.Warn("recording stopped", zap.Error(err))
		s.recorder = nil
	}
}

// report shows a gesture error on the status line.
func (s *Studio) report(err error) {
	if err != nil {
		s.setError(err)
	}
}
