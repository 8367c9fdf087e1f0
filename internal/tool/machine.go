package tool

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/scene"
)

// FinishKeys are bound while a drawing session is open. Either one ends it.
var FinishKeys = []string{"Enter", "Escape"}

// ShortcutBinder binds keys to an action until the returned func is called.
type ShortcutBinder interface {
	Bind(keys []string, action func()) (unbind func())
}

// Session is the state of one drawing session.
type Session struct {
	IsDrawing  bool
	IsDragging bool
	IsPressing bool
	PressCount int
}

// Machine turns pointer input into lifecycle callbacks.
//
// Machine is not safe for concurrent use. It is driven from the event
// loop, and callbacks run synchronously on that goroutine.
type Machine struct {
	logger    *zap.Logger
	transform Transformer
	guides    *scene.Layer
	shortcuts ShortcutBinder
	onError   func(error)

	handlers Handlers
	sink     MouseSink

	active  bool
	session Session
	unbind  func()
	last    Event

	dispatching bool
	endPending  bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger callback errors are written to.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTransformer sets the canvas to tool-local mapping, usually the tool layer.
func WithTransformer(t Transformer) Option {
	return func(m *Machine) {
		m.transform = t
	}
}

// WithGuideLayer sets the layer cleared when a session ends.
func WithGuideLayer(l *scene.Layer) Option {
	return func(m *Machine) {
		m.guides = l
	}
}

// WithShortcuts sets where the finish keys are bound.
func WithShortcuts(b ShortcutBinder) Option {
	return func(m *Machine) {
		m.shortcuts = b
	}
}

// WithErrorHandler sets a function called with every callback error.
func WithErrorHandler(fn func(error)) Option {
	return func(m *Machine) {
		m.onError = fn
	}
}

// NewMachine creates an inactive machine with no handlers.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		logger:   zap.NewNop(),
		handlers: Handlers{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bind replaces the handler set. The previous set never fires again.
// sink, when non-nil, receives the tool-local pointer position before
// every callback.
func (m *Machine) Bind(h Handlers, sink MouseSink) {
	if h == nil {
		h = Handlers{}
	}
	m.handlers = h
	m.sink = sink
}

// Handlers returns the bound handler set.
func (m *Machine) Handlers() Handlers {
	return m.handlers
}

// Activate starts accepting pointer input with a fresh session.
func (m *Machine) Activate() {
	m.active = true
	m.session = Session{}
}

// Deactivate ends any open session and stops accepting input.
func (m *Machine) Deactivate(ctx context.Context) {
	if m.session.IsDrawing {
		m.End(ctx)
	}
	m.active = false
}

// IsActive reports whether the machine accepts input.
func (m *Machine) IsActive() bool {
	return m.active
}

// Session returns a copy of the current session state.
func (m *Machine) Session() Session {
	return m.session
}

// PointerDown starts a session if none is open, then presses.
func (m *Machine) PointerDown(ctx context.Context, ev Event) {
	if !m.active {
		return
	}
	ev = m.prepare(ev)
	m.dispatch(ctx, func() {
		if !m.session.IsDrawing {
			m.session.IsDrawing = true
			m.session.PressCount = 0
			m.bindShortcuts(ctx)
			m.invoke(ctx, Begin, ev)
		}
		m.session.IsDragging = true
		m.session.IsPressing = true
		m.session.PressCount++
		m.invoke(ctx, Press, ev)
	})
}

// PointerMove drags while pressed and moves otherwise. Moves outside a
// session are ignored.
func (m *Machine) PointerMove(ctx context.Context, ev Event) {
	if !m.active || !m.session.IsDrawing {
		return
	}
	ev = m.prepare(ev)
	m.dispatch(ctx, func() {
		if m.session.IsDragging {
			m.invoke(ctx, Drag, ev)
		} else {
			m.invoke(ctx, Move, ev)
		}
	})
}

// PointerUp releases the current press. An up without a matching down is
// ignored.
func (m *Machine) PointerUp(ctx context.Context, ev Event) {
	if !m.active || !m.session.IsPressing {
		return
	}
	ev = m.prepare(ev)
	m.dispatch(ctx, func() {
		m.session.IsDragging = false
		m.session.IsPressing = false
		m.invoke(ctx, Release, ev)
	})
}

// End closes the open session. Called from inside a callback, it takes
// effect once the running dispatch returns.
func (m *Machine) End(ctx context.Context) {
	if m.dispatching {
		m.endPending = true
		return
	}
	if !m.session.IsDrawing {
		return
	}
	m.unbindShortcuts()

	m.dispatching = true
	m.invoke(ctx, End, m.last)
	m.dispatching = false
	m.endPending = false

	if m.guides != nil {
		m.guides.Clear()
	}
	m.session = Session{}
	m.logger.Debug("session ended")
}

// prepare maps the event into tool-local coordinates and publishes the
// position to the mouse sink.
func (m *Machine) prepare(ev Event) Event {
	ev.Local = ev.Point
	if m.transform != nil {
		ev.Local = m.transform.GlobalToLocal(ev.Point)
	}
	if ev.PointerType == "" {
		ev.PointerType = PointerMouse
	}
	if m.sink != nil {
		m.sink.SetMouse(ev.Local)
	}
	m.last = ev
	return ev
}

func (m *Machine) dispatch(ctx context.Context, fn func()) {
	m.dispatching = true
	fn()
	m.dispatching = false
	if m.endPending {
		m.endPending = false
		m.End(ctx)
	}
}

func (m *Machine) invoke(ctx context.Context, lc Lifecycle, ev Event) {
	h := m.handlers[lc]
	if h == nil {
		return
	}
	if err := h(ctx, ev); err != nil {
		herr := &HandlerRuntimeError{Lifecycle: lc, Err: err}
		m.logger.Warn("tool callback failed",
			zap.String("lifecycle", lc.String()),
			zap.Error(err),
		)
		if m.onError != nil {
			m.onError(herr)
		}
	}
}

func (m *Machine) bindShortcuts(ctx context.Context) {
	if m.shortcuts == nil {
		return
	}
	m.unbind = m.shortcuts.Bind(FinishKeys, func() {
		m.End(context.WithoutCancel(ctx))
	})
}

func (m *Machine) unbindShortcuts() {
	if m.unbind != nil {
		m.unbind()
		m.unbind = nil
	}
}

// IsHandlerError reports whether err came from a tool callback.
func IsHandlerError(err error) bool {
	var herr *HandlerRuntimeError
	return errors.As(err, &herr)
}
