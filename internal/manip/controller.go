package manip

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/engine/buffer"
	"github.com/dshills/scrawl/internal/scene"
)

// Default gesture tuning.
const (
	DefaultWheelDivisor = 10.0
	DefaultBurstGap     = 400 * time.Millisecond
	DefaultHueStep      = 1.0
)

// ColorPicker is the color overlay shown over a color literal.
type ColorPicker struct {
	Visible bool
	Value   string
	Anchor  buffer.Position
}

// PointHandle is the canvas handle shown for a coordinate pair.
type PointHandle struct {
	Visible  bool
	Position scene.Point
}

// Controller binds editor gestures to literals under the cursor.
//
// Controller is not safe for concurrent use. It runs on the event loop,
// and buffer notifications it receives must be delivered there too.
type Controller struct {
	buf     TextBuffer
	patcher *Patcher
	logger  *zap.Logger
	now     func() time.Time

	divisor  float64
	burstGap time.Duration
	hueStep  float64
	onChange func()

	line   int
	active *LiteralMatch
	picker ColorPicker
	handle PointHandle

	wheel     *GestureSession
	lastWheel time.Time
	pick      *GestureSession
	drag      *GestureSession

	busy    bool
	pending bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWheelDivisor sets how many raw wheel units make one step.
func WithWheelDivisor(d float64) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.divisor = d
		}
	}
}

// WithBurstGap sets the idle time after which a wheel burst ends.
func WithBurstGap(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.burstGap = d
		}
	}
}

// WithHueStep sets the hue rotation in degrees per wheel step.
func WithHueStep(deg float64) ControllerOption {
	return func(c *Controller) {
		c.hueStep = deg
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

// WithOverlayListener sets a function called whenever the overlays change.
func WithOverlayListener(fn func()) ControllerOption {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// NewController creates a controller over buf and runs a first Refresh.
func NewController(buf TextBuffer, opts ...ControllerOption) *Controller {
	c := &Controller{
		buf:      buf,
		patcher:  NewPatcher(buf),
		logger:   zap.NewNop(),
		now:      time.Now,
		divisor:  DefaultWheelDivisor,
		burstGap: DefaultBurstGap,
		hueStep:  DefaultHueStep,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Refresh()
	return c
}

// Attach subscribes the controller to b's text and cursor changes.
func (c *Controller) Attach(b *buffer.Buffer) *buffer.Subscription {
	return b.Subscribe(c.HandleChange)
}

// HandleChange refreshes on any buffer change.
func (c *Controller) HandleChange(buffer.Change) {
	c.Refresh()
}

// LocateLiteralAtCursor returns the literal under the buffer cursor, or nil.
func (c *Controller) LocateLiteralAtCursor() *LiteralMatch {
	pos := c.buf.Cursor()
	return Locate(c.buf.LineText(pos.Line), pos.Column)
}

// Active returns the literal the overlays are bound to, or nil.
func (c *Controller) Active() *LiteralMatch {
	return c.active
}

// Overlays returns the current overlay state.
func (c *Controller) Overlays() (ColorPicker, PointHandle) {
	return c.picker, c.handle
}

// Refresh re-locates the literal under the cursor and rebinds the overlays.
// Calling it again with nothing changed does nothing. A Refresh requested
// while another one or a replace is running is folded into a single rerun.
func (c *Controller) Refresh() {
	if c.busy {
		c.pending = true
		return
	}
	c.busy = true
	for {
		c.pending = false
		c.refreshOnce()
		if !c.pending {
			break
		}
	}
	c.busy = false
}

func (c *Controller) refreshOnce() {
	pos := c.buf.Cursor()
	m := Locate(c.buf.LineText(pos.Line), pos.Column)
	if pos.Line == c.line && m.Same(c.active) {
		return
	}
	c.line = pos.Line
	c.active = m

	// Sessions on a literal the caret left are over.
	if c.wheel != nil && !tracks(c.wheel, pos.Line, m) {
		c.wheel = nil
	}
	if c.pick != nil && !tracks(c.pick, pos.Line, m) {
		c.pick = nil
	}

	picker := ColorPicker{}
	if m != nil && m.Kind == Color {
		picker = ColorPicker{Visible: true, Value: m.Hex, Anchor: buffer.Position{Line: pos.Line, Column: m.StartColumn}}
	}
	handle := PointHandle{}
	if c.drag != nil {
		handle = PointHandle{Visible: true, Position: c.drag.Point}
	} else if pair := pairOf(m); pair != nil {
		handle = PointHandle{Visible: true, Position: pair.Point}
	}

	changed := picker != c.picker || handle != c.handle
	c.picker, c.handle = picker, handle
	c.logger.Debug("literal located", zap.Int("line", pos.Line), zap.Stringer("match", m))
	if changed && c.onChange != nil {
		c.onChange()
	}
}

// tracks reports whether a session still refers to the literal m. A literal
// whose text no longer matches what the session last wrote was edited by
// hand and ends the session.
func tracks(s *GestureSession, line int, m *LiteralMatch) bool {
	if m == nil || line != s.Line {
		return false
	}
	return covers(s, m) || covers(s, m.Enclosing)
}

// covers reports whether m spans exactly the session's text.
func covers(s *GestureSession, m *LiteralMatch) bool {
	return m != nil &&
		m.Kind == s.Kind &&
		m.StartColumn == s.StartColumn &&
		m.EndColumn == s.EndColumn &&
		m.Text == s.Text
}

// pairOf returns the coordinate pair bound to the point handle for m.
func pairOf(m *LiteralMatch) *LiteralMatch {
	switch {
	case m == nil:
		return nil
	case m.Kind == CoordinatePair:
		return m
	default:
		return m.Enclosing
	}
}

// ApplyGestureDelta applies a raw wheel delta to the literal under the
// cursor. Numbers move by delta/divisor steps; colors rotate their hue.
// Consecutive calls within the burst gap share one gesture session.
func (c *Controller) ApplyGestureDelta(delta float64) error {
	m := c.active
	if m == nil {
		return ErrNoLiteral
	}
	if m.Kind == CoordinatePair {
		return ErrWrongKind
	}

	now := c.now()
	if c.wheel == nil || now.Sub(c.lastWheel) > c.burstGap {
		c.wheel = NewGestureSession(c.line, m)
	}
	c.lastWheel = now
	steps := delta / c.divisor

	s := c.wheel
	return c.apply(func() error {
		if s.Kind == Color {
			text, err := RotateHue(s.Color, steps*c.hueStep)
			if err != nil {
				return err
			}
			_, err = c.patcher.ReplaceColor(s, text)
			return err
		}
		_, err := c.patcher.ApplyLiteralEdit(s, steps)
		return err
	})
}

// EndWheel discards the current wheel session.
func (c *Controller) EndWheel() {
	c.wheel = nil
}

// PickColor writes value over the color literal under the cursor. Picks
// made while the caret stays on the literal share one session.
func (c *Controller) PickColor(value string) error {
	m := c.active
	if m == nil {
		return ErrNoLiteral
	}
	if m.Kind != Color {
		return ErrWrongKind
	}
	if c.pick == nil {
		c.pick = NewGestureSession(c.line, m)
	}
	s := c.pick
	return c.apply(func() error {
		_, err := c.patcher.ReplaceColor(s, value)
		return err
	})
}

// BeginHandleDrag starts dragging the point handle from the pointer
// position at.
func (c *Controller) BeginHandleDrag(at scene.Point) error {
	pair := pairOf(c.active)
	if pair == nil {
		return ErrNoLiteral
	}
	c.drag = NewGestureSession(c.line, pair)
	c.drag.Pointer = at
	return nil
}

// DragHandle moves the pair by the pointer motion since the last call.
func (c *Controller) DragHandle(at scene.Point) error {
	s := c.drag
	if s == nil {
		return ErrNoLiteral
	}
	d := at.Sub(s.Pointer)
	s.Pointer = at
	return c.apply(func() error {
		_, err := c.patcher.MovePoint(s, d)
		return err
	})
}

// EndHandleDrag discards the drag session.
func (c *Controller) EndHandleDrag() {
	if c.drag == nil {
		return
	}
	c.drag = nil
	c.line = 0 // force the next Refresh to rebind the handle
	c.Refresh()
}

// Dragging reports whether a handle drag is in progress.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// apply runs a replace with refreshes held back, then refreshes once.
func (c *Controller) apply(fn func() error) error {
	wasBusy := c.busy
	c.busy = true
	err := fn()
	c.busy = wasBusy
	if err != nil {
		c.logger.Debug("literal edit failed", zap.Error(err))
		return err
	}
	if !wasBusy {
		c.pending = false
		c.Refresh()
	}
	return nil
}
