package pointer

import (
	"sync"
	"time"

	"github.com/dshills/scrawl/internal/input/key"
)

// Button represents a mouse button or wheel direction.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button.
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonWheelUp indicates a wheel tick up.
	ButtonWheelUp
	// ButtonWheelDown indicates a wheel tick down.
	ButtonWheelDown
	// ButtonWheelLeft indicates a horizontal wheel tick left.
	ButtonWheelLeft
	// ButtonWheelRight indicates a horizontal wheel tick right.
	ButtonWheelRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonWheelUp:
		return "wheel-up"
	case ButtonWheelDown:
		return "wheel-down"
	case ButtonWheelLeft:
		return "wheel-left"
	case ButtonWheelRight:
		return "wheel-right"
	default:
		return "none"
	}
}

// IsWheel returns true if this is a wheel direction.
func (b Button) IsWheel() bool {
	return b >= ButtonWheelUp && b <= ButtonWheelRight
}

// Action represents the type of pointer event.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMove indicates movement with no button held.
	ActionMove
	// ActionDrag indicates movement with a button held.
	ActionDrag
	// ActionWheel indicates a wheel tick.
	ActionWheel
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionDrag:
		return "drag"
	case ActionWheel:
		return "wheel"
	default:
		return "none"
	}
}

// Position represents a screen cell.
type Position struct {
	X int
	Y int
}

// Equal returns true if two positions are equal.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two positions.
func (p Position) Distance(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Report is one raw terminal mouse report: the button currently held, or a
// wheel direction, at a position.
type Report struct {
	Position  Position
	Button    Button
	Modifiers key.Modifier
	Timestamp time.Time
}

// Event is a decoded pointer event.
type Event struct {
	Position  Position
	Button    Button
	Modifiers key.Modifier
	Action    Action
	Timestamp time.Time

	// Clicks is 1, 2 or 3 for presses in a multi-click sequence.
	Clicks int

	// Delta is the signed raw wheel amount for ActionWheel.
	Delta float64
}

// Config configures pointer decoding.
type Config struct {
	// DoubleClickTime is the maximum time between clicks for a double-click.
	DoubleClickTime time.Duration

	// DoubleClickDistance is the maximum distance between clicks for a double-click.
	DoubleClickDistance int

	// WheelUnits is the raw delta of one wheel tick.
	WheelUnits float64

	// WheelUnitsFine is the raw delta of one tick with Shift held, or of a
	// horizontal tick.
	WheelUnitsFine float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DoubleClickTime:     400 * time.Millisecond,
		DoubleClickDistance: 1,
		WheelUnits:          10,
		WheelUnitsFine:      1,
	}
}

// Handler decodes raw reports into pointer events.
type Handler struct {
	mu     sync.Mutex
	config Config

	click *clickTracker
	drag  *dragTracker
}

// NewHandler creates a new pointer handler with the given configuration.
func NewHandler(config Config) *Handler {
	return &Handler{
		config: config,
		click:  newClickTracker(config.DoubleClickTime, config.DoubleClickDistance),
		drag:   newDragTracker(),
	}
}

// Handle decodes one report.
func (h *Handler) Handle(r Report) Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ev := Event{
		Position:  r.Position,
		Button:    r.Button,
		Modifiers: r.Modifiers,
		Timestamp: r.Timestamp,
	}

	switch {
	case r.Button.IsWheel():
		ev.Action = ActionWheel
		ev.Delta = WheelDelta(r.Button, r.Modifiers, h.config)

	case r.Button == ButtonNone && h.drag.isActive():
		ev.Action = ActionRelease
		ev.Button = h.drag.getButton()
		h.drag.end()

	case r.Button == ButtonNone:
		ev.Action = ActionMove

	case h.drag.isActive():
		ev.Action = ActionDrag
		ev.Button = h.drag.getButton()
		h.drag.update(r.Position)

	default:
		ev.Action = ActionPress
		ev.Clicks = h.click.recordClick(r.Position, r.Timestamp)
		h.drag.start(r.Position, r.Button)
	}
	return ev
}

// Reset clears all handler state.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.click.reset()
	h.drag.end()
}

// IsDragging returns true if a button is held.
func (h *Handler) IsDragging() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.drag.isActive()
}

// DragStart returns the starting position of the current drag (if any).
func (h *Handler) DragStart() (Position, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.drag.isActive() {
		return Position{}, false
	}
	return h.drag.getStartPos(), true
}

// DragDelta returns the distance dragged since the press, if a button is held.
func (h *Handler) DragDelta() (Position, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.drag.isActive() {
		return Position{}, false
	}
	return h.drag.getDelta(), true
}
