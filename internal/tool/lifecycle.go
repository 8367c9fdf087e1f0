package tool

import (
	"context"
	"sort"

	"github.com/dshills/scrawl/internal/scene"
)

// Lifecycle names one of the fixed tool callbacks.
type Lifecycle uint8

const (
	Begin Lifecycle = iota
	Press
	Drag
	Release
	Move
	End
)

// Lifecycles lists every lifecycle in declaration order.
var Lifecycles = [...]Lifecycle{Begin, Press, Drag, Release, Move, End}

var lifecycleNames = [...]string{"begin", "press", "drag", "release", "move", "end"}

// String returns the callback name scripts define.
func (l Lifecycle) String() string {
	if int(l) < len(lifecycleNames) {
		return lifecycleNames[l]
	}
	return "unknown"
}

// ParseLifecycle returns the lifecycle with the given callback name.
func ParseLifecycle(name string) (Lifecycle, bool) {
	for i, n := range lifecycleNames {
		if n == name {
			return Lifecycle(i), true
		}
	}
	return 0, false
}

// PointerType identifies the device that produced a pointer event.
type PointerType string

const (
	PointerMouse PointerType = "mouse"
	PointerPen   PointerType = "pen"
	PointerTouch PointerType = "touch"
)

// Event is a pointer event delivered to a tool callback.
type Event struct {
	// Point is the pointer position in canvas coordinates.
	Point scene.Point
	// Local is Point mapped into the tool layer. Filled in by the Machine.
	Local scene.Point

	Alt         bool
	Shift       bool
	PointerType PointerType
}

// Handler is a compiled lifecycle callback.
type Handler func(ctx context.Context, ev Event) error

// Handlers maps lifecycles to callbacks. Missing entries are no-ops.
type Handlers map[Lifecycle]Handler

// Has reports whether a callback is bound for l.
func (h Handlers) Has(l Lifecycle) bool {
	return h[l] != nil
}

// Names returns the names of the bound callbacks in lifecycle order.
func (h Handlers) Names() []string {
	names := make([]string, 0, len(h))
	for l, fn := range h {
		if fn != nil {
			names = append(names, l.String())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := ParseLifecycle(names[i])
		b, _ := ParseLifecycle(names[j])
		return a < b
	})
	return names
}

// MouseSink receives the tool-local pointer position before each callback.
type MouseSink interface {
	SetMouse(p scene.Point)
}

// Transformer maps canvas coordinates into tool-local coordinates.
type Transformer interface {
	GlobalToLocal(p scene.Point) scene.Point
}
