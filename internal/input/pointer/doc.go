// Package pointer turns raw terminal mouse reports into pointer gestures.
//
// Terminals report the set of buttons currently held rather than discrete
// transitions. Handler diffs successive reports into press, drag, move and
// release events, counts multi-clicks, and converts wheel ticks into the
// signed raw deltas the literal controller scrubs with.
//
//	h := pointer.NewHandler(pointer.DefaultConfig())
//	ev := h.Handle(pointer.Report{Position: pos, Button: pointer.ButtonLeft})
//	switch ev.Action {
//	case pointer.ActionPress:
//	    // ...
//	}
//
// # Wheel
//
// One wheel tick is WheelUnits raw units, or WheelUnitsFine when Shift is
// held. Horizontal ticks always use the fine unit. Up and right are positive.
//
// # Thread Safety
//
// Handler is safe for concurrent use.
package pointer
