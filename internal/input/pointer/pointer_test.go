package pointer

import (
	"testing"
	"time"

	"github.com/dshills/scrawl/internal/input/key"
)

func TestButtonString(t *testing.T) {
	tests := []struct {
		button   Button
		expected string
	}{
		{ButtonNone, "none"},
		{ButtonLeft, "left"},
		{ButtonMiddle, "middle"},
		{ButtonRight, "right"},
		{ButtonWheelUp, "wheel-up"},
		{ButtonWheelDown, "wheel-down"},
		{ButtonWheelLeft, "wheel-left"},
		{ButtonWheelRight, "wheel-right"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.button.String(); got != tt.expected {
				t.Errorf("Button.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestButtonIsWheel(t *testing.T) {
	for _, b := range []Button{ButtonWheelUp, ButtonWheelDown, ButtonWheelLeft, ButtonWheelRight} {
		if !b.IsWheel() {
			t.Errorf("%s.IsWheel() = false, want true", b)
		}
	}
	for _, b := range []Button{ButtonNone, ButtonLeft, ButtonMiddle, ButtonRight} {
		if b.IsWheel() {
			t.Errorf("%s.IsWheel() = true, want false", b)
		}
	}
}

func TestPositionDistance(t *testing.T) {
	tests := []struct {
		p1, p2   Position
		expected int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{0, 0}, Position{3, 4}, 7},
		{Position{-1, -1}, Position{1, 1}, 4},
	}

	for _, tt := range tests {
		if got := tt.p1.Distance(tt.p2); got != tt.expected {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.p1, tt.p2, got, tt.expected)
		}
	}
}

func TestHandlerSequence(t *testing.T) {
	h := NewHandler(DefaultConfig())
	now := time.Unix(100, 0)

	reports := []struct {
		report Report
		action Action
		button Button
	}{
		{Report{Position: Position{1, 1}}, ActionMove, ButtonNone},
		{Report{Position: Position{2, 2}, Button: ButtonLeft, Timestamp: now}, ActionPress, ButtonLeft},
		{Report{Position: Position{4, 3}, Button: ButtonLeft}, ActionDrag, ButtonLeft},
		{Report{Position: Position{6, 3}, Button: ButtonLeft}, ActionDrag, ButtonLeft},
		{Report{Position: Position{6, 3}}, ActionRelease, ButtonLeft},
		{Report{Position: Position{7, 3}}, ActionMove, ButtonNone},
	}

	for i, r := range reports {
		ev := h.Handle(r.report)
		if ev.Action != r.action || ev.Button != r.button {
			t.Errorf("report %d: got %s/%s, want %s/%s", i, ev.Action, ev.Button, r.action, r.button)
		}
		if i == 3 {
			d, ok := h.DragDelta()
			if !ok || d != (Position{4, 1}) {
				t.Errorf("drag delta %v %v", d, ok)
			}
			start, ok := h.DragStart()
			if !ok || start != (Position{2, 2}) {
				t.Errorf("drag start %v %v", start, ok)
			}
		}
	}
	if h.IsDragging() {
		t.Error("drag should have ended")
	}
}

func TestHandlerReleaseReportsHeldButton(t *testing.T) {
	h := NewHandler(DefaultConfig())
	h.Handle(Report{Button: ButtonRight})
	// A report with a different button while one is held is still a drag.
	if ev := h.Handle(Report{Button: ButtonLeft}); ev.Action != ActionDrag || ev.Button != ButtonRight {
		t.Errorf("unexpected %s/%s", ev.Action, ev.Button)
	}
	if ev := h.Handle(Report{}); ev.Action != ActionRelease || ev.Button != ButtonRight {
		t.Errorf("unexpected %s/%s", ev.Action, ev.Button)
	}
}

func TestHandlerClicks(t *testing.T) {
	h := NewHandler(DefaultConfig())
	now := time.Unix(100, 0)
	pos := Position{X: 10, Y: 5}

	click := func(at time.Time, p Position) int {
		ev := h.Handle(Report{Position: p, Button: ButtonLeft, Timestamp: at})
		h.Handle(Report{Position: p, Timestamp: at})
		return ev.Clicks
	}

	counts := []int{
		click(now, pos),
		click(now.Add(100*time.Millisecond), pos),
		click(now.Add(200*time.Millisecond), pos),
		click(now.Add(300*time.Millisecond), pos),
		click(now.Add(1000*time.Millisecond), pos),
		click(now.Add(1100*time.Millisecond), Position{X: 40, Y: 5}),
	}
	want := []int{1, 2, 3, 1, 1, 1}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("click %d: count %d, want %d", i, counts[i], want[i])
		}
	}
}

func TestClickTrackerClockSkew(t *testing.T) {
	tracker := newClickTracker(400*time.Millisecond, 4)
	now := time.Unix(100, 0)
	tracker.recordClick(Position{}, now)
	if got := tracker.recordClick(Position{}, now.Add(-time.Second)); got != 1 {
		t.Errorf("click before the last one = %d, want 1", got)
	}
	if got := tracker.recordClick(Position{}, time.Time{}); got != 1 {
		t.Errorf("zero timestamp = %d, want 1", got)
	}
}

func TestHandlerWheel(t *testing.T) {
	h := NewHandler(DefaultConfig())

	tests := []struct {
		button Button
		mods   key.Modifier
		delta  float64
	}{
		{ButtonWheelUp, key.ModNone, 10},
		{ButtonWheelDown, key.ModNone, -10},
		{ButtonWheelUp, key.ModShift, 1},
		{ButtonWheelDown, key.ModShift, -1},
		{ButtonWheelRight, key.ModNone, 1},
		{ButtonWheelLeft, key.ModNone, -1},
	}
	for _, tt := range tests {
		ev := h.Handle(Report{Button: tt.button, Modifiers: tt.mods})
		if ev.Action != ActionWheel {
			t.Errorf("%s: action %s", tt.button, ev.Action)
		}
		if ev.Delta != tt.delta {
			t.Errorf("%s %v: delta %v, want %v", tt.button, tt.mods, ev.Delta, tt.delta)
		}
	}
	if h.IsDragging() {
		t.Error("wheel must not start a drag")
	}
}

func TestHandlerReset(t *testing.T) {
	h := NewHandler(DefaultConfig())
	h.Handle(Report{Button: ButtonLeft})
	h.Reset()
	if h.IsDragging() {
		t.Error("Reset should end the drag")
	}
	if _, ok := h.DragStart(); ok {
		t.Error("no drag start after Reset")
	}
	if ev := h.Handle(Report{}); ev.Action != ActionMove {
		t.Errorf("expected move after Reset, got %s", ev.Action)
	}
}
