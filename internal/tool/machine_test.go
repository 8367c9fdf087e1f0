package tool

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/scrawl/internal/scene"
)

// recorder collects the lifecycle names a machine invokes.
type recorder struct {
	calls []string
	fail  map[Lifecycle]error
	hook  map[Lifecycle]func()
	seen  []Event
}

func (r *recorder) handlers() Handlers {
	h := Handlers{}
	for _, lc := range Lifecycles {
		lc := lc
		h[lc] = func(ctx context.Context, ev Event) error {
			r.calls = append(r.calls, lc.String())
			r.seen = append(r.seen, ev)
			if fn := r.hook[lc]; fn != nil {
				fn()
			}
			return r.fail[lc]
		}
	}
	return h
}

type fakeShortcuts struct {
	bound  []string
	action func()
}

func (f *fakeShortcuts) Bind(keys []string, action func()) func() {
	f.bound = keys
	f.action = action
	return func() {
		f.bound = nil
		f.action = nil
	}
}

type fakeSink struct{ last scene.Point }

func (s *fakeSink) SetMouse(p scene.Point) { s.last = p }

func newTestMachine(opts ...Option) (*Machine, *recorder) {
	r := &recorder{}
	m := NewMachine(opts...)
	m.Bind(r.handlers(), nil)
	m.Activate()
	return m, r
}

func at(x, y float64) Event {
	return Event{Point: scene.Pt(x, y)}
}

func TestMachineSequences(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		steps func(m *Machine)
		want  []string
	}{
		{
			name: "single click",
			steps: func(m *Machine) {
				m.PointerDown(ctx, at(0, 0))
				m.PointerUp(ctx, at(0, 0))
			},
			want: []string{"begin", "press", "release"},
		},
		{
			name: "drag",
			steps: func(m *Machine) {
				m.PointerDown(ctx, at(0, 0))
				m.PointerMove(ctx, at(1, 1))
				m.PointerMove(ctx, at(2, 2))
				m.PointerUp(ctx, at(2, 2))
			},
			want: []string{"begin", "press", "drag", "drag", "release"},
		},
		{
			name: "move between presses",
			steps: func(m *Machine) {
				m.PointerDown(ctx, at(0, 0))
				m.PointerUp(ctx, at(0, 0))
				m.PointerMove(ctx, at(5, 5))
				m.PointerDown(ctx, at(5, 5))
				m.PointerUp(ctx, at(5, 5))
			},
			want: []string{"begin", "press", "release", "move", "press", "release"},
		},
		{
			name: "move before drawing ignored",
			steps: func(m *Machine) {
				m.PointerMove(ctx, at(1, 1))
			},
			want: nil,
		},
		{
			name: "stale pointer up ignored",
			steps: func(m *Machine) {
				m.PointerUp(ctx, at(1, 1))
				m.PointerDown(ctx, at(0, 0))
				m.PointerUp(ctx, at(0, 0))
				m.PointerUp(ctx, at(0, 0))
			},
			want: []string{"begin", "press", "release"},
		},
		{
			name: "end then new session",
			steps: func(m *Machine) {
				m.PointerDown(ctx, at(0, 0))
				m.PointerUp(ctx, at(0, 0))
				m.End(ctx)
				m.PointerDown(ctx, at(1, 1))
			},
			want: []string{"begin", "press", "release", "end", "begin", "press"},
		},
		{
			name: "end outside session is a no-op",
			steps: func(m *Machine) {
				m.End(ctx)
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, r := newTestMachine()
			tt.steps(m)
			if !reflect.DeepEqual(r.calls, tt.want) {
				t.Errorf("calls = %v, want %v", r.calls, tt.want)
			}
		})
	}
}

func TestMachineSessionState(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMachine()

	m.PointerDown(ctx, at(0, 0))
	want := Session{IsDrawing: true, IsDragging: true, IsPressing: true, PressCount: 1}
	if got := m.Session(); got != want {
		t.Errorf("after down = %+v, want %+v", got, want)
	}

	m.PointerUp(ctx, at(0, 0))
	want = Session{IsDrawing: true, PressCount: 1}
	if got := m.Session(); got != want {
		t.Errorf("after up = %+v, want %+v", got, want)
	}

	m.PointerDown(ctx, at(0, 0))
	if got := m.Session().PressCount; got != 2 {
		t.Errorf("PressCount = %d, want 2", got)
	}

	m.End(ctx)
	if got := m.Session(); got != (Session{}) {
		t.Errorf("after end = %+v, want idle", got)
	}
}

func TestMachineInactive(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}
	m := NewMachine()
	m.Bind(r.handlers(), nil)

	m.PointerDown(ctx, at(0, 0))
	if len(r.calls) != 0 {
		t.Errorf("inactive machine invoked %v", r.calls)
	}
}

func TestMachineDeactivateEndsSession(t *testing.T) {
	ctx := context.Background()
	m, r := newTestMachine()

	m.PointerDown(ctx, at(0, 0))
	m.Deactivate(ctx)

	want := []string{"begin", "press", "end"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("calls = %v, want %v", r.calls, want)
	}
	if m.IsActive() {
		t.Error("IsActive() = true after Deactivate")
	}

	m.PointerDown(ctx, at(0, 0))
	if len(r.calls) != 3 {
		t.Errorf("deactivated machine invoked %v", r.calls[3:])
	}
}

func TestMachineHandlerErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	var reported []error
	m, r := newTestMachine(WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))
	boom := errors.New("boom")
	r.fail = map[Lifecycle]error{Press: boom}

	m.PointerDown(ctx, at(0, 0))

	want := Session{IsDrawing: true, IsDragging: true, IsPressing: true, PressCount: 1}
	if got := m.Session(); got != want {
		t.Errorf("session = %+v, want %+v", got, want)
	}
	if len(reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(reported))
	}
	var herr *HandlerRuntimeError
	if !errors.As(reported[0], &herr) || herr.Lifecycle != Press || !errors.Is(herr, boom) {
		t.Errorf("reported = %v", reported[0])
	}
	if !IsHandlerError(reported[0]) {
		t.Error("IsHandlerError() = false")
	}

	m.PointerMove(ctx, at(1, 1))
	if r.calls[len(r.calls)-1] != "drag" {
		t.Errorf("machine stopped after error: %v", r.calls)
	}
}

func TestMachineShortcuts(t *testing.T) {
	ctx := context.Background()
	keys := &fakeShortcuts{}
	m, r := newTestMachine(WithShortcuts(keys))

	m.PointerDown(ctx, at(0, 0))
	if !reflect.DeepEqual(keys.bound, FinishKeys) {
		t.Fatalf("bound = %v, want %v", keys.bound, FinishKeys)
	}

	keys.action()
	if keys.bound != nil {
		t.Error("finish keys still bound after end")
	}
	if got := r.calls[len(r.calls)-1]; got != "end" {
		t.Errorf("last call = %s, want end", got)
	}
	if m.Session().IsDrawing {
		t.Error("session still drawing")
	}
}

func TestMachineEndFromCallbackIsDeferred(t *testing.T) {
	ctx := context.Background()
	m, r := newTestMachine()

	var during Session
	r.hook = map[Lifecycle]func(){
		Begin: func() {
			m.End(ctx)
			during = m.Session()
		},
	}

	m.PointerDown(ctx, at(0, 0))

	want := []string{"begin", "press", "end"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("calls = %v, want %v", r.calls, want)
	}
	if !during.IsDrawing {
		t.Error("End took effect inside the callback")
	}
	if m.Session().IsDrawing {
		t.Error("deferred End did not run")
	}
}

func TestMachineLocalCoordinates(t *testing.T) {
	ctx := context.Background()
	layer := scene.NewLayer("tool")
	layer.Transform = scene.Transform{Offset: scene.Pt(10, 20), Scale: 2}
	sink := &fakeSink{}

	r := &recorder{}
	m := NewMachine(WithTransformer(layer))
	m.Bind(r.handlers(), sink)
	m.Activate()

	m.PointerDown(ctx, at(30, 40))

	want := layer.GlobalToLocal(scene.Pt(30, 40))
	if sink.last != want {
		t.Errorf("sink = %v, want %v", sink.last, want)
	}
	for _, ev := range r.seen {
		if ev.Local != want || ev.Point != scene.Pt(30, 40) {
			t.Errorf("event = %+v", ev)
		}
		if ev.PointerType != PointerMouse {
			t.Errorf("PointerType = %q", ev.PointerType)
		}
	}
}

func TestMachineEndClearsGuides(t *testing.T) {
	ctx := context.Background()
	sc := scene.New()
	sc.GuideLayer().Add(scene.NewCircle(scene.Pt(0, 0), 2))

	m, _ := newTestMachine(WithGuideLayer(sc.GuideLayer()))
	m.PointerDown(ctx, at(0, 0))
	m.End(ctx)

	if n := sc.GuideLayer().Len(); n != 0 {
		t.Errorf("guide layer has %d items after end", n)
	}
}

func TestMachineRebindDropsOldHandlers(t *testing.T) {
	ctx := context.Background()
	m, old := newTestMachine()
	m.PointerDown(ctx, at(0, 0))

	fresh := &recorder{}
	m.Bind(fresh.handlers(), nil)
	m.PointerMove(ctx, at(1, 1))

	if len(old.calls) != 2 {
		t.Errorf("old handlers fired after rebind: %v", old.calls)
	}
	if !reflect.DeepEqual(fresh.calls, []string{"drag"}) {
		t.Errorf("fresh calls = %v", fresh.calls)
	}

	m.Bind(nil, nil)
	m.PointerUp(ctx, at(1, 1))
	if m.Session().IsPressing {
		t.Error("nil handler set blocked the transition")
	}
}
