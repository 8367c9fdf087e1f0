package script

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func load(t *testing.T, s *State, code string) *glua.LFunction {
	t.Helper()
	fn, err := s.L.Load(strings.NewReader(code), chunkName)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return fn
}

func TestNewState(t *testing.T) {
	state := NewState()
	defer state.Close()

	if state.IsClosed() {
		t.Error("NewState() returned closed state")
	}
	if state.L == nil {
		t.Fatal("NewState() L is nil")
	}
	for _, lib := range []string{"string", "table", "math"} {
		if state.L.GetGlobal(lib) == glua.LNil {
			t.Errorf("library %s not opened", lib)
		}
	}
	for _, lib := range []string{"io", "os", "debug"} {
		if state.L.GetGlobal(lib) != glua.LNil {
			t.Errorf("library %s should not be opened", lib)
		}
	}
}

func TestSandboxRemovesLoaders(t *testing.T) {
	state := NewState()
	defer state.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		if v := state.L.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should be removed, got %T", name, v)
		}
		if !state.Sandbox().Removed(name) {
			t.Errorf("Removed(%q) = false", name)
		}
	}
	if state.Sandbox().Removed("print") {
		t.Error("Removed(print) = true")
	}
}

func TestSandboxPrintLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	state := NewState(WithLogger(zap.New(core)))
	defer state.Close()

	fn := load(t, state, `print("hello", 42, nil)`)
	if err := state.Call(context.Background(), fn); err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	entries := logs.FilterField(zap.String("source", "script")).All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0].Message != "hello\t42\tnil" {
		t.Errorf("message = %q", entries[0].Message)
	}
}

func TestStateCallRuntimeError(t *testing.T) {
	state := NewState()
	defer state.Close()

	fn := load(t, state, "local a = 1\nerror(\"boom\")\n")
	err := state.Call(context.Background(), fn)

	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("Call() error = %v, want *RuntimeError", err)
	}
	if rerr.Line != 2 {
		t.Errorf("Line = %d, want 2", rerr.Line)
	}
	if rerr.Message != "boom" {
		t.Errorf("Message = %q, want boom", rerr.Message)
	}
}

func TestStateCallTimeout(t *testing.T) {
	state := NewState(WithTimeout(20 * time.Millisecond))
	defer state.Close()

	fn := load(t, state, "while true do end")

	start := time.Now()
	err := state.Call(context.Background(), fn)
	if !errors.Is(err, ErrHandlerTimeout) {
		t.Fatalf("Call() error = %v, want ErrHandlerTimeout", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Call() did not stop at its deadline")
	}

	// The state stays usable after a timeout.
	fn = load(t, state, "x = 1")
	if err := state.Call(context.Background(), fn); err != nil {
		t.Errorf("Call() after timeout error = %v", err)
	}
}

func TestStateClose(t *testing.T) {
	state := NewState()
	fn := load(t, state, "x = 1")

	if err := state.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !state.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := state.Call(context.Background(), fn); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call() after Close error = %v, want ErrStateClosed", err)
	}
}

func TestStateReentrantCall(t *testing.T) {
	state := NewState()
	defer state.Close()

	inner := load(t, state, "x = 1")
	var innerErr error
	state.L.SetGlobal("reenter", state.L.NewFunction(func(L *glua.LState) int {
		innerErr = state.Call(context.Background(), inner)
		return 0
	}))

	outer := load(t, state, "reenter()")
	if err := state.Call(context.Background(), outer); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if !errors.Is(innerErr, ErrReentrantCall) {
		t.Errorf("inner Call() error = %v, want ErrReentrantCall", innerErr)
	}
}

func TestBridgeRoundTrip(t *testing.T) {
	state := NewState()
	defer state.Close()
	bridge := NewBridge(state.L)

	in := map[string]any{
		"count": 3,
		"name":  "pen",
		"on":    true,
		"list":  []any{1.0, "two"},
	}
	got, ok := bridge.ToGoValue(bridge.ToLuaValue(in)).(map[string]any)
	if !ok {
		t.Fatalf("ToGoValue() returned %T", got)
	}
	if got["count"] != 3.0 || got["name"] != "pen" || got["on"] != true {
		t.Errorf("scalars = %v", got)
	}
	list, ok := got["list"].([]any)
	if !ok || len(list) != 2 || list[1] != "two" {
		t.Errorf("list = %#v", got["list"])
	}
}

func TestBridgeCycle(t *testing.T) {
	state := NewState()
	defer state.Close()

	fn := load(t, state, "t = {}\nt.self = t")
	if err := state.Call(context.Background(), fn); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	got := NewBridge(state.L).ToGoValue(state.L.GetGlobal("t"))
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("ToGoValue() = %T", got)
	}
	if m["self"] != nil {
		t.Errorf("cycle not broken: %v", m["self"])
	}
}
