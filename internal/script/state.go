package script

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Default limits for a script state.
const (
	DefaultHandlerTimeout = 250 * time.Millisecond
	DefaultCallStackSize  = 256
	DefaultRegistrySize   = 1024 * 20
)

// chunkName is the source name runtime errors are reported against.
const chunkName = "tool"

// State wraps a gopher-lua state with a call deadline.
//
// gopher-lua's LState is not goroutine-safe. The mutex guards against
// concurrent Go callers; calls back into the same state from Go functions
// that a script invoked are rejected with ErrReentrantCall.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	running atomic.Bool

	timeout time.Duration
	logger  *zap.Logger
	sandbox *Sandbox

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets the deadline applied to every call.
// A non-positive duration disables the deadline.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// WithLogger sets the logger script output is written to.
func WithLogger(logger *zap.Logger) StateOption {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{
		timeout: DefaultHandlerTimeout,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: DefaultCallStackSize,
		RegistrySize:  DefaultRegistrySize,
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.logger)
	state.sandbox.Install()

	return state
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug, channel, coroutine and package stay closed.
}

// Call runs fn with args under the state's deadline. Errors raised by the
// script are returned as *RuntimeError.
func (s *State) Call(ctx context.Context, fn *lua.LFunction, args ...lua.LValue) error {
	if s.running.Load() {
		return ErrReentrantCall
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	s.running.Store(true)
	defer s.running.Store(false)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	err := s.doWithRecovery(func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	})
	if err == nil {
		return nil
	}

	rerr := newRuntimeError(err)
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			rerr.Err = ErrHandlerTimeout
		} else {
			rerr.Err = ctxErr
		}
	}
	return rerr
}

// doWithRecovery executes a function with panic recovery.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// runtimeErrorPattern matches "<chunk>:<line>: <message>".
var runtimeErrorPattern = regexp.MustCompile(`(?s)^` + chunkName + `:(\d+):\s*(.*)$`)

// newRuntimeError extracts the script line from a Lua error.
func newRuntimeError(err error) *RuntimeError {
	msg := err.Error()
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}

	rerr := &RuntimeError{Message: msg, Err: err}
	if m := runtimeErrorPattern.FindStringSubmatch(msg); m != nil {
		rerr.Line, _ = strconv.Atoi(m[1])
		rerr.Message = m[2]
	}
	return rerr
}

// Logger returns the logger script output goes to.
func (s *State) Logger() *zap.Logger {
	return s.logger
}

// Sandbox returns the state's sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, Call returns ErrStateClosed.
func (s *State) Close() error {
	if s.running.Load() {
		return ErrReentrantCall
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
