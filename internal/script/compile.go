package script

import (
	"context"
	"errors"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/scene"
	"github.com/dshills/scrawl/internal/tool"
)

// DefaultGuideColor is used for guide marks when Bindings leaves it empty.
const DefaultGuideColor = "#00aaff"

// Bindings is everything a compiled tool can reach outside its own script.
type Bindings struct {
	// Scene receives items created by the tool. A private scene is used
	// when nil.
	Scene *scene.Scene

	// Parameters are exposed by name and through the parameters table.
	Parameters map[string]any

	Logger         *zap.Logger
	HandlerTimeout time.Duration
	GuideColor     string

	// Finish is called by the script's finish() helper.
	Finish func()

	// Random overrides the source of random(); useful in tests.
	Random func() float64
}

// Compile evaluates code and collects its lifecycle handlers.
//
// On failure the returned error is a *CompileError and the Program is nil.
// A nil *Program still answers Handlers with an empty set.
func Compile(code string, b Bindings) (*Program, error) {
	return CompileContext(context.Background(), code, b)
}

// CompileContext is Compile with a caller context bounding body evaluation.
func CompileContext(ctx context.Context, code string, b Bindings) (*Program, error) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := b.HandlerTimeout
	if timeout == 0 {
		timeout = DefaultHandlerTimeout
	}

	state := NewState(WithTimeout(timeout), WithLogger(logger))
	L := state.L

	p := &Program{
		state:  state,
		binder: newBinder(L, b),
		logger: logger,
	}
	p.binder.sandbox = state.Sandbox()
	p.globals = L.NewTable()
	p.SetMouse(scene.Point{})
	p.params = NewBridge(L).MapToTable(b.Parameters)
	caps := p.binder.capabilities(p.params)
	p.env = p.binder.newEnv(p.globals, p.params, caps)

	fn, err := L.Load(strings.NewReader(code), chunkName)
	if err != nil {
		state.Close()
		return nil, syntaxError(err, code)
	}
	L.SetFEnv(fn, p.env)

	if err := state.Call(ctx, fn); err != nil {
		state.Close()
		return nil, evalError(err, code)
	}

	p.handlers = p.collectHandlers()
	logger.Debug("tool compiled", zap.Strings("handlers", p.handlers.Names()))
	return p, nil
}

// syntaxError converts a load failure into a CompileError.
func syntaxError(err error, code string) *CompileError {
	cerr := &CompileError{Message: err.Error()}

	var cause error = err
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Cause != nil {
		cause = apiErr.Cause
	}

	var perr *parse.Error
	var lerr *lua.CompileError
	switch {
	case errors.As(cause, &perr):
		cerr.Line = perr.Pos.Line
		cerr.Message = perr.Message
		if perr.Token != "" {
			cerr.Message += " near '" + perr.Token + "'"
		}
	case errors.As(cause, &lerr):
		cerr.Line = lerr.Line
		cerr.Message = lerr.Message
	}
	cerr.Text = sourceLine(code, cerr.Line)
	return cerr
}

// evalError converts a failure while running the body into a CompileError.
func evalError(err error, code string) *CompileError {
	cerr := &CompileError{Message: err.Error()}
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		cerr.Line = rerr.Line
		cerr.Message = rerr.Message
		if errors.Is(rerr.Err, ErrHandlerTimeout) {
			cerr.Message = ErrHandlerTimeout.Error()
		}
	}
	cerr.Text = sourceLine(code, cerr.Line)
	return cerr
}

// sourceLine returns the 1-based line of code, or "" when out of range.
func sourceLine(code string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(code, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

// collectHandlers looks up each lifecycle name on its own, so a name that
// cannot be read does not hide the others.
func (p *Program) collectHandlers() tool.Handlers {
	handlers := make(tool.Handlers)
	for _, lc := range tool.Lifecycles {
		fn, err := p.lookupHandler(lc.String())
		if err != nil {
			p.logger.Warn("lifecycle lookup failed",
				zap.String("name", lc.String()), zap.Error(err))
			continue
		}
		if fn == nil {
			continue
		}
		handlers[lc] = p.handler(lc, fn)
	}
	return handlers
}

func (p *Program) lookupHandler(name string) (fn *lua.LFunction, err error) {
	err = p.state.doWithRecovery(func() error {
		if f, ok := p.env.RawGetString(name).(*lua.LFunction); ok {
			fn = f
		}
		return nil
	})
	return fn, err
}
