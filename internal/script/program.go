package script

import (
	"context"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/scrawl/internal/scene"
	"github.com/dshills/scrawl/internal/tool"
)

// Program is one compiled tool instance. It owns its Lua state; nothing in
// it is shared with other programs.
type Program struct {
	state  *State
	binder *binder
	logger *zap.Logger

	env     *lua.LTable
	globals *lua.LTable
	params  *lua.LTable

	handlers tool.Handlers
}

// Handlers returns the lifecycle callbacks the script defined. A nil
// Program has none.
func (p *Program) Handlers() tool.Handlers {
	if p == nil {
		return tool.Handlers{}
	}
	return p.handlers
}

// SetMouse updates the mouse, mouseX and mouseY globals.
func (p *Program) SetMouse(pt scene.Point) {
	if p == nil {
		return
	}
	L := p.state.L
	p.globals.RawSetString("mouse", newPoint(L, pt))
	p.globals.RawSetString("mouseX", lua.LNumber(pt.X))
	p.globals.RawSetString("mouseY", lua.LNumber(pt.Y))
}

// Global resolves name the way the script would, converted to Go.
func (p *Program) Global(name string) any {
	if p == nil {
		return nil
	}
	v := p.env.RawGetString(name)
	if v == lua.LNil {
		for _, t := range []*lua.LTable{p.globals, p.params} {
			if v = t.RawGetString(name); v != lua.LNil {
				break
			}
		}
	}
	return NewBridge(p.state.L).ToGoValue(v)
}

// Close releases the Lua state. Handlers fail with ErrStateClosed afterwards.
func (p *Program) Close() error {
	if p == nil {
		return nil
	}
	return p.state.Close()
}

func (p *Program) handler(lc tool.Lifecycle, fn *lua.LFunction) tool.Handler {
	return func(ctx context.Context, ev tool.Event) error {
		return p.state.Call(ctx, fn, p.eventTable(lc, ev))
	}
}

func (p *Program) eventTable(lc tool.Lifecycle, ev tool.Event) *lua.LTable {
	L := p.state.L
	t := L.NewTable()
	t.RawSetString("type", lua.LString(lc.String()))
	t.RawSetString("point", newPoint(L, ev.Local))
	t.RawSetString("x", lua.LNumber(ev.Local.X))
	t.RawSetString("y", lua.LNumber(ev.Local.Y))
	t.RawSetString("globalPoint", newPoint(L, ev.Point))
	t.RawSetString("altKey", lua.LBool(ev.Alt))
	t.RawSetString("shiftKey", lua.LBool(ev.Shift))
	pt := ev.PointerType
	if pt == "" {
		pt = tool.PointerMouse
	}
	t.RawSetString("pointerType", lua.LString(pt))
	return t
}

var _ tool.MouseSink = (*Program)(nil)
