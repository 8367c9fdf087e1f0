package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// removedGlobals are base library functions scripts may not use. They can
// load code from disk or strings, or reach the real global table.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"getfenv",
	"setfenv",
	"collectgarbage",
	"newproxy",
	"_printregs",
}

// Sandbox restricts what a script can reach from the Lua standard library.
type Sandbox struct {
	L      *lua.LState
	logger *zap.Logger
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, logger *zap.Logger) *Sandbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sandbox{L: L, logger: logger}
}

// Install removes unsafe functions and redirects print to the logger.
func (s *Sandbox) Install() {
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafePrint()
}

// installSafePrint replaces print with a version that writes to the logger.
func (s *Sandbox) installSafePrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		s.logger.Info(strings.Join(parts, "\t"), zap.String("source", "script"))
		return 0
	}))
}

// Removed reports whether a global was stripped by the sandbox.
func (s *Sandbox) Removed(name string) bool {
	for _, n := range removedGlobals {
		if n == name {
			return true
		}
	}
	return false
}
