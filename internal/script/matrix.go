package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scrawl/internal/scene"
)

const matrixTypeName = "scrawl.matrix"

// Matrices are uniform scale plus translation, the transforms layers use.

func newMatrix(L *lua.LState, t scene.Transform) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = &t
	L.SetMetatable(ud, L.GetTypeMetatable(matrixTypeName))
	return ud
}

func checkMatrix(L *lua.LState, n int) *scene.Transform {
	ud := L.CheckUserData(n)
	t, ok := ud.Value.(*scene.Transform)
	if !ok {
		L.ArgError(n, "matrix expected")
	}
	return t
}

// newMatrixFn accepts Matrix(), Matrix(scale), Matrix(scale, offset) and
// Matrix(a, b, c, d, tx, ty) when a == d and b == c == 0.
func newMatrixFn(L *lua.LState) int {
	t := scene.Identity()
	switch top := L.GetTop(); {
	case top == 0:
	case top >= 6:
		a, b := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
		c, d := float64(L.CheckNumber(3)), float64(L.CheckNumber(4))
		if b != 0 || c != 0 || a != d || a == 0 {
			L.RaiseError("matrix must be a uniform scale with translation")
		}
		t = scene.Transform{Offset: scene.Pt(float64(L.CheckNumber(5)), float64(L.CheckNumber(6))), Scale: a}
	default:
		s := float64(L.CheckNumber(1))
		if s == 0 {
			L.ArgError(1, "scale must not be zero")
		}
		t.Scale = s
		if top > 1 {
			t.Offset, _ = checkPoint(L, 2)
		}
	}
	L.Push(newMatrix(L, t))
	return 1
}

var matrixMethods = map[string]lua.LGFunction{
	"translate": func(L *lua.LState) int {
		t := checkMatrix(L, 1)
		d, _ := checkPoint(L, 2)
		*t = t.Translated(d)
		L.Push(L.Get(1))
		return 1
	},
	"scale": func(L *lua.LState) int {
		t := checkMatrix(L, 1)
		s := float64(L.CheckNumber(2))
		if s == 0 {
			L.ArgError(2, "scale must not be zero")
		}
		*t = t.Scaled(s)
		L.Push(L.Get(1))
		return 1
	},
	"transform": func(L *lua.LState) int {
		t := checkMatrix(L, 1)
		p, _ := checkPoint(L, 2)
		return pushPoint(L, t.Apply(p))
	},
	"inverseTransform": func(L *lua.LState) int {
		t := checkMatrix(L, 1)
		p, _ := checkPoint(L, 2)
		return pushPoint(L, t.Invert(p))
	},
	"inverted": func(L *lua.LState) int {
		L.Push(newMatrix(L, checkMatrix(L, 1).Inverse()))
		return 1
	},
	"clone": func(L *lua.LState) int {
		L.Push(newMatrix(L, *checkMatrix(L, 1)))
		return 1
	},
}

func registerMatrixType(L *lua.LState) {
	methods := L.SetFuncs(L.NewTable(), matrixMethods)
	mt := L.NewTypeMetatable(matrixTypeName)

	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		t := checkMatrix(L, 1)
		key, _ := L.Get(2).(lua.LString)
		switch key {
		case "a", "d", "scaling":
			L.Push(lua.LNumber(t.Scaling()))
		case "b", "c":
			L.Push(lua.LNumber(0))
		case "tx":
			L.Push(lua.LNumber(t.Offset.X))
		case "ty":
			L.Push(lua.LNumber(t.Offset.Y))
		case "translation":
			L.Push(newPoint(L, t.Offset))
		default:
			L.Push(methods.RawGetString(string(key)))
		}
		return 1
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		t := checkMatrix(L, 1)
		L.Push(lua.LString(fmt.Sprintf("Matrix(%g, %s)", t.Scaling(), t.Offset)))
		return 1
	}))
}
