package script

import (
	"math"
	"math/rand"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scrawl/internal/scene"
)

// binder installs the drawing API into one state and keeps the identity
// cache for item userdata.
type binder struct {
	L     *lua.LState
	scene *scene.Scene
	items map[*scene.Item]*lua.LUserData

	guideColor string
	random     func() float64
	finish     func()

	// sandbox names the globals scripts are denied.
	sandbox *Sandbox
}

func newBinder(L *lua.LState, b Bindings) *binder {
	bd := &binder{
		L:          L,
		scene:      b.Scene,
		items:      make(map[*scene.Item]*lua.LUserData),
		guideColor: b.GuideColor,
		random:     b.Random,
		finish:     b.Finish,
	}
	if bd.scene == nil {
		bd.scene = scene.New()
	}
	if bd.guideColor == "" {
		bd.guideColor = DefaultGuideColor
	}
	if bd.random == nil {
		bd.random = rand.Float64
	}
	registerPointType(L)
	registerSegmentType(L)
	registerMatrixType(L)
	bd.registerItemType()
	return bd
}

// newEnv builds the environment table a tool body runs in. Lookups fall
// through globals, then parameters, then the drawing API, then the Lua
// standard library. Assignments land in the environment itself.
func (b *binder) newEnv(globals, params, caps *lua.LTable) *lua.LTable {
	L := b.L
	env := L.NewTable()
	std := L.Get(lua.GlobalsIndex).(*lua.LTable)
	chain := []*lua.LTable{globals, params, caps, std}

	mt := L.NewTable()
	mt.RawSetString("__index", L.NewFunction(func(L *lua.LState) int {
		key := L.Get(2)
		for _, t := range chain {
			if v := t.RawGet(key); v != lua.LNil {
				L.Push(v)
				return 1
			}
		}
		if name, ok := key.(lua.LString); ok && b.sandbox != nil && b.sandbox.Removed(string(name)) {
			L.RaiseError("%s is not available to tools", string(name))
		}
		L.Push(lua.LNil)
		return 1
	}))
	L.SetMetatable(env, mt)
	caps.RawSetString("_G", env)
	return env
}

// capabilities builds the table of constructors and helpers scripts can
// call.
func (b *binder) capabilities(params *lua.LTable) *lua.LTable {
	L := b.L
	caps := L.NewTable()

	L.SetFuncs(caps, map[string]lua.LGFunction{
		"Point":          b.newPointFn,
		"Circle":         b.newCircleFn,
		"Line":           b.newLineFn,
		"Rectangle":      b.newRectangleFn,
		"Arc":            b.newArcFn,
		"Ellipse":        b.newEllipseFn,
		"RegularPolygon": b.newRegularPolygonFn,
		"Star":           b.newStarFn,
		"Group":          b.newGroupFn,
		"Matrix":         newMatrixFn,
		"finish": func(L *lua.LState) int {
			if b.finish != nil {
				b.finish()
			}
			return 0
		},
	})
	caps.RawSetString("Path", b.pathConstructor())
	caps.RawSetString("guide", b.guideTable())
	caps.RawSetString("parameters", params)

	b.installMath(caps)
	return caps
}

func (b *binder) add(it *scene.Item) int {
	b.scene.ToolLayer().Add(it)
	b.L.Push(b.wrap(it))
	return 1
}

func (b *binder) newPointFn(L *lua.LState) int {
	if L.GetTop() == 0 {
		return pushPoint(L, scene.Point{})
	}
	p, _ := checkPoint(L, 1)
	return pushPoint(L, p)
}

func (b *binder) newPathFn(L *lua.LState, first int) int {
	it := scene.NewPath()
	if t, ok := L.Get(first).(*lua.LTable); ok {
		if _, isPoint := toPoint(t); !isPoint {
			for i := 1; i <= t.Len(); i++ {
				if p, ok := toPoint(t.RawGetInt(i)); ok {
					it.Add(p)
				}
			}
			return b.add(it)
		}
	}
	for n := first; n <= L.GetTop(); {
		var p scene.Point
		p, n = checkPoint(L, n)
		it.Add(p)
	}
	return b.add(it)
}

// pathConstructor returns a callable table so that both Path(...) and
// Path.Circle(...) work.
func (b *binder) pathConstructor() *lua.LTable {
	L := b.L
	path := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"Circle":         b.newCircleFn,
		"Line":           b.newLineFn,
		"Rectangle":      b.newRectangleFn,
		"Arc":            b.newArcFn,
		"Ellipse":        b.newEllipseFn,
		"RegularPolygon": b.newRegularPolygonFn,
		"Star":           b.newStarFn,
	})
	mt := L.NewTable()
	mt.RawSetString("__call", L.NewFunction(func(L *lua.LState) int {
		return b.newPathFn(L, 2)
	}))
	L.SetMetatable(path, mt)
	return path
}

func (b *binder) newCircleFn(L *lua.LState) int {
	c, next := checkPoint(L, 1)
	return b.add(scene.NewCircle(c, float64(L.CheckNumber(next))))
}

func (b *binder) newLineFn(L *lua.LState) int {
	from, next := checkPoint(L, 1)
	to, _ := checkPoint(L, next)
	return b.add(scene.NewLine(from, to))
}

func (b *binder) newRectangleFn(L *lua.LState) int {
	from, next := checkPoint(L, 1)
	to, _ := checkPoint(L, next)
	return b.add(scene.NewRectangle(from, to))
}

func (b *binder) newArcFn(L *lua.LState) int {
	from, next := checkPoint(L, 1)
	through, next := checkPoint(L, next)
	to, _ := checkPoint(L, next)
	return b.add(scene.NewArc(from, through, to))
}

func (b *binder) newEllipseFn(L *lua.LState) int {
	from, next := checkPoint(L, 1)
	to, _ := checkPoint(L, next)
	return b.add(scene.NewEllipse(from, to))
}

func (b *binder) newRegularPolygonFn(L *lua.LState) int {
	c, next := checkPoint(L, 1)
	sides := L.CheckInt(next)
	return b.add(scene.NewRegularPolygon(c, sides, float64(L.CheckNumber(next+1))))
}

func (b *binder) newStarFn(L *lua.LState) int {
	c, next := checkPoint(L, 1)
	points := L.CheckInt(next)
	r1 := float64(L.CheckNumber(next + 1))
	r2 := float64(L.CheckNumber(next + 2))
	return b.add(scene.NewStar(c, points, r1, r2))
}

func (b *binder) newGroupFn(L *lua.LState) int {
	g := scene.NewGroup()
	appendChild := func(lv lua.LValue) {
		if ud, ok := lv.(*lua.LUserData); ok {
			if c, ok := ud.Value.(*scene.Item); ok {
				g.AddChild(c)
			}
		}
	}
	for n := 1; n <= L.GetTop(); n++ {
		if t, ok := L.Get(n).(*lua.LTable); ok {
			for i := 1; i <= t.Len(); i++ {
				appendChild(t.RawGetInt(i))
			}
			continue
		}
		appendChild(L.Get(n))
	}
	return b.add(g)
}

// guideTable exposes helpers that draw construction marks on the guide
// layer. The guide layer is cleared when a drawing session ends.
func (b *binder) guideTable() *lua.LTable {
	L := b.L
	style := func(it *scene.Item) *scene.Item {
		it.Style.StrokeColor = b.guideColor
		it.Style.StrokeWidth = 1
		b.scene.GuideLayer().Add(it)
		return it
	}
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"line": func(L *lua.LState) int {
			from, next := checkPoint(L, 1)
			to, _ := checkPoint(L, next)
			L.Push(b.wrap(style(scene.NewLine(from, to))))
			return 1
		},
		"circle": func(L *lua.LState) int {
			c, next := checkPoint(L, 1)
			L.Push(b.wrap(style(scene.NewCircle(c, float64(L.CheckNumber(next))))))
			return 1
		},
		"point": func(L *lua.LState) int {
			c, next := checkPoint(L, 1)
			r := float64(L.OptNumber(next, 2))
			it := style(scene.NewCircle(c, r))
			it.Style.FillColor = b.guideColor
			L.Push(b.wrap(it))
			return 1
		},
		"clear": func(L *lua.LState) int {
			b.scene.GuideLayer().Clear()
			return 0
		},
	})
}

func mathFn1(f func(float64) float64) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LNumber(f(float64(L.CheckNumber(1)))))
		return 1
	}
}

func mathFn2(f func(float64, float64) float64) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LNumber(f(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))))
		return 1
	}
}

func extremum(pick func(a, b float64) float64) lua.LGFunction {
	return func(L *lua.LState) int {
		v := float64(L.CheckNumber(1))
		for n := 2; n <= L.GetTop(); n++ {
			v = pick(v, float64(L.CheckNumber(n)))
		}
		L.Push(lua.LNumber(v))
		return 1
	}
}

// installMath puts common math helpers at the top level so tools can
// write sin(a) instead of math.sin(a).
func (b *binder) installMath(caps *lua.LTable) {
	L := b.L
	L.SetFuncs(caps, map[string]lua.LGFunction{
		"abs":   mathFn1(math.Abs),
		"floor": mathFn1(math.Floor),
		"ceil":  mathFn1(math.Ceil),
		"round": mathFn1(math.Round),
		"sqrt":  mathFn1(math.Sqrt),
		"sin":   mathFn1(math.Sin),
		"cos":   mathFn1(math.Cos),
		"tan":   mathFn1(math.Tan),
		"asin":  mathFn1(math.Asin),
		"acos":  mathFn1(math.Acos),
		"atan":  mathFn1(math.Atan),
		"exp":   mathFn1(math.Exp),
		"log":   mathFn1(math.Log),
		"atan2": mathFn2(math.Atan2),
		"pow":   mathFn2(math.Pow),
		"hypot": mathFn2(math.Hypot),
		"min":   extremum(math.Min),
		"max":   extremum(math.Max),
		"degrees": mathFn1(func(r float64) float64 {
			return r * 180 / math.Pi
		}),
		"radians": mathFn1(func(d float64) float64 {
			return d * math.Pi / 180
		}),
		"sign": mathFn1(func(v float64) float64 {
			switch {
			case v > 0:
				return 1
			case v < 0:
				return -1
			}
			return 0
		}),
		"clamp": func(L *lua.LState) int {
			v := float64(L.CheckNumber(1))
			lo := float64(L.CheckNumber(2))
			hi := float64(L.CheckNumber(3))
			L.Push(lua.LNumber(math.Max(lo, math.Min(hi, v))))
			return 1
		},
		"lerp": func(L *lua.LState) int {
			a := float64(L.CheckNumber(1))
			c := float64(L.CheckNumber(2))
			t := float64(L.CheckNumber(3))
			L.Push(lua.LNumber(a + (c-a)*t))
			return 1
		},
		// random() in [0,1), random(n) in [0,n), random(a, b) in [a,b).
		"random": func(L *lua.LState) int {
			r := b.random()
			switch L.GetTop() {
			case 0:
			case 1:
				r *= float64(L.CheckNumber(1))
			default:
				lo := float64(L.CheckNumber(1))
				hi := float64(L.CheckNumber(2))
				r = lo + r*(hi-lo)
			}
			L.Push(lua.LNumber(r))
			return 1
		},
	})
	caps.RawSetString("PI", lua.LNumber(math.Pi))
	caps.RawSetString("TAU", lua.LNumber(2*math.Pi))
	caps.RawSetString("E", lua.LNumber(math.E))
}
