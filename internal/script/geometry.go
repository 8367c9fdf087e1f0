package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scrawl/internal/scene"
)

// Userdata type names registered in each state.
const (
	pointTypeName   = "scrawl.point"
	itemTypeName    = "scrawl.item"
	segmentTypeName = "scrawl.segment"
)

// Points

// newPoint wraps p as an immutable point userdata.
func newPoint(L *lua.LState, p scene.Point) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = p
	L.SetMetatable(ud, L.GetTypeMetatable(pointTypeName))
	return ud
}

// toPoint accepts a point, a segment (its anchor), {x=, y=} or {x, y}.
func toPoint(lv lua.LValue) (scene.Point, bool) {
	switch v := lv.(type) {
	case *lua.LUserData:
		switch val := v.Value.(type) {
		case scene.Point:
			return val, true
		case *segmentRef:
			if s, ok := val.item.Segment(val.index); ok {
				return s.Point, true
			}
		}
	case *lua.LTable:
		x, xok := v.RawGetString("x").(lua.LNumber)
		y, yok := v.RawGetString("y").(lua.LNumber)
		if xok && yok {
			return scene.Pt(float64(x), float64(y)), true
		}
		x, xok = v.RawGetInt(1).(lua.LNumber)
		y, yok = v.RawGetInt(2).(lua.LNumber)
		if xok && yok {
			return scene.Pt(float64(x), float64(y)), true
		}
	}
	return scene.Point{}, false
}

// checkPoint reads a point at argument n, either point-like or as two
// numbers. It returns the point and the index of the next argument.
func checkPoint(L *lua.LState, n int) (scene.Point, int) {
	if x, ok := L.Get(n).(lua.LNumber); ok {
		y := L.CheckNumber(n + 1)
		return scene.Pt(float64(x), float64(y)), n + 2
	}
	p, ok := toPoint(L.Get(n))
	if !ok {
		L.ArgError(n, "point expected")
	}
	return p, n + 1
}

func checkPointSelf(L *lua.LState) scene.Point {
	ud := L.CheckUserData(1)
	p, ok := ud.Value.(scene.Point)
	if !ok {
		L.ArgError(1, "point expected")
	}
	return p
}

// pointOperands reads both operands of a binary metamethod. Numbers are
// broadcast to both coordinates.
func pointOperands(L *lua.LState) (scene.Point, scene.Point) {
	read := func(n int) scene.Point {
		if v, ok := L.Get(n).(lua.LNumber); ok {
			return scene.Pt(float64(v), float64(v))
		}
		p, ok := toPoint(L.Get(n))
		if !ok {
			L.ArgError(n, "point or number expected")
		}
		return p
	}
	return read(1), read(2)
}

func pushPoint(L *lua.LState, p scene.Point) int {
	L.Push(newPoint(L, p))
	return 1
}

var pointMethods = map[string]lua.LGFunction{
	"add": func(L *lua.LState) int {
		p := checkPointSelf(L)
		q, _ := checkPoint(L, 2)
		return pushPoint(L, p.Add(q))
	},
	"subtract": func(L *lua.LState) int {
		p := checkPointSelf(L)
		q, _ := checkPoint(L, 2)
		return pushPoint(L, p.Sub(q))
	},
	"multiply": func(L *lua.LState) int {
		p := checkPointSelf(L)
		if s, ok := L.Get(2).(lua.LNumber); ok {
			return pushPoint(L, p.Mul(float64(s)))
		}
		q, _ := checkPoint(L, 2)
		return pushPoint(L, scene.Pt(p.X*q.X, p.Y*q.Y))
	},
	"divide": func(L *lua.LState) int {
		p := checkPointSelf(L)
		return pushPoint(L, p.Div(float64(L.CheckNumber(2))))
	},
	"normalize": func(L *lua.LState) int {
		p := checkPointSelf(L)
		length := float64(L.OptNumber(2, 1))
		return pushPoint(L, p.Normalize().Mul(length))
	},
	"rotate": func(L *lua.LState) int {
		p := checkPointSelf(L)
		return pushPoint(L, p.Rotate(float64(L.CheckNumber(2))))
	},
	"lerp": func(L *lua.LState) int {
		p := checkPointSelf(L)
		q, next := checkPoint(L, 2)
		return pushPoint(L, p.Lerp(q, float64(L.CheckNumber(next))))
	},
	"dot": func(L *lua.LState) int {
		p := checkPointSelf(L)
		q, _ := checkPoint(L, 2)
		L.Push(lua.LNumber(p.Dot(q)))
		return 1
	},
	"getDistance": func(L *lua.LState) int {
		p := checkPointSelf(L)
		q, _ := checkPoint(L, 2)
		L.Push(lua.LNumber(p.Distance(q)))
		return 1
	},
	"equals": func(L *lua.LState) int {
		p := checkPointSelf(L)
		q, ok := toPoint(L.Get(2))
		L.Push(lua.LBool(ok && p.Equals(q)))
		return 1
	},
	"clone": func(L *lua.LState) int {
		return pushPoint(L, checkPointSelf(L))
	},
}

func registerPointType(L *lua.LState) {
	methods := L.SetFuncs(L.NewTable(), pointMethods)
	mt := L.NewTypeMetatable(pointTypeName)

	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		p := checkPointSelf(L)
		key, _ := L.Get(2).(lua.LString)
		switch key {
		case "x":
			L.Push(lua.LNumber(p.X))
		case "y":
			L.Push(lua.LNumber(p.Y))
		case "length":
			L.Push(lua.LNumber(p.Length()))
		case "angle":
			L.Push(lua.LNumber(p.Angle()))
		default:
			L.Push(methods.RawGetString(string(key)))
		}
		return 1
	}))
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("points are immutable, create a new Point instead")
		return 0
	}))
	L.SetField(mt, "__add", L.NewFunction(func(L *lua.LState) int {
		a, b := pointOperands(L)
		return pushPoint(L, a.Add(b))
	}))
	L.SetField(mt, "__sub", L.NewFunction(func(L *lua.LState) int {
		a, b := pointOperands(L)
		return pushPoint(L, a.Sub(b))
	}))
	L.SetField(mt, "__mul", L.NewFunction(func(L *lua.LState) int {
		a, b := pointOperands(L)
		return pushPoint(L, scene.Pt(a.X*b.X, a.Y*b.Y))
	}))
	L.SetField(mt, "__div", L.NewFunction(func(L *lua.LState) int {
		a, b := pointOperands(L)
		if b.X == 0 || b.Y == 0 {
			return pushPoint(L, scene.Point{})
		}
		return pushPoint(L, scene.Pt(a.X/b.X, a.Y/b.Y))
	}))
	L.SetField(mt, "__unm", L.NewFunction(func(L *lua.LState) int {
		return pushPoint(L, checkPointSelf(L).Mul(-1))
	}))
	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		a, aok := toPoint(L.Get(1))
		b, bok := toPoint(L.Get(2))
		L.Push(lua.LBool(aok && bok && a.Equals(b)))
		return 1
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(checkPointSelf(L).String()))
		return 1
	}))
}

// Items

func checkItem(L *lua.LState, n int) *scene.Item {
	ud := L.CheckUserData(n)
	it, ok := ud.Value.(*scene.Item)
	if !ok {
		L.ArgError(n, "item expected")
	}
	return it
}

// wrap returns the userdata for it, creating it on first use so that the
// same item always maps to the same Lua value.
func (b *binder) wrap(it *scene.Item) lua.LValue {
	if it == nil {
		return lua.LNil
	}
	if ud, ok := b.items[it]; ok {
		return ud
	}
	ud := b.L.NewUserData()
	ud.Value = it
	b.L.SetMetatable(ud, b.L.GetTypeMetatable(itemTypeName))
	b.items[it] = ud
	return ud
}

// colorValue returns nil for unpainted colors.
func colorValue(c string) lua.LValue {
	if c == "" {
		return lua.LNil
	}
	return lua.LString(c)
}

// checkColor accepts a color string or nil/false to clear it.
func checkColor(L *lua.LState, n int) string {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return string(v)
	case *lua.LNilType:
		return ""
	case lua.LBool:
		if !bool(v) {
			return ""
		}
	}
	L.ArgError(n, "color string or nil expected")
	return ""
}

func (b *binder) pathOp(arity int, fn func(it *scene.Item, pts []scene.Point)) lua.LGFunction {
	return func(L *lua.LState) int {
		it := checkItem(L, 1)
		if it.Kind() != scene.KindPath {
			L.RaiseError("%s has no segments", it.Kind())
		}
		pts := make([]scene.Point, 0, arity)
		next := 2
		for i := 0; i < arity; i++ {
			var p scene.Point
			p, next = checkPoint(L, next)
			pts = append(pts, p)
		}
		fn(it, pts)
		return 0
	}
}

func (b *binder) itemMethods() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"moveTo": b.pathOp(1, func(it *scene.Item, p []scene.Point) { it.MoveTo(p[0]) }),
		"lineTo": b.pathOp(1, func(it *scene.Item, p []scene.Point) { it.LineTo(p[0]) }),
		"cubicCurveTo": b.pathOp(3, func(it *scene.Item, p []scene.Point) {
			it.CubicCurveTo(p[0], p[1], p[2])
		}),
		"quadraticCurveTo": b.pathOp(2, func(it *scene.Item, p []scene.Point) {
			it.QuadraticCurveTo(p[0], p[1])
		}),
		"arcTo": b.pathOp(2, func(it *scene.Item, p []scene.Point) { it.ArcTo(p[0], p[1]) }),
		"add": func(L *lua.LState) int {
			it := checkItem(L, 1)
			for n := 2; n <= L.GetTop(); {
				var p scene.Point
				p, n = checkPoint(L, n)
				it.Add(p)
			}
			return 0
		},
		"removeSegment": func(L *lua.LState) int {
			it := checkItem(L, 1)
			L.Push(lua.LBool(it.RemoveSegment(L.CheckInt(2) - 1)))
			return 1
		},
		"close": func(L *lua.LState) int {
			checkItem(L, 1).Close()
			return 0
		},
		"remove": func(L *lua.LState) int {
			L.Push(lua.LBool(checkItem(L, 1).Remove()))
			return 1
		},
		"bringToFront": func(L *lua.LState) int {
			checkItem(L, 1).BringToFront()
			return 0
		},
		"sendToBack": func(L *lua.LState) int {
			checkItem(L, 1).SendToBack()
			return 0
		},
		"clone": func(L *lua.LState) int {
			L.Push(b.wrap(checkItem(L, 1).Clone()))
			return 1
		},
		"translate": func(L *lua.LState) int {
			it := checkItem(L, 1)
			d, _ := checkPoint(L, 2)
			it.Translate(d)
			return 0
		},
		"transform": func(L *lua.LState) int {
			checkItem(L, 1).Transform(*checkMatrix(L, 2))
			return 0
		},
		"contains": func(L *lua.LState) int {
			it := checkItem(L, 1)
			p, _ := checkPoint(L, 2)
			L.Push(lua.LBool(it.Bounds().Contains(p)))
			return 1
		},
		"addChild": func(L *lua.LState) int {
			g := checkItem(L, 1)
			g.AddChild(checkItem(L, 2))
			return 0
		},
		"addChildren": func(L *lua.LState) int {
			g := checkItem(L, 1)
			tbl := L.CheckTable(2)
			for i := 1; i <= tbl.Len(); i++ {
				if ud, ok := tbl.RawGetInt(i).(*lua.LUserData); ok {
					if c, ok := ud.Value.(*scene.Item); ok {
						g.AddChild(c)
					}
				}
			}
			return 0
		},
	}
}

func (b *binder) segments(it *scene.Item) *lua.LTable {
	t := b.L.NewTable()
	for i := 0; i < it.SegmentCount(); i++ {
		t.RawSetInt(i+1, newSegment(b.L, it, i))
	}
	return t
}

func (b *binder) children(it *scene.Item) *lua.LTable {
	t := b.L.NewTable()
	for i, c := range it.Children() {
		t.RawSetInt(i+1, b.wrap(c))
	}
	return t
}

func boundsTable(L *lua.LState, r scene.Rect) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("x", lua.LNumber(r.Min.X))
	t.RawSetString("y", lua.LNumber(r.Min.Y))
	t.RawSetString("width", lua.LNumber(r.Width()))
	t.RawSetString("height", lua.LNumber(r.Height()))
	t.RawSetString("center", newPoint(L, r.Center()))
	return t
}

func (b *binder) registerItemType() {
	L := b.L
	methods := L.SetFuncs(L.NewTable(), b.itemMethods())
	mt := L.NewTypeMetatable(itemTypeName)

	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		it := checkItem(L, 1)
		key, _ := L.Get(2).(lua.LString)
		switch key {
		case "strokeColor":
			L.Push(colorValue(it.Style.StrokeColor))
		case "fillColor":
			L.Push(colorValue(it.Style.FillColor))
		case "strokeWidth":
			L.Push(lua.LNumber(it.Style.StrokeWidth))
		case "strokeCap":
			L.Push(colorValue(it.Style.StrokeCap))
		case "strokeJoin":
			L.Push(colorValue(it.Style.StrokeJoin))
		case "visible":
			L.Push(lua.LBool(it.Visible))
		case "name":
			L.Push(lua.LString(it.Name))
		case "kind":
			L.Push(lua.LString(it.Kind().String()))
		case "id":
			L.Push(lua.LNumber(it.ID()))
		case "position":
			L.Push(newPoint(L, it.Position()))
		case "bounds":
			L.Push(boundsTable(L, it.Bounds()))
		case "center":
			L.Push(newPoint(L, it.Position()))
		case "radius":
			L.Push(lua.LNumber(it.Radius()))
		case "closed":
			L.Push(lua.LBool(it.Closed()))
		case "segments":
			L.Push(b.segments(it))
		case "firstSegment":
			if it.SegmentCount() == 0 {
				L.Push(lua.LNil)
			} else {
				L.Push(newSegment(L, it, 0))
			}
		case "lastSegment":
			if n := it.SegmentCount(); n == 0 {
				L.Push(lua.LNil)
			} else {
				L.Push(newSegment(L, it, n-1))
			}
		case "children":
			L.Push(b.children(it))
		case "parent":
			L.Push(b.wrap(it.Parent()))
		default:
			L.Push(methods.RawGetString(string(key)))
		}
		return 1
	}))

	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		it := checkItem(L, 1)
		key, _ := L.Get(2).(lua.LString)
		switch key {
		case "strokeColor":
			it.Style.StrokeColor = checkColor(L, 3)
		case "fillColor":
			it.Style.FillColor = checkColor(L, 3)
		case "strokeWidth":
			it.Style.StrokeWidth = float64(L.CheckNumber(3))
		case "strokeCap":
			it.Style.StrokeCap = checkColor(L, 3)
		case "strokeJoin":
			it.Style.StrokeJoin = checkColor(L, 3)
		case "visible":
			it.Visible = L.ToBool(3)
		case "name":
			it.Name = L.CheckString(3)
		case "position", "center":
			p, _ := checkPoint(L, 3)
			it.SetPosition(p)
		case "radius":
			it.SetRadius(float64(L.CheckNumber(3)))
		case "closed":
			if L.ToBool(3) {
				it.Close()
			}
		default:
			L.RaiseError("cannot set %q on %s", string(key), it.Kind())
		}
		return 0
	}))

	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		a, aok := L.Get(1).(*lua.LUserData)
		c, cok := L.Get(2).(*lua.LUserData)
		L.Push(lua.LBool(aok && cok && a.Value == c.Value))
		return 1
	}))

	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		it := checkItem(L, 1)
		switch it.Kind() {
		case scene.KindPath:
			L.Push(lua.LString(fmt.Sprintf("Path(%d segments)", it.SegmentCount())))
		case scene.KindCircle:
			L.Push(lua.LString(fmt.Sprintf("Circle(%s, %g)", it.Center(), it.Radius())))
		case scene.KindGroup:
			L.Push(lua.LString(fmt.Sprintf("Group(%d children)", len(it.Children()))))
		default:
			L.Push(lua.LString(it.Kind().String()))
		}
		return 1
	}))
}

// Segments

// segmentRef addresses a path segment by index. It goes stale when
// segments before it are removed.
type segmentRef struct {
	item  *scene.Item
	index int
}

func newSegment(L *lua.LState, it *scene.Item, index int) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = &segmentRef{item: it, index: index}
	L.SetMetatable(ud, L.GetTypeMetatable(segmentTypeName))
	return ud
}

func checkSegment(L *lua.LState) (*segmentRef, scene.Segment) {
	ud := L.CheckUserData(1)
	ref, ok := ud.Value.(*segmentRef)
	if !ok {
		L.ArgError(1, "segment expected")
	}
	seg, ok := ref.item.Segment(ref.index)
	if !ok {
		L.RaiseError("segment %d no longer exists", ref.index+1)
	}
	return ref, seg
}

func registerSegmentType(L *lua.LState) {
	mt := L.NewTypeMetatable(segmentTypeName)

	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		ref, seg := checkSegment(L)
		key, _ := L.Get(2).(lua.LString)
		switch key {
		case "point":
			L.Push(newPoint(L, seg.Point))
		case "handleIn":
			L.Push(newPoint(L, seg.HandleIn))
		case "handleOut":
			L.Push(newPoint(L, seg.HandleOut))
		case "index":
			L.Push(lua.LNumber(ref.index + 1))
		default:
			L.Push(lua.LNil)
		}
		return 1
	}))

	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		ref, seg := checkSegment(L)
		key, _ := L.Get(2).(lua.LString)
		p, _ := checkPoint(L, 3)
		switch key {
		case "point":
			seg.Point = p
		case "handleIn":
			seg.HandleIn = p
		case "handleOut":
			seg.HandleOut = p
		default:
			L.RaiseError("cannot set %q on segment", string(key))
		}
		ref.item.SetSegment(ref.index, seg)
		return 0
	}))
}
