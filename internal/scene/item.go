package scene

import (
	"math"
	"sync/atomic"
)

// Kind identifies the shape of an item.
type Kind uint8

const (
	KindPath Kind = iota
	KindCircle
	KindRectangle
	KindGroup
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindCircle:
		return "circle"
	case KindRectangle:
		return "rectangle"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Style holds the paint attributes of an item. Empty colors are not painted.
type Style struct {
	StrokeColor string
	StrokeWidth float64
	FillColor   string
	StrokeCap   string
	StrokeJoin  string
}

// DefaultStyle returns the style of a freshly created item.
func DefaultStyle() Style {
	return Style{StrokeWidth: 1}
}

var nextItemID atomic.Int64

// Item is a node of the scenegraph.
type Item struct {
	id      int64
	kind    Kind
	Style   Style
	Visible bool
	Name    string

	// path
	segments []Segment
	closed   bool

	// circle
	center Point
	radius float64

	// rectangle
	rect Rect

	// group
	children []*Item

	layer  *Layer
	parent *Item
}

func newItem(kind Kind) *Item {
	return &Item{
		id:      nextItemID.Add(1),
		kind:    kind,
		Style:   DefaultStyle(),
		Visible: true,
	}
}

// NewPath creates an open path through the given points.
func NewPath(points ...Point) *Item {
	it := newItem(KindPath)
	for _, p := range points {
		it.segments = append(it.segments, Segment{Point: p})
	}
	return it
}

// NewLine creates a two-segment path from a to b.
func NewLine(a, b Point) *Item {
	return NewPath(a, b)
}

// NewCircle creates a circle.
func NewCircle(center Point, radius float64) *Item {
	it := newItem(KindCircle)
	it.center = center
	it.radius = math.Abs(radius)
	return it
}

// NewRectangle creates a rectangle spanning two opposite corners.
func NewRectangle(a, b Point) *Item {
	it := newItem(KindRectangle)
	it.rect = RectFromPoints(a, b)
	return it
}

// NewArc creates a circular arc path that starts at from, passes through
// through and ends at to. Collinear points produce a straight line.
func NewArc(from, through, to Point) *Item {
	it := NewPath(from)
	it.ArcTo(through, to)
	return it
}

// NewGroup creates a group holding the given children.
func NewGroup(children ...*Item) *Item {
	g := newItem(KindGroup)
	g.AddChildren(children...)
	return g
}

// ID returns the item's unique identifier.
func (it *Item) ID() int64 { return it.id }

// Kind returns the item's kind.
func (it *Item) Kind() Kind { return it.kind }

// Layer returns the layer the item is attached to, or nil.
func (it *Item) Layer() *Layer {
	for p := it; p != nil; p = p.parent {
		if p.layer != nil {
			return p.layer
		}
	}
	return nil
}

// Parent returns the owning group, or nil.
func (it *Item) Parent() *Item { return it.parent }

// Attached reports whether the item is in a layer or group.
func (it *Item) Attached() bool {
	return it.layer != nil || it.parent != nil
}

// Center returns the center of a circle.
func (it *Item) Center() Point { return it.center }

// Radius returns the radius of a circle.
func (it *Item) Radius() float64 { return it.radius }

// SetRadius changes the radius of a circle.
func (it *Item) SetRadius(r float64) { it.radius = math.Abs(r) }

// Rect returns the rectangle of a rectangle item.
func (it *Item) Rect() Rect { return it.rect }

// Children returns a copy of a group's children.
func (it *Item) Children() []*Item {
	out := make([]*Item, len(it.children))
	copy(out, it.children)
	return out
}

// AddChild appends c to a group, detaching it from any previous container.
func (it *Item) AddChild(c *Item) {
	if it.kind != KindGroup || c == nil || c == it {
		return
	}
	c.Remove()
	c.parent = it
	it.children = append(it.children, c)
}

// AddChildren appends all children in order.
func (it *Item) AddChildren(children ...*Item) {
	for _, c := range children {
		it.AddChild(c)
	}
}

// siblings returns the slice that owns the item.
func (it *Item) siblings() *[]*Item {
	switch {
	case it.parent != nil:
		return &it.parent.children
	case it.layer != nil:
		return &it.layer.items
	default:
		return nil
	}
}

func (it *Item) index() int {
	sib := it.siblings()
	if sib == nil {
		return -1
	}
	for i, s := range *sib {
		if s == it {
			return i
		}
	}
	return -1
}

// Remove detaches the item from its container. It reports whether the item
// was attached.
func (it *Item) Remove() bool {
	sib := it.siblings()
	idx := it.index()
	if idx < 0 {
		return false
	}
	*sib = append((*sib)[:idx], (*sib)[idx+1:]...)
	it.layer = nil
	it.parent = nil
	return true
}

// BringToFront moves the item above all of its siblings.
func (it *Item) BringToFront() {
	sib := it.siblings()
	idx := it.index()
	if idx < 0 {
		return
	}
	s := append((*sib)[:idx], (*sib)[idx+1:]...)
	*sib = append(s, it)
}

// SendToBack moves the item below all of its siblings.
func (it *Item) SendToBack() {
	sib := it.siblings()
	idx := it.index()
	if idx < 0 {
		return
	}
	copy((*sib)[1:idx+1], (*sib)[:idx])
	(*sib)[0] = it
}

// Clone returns a deep copy of the item. When the item is attached, the
// copy is inserted directly above it.
func (it *Item) Clone() *Item {
	c := it.copyDetached()
	sib := it.siblings()
	idx := it.index()
	if idx < 0 {
		return c
	}
	c.layer = it.layer
	c.parent = it.parent
	s := append((*sib)[:idx+1], append([]*Item{c}, (*sib)[idx+1:]...)...)
	*sib = s
	return c
}

func (it *Item) copyDetached() *Item {
	c := &Item{
		id:      nextItemID.Add(1),
		kind:    it.kind,
		Style:   it.Style,
		Visible: it.Visible,
		Name:    it.Name,
		closed:  it.closed,
		center:  it.center,
		radius:  it.radius,
		rect:    it.rect,
	}
	c.segments = append([]Segment(nil), it.segments...)
	for _, ch := range it.children {
		cc := ch.copyDetached()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// Bounds returns the bounding box of the item's geometry. Stroke width is
// not included. Empty paths and groups have an empty box at the origin.
func (it *Item) Bounds() Rect {
	switch it.kind {
	case KindCircle:
		r := Point{X: it.radius, Y: it.radius}
		return Rect{Min: it.center.Sub(r), Max: it.center.Add(r)}
	case KindRectangle:
		return it.rect
	case KindGroup:
		var b Rect
		first := true
		for _, c := range it.children {
			if !c.Visible {
				continue
			}
			if first {
				b = c.Bounds()
				first = false
				continue
			}
			b = b.Union(c.Bounds())
		}
		return b
	default:
		pts := it.Outline()
		if len(pts) == 0 {
			return Rect{}
		}
		b := Rect{Min: pts[0], Max: pts[0]}
		for _, p := range pts[1:] {
			b = b.Union(Rect{Min: p, Max: p})
		}
		return b
	}
}

// Position returns the center of the item's bounds.
func (it *Item) Position() Point {
	if it.kind == KindCircle {
		return it.center
	}
	return it.Bounds().Center()
}

// SetPosition moves the item so that its bounds are centered on p.
func (it *Item) SetPosition(p Point) {
	it.Translate(p.Sub(it.Position()))
}

// Translate moves the item by d.
func (it *Item) Translate(d Point) {
	switch it.kind {
	case KindPath:
		for i := range it.segments {
			it.segments[i].Point = it.segments[i].Point.Add(d)
		}
	case KindCircle:
		it.center = it.center.Add(d)
	case KindRectangle:
		it.rect = Rect{Min: it.rect.Min.Add(d), Max: it.rect.Max.Add(d)}
	case KindGroup:
		for _, c := range it.children {
			c.Translate(d)
		}
	}
}

// circleSteps returns how many polyline points approximate a circle.
func circleSteps(r float64) int {
	n := int(math.Ceil(r * 2))
	if n < 16 {
		n = 16
	}
	if n > 256 {
		n = 256
	}
	return n
}

// Outline returns a polyline approximating the item's edge. Closed shapes
// repeat their first point at the end. Groups return nil; use Walk.
func (it *Item) Outline() []Point {
	switch it.kind {
	case KindCircle:
		n := circleSteps(it.radius)
		pts := make([]Point, 0, n+1)
		for i := 0; i <= n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			pts = append(pts, it.center.Add(Point{X: math.Cos(a) * it.radius, Y: math.Sin(a) * it.radius}))
		}
		return pts
	case KindRectangle:
		r := it.rect
		return []Point{r.Min, {X: r.Max.X, Y: r.Min.Y}, r.Max, {X: r.Min.X, Y: r.Max.Y}, r.Min}
	case KindPath:
		return it.flattenPath()
	default:
		return nil
	}
}

// IsClosed reports whether the outline encloses an area that can be filled.
func (it *Item) IsClosed() bool {
	switch it.kind {
	case KindCircle, KindRectangle:
		return true
	case KindPath:
		return it.closed || len(it.segments) > 2
	default:
		return false
	}
}
