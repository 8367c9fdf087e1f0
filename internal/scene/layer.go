package scene

// Transform maps layer-local coordinates to global coordinates as
// global = local*Scale + Offset. A zero Scale is treated as 1.
type Transform struct {
	Offset Point
	Scale  float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

func (t Transform) scale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}

// Apply maps a local point to global coordinates.
func (t Transform) Apply(p Point) Point {
	return p.Mul(t.scale()).Add(t.Offset)
}

// Invert maps a global point to local coordinates.
func (t Transform) Invert(p Point) Point {
	return p.Sub(t.Offset).Div(t.scale())
}

// Layer is an ordered list of top-level items sharing a transform.
type Layer struct {
	Name      string
	Visible   bool
	Transform Transform

	items []*Item
}

// NewLayer creates an empty visible layer.
func NewLayer(name string) *Layer {
	return &Layer{Name: name, Visible: true, Transform: Identity()}
}

// Add appends items on top of the layer, detaching each from any previous
// container.
func (l *Layer) Add(items ...*Item) {
	for _, it := range items {
		if it == nil {
			continue
		}
		it.Remove()
		it.layer = l
		l.items = append(l.items, it)
	}
}

// Items returns a copy of the layer's top-level items in paint order.
func (l *Layer) Items() []*Item {
	out := make([]*Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of top-level items.
func (l *Layer) Len() int { return len(l.items) }

// Clear removes every item.
func (l *Layer) Clear() {
	for _, it := range l.items {
		it.layer = nil
	}
	l.items = nil
}

// GlobalToLocal converts a canvas position into layer coordinates.
func (l *Layer) GlobalToLocal(p Point) Point {
	return l.Transform.Invert(p)
}

// LocalToGlobal converts a layer position into canvas coordinates.
func (l *Layer) LocalToGlobal(p Point) Point {
	return l.Transform.Apply(p)
}

// Walk calls fn for every visible leaf item in paint order. Groups are
// descended; invisible groups hide their children.
func (l *Layer) Walk(fn func(it *Item)) {
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, it := range items {
			if !it.Visible {
				continue
			}
			if it.kind == KindGroup {
				walk(it.children)
				continue
			}
			fn(it)
		}
	}
	walk(l.items)
}
