package scene

import "math"

// kappa places cubic handles so that four curves approximate an ellipse.
const kappa = 0.5522847498307936

// NewEllipse creates a closed path for the ellipse inscribed in the
// rectangle spanning a and b.
func NewEllipse(a, b Point) *Item {
	r := RectFromPoints(a, b)
	c := r.Center()
	rx, ry := r.Width()/2, r.Height()/2
	kx, ky := rx*kappa, ry*kappa

	it := newItem(KindPath)
	it.segments = []Segment{
		{Point: Pt(c.X+rx, c.Y), HandleIn: Pt(0, -ky), HandleOut: Pt(0, ky)},
		{Point: Pt(c.X, c.Y+ry), HandleIn: Pt(kx, 0), HandleOut: Pt(-kx, 0)},
		{Point: Pt(c.X-rx, c.Y), HandleIn: Pt(0, ky), HandleOut: Pt(0, -ky)},
		{Point: Pt(c.X, c.Y-ry), HandleIn: Pt(-kx, 0), HandleOut: Pt(kx, 0)},
	}
	it.closed = true
	return it
}

// NewRegularPolygon creates a closed path with sides corners on a circle of
// radius around center. Polygons whose side count is a multiple of three
// point up; others rest on a flat bottom edge.
func NewRegularPolygon(center Point, sides int, radius float64) *Item {
	it := newItem(KindPath)
	if sides < 3 {
		sides = 3
	}
	step := 360 / float64(sides)
	v, offset := Pt(0, radius), 0.5
	if sides%3 == 0 {
		v, offset = Pt(0, -radius), -1
	}
	for i := 0; i < sides; i++ {
		it.segments = append(it.segments, Segment{Point: center.Add(v.Rotate((float64(i) + offset) * step))})
	}
	it.closed = true
	return it
}

// NewStar creates a closed star path with points tips, alternating between
// radius1 and radius2 from center, starting straight up.
func NewStar(center Point, points int, radius1, radius2 float64) *Item {
	it := newItem(KindPath)
	if points < 2 {
		points = 2
	}
	step := 180 / float64(points)
	up := Pt(0, -1)
	for i := 0; i < points*2; i++ {
		r := radius1
		if i%2 == 1 {
			r = radius2
		}
		it.segments = append(it.segments, Segment{Point: center.Add(up.Rotate(step * float64(i)).Mul(r))})
	}
	it.closed = true
	return it
}

// Scaling returns the transform's scale factor.
func (t Transform) Scaling() float64 {
	return t.scale()
}

// Translated returns t with d applied in local coordinates first.
func (t Transform) Translated(d Point) Transform {
	return Transform{Offset: t.Offset.Add(d.Mul(t.scale())), Scale: t.scale()}
}

// Scaled returns t with a uniform scale by s applied in local coordinates
// first.
func (t Transform) Scaled(s float64) Transform {
	return Transform{Offset: t.Offset, Scale: t.scale() * s}
}

// Inverse returns the transform undoing t.
func (t Transform) Inverse() Transform {
	s := t.scale()
	return Transform{Offset: t.Offset.Mul(-1 / s), Scale: 1 / s}
}

// Transform maps the item's geometry through t.
func (it *Item) Transform(t Transform) {
	s := t.scale()
	switch it.kind {
	case KindPath:
		for i := range it.segments {
			seg := &it.segments[i]
			seg.Point = t.Apply(seg.Point)
			seg.HandleIn = seg.HandleIn.Mul(s)
			seg.HandleOut = seg.HandleOut.Mul(s)
		}
	case KindCircle:
		it.center = t.Apply(it.center)
		it.radius = math.Abs(it.radius * s)
	case KindRectangle:
		it.rect = RectFromPoints(t.Apply(it.rect.Min), t.Apply(it.rect.Max))
	case KindGroup:
		for _, c := range it.children {
			c.Transform(t)
		}
	}
}
