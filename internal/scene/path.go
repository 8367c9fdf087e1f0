package scene

import "math"

// Segment is a path anchor with Bezier handles relative to Point.
type Segment struct {
	Point     Point
	HandleIn  Point
	HandleOut Point
}

// curveSteps is the number of samples per curved segment when flattening.
const curveSteps = 16

// SegmentCount returns the number of segments of a path.
func (it *Item) SegmentCount() int { return len(it.segments) }

// Segments returns a copy of a path's segments.
func (it *Item) Segments() []Segment {
	return append([]Segment(nil), it.segments...)
}

// Segment returns the i-th segment (0-based).
func (it *Item) Segment(i int) (Segment, bool) {
	if i < 0 || i >= len(it.segments) {
		return Segment{}, false
	}
	return it.segments[i], true
}

// SetSegment replaces the i-th segment. Out of range indices are ignored.
func (it *Item) SetSegment(i int, s Segment) bool {
	if i < 0 || i >= len(it.segments) {
		return false
	}
	it.segments[i] = s
	return true
}

// Closed reports whether the path was explicitly closed.
func (it *Item) Closed() bool { return it.closed }

// Close closes the path.
func (it *Item) Close() { it.closed = true }

// Add appends anchors to the path.
func (it *Item) Add(points ...Point) {
	if it.kind != KindPath {
		return
	}
	for _, p := range points {
		it.segments = append(it.segments, Segment{Point: p})
	}
}

// MoveTo starts the path at p. On a non-empty path it behaves like LineTo.
func (it *Item) MoveTo(p Point) { it.Add(p) }

// LineTo adds a straight segment to p.
func (it *Item) LineTo(p Point) { it.Add(p) }

// CubicCurveTo adds a cubic Bezier segment with absolute control points.
func (it *Item) CubicCurveTo(h1, h2, to Point) {
	if it.kind != KindPath {
		return
	}
	if n := len(it.segments); n > 0 {
		last := &it.segments[n-1]
		last.HandleOut = h1.Sub(last.Point)
	}
	it.segments = append(it.segments, Segment{Point: to, HandleIn: h2.Sub(to)})
}

// QuadraticCurveTo adds a quadratic Bezier segment, stored as its cubic
// equivalent.
func (it *Item) QuadraticCurveTo(h, to Point) {
	if it.kind != KindPath {
		return
	}
	if len(it.segments) == 0 {
		it.Add(to)
		return
	}
	from := it.segments[len(it.segments)-1].Point
	c1 := from.Add(h.Sub(from).Mul(2.0 / 3.0))
	c2 := to.Add(h.Sub(to).Mul(2.0 / 3.0))
	it.CubicCurveTo(c1, c2, to)
}

// ArcTo adds a circular arc from the current end point through through to
// to. Degenerate input falls back to a straight line.
func (it *Item) ArcTo(through, to Point) {
	if it.kind != KindPath {
		return
	}
	if len(it.segments) == 0 {
		it.Add(through)
		it.LineTo(to)
		return
	}
	from := it.segments[len(it.segments)-1].Point

	center, ok := circumcenter(from, through, to)
	if !ok {
		it.LineTo(to)
		return
	}
	radius := from.Distance(center)

	a0 := math.Atan2(from.Y-center.Y, from.X-center.X)
	a1 := math.Atan2(through.Y-center.Y, through.X-center.X)
	a2 := math.Atan2(to.Y-center.Y, to.X-center.X)

	sweep := normalizeAngle(a2 - a0)
	if normalizeAngle(a1-a0) > sweep {
		// through lies on the other side, go clockwise
		sweep -= 2 * math.Pi
	}

	pieces := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	if pieces < 1 {
		pieces = 1
	}
	step := sweep / float64(pieces)
	k := 4.0 / 3.0 * math.Tan(step/4)

	t0 := a0
	for i := 0; i < pieces; i++ {
		t1 := t0 + step
		p0 := center.Add(Point{X: math.Cos(t0), Y: math.Sin(t0)}.Mul(radius))
		p3 := center.Add(Point{X: math.Cos(t1), Y: math.Sin(t1)}.Mul(radius))
		c1 := p0.Add(Point{X: -math.Sin(t0), Y: math.Cos(t0)}.Mul(k * radius))
		c2 := p3.Sub(Point{X: -math.Sin(t1), Y: math.Cos(t1)}.Mul(k * radius))
		if i == pieces-1 {
			p3 = to
		}
		it.CubicCurveTo(c1, c2, p3)
		t0 = t1
	}
}

// normalizeAngle maps a to [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// circumcenter returns the center of the circle through a, b and c.
func circumcenter(a, b, c Point) (Point, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < epsilon {
		return Point{}, false
	}
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	return Point{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}, true
}

// RemoveSegment removes the i-th segment (0-based).
func (it *Item) RemoveSegment(i int) bool {
	if i < 0 || i >= len(it.segments) {
		return false
	}
	it.segments = append(it.segments[:i], it.segments[i+1:]...)
	return true
}

// straight reports whether the curve between a and b is a line.
func straight(a, b Segment) bool {
	return a.HandleOut.IsZero() && b.HandleIn.IsZero()
}

// flattenPath samples a path into a polyline.
func (it *Item) flattenPath() []Point {
	if len(it.segments) == 0 {
		return nil
	}
	pts := []Point{it.segments[0].Point}
	n := len(it.segments)
	last := n - 1
	if it.closed && n > 1 {
		last = n
	}
	for i := 0; i < last; i++ {
		a := it.segments[i]
		b := it.segments[(i+1)%n]
		if straight(a, b) {
			pts = append(pts, b.Point)
			continue
		}
		c1 := a.Point.Add(a.HandleOut)
		c2 := b.Point.Add(b.HandleIn)
		for s := 1; s <= curveSteps; s++ {
			pts = append(pts, cubicAt(a.Point, c1, c2, b.Point, float64(s)/curveSteps))
		}
	}
	return pts
}

// cubicAt evaluates a cubic Bezier at t.
func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
