package scene

import (
	"fmt"
	"math"
)

// epsilon is the tolerance used for point equality.
const epsilon = 1e-9

// Point is a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Div returns p divided by s. Division by zero yields the zero point.
func (p Point) Div(s float64) Point {
	if s == 0 {
		return Point{}
	}
	return Point{X: p.X / s, Y: p.Y / s}
}

// Length returns the vector length of p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Angle returns the angle of p in degrees.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X) * 180 / math.Pi
}

// Distance returns the distance between p and q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Normalize returns the unit vector in the direction of p.
// The zero vector normalizes to itself.
func (p Point) Normalize() Point {
	return p.Div(p.Length())
}

// Rotate returns p rotated by deg degrees around the origin.
func (p Point) Rotate(deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

// Lerp returns the point at t between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return p.Add(q.Sub(p).Mul(t))
}

// Equals reports whether p and q are equal within a small tolerance.
func (p Point) Equals(q Point) bool {
	return math.Abs(p.X-q.X) < epsilon && math.Abs(p.Y-q.Y) < epsilon
}

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool {
	return p.Equals(Point{})
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("{ x: %g, y: %g }", p.X, p.Y)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Point
}

// RectFromPoints returns the rectangle spanning a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Center returns the center of r.
func (r Rect) Center() Point {
	return r.Min.Lerp(r.Max, 0.5)
}

// Width returns the width of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the height of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
