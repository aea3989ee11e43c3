// Package graphics defines the geometry value types shared by layout,
// shadow nodes and the mounting layer.
package graphics

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance for floating-point comparisons.
const Epsilon = 0.0001

// Point represents a 2D point or vector in points.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns p minus other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Equal reports whether two points are equal within Epsilon.
func (p Point) Equal(other Point) bool {
	return FloatsEqual(p.X, other.X) && FloatsEqual(p.Y, other.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Size represents width and height dimensions in points.
type Size struct {
	Width  float64
	Height float64
}

// Equal reports whether two sizes are equal within Epsilon.
func (s Size) Equal(other Size) bool {
	return FloatsEqual(s.Width, other.Width) && FloatsEqual(s.Height, other.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Rect is an origin plus a size.
type Rect struct {
	Origin Point
	Size   Size
}

// RectFromXYWH constructs a Rect from x, y, width, height values.
func RectFromXYWH(x, y, width, height float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: width, Height: height}}
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.Origin.X }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Origin.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// Translate returns a new rect offset by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.Origin.X += dx
	r.Origin.Y += dy
	return r
}

// Contains reports whether p lies inside the rect. The max edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}

// Union returns the smallest rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.MinX(), other.MinX())
	minY := math.Min(r.MinY(), other.MinY())
	maxX := math.Max(r.MaxX(), other.MaxX())
	maxY := math.Max(r.MaxY(), other.MaxY())
	return RectFromXYWH(minX, minY, maxX-minX, maxY-minY)
}

// Equal reports whether two rects are equal within Epsilon.
func (r Rect) Equal(other Rect) bool {
	return r.Origin.Equal(other.Origin) && r.Size.Equal(other.Size)
}

func (r Rect) String() string {
	return fmt.Sprintf("{%s %s}", r.Origin, r.Size)
}

// EdgeInsets represents insets on the four sides of a rect.
type EdgeInsets struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// EdgeInsetsAll creates uniform insets.
func EdgeInsetsAll(value float64) EdgeInsets {
	return EdgeInsets{Left: value, Top: value, Right: value, Bottom: value}
}

// Horizontal returns the sum of left and right insets.
func (e EdgeInsets) Horizontal() float64 {
	return e.Left + e.Right
}

// Vertical returns the sum of top and bottom insets.
func (e EdgeInsets) Vertical() float64 {
	return e.Top + e.Bottom
}

// Add returns the component-wise sum of e and other.
func (e EdgeInsets) Add(other EdgeInsets) EdgeInsets {
	return EdgeInsets{
		Left:   e.Left + other.Left,
		Top:    e.Top + other.Top,
		Right:  e.Right + other.Right,
		Bottom: e.Bottom + other.Bottom,
	}
}

// Inset shrinks r by the insets.
func (e EdgeInsets) Inset(r Rect) Rect {
	return RectFromXYWH(
		r.Origin.X+e.Left,
		r.Origin.Y+e.Top,
		math.Max(0, r.Size.Width-e.Horizontal()),
		math.Max(0, r.Size.Height-e.Vertical()),
	)
}

// Equal reports whether two insets are equal within Epsilon.
func (e EdgeInsets) Equal(other EdgeInsets) bool {
	return FloatsEqual(e.Left, other.Left) &&
		FloatsEqual(e.Top, other.Top) &&
		FloatsEqual(e.Right, other.Right) &&
		FloatsEqual(e.Bottom, other.Bottom)
}

// FloatsEqual reports whether a and b are equal within Epsilon.
// Two NaN values are equal; NaN never equals a number.
func FloatsEqual(a, b float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	if aNaN || bNaN {
		return aNaN && bNaN
	}
	return math.Abs(a-b) < Epsilon
}
