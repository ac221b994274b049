// Package geom provides the 2D geometry primitives used by the zoom engine:
// points and rectangles in floating-point container/content coordinates,
// integer sizes for measured extents, and affine matrices.
package geom

import (
	"image"
	"math"
)

// Point represents a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{x, y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

// Mul scales the point by a factor.
func (p Point) Mul(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Div divides the point by a factor. Division by zero yields the zero point.
func (p Point) Div(s float64) Point {
	if s == 0 {
		return Point{}
	}
	return Point{p.X / s, p.Y / s}
}

// Length returns the distance from the origin.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Size holds integer width/height extents as measured by a layout system.
// Negative components are treated as empty.
type Size struct {
	Width, Height int
}

// Sz is shorthand for Size{w, h}.
func Sz(w, h int) Size {
	return Size{w, h}
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rotate returns the size with width and height swapped for quarter
// rotations (90 or 270 degrees). Other angles leave the size unchanged.
func (s Size) Rotate(degrees int) Size {
	d := ((degrees % 360) + 360) % 360
	if d == 90 || d == 270 {
		return Size{s.Height, s.Width}
	}
	return s
}

// AspectRatio returns width divided by height, or 0 for an empty size.
func (s Size) AspectRatio() float64 {
	if s.IsEmpty() {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// Center returns the center point of the size.
func (s Size) Center() Point {
	return Point{float64(s.Width) / 2, float64(s.Height) / 2}
}

// Rect represents a rectangle as origin plus extent.
type Rect struct {
	X, Y, Width, Height float64
}

// RectOf creates a rectangle from two corner points, normalizing so that
// Width and Height are non-negative.
func RectOf(x1, y1, x2, y2 float64) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Right returns the right edge coordinate.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the bottom edge coordinate.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersect returns the overlap of two rectangles. If they do not overlap
// the result is an empty rectangle positioned at the nearer edge.
func (r Rect) Intersect(other Rect) Rect {
	x1 := math.Max(r.X, other.X)
	y1 := math.Max(r.Y, other.Y)
	x2 := math.Min(r.Right(), other.Right())
	y2 := math.Min(r.Bottom(), other.Bottom())
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	x1 := math.Min(r.X, other.X)
	y1 := math.Min(r.Y, other.Y)
	x2 := math.Max(r.Right(), other.Right())
	y2 := math.Max(r.Bottom(), other.Bottom())
	return RectOf(x1, y1, x2, y2)
}

// Round converts the rectangle to the nearest integer rectangle.
func (r Rect) Round() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.Right())),
		int(math.Round(r.Bottom())),
	)
}
