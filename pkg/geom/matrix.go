package geom

import "math"

// Matrix represents a 3x3 affine transformation matrix.
// Only the first two rows are stored since the third row is always [0 0 1].
// The matrix is stored as:
//
//	[A B 0]
//	[C D 0]
//	[E F 1]
//
// Where (A,B,C,D) handle scaling/rotation and (E,F) handle translation.
type Matrix [6]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// RotateDeg returns a rotation matrix (angle in degrees).
func RotateDeg(angle float64) Matrix {
	return Rotate(angle * math.Pi / 180)
}

// Mul multiplies two matrices: result = m * other.
func (m Matrix) Mul(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Apply applies the matrix to a point given as coordinates.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyPoint applies the matrix to a Point.
func (m Matrix) ApplyPoint(p Point) Point {
	x, y := m.Apply(p.X, p.Y)
	return Point{x, y}
}

// Determinant returns the determinant of the matrix.
func (m Matrix) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Inverse returns the inverse of the matrix, or the identity when the
// matrix is singular.
func (m Matrix) Inverse() Matrix {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}
}

// ApplyRect transforms the rectangle and returns the bounding box of the
// transformed corners.
func (m Matrix) ApplyRect(r Rect) Rect {
	corners := [4]Point{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.Right(), r.Bottom()},
		{r.X, r.Bottom()},
	}

	p0 := m.ApplyPoint(corners[0])
	minX, maxX := p0.X, p0.X
	minY, maxY := p0.Y, p0.Y
	for _, c := range corners[1:] {
		p := m.ApplyPoint(c)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return RectOf(minX, minY, maxX, maxY)
}
