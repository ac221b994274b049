package geom

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, 4)
	assert.Equal(t, Pt(5, 6), p.Add(Pt(2, 2)))
	assert.Equal(t, Pt(1, 2), p.Sub(Pt(2, 2)))
	assert.Equal(t, Pt(6, 8), p.Mul(2))
	assert.Equal(t, Pt(1.5, 2), p.Div(2))
	assert.Equal(t, Point{}, p.Div(0))
	assert.InDelta(t, 5, p.Length(), 1e-9)
}

func TestSizeRotate(t *testing.T) {
	s := Sz(500, 1000)
	assert.Equal(t, Sz(1000, 500), s.Rotate(90))
	assert.Equal(t, Sz(500, 1000), s.Rotate(180))
	assert.Equal(t, Sz(1000, 500), s.Rotate(270))
	assert.Equal(t, Sz(500, 1000), s.Rotate(360))
	assert.Equal(t, Sz(1000, 500), s.Rotate(-90))
}

func TestSizeEmptyAndRatio(t *testing.T) {
	assert.True(t, Sz(0, 10).IsEmpty())
	assert.True(t, Sz(10, -1).IsEmpty())
	assert.False(t, Sz(1, 1).IsEmpty())
	assert.Equal(t, 0.0, Sz(0, 10).AspectRatio())
	assert.InDelta(t, 0.5, Sz(500, 1000).AspectRatio(), 1e-9)
}

func TestRectOfNormalizes(t *testing.T) {
	r := RectOf(10, 20, 4, 6)
	assert.Equal(t, Rect{X: 4, Y: 6, Width: 6, Height: 14}, r)
}

func TestRectIntersectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}

	got := a.Intersect(b)
	assert.Equal(t, Rect{X: 5, Y: 5, Width: 5, Height: 5}, got)

	disjoint := Rect{X: 20, Y: 20, Width: 5, Height: 5}
	assert.True(t, a.Intersect(disjoint).IsEmpty())

	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 15, Height: 15}, u)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 1, Y: 1, Width: 2, Height: 2}
	assert.True(t, r.Contains(Pt(1, 1)))
	assert.True(t, r.Contains(Pt(3, 3)))
	assert.False(t, r.Contains(Pt(3.01, 2)))
}

func TestRectRound(t *testing.T) {
	r := Rect{X: 0.4, Y: 0.6, Width: 9.9, Height: 9.1}
	assert.Equal(t, image.Rect(0, 1, 10, 10), r.Round())
}

func TestMatrixInverseRoundTrip(t *testing.T) {
	m := Scale(2, 3).Mul(Translate(10, -4))
	inv := m.Inverse()

	x, y := m.Apply(7, 11)
	bx, by := inv.Apply(x, y)
	assert.InDelta(t, 7, bx, 1e-9)
	assert.InDelta(t, 11, by, 1e-9)
}

func TestMatrixSingularInverse(t *testing.T) {
	m := Matrix{0, 0, 0, 0, 5, 6}
	require.Equal(t, 0.0, m.Determinant())
	assert.Equal(t, Identity(), m.Inverse())
}

func TestMatrixApplyRect(t *testing.T) {
	m := Scale(2, 2).Mul(Translate(1, 1))
	got := m.ApplyRect(Rect{X: 0, Y: 0, Width: 10, Height: 5})
	assert.InDelta(t, 1, got.X, 1e-9)
	assert.InDelta(t, 1, got.Y, 1e-9)
	assert.InDelta(t, 20, got.Width, 1e-9)
	assert.InDelta(t, 10, got.Height, 1e-9)
}
