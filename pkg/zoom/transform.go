// Package zoom implements a stateful pan/zoom/rotate transform engine for
// displaying a piece of visual content inside a fixed-size container.
//
// The engine derives a base transform from container/content geometry and a
// content-scale/alignment policy, maintains a user transform on top of it
// driven by gestures and programmatic calls, clamps both against computed
// scale and offset bounds, and publishes an aggregated snapshot of derived
// state after every change.
//
// All methods must be called from a single goroutine (typically the UI event
// loop). Observers must not mutate the engine from inside a change
// notification.
package zoom

import (
	"math"

	"loupe/pkg/geom"
)

// transformTolerance is the epsilon under which two transforms are
// considered equal and a mutation is reported as a no-op.
const transformTolerance = 1e-4

// Transform describes a 2D transform as uniform-capable scale factors, a
// translation in container pixels, and a quarter-turn rotation in degrees.
// In practice ScaleX equals ScaleY; they are stored as a pair so that
// FillBounds base transforms can stretch axes independently.
type Transform struct {
	ScaleX   float64
	ScaleY   float64
	OffsetX  float64
	OffsetY  float64
	Rotation int // 0, 90, 180 or 270
}

// IdentityTransform returns the neutral transform.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Offset returns the translation component as a point.
func (t Transform) Offset() geom.Point {
	return geom.Point{X: t.OffsetX, Y: t.OffsetY}
}

// Scale returns the uniform scale factor. For the rare non-uniform base
// transform (FillBounds) the horizontal factor is reported.
func (t Transform) Scale() float64 {
	return t.ScaleX
}

// IsIdentity reports whether the transform is neutral within tolerance.
func (t Transform) IsIdentity() bool {
	return t.Equal(IdentityTransform())
}

// Equal reports whether two transforms are equal within tolerance.
func (t Transform) Equal(other Transform) bool {
	return t.Rotation == other.Rotation &&
		math.Abs(t.ScaleX-other.ScaleX) < transformTolerance &&
		math.Abs(t.ScaleY-other.ScaleY) < transformTolerance &&
		math.Abs(t.OffsetX-other.OffsetX) < transformTolerance &&
		math.Abs(t.OffsetY-other.OffsetY) < transformTolerance
}

// concat composes a base and user transform. The base transform is applied
// first, then the user scale and offset on top:
//
//	container = user.Scale * (base.Scale*content + base.Offset) + user.Offset
func concat(base, user Transform) Transform {
	return Transform{
		ScaleX:   base.ScaleX * user.ScaleX,
		ScaleY:   base.ScaleY * user.ScaleY,
		OffsetX:  base.OffsetX*user.ScaleX + user.OffsetX,
		OffsetY:  base.OffsetY*user.ScaleY + user.OffsetY,
		Rotation: normalizeRotation(base.Rotation + user.Rotation),
	}
}

// lerpTransform interpolates between two transforms at fraction f in [0,1].
// Rotation does not interpolate; it snaps to the target.
func lerpTransform(from, to Transform, f float64) Transform {
	return Transform{
		ScaleX:   from.ScaleX + (to.ScaleX-from.ScaleX)*f,
		ScaleY:   from.ScaleY + (to.ScaleY-from.ScaleY)*f,
		OffsetX:  from.OffsetX + (to.OffsetX-from.OffsetX)*f,
		OffsetY:  from.OffsetY + (to.OffsetY-from.OffsetY)*f,
		Rotation: to.Rotation,
	}
}

// normalizeRotation maps an arbitrary degree value onto {0, 90, 180, 270},
// rounding to the nearest quarter turn.
func normalizeRotation(degrees int) int {
	d := ((degrees % 360) + 360) % 360
	switch {
	case d < 45 || d >= 315:
		return 0
	case d < 135:
		return 90
	case d < 225:
		return 180
	default:
		return 270
	}
}

// sanitize replaces non-finite values with a fallback. Every division in
// the engine funnels through here or through an explicit zero guard so that
// a degenerate input can never propagate NaN into the transform state.
func sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// clampf limits v to [lo, hi].
func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
