package zoom

import "math"

// OneFingerScaleSpec configures the long-press-then-drag vertical scale
// gesture. The host feeds the vertical pan distance through ScaleFactor
// and passes the result as the zoom delta of a GestureTransform call.
type OneFingerScaleSpec struct {
	// ScalePerPixel is the exponential scale rate per pixel of vertical
	// pan. Zero or negative falls back to the default of 0.005 (about a
	// 2x change per 140px of drag).
	ScalePerPixel float64
}

// ScaleFactor converts a vertical pan delta in container pixels into a
// multiplicative zoom delta. Dragging down (positive pan) zooms in.
func (s OneFingerScaleSpec) ScaleFactor(pan float64) float64 {
	rate := s.ScalePerPixel
	if rate <= 0 {
		rate = 0.005
	}
	return math.Exp(pan * rate)
}
