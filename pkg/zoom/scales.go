package zoom

import (
	"math"

	"loupe/pkg/geom"
)

// ScaleRange holds the step scales the engine cycles through. All values
// are final scales (base times user). The engine guarantees
// Min <= Medium <= Max after sanitizing whatever a calculator returns.
type ScaleRange struct {
	Min    float64
	Medium float64
	Max    float64
}

// ScalesCalculator is the pluggable policy mapping geometry onto a scale
// range. baseScale is the scale of the already-resolved base transform
// (read-mode adjusted when read mode applies); contentOrigin is the true
// pixel size of the source content, which may exceed the laid-out content
// size.
type ScalesCalculator interface {
	Calculate(container, content, contentOrigin geom.Size, rotation int, baseScale float64) ScaleRange
}

// DynamicScalesCalculator is the default policy. The minimum scale is the
// base scale. The medium scale is Multiple times the minimum, raised toward
// the scale at which the content origin renders 1:1 when the origin is
// higher-resolution than the laid-out size (capped at Multiple^2 times the
// minimum). The maximum is Multiple times the medium.
type DynamicScalesCalculator struct {
	// Multiple is the step factor between scales. Values <= 1 fall back
	// to the default of 3.
	Multiple float64
}

// Calculate implements ScalesCalculator.
func (c DynamicScalesCalculator) Calculate(container, content, contentOrigin geom.Size, rotation int, baseScale float64) ScaleRange {
	multiple := c.Multiple
	if multiple <= 1 {
		multiple = 3
	}

	min := baseScale
	medium := min * multiple

	// Scale at which one content-origin pixel maps to one container pixel.
	rotated := content.Rotate(rotation)
	rotatedOrigin := contentOrigin.Rotate(rotation)
	if !rotated.IsEmpty() && !rotatedOrigin.IsEmpty() {
		native := math.Max(
			float64(rotatedOrigin.Width)/float64(rotated.Width),
			float64(rotatedOrigin.Height)/float64(rotated.Height),
		)
		if native > medium {
			medium = math.Min(native, min*multiple*multiple)
		}
	}

	return ScaleRange{Min: min, Medium: medium, Max: medium * multiple}
}

// FixedScalesCalculator derives medium and max as plain multiples of the
// base scale, ignoring the content origin size.
type FixedScalesCalculator struct {
	// Multiple is the step factor between scales. Values <= 1 fall back
	// to the default of 3.
	Multiple float64
}

// Calculate implements ScalesCalculator.
func (c FixedScalesCalculator) Calculate(container, content, contentOrigin geom.Size, rotation int, baseScale float64) ScaleRange {
	multiple := c.Multiple
	if multiple <= 1 {
		multiple = 3
	}
	return ScaleRange{
		Min:    baseScale,
		Medium: baseScale * multiple,
		Max:    baseScale * multiple * multiple,
	}
}

// sanitizeScaleRange repairs whatever a calculator returned: non-finite or
// non-positive values collapse to the base scale, and the triple is
// reordered so Min <= Medium <= Max always holds.
func sanitizeScaleRange(r ScaleRange, baseScale float64) ScaleRange {
	if baseScale <= 0 || math.IsNaN(baseScale) || math.IsInf(baseScale, 0) {
		baseScale = 1
	}
	fix := func(v float64) float64 {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return baseScale
		}
		return v
	}
	vals := [3]float64{fix(r.Min), fix(r.Medium), fix(r.Max)}
	if vals[0] > vals[1] {
		vals[0], vals[1] = vals[1], vals[0]
	}
	if vals[1] > vals[2] {
		vals[1], vals[2] = vals[2], vals[1]
	}
	if vals[0] > vals[1] {
		vals[0], vals[1] = vals[1], vals[0]
	}
	return ScaleRange{Min: vals[0], Medium: vals[1], Max: vals[2]}
}
