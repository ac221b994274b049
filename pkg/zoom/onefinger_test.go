package zoom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOneFingerScaleFactor(t *testing.T) {
	var s OneFingerScaleSpec

	assert.InDelta(t, 1, s.ScaleFactor(0), 1e-9)
	// Default rate: ~2x per 140px of drag.
	assert.InDelta(t, 2.0138, s.ScaleFactor(140), 1e-3)
	// Dragging the other way is the exact inverse.
	assert.InDelta(t, 1/s.ScaleFactor(80), s.ScaleFactor(-80), 1e-9)

	fast := OneFingerScaleSpec{ScalePerPixel: 0.01}
	assert.Greater(t, fast.ScaleFactor(100), s.ScaleFactor(100))
}
