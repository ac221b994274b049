package gui

import (
	"time"

	"loupe/pkg/geom"
)

// velocityWindow is how far back drag samples count toward the fling
// velocity. Older samples describe an earlier phase of the gesture.
const velocityWindow = 100 * time.Millisecond

type velocitySample struct {
	at  time.Time
	pos geom.Point
}

// velocityTracker estimates pointer velocity from recent drag samples so
// a drag release can turn into a fling.
type velocityTracker struct {
	samples []velocitySample
}

// Add records a pointer position, discarding samples outside the window.
func (v *velocityTracker) Add(at time.Time, pos geom.Point) {
	v.samples = append(v.samples, velocitySample{at: at, pos: pos})
	cutoff := at.Add(-velocityWindow)
	i := 0
	for i < len(v.samples) && v.samples[i].at.Before(cutoff) {
		i++
	}
	v.samples = v.samples[i:]
}

// Velocity returns the average velocity over the retained window in
// pixels per second, or zero when there are not enough samples.
func (v *velocityTracker) Velocity() geom.Point {
	if len(v.samples) < 2 {
		return geom.Point{}
	}
	first := v.samples[0]
	last := v.samples[len(v.samples)-1]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return geom.Point{}
	}
	return last.pos.Sub(first.pos).Div(dt)
}

// Reset discards all samples.
func (v *velocityTracker) Reset() {
	v.samples = v.samples[:0]
}
