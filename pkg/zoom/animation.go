package zoom

import (
	"math"
	"time"
)

// Easing maps a linear animation progress in [0,1] onto an eased fraction.
// An easing must map 0 to 0 and 1 to 1.
type Easing func(t float64) float64

// EasingLinear applies no easing.
func EasingLinear(t float64) float64 { return t }

// EasingEaseInOut accelerates through the first half and decelerates
// through the second (quadratic).
func EasingEaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - 2*(1-t)*(1-t)
}

// EasingEaseOut decelerates toward the end (quadratic).
func EasingEaseOut(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EasingDecelerate decelerates sharply, matching the feel of a scroll
// settling (cubic ease-out).
func EasingDecelerate(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// ParseEasing maps a configuration name onto an easing function.
// Unknown names report ok=false and fall back to ease-in-out.
func ParseEasing(name string) (Easing, bool) {
	switch name {
	case "linear":
		return EasingLinear, true
	case "easeInOut":
		return EasingEaseInOut, true
	case "easeOut":
		return EasingEaseOut, true
	case "decelerate":
		return EasingDecelerate, true
	default:
		return EasingEaseInOut, false
	}
}

// AnimationSpec configures animated transform transitions.
type AnimationSpec struct {
	// Duration of the transition. Zero or negative falls back to the
	// default of 300ms.
	Duration time.Duration

	// Easing curve. Nil means ease-in-out.
	Easing Easing

	// InitialVelocity is a hint in scale-or-pixels per second for drivers
	// that support spring-like curves. The built-in drivers ignore it.
	InitialVelocity float64
}

// DefaultAnimationSpec returns the spec used when none is configured.
func DefaultAnimationSpec() AnimationSpec {
	return AnimationSpec{Duration: 300 * time.Millisecond, Easing: EasingEaseInOut}
}

// WithDuration returns a default spec with the given duration.
func WithDuration(d time.Duration) AnimationSpec {
	spec := DefaultAnimationSpec()
	spec.Duration = d
	return spec
}

// normalized fills in defaults for zero-value fields.
func (s AnimationSpec) normalized() AnimationSpec {
	if s.Duration <= 0 {
		s.Duration = 300 * time.Millisecond
	}
	if s.Easing == nil {
		s.Easing = EasingEaseInOut
	}
	return s
}

// AnimationDriver performs per-frame interpolation and timing for the
// engine. The engine only sequences start/stop; it never owns frame timing
// itself.
//
// Start begins a new animation, invoking tick with a monotonically
// increasing linear progress in (0,1], ending with tick(1) when it runs to
// completion. done must be called exactly once per Start: with finished
// true after the final tick, or with finished false when the animation is
// stopped early. Starting while an animation is running implicitly stops
// the previous one.
type AnimationDriver interface {
	Start(spec AnimationSpec, tick func(progress float64), done func(finished bool))
	Stop()
}

// instantDriver completes every animation synchronously. It is the default
// when no driver is injected, so a headless engine behaves exactly like an
// unanimated one.
type instantDriver struct{}

func (instantDriver) Start(spec AnimationSpec, tick func(progress float64), done func(finished bool)) {
	tick(1)
	done(true)
}

func (instantDriver) Stop() {}

// Fling friction model: velocity decays exponentially with the friction
// coefficient until it falls below the stop velocity.
//
//	v(t) = v0 * exp(-friction*t)
//	x(t) = x0 + v0/friction * (1 - exp(-friction*t))
//
// Both constants are tunable policy, not load-bearing for correctness.
const (
	defaultFlingFriction = 4.5 // 1/seconds
	flingStopVelocity    = 50  // container pixels per second
)

// flingDuration returns how long a fling at the given speed takes to decay
// to the stop velocity.
func flingDuration(speed, friction float64) time.Duration {
	if speed <= flingStopVelocity || friction <= 0 {
		return 0
	}
	seconds := math.Log(speed/flingStopVelocity) / friction
	return time.Duration(seconds * float64(time.Second))
}

// flingDistance returns the signed travel along one axis over the whole
// fling for the given axis velocity and overall speed.
func flingDistance(velocity, speed, friction float64) float64 {
	if speed <= flingStopVelocity || friction <= 0 {
		return 0
	}
	return velocity / friction * (1 - flingStopVelocity/speed)
}

// flingOffsetAt returns the travel along one axis after t of the fling.
func flingOffsetAt(velocity, friction float64, t time.Duration) float64 {
	if friction <= 0 {
		return 0
	}
	return velocity / friction * (1 - math.Exp(-friction*t.Seconds()))
}
