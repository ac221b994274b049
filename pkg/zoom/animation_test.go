package zoom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstantDriverCompletesSynchronously(t *testing.T) {
	var progress []float64
	var finished *bool

	instantDriver{}.Start(DefaultAnimationSpec(),
		func(p float64) { progress = append(progress, p) },
		func(f bool) { finished = &f })

	assert.Equal(t, []float64{1}, progress)
	require.NotNil(t, finished)
	assert.True(t, *finished)
}

func TestEasingEndpoints(t *testing.T) {
	for name, e := range map[string]Easing{
		"linear":     EasingLinear,
		"easeInOut":  EasingEaseInOut,
		"easeOut":    EasingEaseOut,
		"decelerate": EasingDecelerate,
	} {
		assert.InDelta(t, 0, e(0), 1e-9, name)
		assert.InDelta(t, 1, e(1), 1e-9, name)
	}
	assert.InDelta(t, 0.5, EasingEaseInOut(0.5), 1e-9)
}

func TestParseEasing(t *testing.T) {
	for _, name := range []string{"linear", "easeInOut", "easeOut", "decelerate"} {
		_, ok := ParseEasing(name)
		assert.True(t, ok, name)
	}
	e, ok := ParseEasing("bounce")
	assert.False(t, ok)
	assert.InDelta(t, EasingEaseInOut(0.3), e(0.3), 1e-9)
}

func TestAnimationSpecNormalized(t *testing.T) {
	s := AnimationSpec{}.normalized()
	assert.Equal(t, 300*time.Millisecond, s.Duration)
	require.NotNil(t, s.Easing)

	s = WithDuration(time.Second)
	assert.Equal(t, time.Second, s.Duration)
}

func TestFlingDuration(t *testing.T) {
	d := flingDuration(2000, defaultFlingFriction)
	assert.InDelta(t, 0.8197, d.Seconds(), 1e-3)

	assert.Equal(t, time.Duration(0), flingDuration(40, defaultFlingFriction))
	assert.Equal(t, time.Duration(0), flingDuration(2000, 0))
}

func TestFlingDistanceMatchesOffsetAtEnd(t *testing.T) {
	const speed = 2000.0
	total := flingDistance(speed, speed, defaultFlingFriction)
	assert.InDelta(t, 433.33, total, 0.01)

	d := flingDuration(speed, defaultFlingFriction)
	atEnd := flingOffsetAt(speed, defaultFlingFriction, d)
	assert.InDelta(t, total, atEnd, 1e-6)
}

func TestFlingOffsetAtIsMonotonic(t *testing.T) {
	prev := 0.0
	for ms := 50; ms <= 800; ms += 50 {
		cur := flingOffsetAt(2000, defaultFlingFriction, time.Duration(ms)*time.Millisecond)
		assert.Greater(t, cur, prev)
		prev = cur
	}
}
