package zoom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loupe/pkg/geom"
)

// manualDriver is an AnimationDriver the test advances by hand.
type manualDriver struct {
	spec    AnimationSpec
	tick    func(float64)
	done    func(bool)
	running bool
}

func (d *manualDriver) Start(spec AnimationSpec, tick func(progress float64), done func(finished bool)) {
	if d.running {
		d.finish(false)
	}
	d.spec, d.tick, d.done, d.running = spec, tick, done, true
}

func (d *manualDriver) Stop() {
	if d.running {
		d.finish(false)
	}
}

func (d *manualDriver) finish(finished bool) {
	d.running = false
	d.done(finished)
}

// advance feeds one linear progress value, completing the animation at
// p >= 1.
func (d *manualDriver) advance(p float64) {
	if !d.running {
		return
	}
	d.tick(p)
	if d.running && p >= 1 {
		d.finish(true)
	}
}

func newTestEngine(container, content geom.Size) *Engine {
	e := NewEngine()
	e.SetContainerSize(container)
	e.SetContentSize(content)
	return e
}

func TestEngineInitialState(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))
	st := e.State()

	assert.True(t, st.BaseTransform.Equal(Transform{ScaleX: 1, ScaleY: 1, OffsetX: 250}))
	assert.True(t, st.UserTransform.IsIdentity())
	assert.InDelta(t, 1, st.MinScale, 1e-9)
	assert.InDelta(t, 3, st.MediumScale, 1e-9)
	assert.InDelta(t, 9, st.MaxScale, 1e-9)
	assert.InDelta(t, 250, st.ContentDisplayRect.X, 1e-9)
	assert.InDelta(t, 500, st.ContentDisplayRect.Width, 1e-9)
	assert.Equal(t, geom.Rect{}, st.UserOffsetBounds)
	assert.Equal(t, ScrollEdgeBoth, st.ScrollEdges.Horizontal)
	assert.Equal(t, ScrollEdgeBoth, st.ScrollEdges.Vertical)
}

func TestEngineScaleKeepsCentroidFixed(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))
	center := geom.Pt(250, 500)

	before := e.ContentPointToTouchPoint(center)
	require.True(t, e.Scale(2, center, false))
	after := e.ContentPointToTouchPoint(center)

	assert.InDelta(t, 2, e.Transform().ScaleX, 1e-9)
	assert.InDelta(t, before.X, after.X, 1e-6)
	assert.InDelta(t, before.Y, after.Y, 1e-6)
	assert.True(t, e.UserTransform().Equal(Transform{ScaleX: 2, ScaleY: 2, OffsetX: -500, OffsetY: -500}))
}

func TestEngineScaleClampsToRange(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))
	center := geom.Pt(250, 500)

	e.Scale(100, center, false)
	assert.InDelta(t, 9, e.Transform().ScaleX, 1e-9)

	e.Scale(0.01, center, false)
	assert.InDelta(t, 1, e.Transform().ScaleX, 1e-9)

	// Exceed-scale admits half the minimum for direct calls.
	e.SetExceedScale(true)
	e.Scale(0.01, center, false)
	assert.InDelta(t, 0.5, e.Transform().ScaleX, 1e-9)
}

func TestEngineContentOriginSizeChangeReclampsScale(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 500))
	e.SetContentOriginSize(geom.Sz(4000, 4000))

	st := e.State()
	require.InDelta(t, 2, st.MinScale, 1e-9)
	require.InDelta(t, 8, st.MediumScale, 1e-9)
	require.InDelta(t, 24, st.MaxScale, 1e-9)

	require.True(t, e.Scale(24, geom.Pt(250, 250), false))
	require.InDelta(t, 24, e.Transform().ScaleX, 1e-9)

	// Shrinking the origin lowers the range; the resting transform must
	// come back inside it immediately, not on the next mutation.
	e.SetContentOriginSize(geom.Sz(500, 500))

	st = e.State()
	assert.InDelta(t, 18, st.MaxScale, 1e-9)
	assert.InDelta(t, 18, st.Transform.ScaleX, 1e-9)
	b := st.UserOffsetBounds
	assert.GreaterOrEqual(t, st.UserTransform.OffsetX, b.X)
	assert.LessOrEqual(t, st.UserTransform.OffsetX, b.Right())
	assert.GreaterOrEqual(t, st.UserTransform.OffsetY, b.Y)
	assert.LessOrEqual(t, st.UserTransform.OffsetY, b.Bottom())
}

func TestEngineContainerResizeResetsTransform(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))
	e.SetKeepTransformWhenSameAspectRatioContentSizeChanged(true)
	require.True(t, e.Scale(2, geom.Pt(250, 500), false))

	// Keep-transform is keyed to content size changes; a container
	// resize always drops the user transform.
	e.SetContainerSize(geom.Sz(800, 800))

	assert.True(t, e.UserTransform().IsIdentity())
	assert.InDelta(t, 0.8, e.Transform().ScaleX, 1e-9)
}

func TestEngineScaleUnknownGeometry(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.Scale(2, geom.Point{}, false))
	assert.False(t, e.Offset(geom.Pt(10, 10), false))
	assert.False(t, e.Locate(geom.Pt(10, 10), 2, false))
	_, ok := e.SwitchScale(geom.Point{}, false)
	assert.False(t, ok)
}

func TestEngineSwitchScaleCycle(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	e.SetScalesCalculator(DynamicScalesCalculator{Multiple: 2})
	e.SetThreeStepScale(true)
	center := geom.Pt(500, 500)

	for _, want := range []float64{2, 4, 1, 2} {
		got, ok := e.SwitchScale(center, false)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-9)
		assert.InDelta(t, want, e.Transform().ScaleX, 1e-9)
	}
}

func TestEngineSwitchScaleTwoStep(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	e.SetScalesCalculator(DynamicScalesCalculator{Multiple: 2})
	center := geom.Pt(500, 500)

	for _, want := range []float64{2, 1, 2} {
		got, _ := e.SwitchScale(center, false)
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestEngineGetNextStepScaleTolerance(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	e.SetScalesCalculator(DynamicScalesCalculator{Multiple: 2})
	center := geom.Pt(500, 500)

	// Just below the medium step: still moves to it.
	e.Scale(1.9, center, false)
	assert.InDelta(t, 2, e.GetNextStepScale(), 1e-9)

	// Within tolerance of the medium step: wraps to the minimum.
	e.Scale(1.98, center, false)
	assert.InDelta(t, 1, e.GetNextStepScale(), 1e-9)
}

func TestEngineOffsetClampsToBounds(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	e.Scale(4, geom.Pt(500, 500), false)
	require.InDelta(t, -3000, e.UserOffsetBounds().X, 1e-9)
	require.InDelta(t, 0, e.UserOffsetBounds().Right(), 1e-9)

	require.True(t, e.Offset(geom.Pt(-100, -200), false))
	assert.InDelta(t, -100, e.UserTransform().OffsetX, 1e-9)
	assert.InDelta(t, -200, e.UserTransform().OffsetY, 1e-9)

	e.Offset(geom.Pt(500, -5000), false)
	assert.InDelta(t, 0, e.UserTransform().OffsetX, 1e-9)
	assert.InDelta(t, -3000, e.UserTransform().OffsetY, 1e-9)

	require.True(t, e.OffsetBy(geom.Pt(-250, 250), false))
	assert.InDelta(t, -250, e.UserTransform().OffsetX, 1e-9)
	assert.InDelta(t, -2750, e.UserTransform().OffsetY, 1e-9)
}

func TestEngineLocateCentersPoint(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	target := geom.Pt(250, 250)

	require.True(t, e.Locate(target, 4, false))
	assert.InDelta(t, 4, e.Transform().ScaleX, 1e-9)

	touch := e.ContentPointToTouchPoint(target)
	assert.InDelta(t, 500, touch.X, 1e-6)
	assert.InDelta(t, 500, touch.Y, 1e-6)
}

func TestEngineLocateClampsNearEdge(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))

	// A corner point cannot be centered; the offset pins to the bounds.
	require.True(t, e.Locate(geom.Pt(0, 0), 4, false))
	assert.InDelta(t, 0, e.UserTransform().OffsetX, 1e-9)
	assert.InDelta(t, 0, e.UserTransform().OffsetY, 1e-9)
}

func TestEngineRotateReflows(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))
	e.Scale(4, geom.Pt(250, 500), false)

	require.True(t, e.Rotate(90))
	assert.Equal(t, 90, e.Rotation())
	// Rotation is a full reflow: the user transform resets.
	assert.True(t, e.UserTransform().IsIdentity())
	assert.True(t, e.BaseTransform().Equal(Transform{ScaleX: 1, ScaleY: 1, OffsetY: 250, Rotation: 90}))

	require.True(t, e.RotateBy(90))
	assert.Equal(t, 180, e.Rotation())

	// Arbitrary angles snap to the nearest quarter turn.
	assert.False(t, e.Rotate(185))
	require.True(t, e.Rotate(275))
	assert.Equal(t, 270, e.Rotation())
}

func TestEngineGestureRubberBandAndRollback(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	center := geom.Pt(500, 500)

	// Pinch to half the minimum scale: square-root damping yields ~0.707.
	e.GestureTransform(center, geom.Point{}, 0.5, 0)
	assert.InDelta(t, 0.7071, e.Transform().ScaleX, 1e-3)
	assert.Equal(t, ContinuousGesture, e.ContinuousType()&ContinuousGesture)

	// Gesture end rolls the scale back to the minimum (instant driver).
	require.True(t, e.RollbackScale(nil))
	assert.InDelta(t, 1, e.Transform().ScaleX, 1e-6)
	assert.Equal(t, ContinuousTransformType(0), e.ContinuousType())
}

func TestEngineGestureOvershootAboveMax(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	center := geom.Pt(500, 500)

	e.GestureTransform(center, geom.Point{}, 12, 0)
	assert.InDelta(t, 9*1.1547, e.Transform().ScaleX, 1e-3)

	focus := geom.Pt(500, 500)
	require.True(t, e.RollbackScale(&focus))
	assert.InDelta(t, 9, e.Transform().ScaleX, 1e-6)
}

func TestEngineGestureWithoutRubberBandClamps(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	e.SetRubberBandScale(false)

	e.GestureTransform(geom.Pt(500, 500), geom.Point{}, 0.5, 0)
	assert.InDelta(t, 1, e.Transform().ScaleX, 1e-9)

	// Nothing to roll back.
	assert.False(t, e.RollbackScale(nil))
}

func TestEngineGesturePanStaysInBoundsWithinRange(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	e.Scale(2, geom.Pt(500, 500), false)
	require.InDelta(t, -1000, e.UserOffsetBounds().X, 1e-9)

	// An in-range gesture pan clamps immediately.
	e.GestureTransform(geom.Pt(500, 500), geom.Pt(400, -5000), 1, 0)
	assert.InDelta(t, -100, e.UserTransform().OffsetX, 1e-9)
	assert.InDelta(t, -1000, e.UserTransform().OffsetY, 1e-9)
}

func TestEngineGestureRotationCommitsQuarterTurns(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))
	center := geom.Pt(500, 500)

	e.GestureTransform(center, geom.Point{}, 1, 50)
	e.GestureTransform(center, geom.Point{}, 1, 45)
	require.True(t, e.RollbackScale(nil))
	assert.Equal(t, 90, e.Rotation())

	// A sub-quarter wiggle does not commit.
	e.GestureTransform(center, geom.Point{}, 1, 30)
	assert.False(t, e.RollbackScale(nil))
	assert.Equal(t, 90, e.Rotation())
}

func TestEngineFlingDecays(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	driver := &manualDriver{}
	e.SetAnimationDriver(driver)
	e.Scale(4, geom.Pt(500, 500), false)
	require.InDelta(t, -1500, e.UserTransform().OffsetX, 1e-9)

	require.True(t, e.Fling(geom.Pt(2000, 0)))
	assert.Equal(t, ContinuousFling, e.ContinuousType())
	assert.InDelta(t, 0.8197, driver.spec.Duration.Seconds(), 1e-3)

	driver.advance(0.5)
	assert.InDelta(t, -1125.83, e.UserTransform().OffsetX, 0.05)

	driver.advance(1)
	assert.InDelta(t, -1066.67, e.UserTransform().OffsetX, 0.05)
	assert.InDelta(t, -1500, e.UserTransform().OffsetY, 1e-9)
	assert.Equal(t, ContinuousTransformType(0), e.ContinuousType())
}

func TestEngineFlingStopsAtBound(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	driver := &manualDriver{}
	e.SetAnimationDriver(driver)
	e.Scale(4, geom.Pt(500, 500), false)
	require.True(t, e.Offset(geom.Pt(-300, -1500), false))

	require.True(t, e.Fling(geom.Pt(2000, 0)))
	// Halfway through, the 300px of headroom is already exhausted: the
	// offset pins to the bound and the fling stops early, no bounce.
	driver.advance(0.5)
	assert.InDelta(t, 0, e.UserTransform().OffsetX, 1e-9)
	assert.False(t, driver.running)
	assert.Equal(t, ContinuousTransformType(0), e.ContinuousType())
}

func TestEngineFlingRejectsNegligibleVelocity(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	e.Scale(4, geom.Pt(500, 500), false)
	assert.False(t, e.Fling(geom.Pt(10, 0)))

	// No room to travel at the minimum scale.
	e.Scale(1, geom.Pt(500, 500), false)
	assert.False(t, e.Fling(geom.Pt(2000, 0)))
}

func TestEngineKeepTransformAcrossSameAspectResize(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	e.SetKeepTransformWhenSameAspectRatioContentSizeChanged(true)
	e.Scale(2, geom.Pt(500, 500), false)

	e.SetContentSize(geom.Sz(2000, 2000))

	// The relative zoom (2x the fit scale) and the centered viewport
	// survive the swap to the higher-resolution content.
	assert.InDelta(t, 2, e.UserTransform().ScaleX, 1e-9)
	assert.InDelta(t, 1, e.Transform().ScaleX, 1e-9)
	center := e.State().ContentVisibleRect.Center()
	assert.InDelta(t, 1000, center.X, 1e-6)
	assert.InDelta(t, 1000, center.Y, 1e-6)

	// A different aspect ratio resets instead.
	e.SetContentSize(geom.Sz(2000, 1000))
	assert.True(t, e.UserTransform().IsIdentity())
}

func TestEngineStopAllAnimation(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))
	driver := &manualDriver{}
	e.SetAnimationDriver(driver)

	require.True(t, e.Scale(9, geom.Pt(250, 500), true))
	driver.advance(0.5)
	assert.InDelta(t, 5, e.UserTransform().ScaleX, 1e-6)

	e.StopAllAnimation("test")
	assert.False(t, driver.running)
	assert.Equal(t, ContinuousTransformType(0), e.ContinuousType())
	// The transform freezes at its last interpolated value.
	assert.InDelta(t, 5, e.UserTransform().ScaleX, 1e-6)

	// Idempotent.
	e.StopAllAnimation("test")
	assert.Equal(t, ContinuousTransformType(0), e.ContinuousType())
}

func TestEngineAnimatedScaleInterrupts(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))
	driver := &manualDriver{}
	e.SetAnimationDriver(driver)

	require.True(t, e.Scale(9, geom.Pt(250, 500), true))
	assert.Equal(t, ContinuousScale, e.ContinuousType())
	assert.Equal(t, ContinuousScale, e.State().ContinuousTransformType)
	driver.advance(0.5)

	// A new mutation takes over from the interpolated value.
	require.True(t, e.Scale(1, geom.Pt(250, 500), false))
	assert.InDelta(t, 1, e.Transform().ScaleX, 1e-9)
	assert.Equal(t, ContinuousTransformType(0), e.ContinuousType())

	// The stale driver callbacks are ignored.
	driver.advance(1)
	assert.InDelta(t, 1, e.Transform().ScaleX, 1e-9)
}

func TestEngineNotificationDedup(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	var count int
	e.OnChange(func(State) { count++ })

	e.Scale(2, geom.Pt(500, 500), false)
	assert.Equal(t, 1, count)

	// No-ops publish nothing.
	e.SetContainerSize(geom.Sz(1000, 1000))
	e.Scale(2, geom.Pt(500, 500), false)
	e.Offset(e.UserTransform().Offset(), false)
	assert.Equal(t, 1, count)

	e.Rotate(90)
	assert.Equal(t, 2, count)
}

func TestEngineCanScroll(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))

	assert.False(t, e.CanScroll(true, 0))

	e.Scale(4, geom.Pt(500, 500), false)
	assert.True(t, e.CanScroll(true, 0))
	assert.True(t, e.CanScroll(true, 1))
	assert.True(t, e.CanScroll(false, -1))

	e.Offset(geom.Pt(0, -3000), false)
	assert.False(t, e.CanScroll(true, -1)) // at the start edge
	assert.True(t, e.CanScroll(true, 1))
	assert.False(t, e.CanScroll(false, 1)) // at the end edge
	assert.True(t, e.CanScroll(false, -1))
}

func TestEngineScrollEdgesInState(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	e.Scale(4, geom.Pt(500, 500), false)

	e.Offset(geom.Pt(0, -1500), false)
	st := e.State()
	assert.Equal(t, ScrollEdgeStart, st.ScrollEdges.Horizontal)
	assert.Equal(t, ScrollEdgeNone, st.ScrollEdges.Vertical)

	e.Offset(geom.Pt(-3000, -3000), false)
	st = e.State()
	assert.Equal(t, ScrollEdgeEnd, st.ScrollEdges.Horizontal)
	assert.Equal(t, ScrollEdgeEnd, st.ScrollEdges.Vertical)
}

func TestEngineTouchContentRoundTrip(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))
	e.Rotate(90)

	p := geom.Pt(100, 200)
	touch := e.ContentPointToTouchPoint(p)
	assert.InDelta(t, 800, touch.X, 1e-9)
	assert.InDelta(t, 350, touch.Y, 1e-9)

	back := e.TouchPointToContentPoint(touch)
	assert.InDelta(t, p.X, back.X, 1e-6)
	assert.InDelta(t, p.Y, back.Y, 1e-6)

	// Round trip holds while zoomed too.
	e.Scale(3, geom.Pt(250, 500), false)
	back = e.TouchPointToContentPoint(e.ContentPointToTouchPoint(p))
	assert.InDelta(t, p.X, back.X, 1e-6)
	assert.InDelta(t, p.Y, back.Y, 1e-6)
}

func TestEngineTouchPointClampsToContent(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(500, 1000))

	// A touch in the letterbox area maps to the nearest content edge.
	p := e.TouchPointToContentPoint(geom.Pt(10, 500))
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 500, p.Y, 1e-9)
}

func TestEngineContainerWhitespaceExpandsBounds(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(1000, 1000))
	assert.False(t, e.CanScroll(true, 0))

	e.SetContainerWhitespace(ContainerWhitespace{Multiple: 0.5})
	assert.True(t, e.CanScroll(true, 0))
	assert.InDelta(t, -500, e.UserOffsetBounds().X, 1e-9)
	assert.InDelta(t, 500, e.UserOffsetBounds().Right(), 1e-9)
}

func TestEngineCheckSupportGestureType(t *testing.T) {
	e := NewEngine()
	assert.True(t, e.CheckSupportGestureType(GestureDrag))

	e.SetDisabledGestureTypes(GestureDrag | GestureMouseWheel)
	assert.False(t, e.CheckSupportGestureType(GestureDrag))
	assert.False(t, e.CheckSupportGestureType(GestureMouseWheel))
	assert.True(t, e.CheckSupportGestureType(GesturePinch))
	assert.True(t, e.CheckSupportGestureType(GestureDoubleTap))
}

func TestEngineReadModeMinScale(t *testing.T) {
	e := newTestEngine(geom.Sz(1000, 1000), geom.Sz(400, 4000))
	e.SetReadMode(ReadMode{Enabled: true})

	require.True(t, e.ReadModeApplied())
	// The read-mode scale becomes the minimum scale.
	assert.InDelta(t, 2.5, e.State().MinScale, 1e-9)
	assert.InDelta(t, 2.5, e.Transform().ScaleX, 1e-9)
	// Anchored at the top of the strip.
	assert.InDelta(t, 0, e.State().ContentVisibleRect.Y, 1e-9)
	assert.InDelta(t, 400, e.State().ContentVisibleRect.Height, 1e-9)
	// The whole strip is reachable by panning.
	assert.InDelta(t, -9000, e.UserOffsetBounds().Y, 1e-9)
	assert.InDelta(t, 0, e.UserOffsetBounds().Bottom(), 1e-9)
}
