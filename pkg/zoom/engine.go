package zoom

import (
	"image"
	"math"
	"time"

	"loupe/pkg/geom"
)

// defaultExceedScaleFactor is how far below the natural minimum the
// effective minimum drops when exceed-scale is enabled.
const defaultExceedScaleFactor = 0.5

// engine interaction modes. Only one of animating/gesturing may be active;
// starting one cancels the other.
type engineMode int

const (
	modeIdle engineMode = iota
	modeAnimating
	modeGesturing
)

// ScrollEdges holds the per-axis pan-limit state.
type ScrollEdges struct {
	Horizontal ScrollEdge
	Vertical   ScrollEdge
}

// State is the immutable snapshot published after every change to derived
// state. Rectangles in container space (display rects, offset bounds) and
// content space (visible rects) are carried in both floating and
// rounded-integer form.
type State struct {
	BaseTransform Transform
	UserTransform Transform
	Transform     Transform // final = base then user

	MinScale    float64
	MediumScale float64
	MaxScale    float64

	ContentBaseDisplayRect geom.Rect
	ContentBaseVisibleRect geom.Rect
	ContentDisplayRect     geom.Rect
	ContentVisibleRect     geom.Rect
	UserOffsetBounds       geom.Rect

	ContentBaseDisplayRectRounded image.Rectangle
	ContentBaseVisibleRectRounded image.Rectangle
	ContentDisplayRectRounded     image.Rectangle
	ContentVisibleRectRounded     image.Rectangle
	UserOffsetBoundsRounded       image.Rectangle

	ScrollEdges             ScrollEdges
	ContinuousTransformType ContinuousTransformType
	ReadModeApplied         bool
}

// Engine derives and maintains the composited transform for a piece of
// content inside a fixed-size container. It is constructed once per view,
// reconfigured through setters, and driven by gesture and programmatic
// calls. All methods must run on one goroutine; see the package comment.
type Engine struct {
	// configuration
	containerSize     geom.Size
	contentSize       geom.Size
	contentOriginSize geom.Size
	contentScale      ContentScale
	alignment         Alignment
	layoutDirection   LayoutDirection
	rotation          int
	readMode          ReadMode
	scalesCalculator  ScalesCalculator
	threeStepScale    bool
	rubberBandScale   bool
	exceedScale       bool
	oneFingerScale    OneFingerScaleSpec
	animationSpec     AnimationSpec
	limitOffsetInBase bool
	whitespace        ContainerWhitespace
	keepTransform     bool
	disabledGestures  GestureType
	flingFriction     float64

	driver   AnimationDriver
	onChange func(State)

	// derived state
	base            Transform
	user            Transform
	scaleRange      ScaleRange
	bounds          geom.Rect
	baseVisible     geom.Rect
	readModeApplied bool

	mode            engineMode
	continuous      ContinuousTransformType
	gestureRotation float64
	animID          uint64

	lastResetContentSize geom.Size
	lastState            State
	notified             bool
}

// NewEngine creates an engine with default configuration: Fit content
// scale, centered alignment, dynamic scales, rubber-band scaling enabled,
// and an instant animation driver (animations complete synchronously until
// a real driver is injected).
func NewEngine() *Engine {
	e := &Engine{
		contentScale:     ContentScaleFit,
		alignment:        AlignCenter,
		layoutDirection:  LTR,
		scalesCalculator: DynamicScalesCalculator{},
		rubberBandScale:  true,
		animationSpec:    DefaultAnimationSpec(),
		flingFriction:    defaultFlingFriction,
		driver:           instantDriver{},
		base:             IdentityTransform(),
		user:             IdentityTransform(),
		scaleRange:       ScaleRange{Min: 1, Medium: 1, Max: 1},
	}
	return e
}

// update pipeline stages. Configuration setters invalidate only the stages
// their field affects; a geometry change cascades through all of them.
type stage uint8

const (
	stageGeometry stage = 1 << iota
	stageScales
	stageBounds
)

// invalidate re-runs the necessary pipeline stages and fires one
// aggregated notification.
func (e *Engine) invalidate(stages stage) {
	if stages&stageGeometry != 0 {
		e.base, e.readModeApplied = computeBaseTransform(
			e.containerSize, e.contentSize, e.contentScale,
			e.alignment, e.rotation, e.layoutDirection, e.readMode)
		e.baseVisible = visibleRect(e.base, e.containerSize, e.contentSize)
	}
	if stages&stageScales != 0 {
		raw := e.scalesCalculator.Calculate(
			e.containerSize, e.contentSize, e.contentOriginSize,
			e.rotation, e.base.ScaleX)
		e.scaleRange = sanitizeScaleRange(raw, e.base.ScaleX)
		e.user = e.clampUserScale(e.user)
	}
	if stages&stageBounds != 0 {
		e.bounds = e.offsetBoundsFor(e.user.ScaleX)
		e.user.OffsetX = clampf(e.user.OffsetX, e.bounds.X, e.bounds.Right())
		e.user.OffsetY = clampf(e.user.OffsetY, e.bounds.Y, e.bounds.Bottom())
	}
	e.notify()
}

func (e *Engine) offsetBoundsFor(userScale float64) geom.Rect {
	return computeUserOffsetBounds(
		e.containerSize, e.contentSize, e.base, userScale,
		e.alignment, e.layoutDirection, e.whitespace,
		e.limitOffsetInBase, e.baseVisible)
}

// notify publishes the current snapshot if it differs from the last one.
func (e *Engine) notify() {
	st := e.snapshot()
	if e.notified && st == e.lastState {
		return
	}
	e.lastState = st
	e.notified = true
	if e.onChange != nil {
		e.onChange(st)
	}
}

func (e *Engine) snapshot() State {
	final := concat(e.base, e.user)
	baseDisplay := displayRect(e.base, e.contentSize)
	display := displayRect(final, e.contentSize)
	visible := visibleRect(final, e.containerSize, e.contentSize)
	h, v := computeScrollEdge(e.bounds, e.user.Offset())

	return State{
		BaseTransform: e.base,
		UserTransform: e.user,
		Transform:     final,

		MinScale:    e.scaleRange.Min,
		MediumScale: e.scaleRange.Medium,
		MaxScale:    e.scaleRange.Max,

		ContentBaseDisplayRect: baseDisplay,
		ContentBaseVisibleRect: e.baseVisible,
		ContentDisplayRect:     display,
		ContentVisibleRect:     visible,
		UserOffsetBounds:       e.bounds,

		ContentBaseDisplayRectRounded: baseDisplay.Round(),
		ContentBaseVisibleRectRounded: e.baseVisible.Round(),
		ContentDisplayRectRounded:     display.Round(),
		ContentVisibleRectRounded:     visible.Round(),
		UserOffsetBoundsRounded:       e.bounds.Round(),

		ScrollEdges:             ScrollEdges{Horizontal: h, Vertical: v},
		ContinuousTransformType: e.continuous,
		ReadModeApplied:         e.readModeApplied,
	}
}

// OnChange registers the aggregated change callback. The callback receives
// an immutable snapshot and must not call back into the engine.
func (e *Engine) OnChange(fn func(State)) {
	e.onChange = fn
}

// State returns the last published snapshot.
func (e *Engine) State() State {
	if !e.notified {
		e.lastState = e.snapshot()
		e.notified = true
	}
	return e.lastState
}

// SetAnimationDriver injects the animation driver. Nil restores the
// instant driver.
func (e *Engine) SetAnimationDriver(d AnimationDriver) {
	e.stopInternal()
	if d == nil {
		d = instantDriver{}
	}
	e.driver = d
}

// --- Configuration setters ---
//
// Each setter short-circuits when the value is unchanged and otherwise
// triggers an immediate synchronous recompute of the affected pipeline
// stages. Geometry-affecting setters reset the user transform per Reset
// semantics.

// SetContainerSize sets the container extent in pixels. A container
// resize always drops the user transform; keep-transform applies to
// content size changes only.
func (e *Engine) SetContainerSize(s geom.Size) {
	if s == e.containerSize {
		return
	}
	e.containerSize = s
	e.Reset("setContainerSize", true)
}

// SetContentSize sets the laid-out content extent in pixels.
func (e *Engine) SetContentSize(s geom.Size) {
	if s == e.contentSize {
		return
	}
	e.contentSize = s
	e.Reset("setContentSize", false)
}

// SetContentOriginSize sets the true pixel size of the source content,
// which feeds scale-range and read-mode decisions.
func (e *Engine) SetContentOriginSize(s geom.Size) {
	if s == e.contentOriginSize {
		return
	}
	e.contentOriginSize = s
	e.invalidate(stageScales | stageBounds)
}

// SetContentScale sets the fit policy for the base transform.
func (e *Engine) SetContentScale(c ContentScale) {
	if c == e.contentScale {
		return
	}
	e.contentScale = c
	e.Reset("setContentScale", true)
}

// SetAlignment sets the content anchor within the container.
func (e *Engine) SetAlignment(a Alignment) {
	if a == e.alignment {
		return
	}
	e.alignment = a
	e.Reset("setAlignment", true)
}

// SetLayoutDirection sets the reading direction used to resolve
// horizontal alignment components.
func (e *Engine) SetLayoutDirection(d LayoutDirection) {
	if d == e.layoutDirection {
		return
	}
	e.layoutDirection = d
	e.Reset("setLayoutDirection", true)
}

// SetReadMode sets the read-mode policy.
func (e *Engine) SetReadMode(m ReadMode) {
	if m == e.readMode {
		return
	}
	e.readMode = m
	e.Reset("setReadMode", true)
}

// SetScalesCalculator sets the scale-range policy. Nil restores the
// default dynamic calculator.
func (e *Engine) SetScalesCalculator(c ScalesCalculator) {
	if c == nil {
		c = DynamicScalesCalculator{}
	}
	e.scalesCalculator = c
	e.Reset("setScalesCalculator", true)
}

// SetThreeStepScale controls whether SwitchScale cycles through the
// maximum scale as well as minimum and medium.
func (e *Engine) SetThreeStepScale(v bool) {
	e.threeStepScale = v
}

// SetRubberBandScale controls damped scale overshoot during gestures.
func (e *Engine) SetRubberBandScale(v bool) {
	e.rubberBandScale = v
}

// SetExceedScale allows direct Scale calls to shrink below the natural
// minimum by a fixed factor.
func (e *Engine) SetExceedScale(v bool) {
	e.exceedScale = v
}

// SetOneFingerScaleSpec configures the one-finger scale gesture.
func (e *Engine) SetOneFingerScaleSpec(s OneFingerScaleSpec) {
	e.oneFingerScale = s
}

// OneFingerScaleSpec returns the configured one-finger scale spec.
func (e *Engine) OneFingerScaleSpec() OneFingerScaleSpec {
	return e.oneFingerScale
}

// SetAnimationSpec configures animated transitions.
func (e *Engine) SetAnimationSpec(s AnimationSpec) {
	e.animationSpec = s
}

// SetLimitOffsetWithinBaseVisibleRect restricts panning to the content
// region visible under the base transform.
func (e *Engine) SetLimitOffsetWithinBaseVisibleRect(v bool) {
	if v == e.limitOffsetInBase {
		return
	}
	e.limitOffsetInBase = v
	e.invalidate(stageBounds)
}

// SetContainerWhitespace adds slack to the offset bounds.
func (e *Engine) SetContainerWhitespace(w ContainerWhitespace) {
	if w == e.whitespace {
		return
	}
	e.whitespace = w
	e.invalidate(stageBounds)
}

// SetKeepTransformWhenSameAspectRatioContentSizeChanged preserves the
// relative user transform across content-size changes that do not change
// the aspect ratio.
func (e *Engine) SetKeepTransformWhenSameAspectRatioContentSizeChanged(v bool) {
	e.keepTransform = v
}

// SetDisabledGestureTypes sets the mask of gestures the host must not
// deliver. The engine itself only consults it through
// CheckSupportGestureType; filtering happens at the host.
func (e *Engine) SetDisabledGestureTypes(mask GestureType) {
	e.disabledGestures = mask
}

// DisabledGestureTypes returns the disabled-gesture mask.
func (e *Engine) DisabledGestureTypes() GestureType {
	return e.disabledGestures
}

// CheckSupportGestureType reports whether the host may deliver the given
// gesture under the current disabled-gesture mask.
func (e *Engine) CheckSupportGestureType(gesture GestureType) bool {
	return CheckSupportGestureType(e.disabledGestures, gesture)
}

// SetFlingFriction tunes the fling friction coefficient in 1/seconds.
// Values <= 0 restore the default.
func (e *Engine) SetFlingFriction(f float64) {
	if f <= 0 {
		f = defaultFlingFriction
	}
	e.flingFriction = f
}

// --- Simple accessors ---

// ContainerSize returns the configured container size.
func (e *Engine) ContainerSize() geom.Size { return e.containerSize }

// ContentSize returns the configured content size.
func (e *Engine) ContentSize() geom.Size { return e.contentSize }

// ContentOriginSize returns the configured content origin size.
func (e *Engine) ContentOriginSize() geom.Size { return e.contentOriginSize }

// Rotation returns the current rotation in degrees.
func (e *Engine) Rotation() int { return e.rotation }

// BaseTransform returns the geometry-derived transform.
func (e *Engine) BaseTransform() Transform { return e.base }

// UserTransform returns the interaction-derived transform.
func (e *Engine) UserTransform() Transform { return e.user }

// Transform returns the final composited transform.
func (e *Engine) Transform() Transform { return concat(e.base, e.user) }

// ScaleRange returns the current min/medium/max scales.
func (e *Engine) ScaleRange() ScaleRange { return e.scaleRange }

// UserOffsetBounds returns the legal user-offset rectangle at the current
// user scale.
func (e *Engine) UserOffsetBounds() geom.Rect { return e.bounds }

// ContinuousType returns the reason, if any, the transform is currently
// changing continuously.
func (e *Engine) ContinuousType() ContinuousTransformType { return e.continuous }

// ReadModeApplied reports whether the current base transform was produced
// by read mode.
func (e *Engine) ReadModeApplied() bool { return e.readModeApplied }

func (e *Engine) finalScale() float64 {
	return e.base.ScaleX * e.user.ScaleX
}

func (e *Engine) effectiveMinScale() float64 {
	min := e.scaleRange.Min
	if e.exceedScale {
		min *= defaultExceedScaleFactor
	}
	return min
}

func (e *Engine) hasGeometry() bool {
	return !e.containerSize.IsEmpty() && !e.contentSize.IsEmpty()
}

// --- Reset ---

// Reset fully recomputes the base transform, scale range and offset
// bounds from the current configuration, canceling any in-flight
// animation. When keep-transform is enabled, force is false, and the
// content size kept its aspect ratio since the previous reset, the
// relative user transform (scale ratio and offset fraction of the bounds)
// is remapped onto the new geometry instead of being dropped.
func (e *Engine) Reset(caller string, force bool) {
	_ = caller
	e.stopInternal()

	prevContent := e.lastResetContentSize
	prevUser := e.user
	prevBounds := e.bounds
	hadTransform := e.notified && !prevContent.IsEmpty()

	e.base, e.readModeApplied = computeBaseTransform(
		e.containerSize, e.contentSize, e.contentScale,
		e.alignment, e.rotation, e.layoutDirection, e.readMode)
	e.baseVisible = visibleRect(e.base, e.containerSize, e.contentSize)

	raw := e.scalesCalculator.Calculate(
		e.containerSize, e.contentSize, e.contentOriginSize,
		e.rotation, e.base.ScaleX)
	e.scaleRange = sanitizeScaleRange(raw, e.base.ScaleX)

	keep := !force && e.keepTransform && hadTransform && e.hasGeometry() &&
		sameAspectRatio(prevContent, e.contentSize)

	if keep {
		e.user = e.clampUserScale(prevUser)
		e.bounds = e.offsetBoundsFor(e.user.ScaleX)
		e.user.OffsetX = remapAxisOffset(prevUser.OffsetX, prevBounds.X, prevBounds.Width, e.bounds.X, e.bounds.Width)
		e.user.OffsetY = remapAxisOffset(prevUser.OffsetY, prevBounds.Y, prevBounds.Height, e.bounds.Y, e.bounds.Height)
	} else {
		e.user = IdentityTransform()
		e.bounds = e.offsetBoundsFor(1)
		e.user.OffsetX = clampf(0, e.bounds.X, e.bounds.Right())
		e.user.OffsetY = clampf(0, e.bounds.Y, e.bounds.Bottom())
	}

	e.lastResetContentSize = e.contentSize
	e.notify()
}

// clampUserScale limits a user transform's scale so the final scale stays
// within [effectiveMin, max].
func (e *Engine) clampUserScale(u Transform) Transform {
	if e.base.ScaleX <= 0 {
		return u
	}
	final := clampf(e.base.ScaleX*u.ScaleX, e.effectiveMinScale(), e.scaleRange.Max)
	s := final / e.base.ScaleX
	u.ScaleX = s
	u.ScaleY = s
	return u
}

func sameAspectRatio(a, b geom.Size) bool {
	ra, rb := a.AspectRatio(), b.AspectRatio()
	if ra == 0 || rb == 0 {
		return false
	}
	return math.Abs(ra-rb)/rb < 0.001
}

// remapAxisOffset maps an offset's fractional position within old bounds
// onto new bounds. A degenerate old range maps to the new midpoint.
func remapAxisOffset(v, oldMin, oldExtent, newMin, newExtent float64) float64 {
	frac := 0.5
	if oldExtent > 0 {
		frac = clampf((v-oldMin)/oldExtent, 0, 1)
	}
	return newMin + frac*newExtent
}

// --- Animation bookkeeping ---

// stopInternal cancels any in-flight animation or gesture, leaving the
// transform at its last value. It does not notify.
func (e *Engine) stopInternal() {
	switch e.mode {
	case modeAnimating:
		e.animID++ // invalidate pending driver callbacks first
		e.driver.Stop()
		e.mode = modeIdle
		e.continuous = 0
	case modeGesturing:
		e.mode = modeIdle
		e.continuous &^= ContinuousGesture
		e.gestureRotation = 0
	}
}

// StopAllAnimation cancels any in-flight animation or fling, leaving the
// transform at its last interpolated value. Idempotent.
func (e *Engine) StopAllAnimation(caller string) {
	_ = caller
	e.stopInternal()
	e.notify()
}

// applyUserRaw installs a user transform without clamping, recomputing the
// offset bounds for its scale, and notifies.
func (e *Engine) applyUserRaw(u Transform) {
	e.user = u
	e.bounds = e.offsetBoundsFor(u.ScaleX)
	e.notify()
}

// animateUser runs an interruptible transition between two user
// transforms through the animation driver.
func (e *Engine) animateUser(from, to Transform, typ ContinuousTransformType) {
	e.mode = modeAnimating
	e.continuous = typ
	e.animID++
	gen := e.animID
	spec := e.animationSpec.normalized()

	e.driver.Start(spec, func(p float64) {
		if gen != e.animID {
			return
		}
		f := spec.Easing(clampf(p, 0, 1))
		if p >= 1 {
			f = 1
		}
		e.applyUserRaw(lerpTransform(from, to, f))
	}, func(finished bool) {
		if gen != e.animID {
			return
		}
		e.mode = modeIdle
		e.continuous = 0
		e.notify()
	})
	// Publish the continuous flag even before the first tick. A no-op when
	// the driver completed synchronously.
	e.notify()
}

// --- Mutation operations ---

// Scale changes the final scale toward targetScale, keeping the given
// content-space centroid visually fixed, clamped to [effectiveMin, max]
// and to the offset bounds of the resulting scale. With animated true the
// transition runs through the animation driver and Scale returns once it
// has started. Returns false when geometry is unknown or the resulting
// transform would be unchanged within tolerance.
func (e *Engine) Scale(targetScale float64, centroid geom.Point, animated bool) bool {
	if !e.hasGeometry() {
		return false
	}
	e.stopInternal()

	target := clampf(sanitize(targetScale, e.scaleRange.Min), e.effectiveMinScale(), e.scaleRange.Max)
	to, ok := e.userTransformForScaleAt(target, centroid)
	if !ok || to.Equal(e.user) {
		e.notify()
		return false
	}
	if animated {
		e.animateUser(e.user, to, ContinuousScale)
	} else {
		e.applyUserRaw(to)
	}
	return true
}

// ScaleBy multiplies the current final scale.
func (e *Engine) ScaleBy(multiplier float64, centroid geom.Point, animated bool) bool {
	return e.Scale(e.finalScale()*sanitize(multiplier, 1), centroid, animated)
}

// ScaleByPlus adds to the current final scale.
func (e *Engine) ScaleByPlus(addend float64, centroid geom.Point, animated bool) bool {
	return e.Scale(e.finalScale()+sanitize(addend, 0), centroid, animated)
}

// userTransformForScaleAt computes the clamped user transform that puts
// the final scale at targetFinal while keeping the content-space centroid
// at its current container position.
func (e *Engine) userTransformForScaleAt(targetFinal float64, centroid geom.Point) (Transform, bool) {
	if e.base.ScaleX <= 0 || e.base.ScaleY <= 0 {
		return Transform{}, false
	}
	targetUser := targetFinal / e.base.ScaleX

	rp := rotatePoint(centroid, e.contentSize, e.rotation)
	// Container position of the centroid under the current transform.
	cx := (rp.X*e.base.ScaleX+e.base.OffsetX)*e.user.ScaleX + e.user.OffsetX
	cy := (rp.Y*e.base.ScaleY+e.base.OffsetY)*e.user.ScaleY + e.user.OffsetY

	offX := cx - (rp.X*e.base.ScaleX+e.base.OffsetX)*targetUser
	offY := cy - (rp.Y*e.base.ScaleY+e.base.OffsetY)*targetUser

	bounds := e.offsetBoundsFor(targetUser)
	return Transform{
		ScaleX:  targetUser,
		ScaleY:  targetUser,
		OffsetX: clampf(offX, bounds.X, bounds.Right()),
		OffsetY: clampf(offY, bounds.Y, bounds.Bottom()),
	}, true
}

// GetNextStepScale returns the scale SwitchScale would move to: the step
// scales cycle min, medium (and max with three-step scale enabled), with a
// tolerance so floating-point drift near a step does not skip the next
// one.
func (e *Engine) GetNextStepScale() float64 {
	steps := [3]float64{e.scaleRange.Min, e.scaleRange.Medium, e.scaleRange.Max}
	n := 2
	if e.threeStepScale {
		n = 3
	}
	cur := e.finalScale()
	for i := 0; i < n; i++ {
		if steps[i] > cur+stepScaleTolerance(cur) {
			return steps[i]
		}
	}
	return steps[0]
}

func stepScaleTolerance(cur float64) float64 {
	return math.Max(0.01, cur*0.05)
}

// SwitchScale cycles to the next step scale focused at the given
// content-space centroid. Returns the new scale and false when geometry is
// not yet known.
func (e *Engine) SwitchScale(centroid geom.Point, animated bool) (float64, bool) {
	if !e.hasGeometry() {
		return 0, false
	}
	next := e.GetNextStepScale()
	e.Scale(next, centroid, animated)
	return next, true
}

// Offset moves the user offset to the target, clamped to the current
// bounds. Same animation and return semantics as Scale.
func (e *Engine) Offset(target geom.Point, animated bool) bool {
	if !e.hasGeometry() {
		return false
	}
	e.stopInternal()

	to := e.user
	to.OffsetX = clampf(sanitize(target.X, e.user.OffsetX), e.bounds.X, e.bounds.Right())
	to.OffsetY = clampf(sanitize(target.Y, e.user.OffsetY), e.bounds.Y, e.bounds.Bottom())
	if to.Equal(e.user) {
		e.notify()
		return false
	}
	if animated {
		e.animateUser(e.user, to, ContinuousOffset)
	} else {
		e.applyUserRaw(to)
	}
	return true
}

// OffsetBy moves the user offset by a delta.
func (e *Engine) OffsetBy(delta geom.Point, animated bool) bool {
	return e.Offset(e.user.Offset().Add(delta), animated)
}

// Locate scales to targetScale (the current scale when <= 0) and centers
// the given content-space point in the container as one atomic update:
// clamping happens once against the bounds of the final scale.
func (e *Engine) Locate(contentPoint geom.Point, targetScale float64, animated bool) bool {
	if !e.hasGeometry() {
		return false
	}
	e.stopInternal()

	ts := sanitize(targetScale, 0)
	if ts <= 0 {
		ts = e.finalScale()
	}
	ts = clampf(ts, e.scaleRange.Min, e.scaleRange.Max)
	if e.base.ScaleX <= 0 {
		return false
	}
	targetUser := ts / e.base.ScaleX

	rotated := e.contentSize.Rotate(e.rotation)
	rp := rotatePoint(geom.Point{
		X: clampf(contentPoint.X, 0, float64(e.contentSize.Width)),
		Y: clampf(contentPoint.Y, 0, float64(e.contentSize.Height)),
	}, e.contentSize, e.rotation)
	rp.X = clampf(rp.X, 0, float64(rotated.Width))
	rp.Y = clampf(rp.Y, 0, float64(rotated.Height))

	center := e.containerSize.Center()
	offX := center.X - (rp.X*e.base.ScaleX+e.base.OffsetX)*targetUser
	offY := center.Y - (rp.Y*e.base.ScaleY+e.base.OffsetY)*targetUser

	bounds := e.offsetBoundsFor(targetUser)
	to := Transform{
		ScaleX:  targetUser,
		ScaleY:  targetUser,
		OffsetX: clampf(offX, bounds.X, bounds.Right()),
		OffsetY: clampf(offY, bounds.Y, bounds.Bottom()),
	}
	if to.Equal(e.user) {
		e.notify()
		return false
	}
	if animated {
		e.animateUser(e.user, to, ContinuousScale)
	} else {
		e.applyUserRaw(to)
	}
	return true
}

// Rotate sets the rotation, normalized to the nearest quarter turn, and
// performs a full geometry recompute. Rotation is a discrete reflow and is
// never animated. Returns false when the normalized rotation is unchanged.
func (e *Engine) Rotate(targetRotation int) bool {
	r := normalizeRotation(targetRotation)
	if r == e.rotation {
		return false
	}
	e.rotation = r
	e.Reset("rotate", true)
	return true
}

// RotateBy adds to the current rotation.
func (e *Engine) RotateBy(delta int) bool {
	return e.Rotate(e.rotation + delta)
}

// GestureTransform applies one incremental gesture delta to the live
// transform: a pan in container pixels, a multiplicative zoom factor
// focused on the container-space centroid, and a rotation delta in
// degrees. It never animates. With rubber-band scaling enabled the scale
// may exceed [min, max] by a square-root-damped response; the offset is
// left unclamped while the scale is outside the range so the gesture
// tracks the fingers. Rotation deltas accumulate and are committed as
// quarter turns by RollbackScale at gesture end.
//
// The caller groups a physical gesture into repeated calls and ends it
// explicitly with RollbackScale (and optionally Fling).
func (e *Engine) GestureTransform(centroid, panDelta geom.Point, zoomDelta, rotationDelta float64) {
	if !e.hasGeometry() {
		return
	}
	if e.mode == modeAnimating {
		e.stopInternal()
	}
	e.mode = modeGesturing
	e.continuous |= ContinuousGesture

	zoomDelta = sanitize(zoomDelta, 1)
	if zoomDelta <= 0 {
		zoomDelta = 1
	}

	cur := e.user
	targetFinal := e.limitGestureScale(e.base.ScaleX * cur.ScaleX * zoomDelta)
	targetUser := cur.ScaleX
	if e.base.ScaleX > 0 {
		targetUser = targetFinal / e.base.ScaleX
	}

	// Keep the gesture centroid fixed through the scale change, then pan.
	var offX, offY float64
	if cur.ScaleX > 0 && cur.ScaleY > 0 {
		bx := (centroid.X - cur.OffsetX) / cur.ScaleX
		by := (centroid.Y - cur.OffsetY) / cur.ScaleY
		offX = centroid.X - bx*targetUser + panDelta.X
		offY = centroid.Y - by*targetUser + panDelta.Y
	} else {
		offX = cur.OffsetX + panDelta.X
		offY = cur.OffsetY + panDelta.Y
	}

	to := Transform{ScaleX: targetUser, ScaleY: targetUser, OffsetX: offX, OffsetY: offY}

	withinRange := targetFinal >= e.scaleRange.Min-transformTolerance &&
		targetFinal <= e.scaleRange.Max+transformTolerance
	if withinRange || !e.rubberBandScale {
		bounds := e.offsetBoundsFor(targetUser)
		to.OffsetX = clampf(to.OffsetX, bounds.X, bounds.Right())
		to.OffsetY = clampf(to.OffsetY, bounds.Y, bounds.Bottom())
	}

	e.gestureRotation += sanitize(rotationDelta, 0)
	e.applyUserRaw(to)
}

// limitGestureScale limits a target final scale for a gesture. Within
// [effectiveMin, max] the scale passes through; beyond a limit it is
// hard-clamped, or square-root damped when rubber-band scaling is on:
// pinching to half the minimum reads ~0.71x the minimum, not 0.5x.
func (e *Engine) limitGestureScale(target float64) float64 {
	lo := e.effectiveMinScale()
	hi := e.scaleRange.Max
	target = sanitize(target, lo)
	if target < 1e-4 {
		target = 1e-4
	}
	if target >= lo && target <= hi {
		return target
	}
	if !e.rubberBandScale {
		return clampf(target, lo, hi)
	}
	if target > hi {
		return hi * math.Sqrt(target/hi)
	}
	return lo * math.Sqrt(target/lo)
}

// RollbackScale ends a gesture: it commits any accumulated rotation as
// quarter turns and, when rubber-band overshoot left the scale outside
// [min, max], animates it back to the nearest bound focused at the given
// container-space point (or the visible-rect center when focus is nil).
// Returns false when the scale was already within bounds.
func (e *Engine) RollbackScale(focus *geom.Point) bool {
	if e.mode == modeGesturing {
		e.mode = modeIdle
		e.continuous &^= ContinuousGesture
	}

	if q := int(math.Round(e.gestureRotation / 90)); q != 0 {
		e.gestureRotation = 0
		if e.Rotate(e.rotation + q*90) {
			return true
		}
	}
	e.gestureRotation = 0

	final := e.finalScale()
	lo, hi := e.scaleRange.Min, e.scaleRange.Max
	if final >= lo-transformTolerance && final <= hi+transformTolerance {
		e.invalidate(stageBounds) // settle any offset overshoot
		return false
	}

	target := clampf(final, lo, hi)
	var centroid geom.Point
	if focus != nil {
		centroid = e.TouchPointToContentPoint(*focus)
	} else {
		centroid = visibleRect(concat(e.base, e.user), e.containerSize, e.contentSize).Center()
	}
	to, ok := e.userTransformForScaleAt(target, centroid)
	if !ok {
		return false
	}
	e.animateUser(e.user, to, ContinuousRollback)
	return true
}

// Fling starts a decelerating offset animation from the given velocity in
// container pixels per second, using an exponential friction model. The
// animation stops early when the offset bounds are hit (no bounce) or when
// the velocity decays below the stop threshold. Returns false when the
// velocity is negligible or there is no room to travel.
func (e *Engine) Fling(velocity geom.Point) bool {
	if !e.hasGeometry() {
		return false
	}
	e.stopInternal()

	speed := velocity.Length()
	duration := flingDuration(speed, e.flingFriction)
	if duration <= 0 {
		return false
	}
	bounds := e.bounds
	if bounds.Width < boundsTolerance && bounds.Height < boundsTolerance {
		return false
	}

	start := e.user.Offset()
	friction := e.flingFriction

	e.mode = modeAnimating
	e.continuous = ContinuousFling
	e.animID++
	gen := e.animID

	spec := AnimationSpec{Duration: duration, Easing: EasingLinear}
	e.driver.Start(spec, func(p float64) {
		if gen != e.animID {
			return
		}
		t := time.Duration(clampf(p, 0, 1) * float64(duration))
		x := clampf(start.X+flingOffsetAt(velocity.X, friction, t), bounds.X, bounds.Right())
		y := clampf(start.Y+flingOffsetAt(velocity.Y, friction, t), bounds.Y, bounds.Bottom())

		u := e.user
		u.OffsetX = x
		u.OffsetY = y
		e.user = u
		e.notify()

		if flingAxisDone(velocity.X, x, bounds.X, bounds.Right()) &&
			flingAxisDone(velocity.Y, y, bounds.Y, bounds.Bottom()) {
			e.driver.Stop()
		}
	}, func(finished bool) {
		if gen != e.animID {
			return
		}
		e.mode = modeIdle
		e.continuous = 0
		e.notify()
	})
	e.notify()
	return true
}

// flingAxisDone reports whether an axis can make no further progress:
// no velocity, or pinned at the bound in the direction of travel.
func flingAxisDone(velocity, v, min, max float64) bool {
	switch {
	case velocity > 0:
		return v >= max-1e-9
	case velocity < 0:
		return v <= min+1e-9
	default:
		return true
	}
}

// CanScroll reports whether, at the current offset, there is
// bound-permitted room to pan on the given axis. A positive direction
// means scrolling forward (revealing later content, which decreases the
// offset); negative means scrolling backward. Direction zero asks whether
// the axis has any pan range at all.
func (e *Engine) CanScroll(horizontal bool, direction int) bool {
	var min, max, v float64
	if horizontal {
		min, max, v = e.bounds.X, e.bounds.Right(), e.user.OffsetX
	} else {
		min, max, v = e.bounds.Y, e.bounds.Bottom(), e.user.OffsetY
	}
	switch {
	case direction > 0:
		return v > min+boundsTolerance
	case direction < 0:
		return v < max-boundsTolerance
	default:
		return max-min > boundsTolerance
	}
}

// TouchPointToContentPoint inverse-maps a container-space point through
// the final transform into content space, clamped to the content bounds.
func (e *Engine) TouchPointToContentPoint(touch geom.Point) geom.Point {
	if e.user.ScaleX == 0 || e.user.ScaleY == 0 || e.base.ScaleX == 0 || e.base.ScaleY == 0 {
		return geom.Point{}
	}
	bx := (touch.X - e.user.OffsetX) / e.user.ScaleX
	by := (touch.Y - e.user.OffsetY) / e.user.ScaleY
	rx := (bx - e.base.OffsetX) / e.base.ScaleX
	ry := (by - e.base.OffsetY) / e.base.ScaleY

	rotated := e.contentSize.Rotate(e.rotation)
	rx = clampf(rx, 0, float64(rotated.Width))
	ry = clampf(ry, 0, float64(rotated.Height))
	return unrotatePoint(geom.Point{X: rx, Y: ry}, e.contentSize, e.rotation)
}

// ContentPointToTouchPoint maps a content-space point through the final
// transform into container space.
func (e *Engine) ContentPointToTouchPoint(content geom.Point) geom.Point {
	rp := rotatePoint(content, e.contentSize, e.rotation)
	return geom.Point{
		X: (rp.X*e.base.ScaleX+e.base.OffsetX)*e.user.ScaleX + e.user.OffsetX,
		Y: (rp.Y*e.base.ScaleY+e.base.OffsetY)*e.user.ScaleY + e.user.OffsetY,
	}
}
