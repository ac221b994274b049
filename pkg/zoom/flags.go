package zoom

// GestureType names a kind of user interaction the engine can accept.
// Values are bit-combinable so a host can pass a disabled-set mask.
type GestureType uint32

const (
	// GestureDrag is a one-finger pan.
	GestureDrag GestureType = 1 << iota
	// GesturePinch is a two-finger scale/rotate.
	GesturePinch
	// GestureDoubleTap cycles through the step scales.
	GestureDoubleTap
	// GestureOneFingerScale is a long-press-then-drag vertical scale.
	GestureOneFingerScale
	// GestureMouseWheel is scroll-wheel zooming.
	GestureMouseWheel
)

// CheckSupportGestureType reports whether the gesture type is permitted
// under the given disabled-set mask. A pure bitmask test.
func CheckSupportGestureType(disabled, gesture GestureType) bool {
	return disabled&gesture == 0
}

// ContinuousTransformType names the reason the transform is currently
// changing continuously. A UI layer can use it to suppress conflicting
// work, such as refreshing tiles mid-gesture. Values are bit-combinable.
type ContinuousTransformType uint32

const (
	// ContinuousScale is an animated Scale, SwitchScale or Locate call.
	ContinuousScale ContinuousTransformType = 1 << iota
	// ContinuousOffset is an animated Offset call.
	ContinuousOffset
	// ContinuousGesture is a live gesture delta stream.
	ContinuousGesture
	// ContinuousFling is an inertial fling animation.
	ContinuousFling
	// ContinuousRollback is a rubber-band rollback animation.
	ContinuousRollback
)
