package zoom

import (
	"loupe/pkg/geom"
)

// The geometry resolver computes the base transform and the derived
// rectangles from container size, content size, content scale, alignment
// and rotation. Everything here is a pure function of its inputs.
//
// Rotation is modeled by mapping content coordinates into a "rotated
// space" whose size is the content size with axes swapped for quarter
// turns. The base transform maps rotated space into the container; content
// points pass through rotatePoint/unrotatePoint on the way in and out.

// rotatePoint maps a point in content space to rotated space. Rotation is
// clockwise around the content center, re-anchored so rotated space starts
// at the origin.
func rotatePoint(p geom.Point, content geom.Size, rotation int) geom.Point {
	w := float64(content.Width)
	h := float64(content.Height)
	switch normalizeRotation(rotation) {
	case 90:
		return geom.Point{X: h - p.Y, Y: p.X}
	case 180:
		return geom.Point{X: w - p.X, Y: h - p.Y}
	case 270:
		return geom.Point{X: p.Y, Y: w - p.X}
	default:
		return p
	}
}

// unrotatePoint is the inverse of rotatePoint.
func unrotatePoint(p geom.Point, content geom.Size, rotation int) geom.Point {
	w := float64(content.Width)
	h := float64(content.Height)
	switch normalizeRotation(rotation) {
	case 90:
		return geom.Point{X: p.Y, Y: h - p.X}
	case 180:
		return geom.Point{X: w - p.X, Y: h - p.Y}
	case 270:
		return geom.Point{X: w - p.Y, Y: p.X}
	default:
		return p
	}
}

// unrotateRect maps a rectangle in rotated space back to content space.
func unrotateRect(r geom.Rect, content geom.Size, rotation int) geom.Rect {
	a := unrotatePoint(geom.Point{X: r.X, Y: r.Y}, content, rotation)
	b := unrotatePoint(geom.Point{X: r.Right(), Y: r.Bottom()}, content, rotation)
	return geom.RectOf(a.X, a.Y, b.X, b.Y)
}

// computeBaseTransform resolves the base transform for the given geometry.
// It reports whether read mode took effect: when it does, the content-scale
// fit is overridden by a fill of the cross axis anchored at the start of
// the long axis, so the user starts reading at a legible scale.
//
// Empty sizes resolve to the identity transform carrying only the rotation.
func computeBaseTransform(container, content geom.Size, contentScale ContentScale,
	alignment Alignment, rotation int, dir LayoutDirection, readMode ReadMode) (Transform, bool) {

	rotation = normalizeRotation(rotation)
	if container.IsEmpty() || content.IsEmpty() {
		t := IdentityTransform()
		t.Rotation = rotation
		return t, false
	}

	rotated := content.Rotate(rotation)

	if contentScale == ContentScaleFit && readMode.accepts(container, rotated) {
		return readModeBaseTransform(container, rotated, rotation, dir), true
	}

	sx, sy := contentScale.Resolve(container, rotated)
	extentW := float64(rotated.Width) * sx
	extentH := float64(rotated.Height) * sy
	x, y := alignment.position(dir, float64(container.Width), float64(container.Height), extentW, extentH)
	return Transform{ScaleX: sx, ScaleY: sy, OffsetX: x, OffsetY: y, Rotation: rotation}, false
}

// readModeBaseTransform fills the cross axis of long content and anchors
// the long axis at its start: tall content fills the container width and
// starts at the top, wide content fills the height and starts at the
// leading edge for the layout direction.
func readModeBaseTransform(container, rotated geom.Size, rotation int, dir LayoutDirection) Transform {
	tall := rotated.Height >= rotated.Width
	var scale float64
	if tall {
		scale = float64(container.Width) / float64(rotated.Width)
		return Transform{ScaleX: scale, ScaleY: scale, Rotation: rotation}
	}
	scale = float64(container.Height) / float64(rotated.Height)
	x := 0.0
	if dir == RTL {
		x = float64(container.Width) - float64(rotated.Width)*scale
	}
	return Transform{ScaleX: scale, ScaleY: scale, OffsetX: x, Rotation: rotation}
}

// displayRect returns the content's container-space rectangle under the
// given transform (base or final).
func displayRect(t Transform, content geom.Size) geom.Rect {
	rotated := content.Rotate(t.Rotation)
	return geom.Rect{
		X:      t.OffsetX,
		Y:      t.OffsetY,
		Width:  float64(rotated.Width) * t.ScaleX,
		Height: float64(rotated.Height) * t.ScaleY,
	}
}

// visibleRect inverse-maps the container viewport through the transform
// and returns the visible portion of the content in content coordinates.
// Degenerate transforms yield an empty rectangle.
func visibleRect(t Transform, container, content geom.Size) geom.Rect {
	if container.IsEmpty() || content.IsEmpty() || t.ScaleX == 0 || t.ScaleY == 0 {
		return geom.Rect{}
	}
	rotated := content.Rotate(t.Rotation)

	left := clampf((0-t.OffsetX)/t.ScaleX, 0, float64(rotated.Width))
	top := clampf((0-t.OffsetY)/t.ScaleY, 0, float64(rotated.Height))
	right := clampf((float64(container.Width)-t.OffsetX)/t.ScaleX, 0, float64(rotated.Width))
	bottom := clampf((float64(container.Height)-t.OffsetY)/t.ScaleY, 0, float64(rotated.Height))

	visible := geom.RectOf(left, top, right, bottom)
	return unrotateRect(visible, content, t.Rotation)
}
