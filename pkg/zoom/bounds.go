package zoom

import (
	"math"

	"loupe/pkg/geom"
)

// boundsTolerance is the slack used when testing an offset against its
// bounds, absorbing sub-pixel float drift.
const boundsTolerance = 0.5

// ContainerWhitespace adds slack to the offset bounds so content can be
// dragged past the container edge. Either a uniform multiple of the
// container size or explicit per-edge padding in container pixels; when any
// explicit edge is set the explicit values take priority.
type ContainerWhitespace struct {
	Multiple float64
	Left     float64
	Top      float64
	Right    float64
	Bottom   float64
}

// resolve returns the effective per-edge padding for a container size.
func (w ContainerWhitespace) resolve(container geom.Size) (left, top, right, bottom float64) {
	if w.Left > 0 || w.Top > 0 || w.Right > 0 || w.Bottom > 0 {
		return math.Max(w.Left, 0), math.Max(w.Top, 0), math.Max(w.Right, 0), math.Max(w.Bottom, 0)
	}
	if w.Multiple > 0 {
		h := float64(container.Width) * w.Multiple
		v := float64(container.Height) * w.Multiple
		return h, v, h, v
	}
	return 0, 0, 0, 0
}

// ScrollEdge indicates whether the current offset sits at a pan limit on
// one axis.
type ScrollEdge int

const (
	// ScrollEdgeNone means there is room to pan in both directions.
	ScrollEdgeNone ScrollEdge = iota
	// ScrollEdgeStart means the start (left/top) edge of the content is
	// fully revealed.
	ScrollEdgeStart
	// ScrollEdgeEnd means the end (right/bottom) edge is fully revealed.
	ScrollEdgeEnd
	// ScrollEdgeBoth means the axis has no pan range at all.
	ScrollEdgeBoth
)

// String returns the lower-case name of the scroll edge.
func (e ScrollEdge) String() string {
	switch e {
	case ScrollEdgeStart:
		return "start"
	case ScrollEdgeEnd:
		return "end"
	case ScrollEdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// computeUserOffsetBounds returns the rectangle of legal user offsets for
// the given user scale. The rectangle spans [X, X+Width] x [Y, Y+Height]
// and is always well-formed; a degenerate axis collapses to a single value.
//
// Per axis: when the scaled content covers the container the offset may
// slide the content until either content edge meets the matching container
// edge; when it does not cover the container the offset is pinned to the
// alignment position. Whitespace expands the range, and the base-visible
// limit intersects it with the offsets that keep the viewport inside the
// region visible under the base transform.
func computeUserOffsetBounds(container, content geom.Size, base Transform, userScale float64,
	alignment Alignment, dir LayoutDirection, ws ContainerWhitespace,
	limitBaseVisible bool, baseVisible geom.Rect) geom.Rect {

	if container.IsEmpty() || content.IsEmpty() || userScale <= 0 {
		return geom.Rect{}
	}

	rotated := content.Rotate(base.Rotation)
	fx, fy := alignment.factors(dir)
	wsLeft, wsTop, wsRight, wsBottom := ws.resolve(container)

	minX, maxX := axisOffsetRange(
		float64(container.Width),
		base.OffsetX*userScale,
		float64(rotated.Width)*base.ScaleX*userScale,
		fx, wsLeft, wsRight,
	)
	minY, maxY := axisOffsetRange(
		float64(container.Height),
		base.OffsetY*userScale,
		float64(rotated.Height)*base.ScaleY*userScale,
		fy, wsTop, wsBottom,
	)

	if limitBaseVisible && !baseVisible.IsEmpty() {
		bv := rotateContentRect(baseVisible, content, base.Rotation)
		minX, maxX = limitToVisible(minX, maxX,
			float64(container.Width),
			(bv.X*base.ScaleX+base.OffsetX)*userScale,
			(bv.Right()*base.ScaleX+base.OffsetX)*userScale,
		)
		minY, maxY = limitToVisible(minY, maxY,
			float64(container.Height),
			(bv.Y*base.ScaleY+base.OffsetY)*userScale,
			(bv.Bottom()*base.ScaleY+base.OffsetY)*userScale,
		)
	}

	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// axisOffsetRange computes the legal offset range for one axis.
// edge0 and extent describe the scaled content rect at user offset zero;
// falign is the alignment fraction used when the content does not cover
// the container.
func axisOffsetRange(containerExtent, edge0, extent, falign, wsStart, wsEnd float64) (min, max float64) {
	if extent >= containerExtent-boundsTolerance {
		// Content covers the container: it may retreat until either edge
		// meets the matching container edge.
		min = containerExtent - (edge0 + extent)
		max = -edge0
	} else {
		// Content floats inside the container, pinned to alignment.
		pinned := falign*(containerExtent-extent) - edge0
		min, max = pinned, pinned
	}
	min -= wsEnd
	max += wsStart
	if min > max {
		mid := (min + max) / 2
		min, max = mid, mid
	}
	return min, max
}

// limitToVisible intersects an offset range with the offsets that keep the
// viewport covered by the scaled base-visible span [vis0, vis1] (positions
// at user offset zero). An infeasible intersection collapses to its
// midpoint.
func limitToVisible(min, max, containerExtent, vis0, vis1 float64) (float64, float64) {
	limitMax := -vis0
	limitMin := containerExtent - vis1
	min = math.Max(min, limitMin)
	max = math.Min(max, limitMax)
	if min > max {
		mid := (min + max) / 2
		min, max = mid, mid
	}
	return min, max
}

// rotateContentRect maps a content-space rectangle into rotated space.
func rotateContentRect(r geom.Rect, content geom.Size, rotation int) geom.Rect {
	a := rotatePoint(geom.Point{X: r.X, Y: r.Y}, content, rotation)
	b := rotatePoint(geom.Point{X: r.Right(), Y: r.Bottom()}, content, rotation)
	return geom.RectOf(a.X, a.Y, b.X, b.Y)
}

// computeScrollEdge derives the per-axis edge state for an offset within
// its bounds. Being at the maximum offset reveals the start of the content
// (the content has been pulled toward the trailing edge), the minimum
// reveals the end.
func computeScrollEdge(bounds geom.Rect, offset geom.Point) (horizontal, vertical ScrollEdge) {
	horizontal = axisScrollEdge(bounds.X, bounds.Right(), offset.X)
	vertical = axisScrollEdge(bounds.Y, bounds.Bottom(), offset.Y)
	return horizontal, vertical
}

func axisScrollEdge(min, max, v float64) ScrollEdge {
	if max-min < boundsTolerance {
		return ScrollEdgeBoth
	}
	atStart := v >= max-boundsTolerance
	atEnd := v <= min+boundsTolerance
	switch {
	case atStart:
		return ScrollEdgeStart
	case atEnd:
		return ScrollEdgeEnd
	default:
		return ScrollEdgeNone
	}
}
