package zoom

import (
	"math"

	"loupe/pkg/geom"
)

// ContentScale determines how content maps into the container before any
// user interaction.
type ContentScale int

const (
	// ContentScaleFit scales the content as large as possible without
	// cropping, preserving aspect ratio.
	ContentScaleFit ContentScale = iota
	// ContentScaleFillBounds stretches both axes independently so the
	// content exactly fills the container. Aspect ratio is not preserved.
	ContentScaleFillBounds
	// ContentScaleFillWidth matches the container width.
	ContentScaleFillWidth
	// ContentScaleFillHeight matches the container height.
	ContentScaleFillHeight
	// ContentScaleInside behaves like Fit but never upscales.
	ContentScaleInside
	// ContentScaleNone displays the content at its laid-out size.
	ContentScaleNone
	// ContentScaleCrop scales the content to cover the container,
	// preserving aspect ratio and cropping the overflow.
	ContentScaleCrop
)

// String returns the lower-case name of the content scale.
func (c ContentScale) String() string {
	switch c {
	case ContentScaleFit:
		return "fit"
	case ContentScaleFillBounds:
		return "fillBounds"
	case ContentScaleFillWidth:
		return "fillWidth"
	case ContentScaleFillHeight:
		return "fillHeight"
	case ContentScaleInside:
		return "inside"
	case ContentScaleNone:
		return "none"
	case ContentScaleCrop:
		return "crop"
	default:
		return "unknown"
	}
}

// ParseContentScale maps a name produced by String back to a ContentScale.
// Unknown names report ok=false and fall back to Fit.
func ParseContentScale(name string) (ContentScale, bool) {
	switch name {
	case "fit":
		return ContentScaleFit, true
	case "fillBounds":
		return ContentScaleFillBounds, true
	case "fillWidth":
		return ContentScaleFillWidth, true
	case "fillHeight":
		return ContentScaleFillHeight, true
	case "inside":
		return ContentScaleInside, true
	case "none":
		return ContentScaleNone, true
	case "crop":
		return ContentScaleCrop, true
	default:
		return ContentScaleFit, false
	}
}

// Resolve computes the per-axis scale factors mapping content into the
// container. For every policy except FillBounds the two factors are equal.
// Empty sizes resolve to scale 1.
func (c ContentScale) Resolve(container, content geom.Size) (sx, sy float64) {
	if container.IsEmpty() || content.IsEmpty() {
		return 1, 1
	}

	wRatio := float64(container.Width) / float64(content.Width)
	hRatio := float64(container.Height) / float64(content.Height)

	switch c {
	case ContentScaleFit:
		s := math.Min(wRatio, hRatio)
		return s, s
	case ContentScaleFillBounds:
		return wRatio, hRatio
	case ContentScaleFillWidth:
		return wRatio, wRatio
	case ContentScaleFillHeight:
		return hRatio, hRatio
	case ContentScaleInside:
		s := math.Min(wRatio, hRatio)
		if s > 1 {
			s = 1
		}
		return s, s
	case ContentScaleNone:
		return 1, 1
	case ContentScaleCrop:
		s := math.Max(wRatio, hRatio)
		return s, s
	default:
		return 1, 1
	}
}
