package zoom

import "loupe/pkg/geom"

// ReadModeDecider decides whether read mode should apply for a given
// container/content size pair.
type ReadModeDecider interface {
	ShouldRead(container, content geom.Size) bool
}

// ReadMode auto-zooms long or tall content to a legible initial scale
// instead of fitting it entirely in the container. When it applies, the base
// transform fills the cross axis and anchors at the start of the long axis,
// and the minimum scale becomes that zoomed scale.
//
// Read mode only takes effect for ContentScaleFit; other fit policies
// already express an explicit intent about the initial scale.
type ReadMode struct {
	Enabled bool
	// Decider decides applicability. Nil means DefaultReadModeDecider.
	Decider ReadModeDecider
}

// accepts reports whether read mode applies to the given geometry.
func (m ReadMode) accepts(container, content geom.Size) bool {
	if !m.Enabled || container.IsEmpty() || content.IsEmpty() {
		return false
	}
	d := m.Decider
	if d == nil {
		d = DefaultReadModeDecider{}
	}
	return d.ShouldRead(container, content)
}

// DefaultReadModeDecider treats content as readable when it points in the
// same direction as the container and its aspect ratio exceeds the
// container's by at least Factor (default 2.5). A 400x4000 strip in a
// 1000x1000 container qualifies; a mildly tall photo does not.
type DefaultReadModeDecider struct {
	// Factor is the minimum ratio between content and container aspect
	// ratios. Values below 1 fall back to the default.
	Factor float64
}

// ShouldRead implements ReadModeDecider.
func (d DefaultReadModeDecider) ShouldRead(container, content geom.Size) bool {
	factor := d.Factor
	if factor < 1 {
		factor = 2.5
	}
	if container.IsEmpty() || content.IsEmpty() {
		return false
	}

	contentTall := content.Height >= content.Width
	containerTall := container.Height >= container.Width
	if contentTall != containerTall {
		return false
	}

	if contentTall {
		contentRatio := float64(content.Height) / float64(content.Width)
		containerRatio := float64(container.Height) / float64(container.Width)
		return contentRatio >= containerRatio*factor
	}
	contentRatio := float64(content.Width) / float64(content.Height)
	containerRatio := float64(container.Width) / float64(container.Height)
	return contentRatio >= containerRatio*factor
}
