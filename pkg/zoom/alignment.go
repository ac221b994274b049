package zoom

// LayoutDirection indicates the reading direction the host layout uses.
// Horizontal alignment components are mirrored under RTL.
type LayoutDirection int

const (
	LTR LayoutDirection = iota
	RTL
)

// Alignment anchors the scaled content within the container when it does not
// cover it. The nine values form a 3x3 grid. Start/End are relative to the
// layout direction; under RTL AlignTopStart resolves to the top-right corner.
type Alignment int

const (
	AlignTopStart Alignment = iota
	AlignTopCenter
	AlignTopEnd
	AlignCenterStart
	AlignCenter
	AlignCenterEnd
	AlignBottomStart
	AlignBottomCenter
	AlignBottomEnd
)

// String returns the lower-camel name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignTopStart:
		return "topStart"
	case AlignTopCenter:
		return "topCenter"
	case AlignTopEnd:
		return "topEnd"
	case AlignCenterStart:
		return "centerStart"
	case AlignCenter:
		return "center"
	case AlignCenterEnd:
		return "centerEnd"
	case AlignBottomStart:
		return "bottomStart"
	case AlignBottomCenter:
		return "bottomCenter"
	case AlignBottomEnd:
		return "bottomEnd"
	default:
		return "unknown"
	}
}

// ParseAlignment maps a name produced by String back to an Alignment.
// Unknown names report ok=false and fall back to Center.
func ParseAlignment(name string) (Alignment, bool) {
	for a := AlignTopStart; a <= AlignBottomEnd; a++ {
		if a.String() == name {
			return a, true
		}
	}
	return AlignCenter, false
}

// factors returns the horizontal and vertical placement fractions in [0,1]
// after resolving the horizontal component against the layout direction.
// 0 places the content at the leading edge, 1 at the trailing edge.
func (a Alignment) factors(dir LayoutDirection) (fx, fy float64) {
	switch a {
	case AlignTopStart, AlignCenterStart, AlignBottomStart:
		fx = 0
	case AlignTopCenter, AlignCenter, AlignBottomCenter:
		fx = 0.5
	case AlignTopEnd, AlignCenterEnd, AlignBottomEnd:
		fx = 1
	}
	if dir == RTL {
		fx = 1 - fx
	}

	switch a {
	case AlignTopStart, AlignTopCenter, AlignTopEnd:
		fy = 0
	case AlignCenterStart, AlignCenter, AlignCenterEnd:
		fy = 0.5
	case AlignBottomStart, AlignBottomCenter, AlignBottomEnd:
		fy = 1
	}
	return fx, fy
}

// position computes the top-left offset that places extent within space
// according to the alignment. A negative gap (extent larger than space)
// still distributes the overflow by the same fractions.
func (a Alignment) position(dir LayoutDirection, spaceW, spaceH, extentW, extentH float64) (x, y float64) {
	fx, fy := a.factors(dir)
	return (spaceW - extentW) * fx, (spaceH - extentH) * fy
}
