package zoom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignmentPosition(t *testing.T) {
	// 1000x1000 container, 500x800 extent.
	tests := []struct {
		name  string
		align Alignment
		dir   LayoutDirection
		wantX float64
		wantY float64
	}{
		{"topStart ltr", AlignTopStart, LTR, 0, 0},
		{"topStart rtl", AlignTopStart, RTL, 500, 0},
		{"center", AlignCenter, LTR, 250, 100},
		{"bottomEnd ltr", AlignBottomEnd, LTR, 500, 200},
		{"bottomEnd rtl", AlignBottomEnd, RTL, 0, 200},
		{"centerStart ltr", AlignCenterStart, LTR, 0, 100},
		{"topCenter rtl keeps center", AlignTopCenter, RTL, 250, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.align.position(tt.dir, 1000, 1000, 500, 800)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
		})
	}
}

func TestAlignmentOverflowDistributesByFraction(t *testing.T) {
	// Extent larger than the space: center still splits the overflow.
	x, y := AlignCenter.position(LTR, 1000, 1000, 2000, 1000)
	assert.InDelta(t, -500, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestParseAlignment(t *testing.T) {
	for a := AlignTopStart; a <= AlignBottomEnd; a++ {
		got, ok := ParseAlignment(a.String())
		assert.True(t, ok, a.String())
		assert.Equal(t, a, got)
	}

	got, ok := ParseAlignment("middle")
	assert.False(t, ok)
	assert.Equal(t, AlignCenter, got)
}
