// Package snapshot renders a zoomed view of an image to an offscreen
// buffer, using the same transform engine as the interactive viewer. It
// also centralizes image decoding so every entry point supports the same
// formats.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"loupe/pkg/geom"
	"loupe/pkg/zoom"
)

// Decode reads and decodes an image file. Supported formats: png, jpeg,
// gif, bmp, tiff and webp.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return img, format, nil
}

// Options configures a snapshot render.
type Options struct {
	// Width and Height are the container size in pixels.
	Width, Height int

	// Scale is the final scale to render at. Zero means the resolved
	// fitted scale; other values are clamped to the engine's scale range.
	Scale float64

	ContentScale zoom.ContentScale
	Alignment    zoom.Alignment
	Rotation     int
	ReadMode     bool

	// Background fills the container before the content is drawn.
	// Nil means white.
	Background color.Color
}

// Render composes the content into a container-sized RGBA image using the
// resolved transform. The content is drawn with Catmull-Rom resampling.
func Render(src image.Image, opts Options) (*image.RGBA, error) {
	container := geom.Sz(opts.Width, opts.Height)
	if container.IsEmpty() {
		return nil, fmt.Errorf("snapshot: container size %dx%d is empty", opts.Width, opts.Height)
	}
	bounds := src.Bounds()
	content := geom.Sz(bounds.Dx(), bounds.Dy())
	if content.IsEmpty() {
		return nil, fmt.Errorf("snapshot: source image is empty")
	}

	e := zoom.NewEngine()
	e.SetContentScale(opts.ContentScale)
	e.SetAlignment(opts.Alignment)
	e.SetReadMode(zoom.ReadMode{Enabled: opts.ReadMode})
	e.SetContainerSize(container)
	e.SetContentSize(content)
	e.SetContentOriginSize(content)
	if opts.Rotation != 0 {
		e.Rotate(opts.Rotation)
	}
	if opts.Scale > 0 {
		e.Scale(opts.Scale, geom.Pt(float64(content.Width)/2, float64(content.Height)/2), false)
	}

	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	// Normalize a non-zero source origin before the content mapping.
	m := geom.Translate(-float64(bounds.Min.X), -float64(bounds.Min.Y)).
		Mul(contentMatrix(e.Transform(), content))
	xdraw.CatmullRom.Transform(dst, toAff3(m), src, bounds, xdraw.Over, nil)
	return dst, nil
}

// contentMatrix builds the affine matrix mapping content pixels into
// container pixels: quarter-turn rotation into rotated space, then the
// engine's scale and offset.
func contentMatrix(t zoom.Transform, content geom.Size) geom.Matrix {
	w := float64(content.Width)
	h := float64(content.Height)

	var rot geom.Matrix
	switch t.Rotation {
	case 90:
		rot = geom.RotateDeg(90).Mul(geom.Translate(h, 0))
	case 180:
		rot = geom.RotateDeg(180).Mul(geom.Translate(w, h))
	case 270:
		rot = geom.RotateDeg(270).Mul(geom.Translate(0, w))
	default:
		rot = geom.Identity()
	}
	return rot.Mul(geom.Scale(t.ScaleX, t.ScaleY)).Mul(geom.Translate(t.OffsetX, t.OffsetY))
}

// toAff3 converts a row-vector matrix to the column-vector form x/image
// expects.
func toAff3(m geom.Matrix) f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHexColor(s string) (color.Color, error) {
	hex := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		default:
			return 0, false
		}
	}

	if len(s) == 0 || s[0] != '#' {
		return nil, fmt.Errorf("snapshot: invalid color %q", s)
	}
	digits := s[1:]
	var vals []uint8
	for i := 0; i < len(digits); i++ {
		v, ok := hex(digits[i])
		if !ok {
			return nil, fmt.Errorf("snapshot: invalid color %q", s)
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 3:
		return color.RGBA{vals[0] * 17, vals[1] * 17, vals[2] * 17, 255}, nil
	case 6:
		return color.RGBA{vals[0]<<4 | vals[1], vals[2]<<4 | vals[3], vals[4]<<4 | vals[5], 255}, nil
	default:
		return nil, fmt.Errorf("snapshot: invalid color %q", s)
	}
}
