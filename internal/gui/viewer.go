package gui

import (
	"image"
	"image/draw"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"loupe/pkg/geom"
	"loupe/pkg/zoom"
)

// longPressDelay is how long a press must be held before a drag is
// treated as the one-finger scale gesture instead of a pan.
const longPressDelay = 400 * time.Millisecond

// Zoomable is a custom widget displaying a single image under the
// transform engine: dragging pans, the scroll wheel zooms toward the
// cursor, a double tap cycles through the step scales, a long press
// followed by a vertical drag scales, and releasing a fast drag flings.
type Zoomable struct {
	widget.BaseWidget

	engine *zoom.Engine
	img    *canvas.Image
	src    image.Image

	// src pre-rotated for the engine's current quarter turn; canvas
	// images cannot rotate themselves.
	rotated    image.Image
	rotatedFor int

	// press bookkeeping classifying a drag as pan or one-finger scale.
	pressedAt time.Time
	pressPos  geom.Point
	dragging  bool
	oneFinger bool

	tracker velocityTracker
	onState func(zoom.State)
}

// NewZoomable creates the widget around an engine. The widget installs
// the frame-tick animation driver and owns the engine's change callback.
func NewZoomable(engine *zoom.Engine) *Zoomable {
	v := &Zoomable{engine: engine, rotatedFor: -1}
	v.ExtendBaseWidget(v)

	v.img = canvas.NewImageFromImage(nil)
	v.img.FillMode = canvas.ImageFillStretch
	v.img.ScaleMode = canvas.ImageScaleSmooth

	engine.SetAnimationDriver(newFyneDriver())
	engine.OnChange(v.applyState)
	return v
}

// Engine returns the underlying transform engine.
func (v *Zoomable) Engine() *zoom.Engine {
	return v.engine
}

// OnStateChange registers an observer for engine snapshots, fired after
// the widget has applied them.
func (v *Zoomable) OnStateChange(fn func(zoom.State)) {
	v.onState = fn
}

// SetImage replaces the displayed image and resets the view.
func (v *Zoomable) SetImage(img image.Image) {
	v.src = img
	v.rotatedFor = -1

	if img == nil {
		v.img.Image = nil
		v.engine.SetContentSize(geom.Size{})
		v.Refresh()
		return
	}

	b := img.Bounds()
	size := geom.Sz(b.Dx(), b.Dy())
	v.engine.SetContentSize(size)
	v.engine.SetContentOriginSize(size)
	// A same-sized replacement does not notify; apply directly.
	v.applyState(v.engine.State())
}

// applyState positions the canvas image for a published snapshot.
func (v *Zoomable) applyState(st zoom.State) {
	if v.src != nil && st.Transform.Rotation != v.rotatedFor {
		v.rotated = rotateImage(v.src, st.Transform.Rotation)
		v.rotatedFor = st.Transform.Rotation
		v.img.Image = v.rotated
	}

	r := st.ContentDisplayRect
	v.img.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
	v.img.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
	canvas.Refresh(v.img)

	if v.onState != nil {
		v.onState(st)
	}
}

// CreateRenderer implements fyne.Widget.
func (v *Zoomable) CreateRenderer() fyne.WidgetRenderer {
	return &zoomableRenderer{viewer: v}
}

// MouseDown records the press for long-press classification.
func (v *Zoomable) MouseDown(event *desktop.MouseEvent) {
	v.pressedAt = time.Now()
	v.pressPos = geom.Pt(float64(event.Position.X), float64(event.Position.Y))
}

// MouseUp implements desktop.Mouseable; DragEnd does the work.
func (v *Zoomable) MouseUp(event *desktop.MouseEvent) {}

// Dragged pans the view, tracking velocity for a fling on release. A
// drag starting after a long press scales instead, anchored at the
// press point and driven by the vertical pan distance.
func (v *Zoomable) Dragged(event *fyne.DragEvent) {
	if !v.dragging {
		v.dragging = true
		v.oneFinger = v.engine.CheckSupportGestureType(zoom.GestureOneFingerScale) &&
			!v.pressedAt.IsZero() && time.Since(v.pressedAt) >= longPressDelay
	}

	pos := geom.Pt(float64(event.Position.X), float64(event.Position.Y))
	delta := geom.Pt(float64(event.Dragged.DX), float64(event.Dragged.DY))

	if v.oneFinger {
		factor := v.engine.OneFingerScaleSpec().ScaleFactor(delta.Y)
		v.engine.GestureTransform(v.pressPos, geom.Point{}, factor, 0)
		return
	}

	if !v.engine.CheckSupportGestureType(zoom.GestureDrag) {
		return
	}
	v.engine.GestureTransform(pos, delta, 1, 0)
	v.tracker.Add(time.Now(), pos)
}

// DragEnd finishes the gesture: rubber-band overshoot rolls back, and a
// fast release flings.
func (v *Zoomable) DragEnd() {
	oneFinger := v.oneFinger
	v.dragging, v.oneFinger = false, false

	velocity := v.tracker.Velocity()
	v.tracker.Reset()

	var focus *geom.Point
	if oneFinger {
		focus = &v.pressPos
	}
	if v.engine.RollbackScale(focus) || oneFinger {
		return
	}
	if v.engine.CheckSupportGestureType(zoom.GestureDrag) {
		v.engine.Fling(velocity)
	}
}

// Scrolled zooms toward the cursor.
func (v *Zoomable) Scrolled(event *fyne.ScrollEvent) {
	if !v.engine.CheckSupportGestureType(zoom.GestureMouseWheel) {
		return
	}
	factor := 1 + float64(event.Scrolled.DY)/100
	if factor <= 0 {
		return
	}
	centroid := v.engine.TouchPointToContentPoint(
		geom.Pt(float64(event.Position.X), float64(event.Position.Y)))
	v.engine.ScaleBy(factor, centroid, false)
}

// DoubleTapped cycles to the next step scale focused at the tap.
func (v *Zoomable) DoubleTapped(event *fyne.PointEvent) {
	if !v.engine.CheckSupportGestureType(zoom.GestureDoubleTap) {
		return
	}
	centroid := v.engine.TouchPointToContentPoint(
		geom.Pt(float64(event.Position.X), float64(event.Position.Y)))
	v.engine.SwitchScale(centroid, true)
}

// visibleCenter is the zoom focus for keyboard and toolbar actions.
func (v *Zoomable) visibleCenter() geom.Point {
	return v.engine.State().ContentVisibleRect.Center()
}

// ZoomIn zooms by one step toward the visible center.
func (v *Zoomable) ZoomIn() {
	v.engine.ScaleBy(1.2, v.visibleCenter(), true)
}

// ZoomOut zooms out by one step around the visible center.
func (v *Zoomable) ZoomOut() {
	v.engine.ScaleBy(1/1.2, v.visibleCenter(), true)
}

// ZoomReset returns to the fitted view.
func (v *Zoomable) ZoomReset() {
	v.engine.Reset("toolbar", true)
}

// SwitchScale cycles the step scales around the visible center.
func (v *Zoomable) SwitchScale() {
	v.engine.SwitchScale(v.visibleCenter(), true)
}

// RotateLeft rotates a quarter turn counter-clockwise.
func (v *Zoomable) RotateLeft() {
	v.engine.RotateBy(-90)
}

// RotateRight rotates a quarter turn clockwise.
func (v *Zoomable) RotateRight() {
	v.engine.RotateBy(90)
}

// Pan moves the viewport by a fraction of the container, animated.
func (v *Zoomable) Pan(dx, dy float64) {
	size := v.engine.ContainerSize()
	v.engine.OffsetBy(geom.Pt(
		-dx*float64(size.Width)/2,
		-dy*float64(size.Height)/2,
	), true)
}

type zoomableRenderer struct {
	viewer *Zoomable
}

func (r *zoomableRenderer) Layout(size fyne.Size) {
	r.viewer.engine.SetContainerSize(geom.Sz(int(size.Width), int(size.Height)))
	r.viewer.applyState(r.viewer.engine.State())
}

func (r *zoomableRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *zoomableRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.viewer.img}
}

func (r *zoomableRenderer) Refresh() {
	r.viewer.img.Refresh()
}

func (r *zoomableRenderer) Destroy() {}

// rotateImage returns src rotated clockwise by a quarter turn.
func rotateImage(src image.Image, rotation int) image.Image {
	if rotation == 0 || src == nil {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	if rotation == 180 {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}

	// Normalize the source origin first so the index math below can
	// assume zero-based coordinates.
	norm := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(norm, norm.Bounds(), src, b.Min, draw.Src)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := norm.RGBAAt(x, y)
			switch rotation {
			case 90:
				dst.SetRGBA(h-1-y, x, c)
			case 180:
				dst.SetRGBA(w-1-x, h-1-y, c)
			case 270:
				dst.SetRGBA(y, w-1-x, c)
			}
		}
	}
	return dst
}
