package gui

import (
	"fyne.io/fyne/v2"

	"loupe/pkg/zoom"
)

// fyneDriver adapts fyne's frame-tick animation runner to the engine's
// AnimationDriver contract: linear progress ticks and a done callback
// fired exactly once per Start. All calls happen on the fyne event loop,
// matching the engine's single-goroutine requirement.
type fyneDriver struct {
	anim *fyne.Animation
	done func(bool)
}

func newFyneDriver() *fyneDriver {
	return &fyneDriver{}
}

func (d *fyneDriver) Start(spec zoom.AnimationSpec, tick func(progress float64), done func(finished bool)) {
	d.finish(false)
	d.done = done

	var a *fyne.Animation
	a = fyne.NewAnimation(spec.Duration, func(p float32) {
		// Frames delivered after a stop or takeover belong to a dead
		// animation.
		if d.anim != a {
			return
		}
		tick(float64(p))
		if p >= 1 {
			d.finish(true)
		}
	})
	a.Curve = fyne.AnimationLinear
	d.anim = a
	a.Start()
}

func (d *fyneDriver) Stop() {
	d.finish(false)
}

// finish stops the running animation, if any, and fires its done callback
// once.
func (d *fyneDriver) finish(finished bool) {
	if d.done == nil {
		return
	}
	done := d.done
	d.done = nil
	if d.anim != nil {
		d.anim.Stop()
		d.anim = nil
	}
	done(finished)
}
