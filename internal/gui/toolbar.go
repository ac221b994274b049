package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"loupe/pkg/zoom"
)

// Toolbar provides zoom and rotation controls.
type Toolbar struct {
	container *fyne.Container

	// Callbacks
	OnOpen        func()
	OnZoomIn      func()
	OnZoomOut     func()
	OnZoomReset   func()
	OnSwitchScale func()
	OnRotateLeft  func()
	OnRotateRight func()

	zoomInBtn  *widget.Button
	zoomOutBtn *widget.Button
	switchBtn  *widget.Button
	zoomLabel  *widget.Label
}

// NewToolbar creates a new toolbar.
func NewToolbar() *Toolbar {
	t := &Toolbar{}
	t.build()
	return t
}

func (t *Toolbar) build() {
	openBtn := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), func() {
		if t.OnOpen != nil {
			t.OnOpen()
		}
	})

	t.zoomOutBtn = widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() {
		if t.OnZoomOut != nil {
			t.OnZoomOut()
		}
	})

	t.zoomLabel = widget.NewLabel("100%")
	t.zoomLabel.Alignment = fyne.TextAlignCenter

	t.zoomInBtn = widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() {
		if t.OnZoomIn != nil {
			t.OnZoomIn()
		}
	})

	t.switchBtn = widget.NewButtonWithIcon("", theme.ZoomFitIcon(), func() {
		if t.OnSwitchScale != nil {
			t.OnSwitchScale()
		}
	})

	resetBtn := widget.NewButtonWithIcon("Fit", theme.ViewRestoreIcon(), func() {
		if t.OnZoomReset != nil {
			t.OnZoomReset()
		}
	})

	rotateLeftBtn := widget.NewButtonWithIcon("", theme.MediaReplayIcon(), func() {
		if t.OnRotateLeft != nil {
			t.OnRotateLeft()
		}
	})

	rotateRightBtn := widget.NewButtonWithIcon("", theme.MediaReplayIcon(), func() {
		if t.OnRotateRight != nil {
			t.OnRotateRight()
		}
	})

	t.container = container.NewHBox(
		openBtn,
		widget.NewSeparator(),
		t.zoomOutBtn,
		t.zoomLabel,
		t.zoomInBtn,
		t.switchBtn,
		resetBtn,
		widget.NewSeparator(),
		rotateLeftBtn,
		rotateRightBtn,
	)
}

// Container returns the toolbar container.
func (t *Toolbar) Container() *fyne.Container {
	return t.container
}

// Update refreshes the zoom display and button states from a snapshot.
func (t *Toolbar) Update(st zoom.State) {
	t.zoomLabel.SetText(fmt.Sprintf("%d%%", int(st.Transform.ScaleX*100+0.5)))

	if st.Transform.ScaleX >= st.MaxScale-1e-4 {
		t.zoomInBtn.Disable()
	} else {
		t.zoomInBtn.Enable()
	}
	if st.Transform.ScaleX <= st.MinScale+1e-4 {
		t.zoomOutBtn.Disable()
	} else {
		t.zoomOutBtn.Enable()
	}
}

// StatusBar shows the viewer state: image info, current scale range and
// pan edges.
type StatusBar struct {
	container *fyne.Container
	label     *widget.Label
	edgeLabel *widget.Label
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	s := &StatusBar{
		label:     widget.NewLabel("Ready"),
		edgeLabel: widget.NewLabel(""),
	}

	s.container = container.NewHBox(
		s.label,
		widget.NewSeparator(),
		s.edgeLabel,
	)

	return s
}

// Container returns the status bar container.
func (s *StatusBar) Container() *fyne.Container {
	return s.container
}

// SetStatus sets the status message.
func (s *StatusBar) SetStatus(msg string) {
	s.label.SetText(msg)
}

// Update refreshes the edge display from a snapshot.
func (s *StatusBar) Update(st zoom.State) {
	s.edgeLabel.SetText(fmt.Sprintf("h:%s v:%s  scale %.2f-%.2f",
		st.ScrollEdges.Horizontal, st.ScrollEdges.Vertical,
		st.MinScale, st.MaxScale))
}
