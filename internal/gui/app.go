// Package gui provides the native desktop image viewer built on Fyne,
// driven by the pan/zoom transform engine.
package gui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	charmlog "github.com/charmbracelet/log"

	"loupe/internal/config"
	"loupe/internal/snapshot"
	"loupe/pkg/zoom"
)

// App represents the image viewer application.
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	logger     *charmlog.Logger

	viewer    *Zoomable
	toolbar   *Toolbar
	statusBar *StatusBar
}

// NewApp creates the viewer application with the given configuration.
func NewApp(cfg config.Config, logger *charmlog.Logger) *App {
	if logger == nil {
		logger = charmlog.Default()
	}

	a := &App{
		fyneApp: app.New(),
		logger:  logger,
	}

	a.mainWindow = a.fyneApp.NewWindow("Loupe")
	a.mainWindow.Resize(fyne.NewSize(900, 700))

	engine := zoom.NewEngine()
	cfg.Apply(engine, logger)
	a.viewer = NewZoomable(engine)

	return a
}

// Run starts the application.
func (a *App) Run() {
	a.buildUI()
	a.mainWindow.ShowAndRun()
}

// RunWithFile starts the application with a file already loaded.
func (a *App) RunWithFile(path string) {
	a.buildUI()

	if err := a.loadFile(path); err != nil {
		dialog.ShowError(err, a.mainWindow)
	}

	a.mainWindow.ShowAndRun()
}

// buildUI constructs the user interface.
func (a *App) buildUI() {
	a.toolbar = NewToolbar()
	a.toolbar.OnOpen = a.openFile
	a.toolbar.OnZoomIn = a.viewer.ZoomIn
	a.toolbar.OnZoomOut = a.viewer.ZoomOut
	a.toolbar.OnZoomReset = a.viewer.ZoomReset
	a.toolbar.OnSwitchScale = a.viewer.SwitchScale
	a.toolbar.OnRotateLeft = a.viewer.RotateLeft
	a.toolbar.OnRotateRight = a.viewer.RotateRight

	a.statusBar = NewStatusBar()

	a.viewer.OnStateChange(func(st zoom.State) {
		a.toolbar.Update(st)
		a.statusBar.Update(st)
	})

	content := container.NewBorder(
		container.NewPadded(a.toolbar.Container()), // Top
		a.statusBar.Container(),                    // Bottom
		nil,                                        // Left
		nil,                                        // Right
		a.viewer,                                   // Center
	)

	a.mainWindow.SetContent(content)
	a.mainWindow.Canvas().SetOnTypedKey(a.handleKey)
}

// handleKey handles keyboard navigation.
func (a *App) handleKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyPlus, fyne.KeyEqual:
		a.viewer.ZoomIn()
	case fyne.KeyMinus:
		a.viewer.ZoomOut()
	case fyne.Key0:
		a.viewer.ZoomReset()
	case fyne.KeyR:
		a.viewer.RotateRight()
	case fyne.KeyLeft:
		a.viewer.Pan(-1, 0)
	case fyne.KeyRight:
		a.viewer.Pan(1, 0)
	case fyne.KeyUp:
		a.viewer.Pan(0, -1)
	case fyne.KeyDown:
		a.viewer.Pan(0, 1)
	case fyne.KeySpace:
		a.viewer.SwitchScale()
	}
}

// openFile shows a file dialog and loads the selected image.
func (a *App) openFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if reader == nil {
			return // Cancelled
		}
		defer reader.Close()

		path := reader.URI().Path()
		if err := a.loadFile(path); err != nil {
			dialog.ShowError(err, a.mainWindow)
		}
	}, a.mainWindow)
}

// loadFile loads an image file into the viewer.
func (a *App) loadFile(path string) error {
	img, format, err := snapshot.Decode(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	bounds := img.Bounds()
	a.logger.Info("loaded image",
		"path", path,
		"format", format,
		"size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()))

	a.viewer.SetImage(img)
	a.mainWindow.SetTitle(fmt.Sprintf("Loupe - %s", filepath.Base(path)))
	a.statusBar.SetStatus(fmt.Sprintf("%s  %dx%d (%s)",
		filepath.Base(path), bounds.Dx(), bounds.Dy(), format))
	return nil
}
