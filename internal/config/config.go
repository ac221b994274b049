// Package config loads viewer configuration from a TOML file and applies
// it to a zoom engine. Fields not set in the file keep their defaults, and
// unknown enum names fall back with a warning instead of failing the load.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"loupe/pkg/zoom"
)

// Config holds all viewer settings.
type Config struct {
	View      View      `toml:"view"`
	Scales    Scales    `toml:"scales"`
	Animation Animation `toml:"animation"`
	Gestures  Gestures  `toml:"gestures"`
	Snapshot  Snapshot  `toml:"snapshot"`
}

// View configures geometry resolution and interaction policy.
type View struct {
	ContentScale    string  `toml:"content_scale"`
	Alignment       string  `toml:"alignment"`
	LayoutDirection string  `toml:"layout_direction"`
	Rotation        int     `toml:"rotation"`
	ReadMode        bool    `toml:"read_mode"`
	ReadModeFactor  float64 `toml:"read_mode_factor"`
	ThreeStepScale  bool    `toml:"three_step_scale"`
	RubberBandScale *bool   `toml:"rubber_band_scale"`
	ExceedScale     bool    `toml:"exceed_scale"`
	KeepTransform   bool    `toml:"keep_transform"`
	LimitToVisible  bool    `toml:"limit_offset_within_base_visible_rect"`

	Whitespace Whitespace `toml:"whitespace"`
}

// Whitespace mirrors zoom.ContainerWhitespace.
type Whitespace struct {
	Multiple float64 `toml:"multiple"`
	Left     float64 `toml:"left"`
	Top      float64 `toml:"top"`
	Right    float64 `toml:"right"`
	Bottom   float64 `toml:"bottom"`
}

// Scales configures the scale-range calculator.
type Scales struct {
	Calculator string  `toml:"calculator"` // "dynamic" or "fixed"
	Multiple   float64 `toml:"multiple"`
}

// Animation configures animated transitions and fling physics.
type Animation struct {
	DurationMS    int     `toml:"duration_ms"`
	Easing        string  `toml:"easing"`
	FlingFriction float64 `toml:"fling_friction"`
}

// Gestures lists gesture names the viewer must ignore.
type Gestures struct {
	Disabled []string `toml:"disabled"`
}

// Snapshot configures offscreen rendering.
type Snapshot struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Scale      float64 `toml:"scale"` // 0 means the fitted scale
	Background string  `toml:"background"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		View: View{
			ContentScale:    "fit",
			Alignment:       "center",
			LayoutDirection: "ltr",
			ReadModeFactor:  2.5,
			KeepTransform:   true,
		},
		Scales:    Scales{Calculator: "dynamic", Multiple: 3},
		Animation: Animation{DurationMS: 300, Easing: "easeInOut"},
		Snapshot:  Snapshot{Width: 1000, Height: 1000, Background: "#ffffff"},
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Apply configures the engine from the loaded settings. Unknown enum names
// are logged as warnings and replaced by their defaults.
func (c Config) Apply(e *zoom.Engine, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}

	contentScale, ok := zoom.ParseContentScale(c.View.ContentScale)
	if !ok {
		logger.Warn("unknown content scale, using fit", "value", c.View.ContentScale)
	}
	e.SetContentScale(contentScale)

	alignment, ok := zoom.ParseAlignment(c.View.Alignment)
	if !ok {
		logger.Warn("unknown alignment, using center", "value", c.View.Alignment)
	}
	e.SetAlignment(alignment)

	switch c.View.LayoutDirection {
	case "", "ltr":
		e.SetLayoutDirection(zoom.LTR)
	case "rtl":
		e.SetLayoutDirection(zoom.RTL)
	default:
		logger.Warn("unknown layout direction, using ltr", "value", c.View.LayoutDirection)
		e.SetLayoutDirection(zoom.LTR)
	}

	e.SetReadMode(zoom.ReadMode{
		Enabled: c.View.ReadMode,
		Decider: zoom.DefaultReadModeDecider{Factor: c.View.ReadModeFactor},
	})

	switch c.Scales.Calculator {
	case "", "dynamic":
		e.SetScalesCalculator(zoom.DynamicScalesCalculator{Multiple: c.Scales.Multiple})
	case "fixed":
		e.SetScalesCalculator(zoom.FixedScalesCalculator{Multiple: c.Scales.Multiple})
	default:
		logger.Warn("unknown scales calculator, using dynamic", "value", c.Scales.Calculator)
		e.SetScalesCalculator(zoom.DynamicScalesCalculator{Multiple: c.Scales.Multiple})
	}

	e.SetThreeStepScale(c.View.ThreeStepScale)
	if c.View.RubberBandScale != nil {
		e.SetRubberBandScale(*c.View.RubberBandScale)
	}
	e.SetExceedScale(c.View.ExceedScale)
	e.SetKeepTransformWhenSameAspectRatioContentSizeChanged(c.View.KeepTransform)
	e.SetLimitOffsetWithinBaseVisibleRect(c.View.LimitToVisible)
	e.SetContainerWhitespace(zoom.ContainerWhitespace{
		Multiple: c.View.Whitespace.Multiple,
		Left:     c.View.Whitespace.Left,
		Top:      c.View.Whitespace.Top,
		Right:    c.View.Whitespace.Right,
		Bottom:   c.View.Whitespace.Bottom,
	})

	easing, ok := zoom.ParseEasing(c.Animation.Easing)
	if !ok {
		logger.Warn("unknown easing, using easeInOut", "value", c.Animation.Easing)
	}
	duration := time.Duration(c.Animation.DurationMS) * time.Millisecond
	e.SetAnimationSpec(zoom.AnimationSpec{Duration: duration, Easing: easing})
	e.SetFlingFriction(c.Animation.FlingFriction)

	e.SetDisabledGestureTypes(c.disabledGestures(logger))

	if c.View.Rotation != 0 {
		e.Rotate(c.View.Rotation)
	}
}

// disabledGestures folds the configured gesture names into a mask.
func (c Config) disabledGestures(logger *log.Logger) zoom.GestureType {
	var mask zoom.GestureType
	for _, name := range c.Gestures.Disabled {
		g, ok := parseGestureType(name)
		if !ok {
			logger.Warn("unknown gesture name ignored", "value", name)
			continue
		}
		mask |= g
	}
	return mask
}

func parseGestureType(name string) (zoom.GestureType, bool) {
	switch name {
	case "drag":
		return zoom.GestureDrag, true
	case "pinch":
		return zoom.GesturePinch, true
	case "doubleTap":
		return zoom.GestureDoubleTap, true
	case "oneFingerScale":
		return zoom.GestureOneFingerScale, true
	case "mouseWheel":
		return zoom.GestureMouseWheel, true
	default:
		return 0, false
	}
}
