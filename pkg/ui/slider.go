package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a simple UI widget for a bounded number
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	// Step rounds the value to a multiple of Step when > 0 (used for integer counts)
	Step float64
	X, Y float64
	W, H float64

	changed bool
}

// NewSlider creates a new slider instance. The range is widened to include value
// so that a configured value outside [min, max] is kept as is.
func NewSlider(x, y, width float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     width,
		H:     10,
	}
	s.Fit(value)
	s.changed = false
	return s
}

// Fit sets the slider to v, widening the range first when v lies outside it.
// Loaded configuration goes through Fit, dragging stays within the range.
func (s *Slider) Fit(v float64) {
	s.Min = math.Min(s.Min, v)
	s.Max = math.Max(s.Max, v)
	s.SetValue(v)
}

// SetValue sets the slider without user interaction, used when a config is reloaded
func (s *Slider) SetValue(v float64) {
	if s.Step > 0 {
		v = math.Round(v/s.Step) * s.Step
	}
	v = math.Max(s.Min, math.Min(s.Max, v))
	if v != s.Value {
		s.Value = v
		s.changed = true
	}
}

// Changed reports whether the value moved since the last call
func (s *Slider) Changed() bool {
	c := s.changed
	s.changed = false
	return c
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	// Check if mouse is clicking inside the slider area
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.dragTo(float64(mx), float64(my))
	}
}

// dragTo moves the value to the horizontal cursor position when the cursor is on the track
func (s *Slider) dragTo(mx, my float64) {
	if mx < s.X || mx > s.X+s.W || my < s.Y || my > s.Y+s.H {
		return
	}
	p := (mx - s.X) / s.W
	s.SetValue(s.Min + p*(s.Max-s.Min))
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	// Draw Background (Dark Gray)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	// Draw Value Bar (Light Gray/White)
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	// Value printed at the right end of the label line
	txt := s.format()
	ebitenutil.DebugPrintAt(screen, txt, int(s.X+s.W)-len(txt)*6, int(s.Y)-15)
}

func (s *Slider) format() string {
	if s.Step >= 1 {
		return fmt.Sprintf("%.0f", s.Value)
	}
	return fmt.Sprintf("%.2f", s.Value)
}
