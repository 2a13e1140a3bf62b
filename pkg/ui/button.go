package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button runs OnClick once per press
type Button struct {
	Label   string
	X, Y    float64
	Width   float64
	Height  float64
	OnClick func()

	held bool // pressed on the previous frame

	// Styling
	BGColor    color.RGBA
	HoverColor color.RGBA
}

// NewButton creates a new button instance
func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:      label,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		OnClick:    onClick,
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

func (b *Button) contains(mx, my float64) bool {
	return mx >= b.X && mx <= b.X+b.Width && my >= b.Y && my <= b.Y+b.Height
}

// Update checks for mouse interaction
func (b *Button) Update() {
	mx, my := ebiten.CursorPosition()
	b.press(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// press fires OnClick on the first frame the button is held down over the button
func (b *Button) press(mx, my float64, down bool) {
	if !down || !b.contains(mx, my) {
		b.held = false
		return
	}
	if !b.held && b.OnClick != nil {
		b.OnClick()
	}
	b.held = true
}

// Draw renders the button
func (b *Button) Draw(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()
	bg := b.BGColor
	if b.contains(float64(mx), float64(my)) {
		bg = b.HoverColor
	}

	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), bg, true)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height),
		2, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	// DebugPrint glyphs are 6x16
	ebitenutil.DebugPrintAt(screen, b.Label,
		int(b.X+b.Width/2)-len(b.Label)*3, int(b.Y+b.Height/2)-8)
}
