package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Row geometry, in pixels
const (
	titleHeight  = 30
	headerHeight = 25
	labelHeight  = 15
	scrollStep   = 20
)

// widget is anything the panel can stack in a row under a label
type widget interface {
	Update()
	Draw(screen *ebiten.Image)
	rowHeight() float64
	moveTo(y float64)
}

func (s *Slider) rowHeight() float64   { return s.H + 25 }
func (c *Checkbox) rowHeight() float64 { return c.Size + 20 }
func (b *Button) rowHeight() float64   { return b.Height + 20 }

func (s *Slider) moveTo(y float64)   { s.Y = y }
func (c *Checkbox) moveTo(y float64) { c.Y = y }
func (b *Button) moveTo(y float64)   { b.Y = y }

type row struct {
	label  string
	widget widget
}

type section struct {
	title      string
	start, end int // row indexes, end exclusive
}

// UIPanel is the scrollable control column on the left of the flock
type UIPanel struct {
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64
	Hidden        bool // Hidden panels neither draw nor take input

	BGColor     color.RGBA
	BorderColor color.RGBA

	rows     []row
	sections []section
}

// NewUIPanel creates an empty panel
func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a titled group, following widgets belong to it
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title, start: len(p.rows), end: len(p.rows)})
}

// EndSection closes the current group
func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].end = len(p.rows)
	}
}

// AddSlider adds a full width slider for a parameter
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(label, s)
	return s
}

// AddIntSlider adds a slider that only takes whole values (counts)
func (p *UIPanel) AddIntSlider(label string, min, max, value float64) *Slider {
	s := p.AddSlider(label, min, max, value)
	s.Step = 1
	s.SetValue(value)
	s.changed = false
	return s
}

// AddCheckbox adds a toggle
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(label, c)
	return c
}

// AddButton adds a full width button, its label is drawn inside it
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 20, label, onClick)
	p.add("", b)
	return b
}

func (p *UIPanel) add(label string, w widget) {
	p.rows = append(p.rows, row{label: label, widget: w})
	p.layout()
}

// layout places every widget for the current scroll offset.
// It runs on every change so hit tests match what is drawn.
func (p *UIPanel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	next := 0
	for i, r := range p.rows {
		for next < len(p.sections) && p.sections[next].start == i {
			y += headerHeight
			next++
		}
		r.widget.moveTo(y + labelHeight)
		y += r.widget.rowHeight()
	}
}

// Contains reports whether (x, y) is over the visible panel
func (p *UIPanel) Contains(x, y float64) bool {
	if p.Hidden {
		return false
	}
	return x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}

// contentHeight is the height of everything in the panel, title included
func (p *UIPanel) contentHeight() float64 {
	h := titleHeight + float64(len(p.sections))*headerHeight
	for _, r := range p.rows {
		h += r.widget.rowHeight()
	}
	return h
}

// scrollBy moves the content by wheel ticks, clamped so the last widget stays reachable
func (p *UIPanel) scrollBy(dy float64) {
	maxScroll := math.Max(0, p.contentHeight()-p.Height+40)
	p.ScrollOffset = math.Max(0, math.Min(maxScroll, p.ScrollOffset-dy*scrollStep))
	p.layout()
}

// Update scrolls and forwards input to the widgets
func (p *UIPanel) Update() {
	if p.Hidden {
		return
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.scrollBy(dy)
	}
	for _, r := range p.rows {
		r.widget.Update()
	}
}

func (p *UIPanel) visible(y float64) bool {
	return y >= p.Y && y <= p.Y+p.Height-labelHeight
}

// Draw renders the panel, rows scrolled out of the panel are skipped
func (p *UIPanel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}

	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, "Boids  [H] hide  [P] pause  [R] reset", int(p.X+10), int(p.Y+5))

	headerBG := color.RGBA{R: 60, G: 60, B: 70, A: 255}
	y := p.Y + titleHeight - p.ScrollOffset
	next := 0
	for i, r := range p.rows {
		for next < len(p.sections) && p.sections[next].start == i {
			if p.visible(y) {
				vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, headerBG, true)
				ebitenutil.DebugPrintAt(screen, p.sections[next].title, int(p.X+10), int(y+5))
			}
			y += headerHeight
			next++
		}
		if p.visible(y) {
			ebitenutil.DebugPrintAt(screen, r.label, int(p.X+10), int(y))
			r.widget.Draw(screen)
		}
		y += r.widget.rowHeight()
	}
}
