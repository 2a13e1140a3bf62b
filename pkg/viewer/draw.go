package viewer

import (
	"fmt"
	"image/color"
	"time"

	"github.com/67O7XoO4/go-boids/pkg/flock"
	"github.com/67O7XoO4/go-boids/pkg/geometry"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	backgroundColor = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	boidColor       = color.RGBA{R: 85, G: 140, B: 244, A: 255}
	minDistColor    = color.RGBA{R: 85, G: 140, B: 244, A: 50}
	visualColor     = color.RGBA{R: 85, G: 140, B: 244, A: 128}
	pointerColor    = color.RGBA{R: 100, G: 240, B: 240, A: 26}
)

// labelFace is the built-in 7x13 font for overlay messages
var labelFace = ebtext.NewGoXFace(basicfont.Face7x13)

// whiteImage is the texture of every boid triangle, created on first draw
var whiteImage *ebiten.Image

// Boid triangle: tip on the position, tail corners behind it
const (
	boidLength    = 15.0
	boidHalfWidth = 5.0
)

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)

	// 1. Draw all boids from the last known snapshot
	state := g.lastState
	for i := range state.Boids {
		g.drawDecorations(screen, &state.Boids[i])
	}
	drawBoids(screen, state.Boids)

	if g.widgetShowPointerMinDist.Value && !state.Pointer.Out {
		vector.FillCircle(screen,
			float32(state.Pointer.Pos.X), float32(state.Pointer.Pos.Y),
			float32(g.widgetPointerMinDistance.Value),
			pointerColor, true)
	}

	// 2. Draw UI Panel
	g.panel.Draw(screen)

	if g.paused {
		g.drawCentered(screen, "PAUSED  [P] resume")
	}

	// Display performance stats on the right side to avoid overlap with panel
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nBoids: %d\nTick: %d\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		len(state.Boids),
		state.Tick,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, g.width-150, 10)
}

func (g *Game) drawCentered(screen *ebiten.Image, msg string) {
	w, h := ebtext.Measure(msg, labelFace, 0)
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate((float64(g.width)-w)/2, (float64(g.height)-h)/2)
	op.ColorScale.ScaleWithColor(color.White)
	ebtext.Draw(screen, msg, labelFace, op)
}

// drawDecorations draws the optional trail and range circles of one boid.
func (g *Game) drawDecorations(screen *ebiten.Image, b *flock.BoidState) {
	if g.widgetDrawTrail.Value {
		for i := 1; i < len(b.Trail); i++ {
			p, q := b.Trail[i-1], b.Trail[i]
			vector.StrokeLine(screen, float32(p.X), float32(p.Y), float32(q.X), float32(q.Y), 1, boidColor, true)
		}
	}
	if g.widgetShowMinDistance.Value {
		vector.FillCircle(screen, float32(b.Pos.X), float32(b.Pos.Y), float32(g.widgetMinDistance.Value), minDistColor, true)
	}
	if g.widgetShowVisualRange.Value {
		vector.StrokeCircle(screen, float32(b.Pos.X), float32(b.Pos.Y), float32(g.widgetVisualRange.Value), 1, visualColor, true)
	}
}

// drawBoids batches every boid triangle into one DrawTriangles call.
func drawBoids(screen *ebiten.Image, boids []flock.BoidState) {
	if len(boids) == 0 {
		return
	}
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	}

	vertices := make([]ebiten.Vertex, 0, 3*len(boids))
	indices := make([]uint16, 0, 3*len(boids))
	for _, b := range boids {
		for _, p := range triangle(b.Pos, b.Heading) {
			vertices = append(vertices, ebiten.Vertex{
				DstX: float32(p.X),
				DstY: float32(p.Y),
				SrcX: 1, SrcY: 1,
				ColorR: float32(boidColor.R) / 255,
				ColorG: float32(boidColor.G) / 255,
				ColorB: float32(boidColor.B) / 255,
				ColorA: 1,
			})
			indices = append(indices, uint16(len(vertices)-1))
		}
	}

	op := &ebiten.DrawTrianglesOptions{}
	screen.DrawTriangles(vertices, indices, whiteImage, op)
}

// triangle returns the three corners of a boid at pos pointing along angle.
func triangle(pos geometry.Vector2D, angle float64) [3]geometry.Vector2D {
	return [3]geometry.Vector2D{
		pos,
		geometry.Vector2D{X: -boidLength, Y: boidHalfWidth}.Rotate(angle).Add(pos),
		geometry.Vector2D{X: -boidLength, Y: -boidHalfWidth}.Rotate(angle).Add(pos),
	}
}
