package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/67O7XoO4/go-boids/pkg/flock"
	"github.com/67O7XoO4/go-boids/pkg/geometry"
	"github.com/67O7XoO4/go-boids/pkg/simulation"
	"github.com/67O7XoO4/go-boids/pkg/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
)

// Game is the ebiten front end of the flock. It owns no simulation state:
// it sends host updates and ticks to the FlockActor and draws the last snapshot it received.
type Game struct {
	ctx        context.Context
	logger     log.Logger
	flockPID   *actor.PID
	snapshotCh chan *flock.Snapshot
	lastState  *flock.Snapshot
	watcher    *simulation.ConfigWatcher

	width, height int
	paused        bool
	count         countDebouncer

	// UI Controls
	panel *ui.UIPanel

	// Widget references for easy access
	widgetCohesion           *ui.Slider
	widgetSeparation         *ui.Slider
	widgetMatch              *ui.Slider
	widgetPointerAvoid       *ui.Slider
	widgetSpeedLimit         *ui.Slider
	widgetVisualRange        *ui.Slider
	widgetMinDistance        *ui.Slider
	widgetPointerMinDistance *ui.Slider
	widgetMargin             *ui.Slider
	widgetNumBoids           *ui.Slider
	widgetApplyRules         *ui.Checkbox
	widgetDrawTrail          *ui.Checkbox
	widgetShowMinDistance    *ui.Checkbox
	widgetShowVisualRange    *ui.Checkbox
	widgetShowPointerMinDist *ui.Checkbox

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame spawns the flock actor on system and builds the control panel from cfg.
// watcher may be nil when hot reload is disabled.
func NewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem, watcher *simulation.ConfigWatcher) (*Game, error) {
	// Buffer to avoid blocking the actor when a frame is slow
	snapshotCh := make(chan *flock.Snapshot, 2)

	flockPID, err := system.Spawn(ctx, "flock", simulation.NewFlockActor(snapshotCh, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn flock: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		logger:     system.Logger(),
		flockPID:   flockPID,
		snapshotCh: snapshotCh,
		lastState:  &flock.Snapshot{}, // Avoid nil pointer
		watcher:    watcher,
		width:      int(cfg.WorldWidth),
		height:     int(cfg.WorldHeight),
		count:      countDebouncer{delay: CountDelay},
	}
	g.buildPanel(cfg)
	return g, nil
}

func (g *Game) buildPanel(cfg *simulation.Config) {
	panel := ui.NewUIPanel(10, 10, 260, float64(g.height)-20)

	panel.AddSection("Flocking")
	g.widgetApplyRules = panel.AddCheckbox("Apply rules", cfg.ApplyRules)
	g.widgetCohesion = panel.AddSlider("Cohesion", 0, 20, cfg.CohesionFactor)
	g.widgetSeparation = panel.AddSlider("Separation", 0, 20, cfg.SeparationFactor)
	g.widgetMatch = panel.AddSlider("Match velocity", 0, 20, cfg.MatchFactor)
	g.widgetVisualRange = panel.AddSlider("Visual range", 0, 300, cfg.VisualRange)
	g.widgetMinDistance = panel.AddSlider("Min distance", 0, 100, cfg.MinDistance)
	panel.EndSection()

	panel.AddSection("Movement")
	g.widgetSpeedLimit = panel.AddSlider("Speed limit", 0, 30, cfg.SpeedLimit)
	g.widgetMargin = panel.AddSlider("Margin", 0, 300, cfg.Margin)
	panel.EndSection()

	panel.AddSection("Pointer")
	g.widgetPointerAvoid = panel.AddSlider("Avoid factor", 0, 100, cfg.PointerAvoidFactor)
	g.widgetPointerMinDistance = panel.AddSlider("Avoid distance", 0, 300, cfg.PointerMinDistance)
	panel.EndSection()

	panel.AddSection("Population")
	g.widgetNumBoids = panel.AddIntSlider("Boids", 0, 2000, float64(cfg.NumBoids))
	panel.AddButton("Reset", g.reset)
	panel.EndSection()

	panel.AddSection("Visualization")
	g.widgetDrawTrail = panel.AddCheckbox("Draw trail", cfg.DrawTrail)
	g.widgetShowMinDistance = panel.AddCheckbox("Show min distance", cfg.ShowMinDistance)
	g.widgetShowVisualRange = panel.AddCheckbox("Show visual range", cfg.ShowVisualRange)
	g.widgetShowPointerMinDist = panel.AddCheckbox("Show avoid distance", cfg.ShowPointerMinDistance)
	panel.EndSection()

	g.panel = panel
}

// applyConfig moves every widget to a reloaded configuration.
// A different boids count goes through the usual debounce.
func (g *Game) applyConfig(cfg *simulation.Config) {
	g.widgetApplyRules.Value = cfg.ApplyRules
	g.widgetCohesion.Fit(cfg.CohesionFactor)
	g.widgetSeparation.Fit(cfg.SeparationFactor)
	g.widgetMatch.Fit(cfg.MatchFactor)
	g.widgetVisualRange.Fit(cfg.VisualRange)
	g.widgetMinDistance.Fit(cfg.MinDistance)
	g.widgetSpeedLimit.Fit(cfg.SpeedLimit)
	g.widgetMargin.Fit(cfg.Margin)
	g.widgetPointerAvoid.Fit(cfg.PointerAvoidFactor)
	g.widgetPointerMinDistance.Fit(cfg.PointerMinDistance)
	g.widgetNumBoids.Fit(float64(cfg.NumBoids))
	g.widgetDrawTrail.Value = cfg.DrawTrail
	g.widgetShowMinDistance.Value = cfg.ShowMinDistance
	g.widgetShowVisualRange.Value = cfg.ShowVisualRange
	g.widgetShowPointerMinDist.Value = cfg.ShowPointerMinDistance
	if cfg.TicksPerSecond > 0 {
		ebiten.SetTPS(cfg.TicksPerSecond)
	}
	g.logger.Infof("Configuration reloaded")
}

// params reads the rule parameters off the panel.
func (g *Game) params() flock.Params {
	return flock.Params{
		ApplyRules:         g.widgetApplyRules.Value,
		CohesionFactor:     g.widgetCohesion.Value,
		SeparationFactor:   g.widgetSeparation.Value,
		PointerAvoidFactor: g.widgetPointerAvoid.Value,
		MatchFactor:        g.widgetMatch.Value,
		SpeedLimit:         g.widgetSpeedLimit.Value,
		VisualRange:        g.widgetVisualRange.Value,
		MinDistance:        g.widgetMinDistance.Value,
		PointerMinDistance: g.widgetPointerMinDistance.Value,
		Margin:             g.widgetMargin.Value,
	}
}

func (g *Game) hostUpdate() simulation.HostUpdate {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	return simulation.HostUpdate{
		Params: g.params(),
		Pointer: flock.Pointer{
			Pos: geometry.Vector2D{X: x, Y: y},
			Out: pointerOut(x, y, g.width, g.height, ebiten.IsFocused(), g.panel),
		},
		Viewport: flock.Viewport{Width: float64(g.width), Height: float64(g.height)},
		Trails:   g.widgetDrawTrail.Value,
	}
}

// reset reinitialises the flock with the count currently on the slider.
func (g *Game) reset() {
	g.count.Cancel()
	actor.Tell(g.ctx, g.flockPID, simulation.NewSetAgentCount(int(g.widgetNumBoids.Value)))
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.panel.Hidden = !g.panel.Hidden
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case cfg, ok := <-g.watcher.Updates:
		if ok {
			g.applyConfig(cfg)
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.logger.Errorf("Configuration reload failed: %v", err)
		}
	default:
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Input and hot reload
	g.handleKeys()
	g.pollWatcher()
	g.panel.Update()

	// 2. Agent count changes are debounced, the slider can move on every frame
	if g.widgetNumBoids.Changed() {
		g.count.Set(int(g.widgetNumBoids.Value), start)
	}
	if n, ok := g.count.Ready(start); ok {
		actor.Tell(g.ctx, g.flockPID, simulation.NewSetAgentCount(n))
	}

	// 3. Retrieve latest state (non-blocking)
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	// 4. Host state first so the next tick sees it
	msg, err := g.hostUpdate().ToProto()
	if err != nil {
		return fmt.Errorf("failed to encode host update: %w", err)
	}
	actor.Tell(g.ctx, g.flockPID, msg)

	// 5. Trigger Simulation Step
	if !g.paused {
		actor.Tell(g.ctx, g.flockPID, simulation.NewTick())
	}
	return nil
}

// Layout follows the window size, the flock viewport is updated on the next host update.
func (g *Game) Layout(w, h int) (int, int) {
	g.width, g.height = w, h
	g.panel.Height = float64(h) - 20
	return w, h
}
