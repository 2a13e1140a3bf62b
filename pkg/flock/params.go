package flock

import "github.com/67O7XoO4/go-boids/pkg/geometry"

// TurnFactor is the constant velocity nudge applied per tick while a boid is inside the margin band.
const TurnFactor = 1.0

// Params controls the rules of the simulation.
// The core reads them once per tick; the host may change them between ticks.
// Any factor <= 0 disables its rule.
type Params struct {
	ApplyRules bool `json:"applyRules"`

	CohesionFactor     float64 `json:"cohesionFactor"`     // fly toward the local centre, in 1/1000
	SeparationFactor   float64 `json:"separationFactor"`   // push away from crowding neighbors
	PointerAvoidFactor float64 `json:"pointerAvoidFactor"` // push away from the pointer
	MatchFactor        float64 `json:"matchFactor"`        // align with neighbors, in 1/100
	SpeedLimit         float64 `json:"speedLimit"`

	VisualRange        float64 `json:"visualRange"`        // neighbor radius for cohesion and matching
	MinDistance        float64 `json:"minDistance"`        // separation trigger radius
	PointerMinDistance float64 `json:"pointerMinDistance"` // pointer avoidance trigger radius
	Margin             float64 `json:"margin"`             // width of the edge band
}

// DefaultParams returns the classic tuning: a loose flock of small birds that dodge the mouse.
func DefaultParams() Params {
	return Params{
		ApplyRules:         true,
		CohesionFactor:     5,
		SeparationFactor:   5,
		PointerAvoidFactor: 20,
		MatchFactor:        5,
		SpeedLimit:         10,
		VisualRange:        75,
		MinDistance:        20,
		PointerMinDistance: 50,
		Margin:             100,
	}
}

// Pointer is the repulsion source controlled by the host (usually the mouse).
type Pointer struct {
	Pos geometry.Vector2D
	// Out is true while the pointer is outside the viewport; avoidance is then skipped.
	Out bool
}

var _ geometry.Locator = Pointer{}

// Position implements geometry.Locator.
func (p Pointer) Position() geometry.Vector2D {
	return p.Pos
}

// Viewport is the visible area. Boids are spawned inside it and nudged back toward it.
type Viewport struct {
	Width  float64
	Height float64
}
