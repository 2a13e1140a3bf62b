package flock

import (
	"math/rand/v2"

	"github.com/67O7XoO4/go-boids/pkg/geometry"
)

// HistoryLen is the number of recent positions a boid keeps for trail rendering.
const HistoryLen = 50

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
//
// A boid has no identity beyond its slot in the flock: rules compare boids by pointer only.
type Boid struct {
	Pos geometry.Vector2D
	Vel geometry.Vector2D

	// History holds up to HistoryLen positions, oldest first.
	History []geometry.Vector2D
}

var _ geometry.Locator = (*Boid)(nil)

// NewBoid creates a boid at a random position inside vp, with each velocity component
// drawn uniformly from [-speedLimit/2, speedLimit/2).
func NewBoid(rng *rand.Rand, vp Viewport, speedLimit float64) *Boid {
	mean := speedLimit / 2
	return &Boid{
		Pos: geometry.Vector2D{
			X: rng.Float64() * vp.Width,
			Y: rng.Float64() * vp.Height,
		},
		Vel: geometry.Vector2D{
			X: rng.Float64()*speedLimit - mean,
			Y: rng.Float64()*speedLimit - mean,
		},
		History: make([]geometry.Vector2D, 0, HistoryLen),
	}
}

// Position implements geometry.Locator.
func (b *Boid) Position() geometry.Vector2D {
	return b.Pos
}

// Heading is the direction of travel in radians, as drawn by the renderer.
func (b *Boid) Heading() float64 {
	return b.Vel.Angle()
}

// Move applies one unit time-step of velocity to the position and records it in History.
func (b *Boid) Move() {
	b.Pos = b.Pos.Add(b.Vel)
	b.record(b.Pos)
}

// record appends p to History and drops the oldest entry once HistoryLen is reached.
// The backing array is reused, so a full history never allocates again.
func (b *Boid) record(p geometry.Vector2D) {
	if len(b.History) < HistoryLen {
		b.History = append(b.History, p)
		return
	}
	copy(b.History, b.History[1:])
	b.History[len(b.History)-1] = p
}
