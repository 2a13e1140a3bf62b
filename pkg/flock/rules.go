package flock

import (
	"math"

	"github.com/67O7XoO4/go-boids/pkg/geometry"
)

// Each rule adjusts b.Vel only, and returns immediately when its factor is disabled.
// Neighbor scans in Cohesion and MatchVelocity include b itself: its distance to itself is 0,
// which is always inside the visual range, so it weighs in its own average.

// Cohesion steers b toward the centre of mass of the boids within VisualRange.
func Cohesion(b *Boid, flock []*Boid, p *Params) {
	if p.CohesionFactor <= 0 {
		return
	}
	factor := p.CohesionFactor / 1000

	var center geometry.Vector2D
	neighbors := 0
	for _, other := range flock {
		if geometry.Distance(b, other) < p.VisualRange {
			center = center.Add(other.Pos)
			neighbors++
		}
	}
	if neighbors == 0 {
		return
	}

	center.X /= float64(neighbors)
	center.Y /= float64(neighbors)
	b.Vel = b.Vel.Add(center.Sub(b.Pos).Mul(factor))
}

// Separation pushes b away from every other boid closer than MinDistance.
// Contributions are summed, not averaged: the more crowded, the harder the push.
func Separation(b *Boid, flock []*Boid, p *Params) {
	if p.SeparationFactor <= 0 {
		return
	}

	var move geometry.Vector2D
	for _, other := range flock {
		if other == b {
			continue
		}
		dist := geometry.Distance(b, other)
		if dist < p.MinDistance {
			move = move.Add(pushAway(b.Pos.Sub(other.Pos), dist, p.SeparationFactor))
		}
	}
	b.Vel = b.Vel.Add(move)
}

// AvoidPointer pushes b away from the pointer when closer than PointerMinDistance.
// Skipped entirely while the pointer is outside the viewport.
func AvoidPointer(b *Boid, ptr Pointer, p *Params) {
	if p.PointerAvoidFactor <= 0 || ptr.Out {
		return
	}

	dist := geometry.Distance(b, ptr)
	if dist < p.PointerMinDistance {
		b.Vel = b.Vel.Add(pushAway(b.Pos.Sub(ptr.Pos), dist, p.PointerAvoidFactor))
	}
}

// MatchVelocity moves b's velocity toward the average velocity of the boids within VisualRange.
func MatchVelocity(b *Boid, flock []*Boid, p *Params) {
	if p.MatchFactor <= 0 {
		return
	}
	factor := p.MatchFactor / 100

	var avg geometry.Vector2D
	neighbors := 0
	for _, other := range flock {
		if geometry.Distance(b, other) < p.VisualRange {
			avg = avg.Add(other.Vel)
			neighbors++
		}
	}
	if neighbors == 0 {
		return
	}

	avg.X /= float64(neighbors)
	avg.Y /= float64(neighbors)
	b.Vel = b.Vel.Add(avg.Sub(b.Vel).Mul(factor))
}

// LimitSpeed rescales b's velocity down to SpeedLimit when it is faster.
func LimitSpeed(b *Boid, p *Params) {
	if p.SpeedLimit <= 0 {
		return
	}
	b.Vel = b.Vel.ClampLen(p.SpeedLimit)
}

// KeepWithinBounds nudges b back by TurnFactor on each axis where it sits inside the margin band.
// This is a constant push per tick, not a force proportional to the overshoot.
func KeepWithinBounds(b *Boid, vp Viewport, p *Params) {
	if b.Pos.X < p.Margin {
		b.Vel.X += TurnFactor
	}
	if b.Pos.X > vp.Width-p.Margin {
		b.Vel.X -= TurnFactor
	}
	if b.Pos.Y < p.Margin {
		b.Vel.Y += TurnFactor
	}
	if b.Pos.Y > vp.Height-p.Margin {
		b.Vel.Y -= TurnFactor
	}
}

// pushAway returns the repulsion for a displacement delta (away from the source) at distance dist.
// Each axis gets factor/dist along the sign of its delta. An axis with an exactly zero delta gets
// the full factor instead, so coincident points never divide by zero.
func pushAway(delta geometry.Vector2D, dist, factor float64) geometry.Vector2D {
	return geometry.Vector2D{
		X: pushAxis(delta.X, dist, factor),
		Y: pushAxis(delta.Y, dist, factor),
	}
}

func pushAxis(d, dist, factor float64) float64 {
	if d == 0 {
		return factor
	}
	return math.Copysign(1, d) * factor / dist
}
