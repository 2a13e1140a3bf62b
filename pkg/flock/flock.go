package flock

import (
	"math/rand/v2"

	"github.com/67O7XoO4/go-boids/pkg/geometry"
)

// Flock is the whole simulation state: the boids plus the host-supplied parameters,
// pointer and viewport they react to.
//
// A Flock is not safe for concurrent use. Callers that mutate it from several goroutines
// must serialize access (see simulation.FlockActor).
type Flock struct {
	boids    []*Boid
	params   Params
	pointer  Pointer
	viewport Viewport
	rng      *rand.Rand
	tick     uint64
}

// New creates an empty flock. Call SetAgentCount to populate it.
// A nil rng is replaced by a randomly seeded one.
func New(params Params, vp Viewport, rng *rand.Rand) *Flock {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Flock{
		params:   params,
		pointer:  Pointer{Out: true},
		viewport: vp,
		rng:      rng,
	}
}

// SetAgentCount discards every boid, trails included, and spawns n fresh ones
// inside the current viewport. Negative counts are treated as 0.
func (f *Flock) SetAgentCount(n int) {
	if n < 0 {
		n = 0
	}
	f.boids = make([]*Boid, n)
	for i := range f.boids {
		f.boids[i] = NewBoid(f.rng, f.viewport, f.params.SpeedLimit)
	}
}

// Len returns the number of boids.
func (f *Flock) Len() int { return len(f.boids) }

// Boids gives direct read access to the boids. The slice must not be modified.
func (f *Flock) Boids() []*Boid { return f.boids }

// Tick returns the number of ticks advanced since creation.
func (f *Flock) Tick() uint64 { return f.tick }

func (f *Flock) Params() Params { return f.params }

func (f *Flock) SetParams(p Params) { f.params = p }

func (f *Flock) Pointer() Pointer { return f.pointer }

func (f *Flock) SetPointer(p Pointer) { f.pointer = p }

func (f *Flock) Viewport() Viewport { return f.viewport }

// SetViewport updates the bounds used by the edge rule and by future spawns.
// Existing boids are left where they are.
func (f *Flock) SetViewport(vp Viewport) { f.viewport = vp }

// Advance runs one tick: every boid goes through Step in slot order.
// Params, pointer and viewport are copied first so the whole tick sees one consistent state.
// Boids are updated in place, so later boids see the already moved earlier ones.
func (f *Flock) Advance() {
	p, ptr, vp := f.params, f.pointer, f.viewport
	for _, b := range f.boids {
		Step(b, f.boids, &p, ptr, vp)
	}
	f.tick++
}

// Step updates one boid: behavioral rules (when enabled), speed limit, edge nudge, then move.
func Step(b *Boid, flock []*Boid, p *Params, ptr Pointer, vp Viewport) {
	if p.ApplyRules {
		Cohesion(b, flock, p)
		Separation(b, flock, p)
		MatchVelocity(b, flock, p)
		AvoidPointer(b, ptr, p)
	}

	// Always on, regardless of ApplyRules.
	LimitSpeed(b, p)
	KeepWithinBounds(b, vp, p)

	b.Move()
}

// BoidState is the render view of one boid.
type BoidState struct {
	Pos     geometry.Vector2D
	Vel     geometry.Vector2D
	Heading float64
	Trail   []geometry.Vector2D // nil unless trails were requested
}

// Snapshot is a copy of the flock handed to the renderer. It shares no memory with the Flock.
type Snapshot struct {
	Tick     uint64
	Boids    []BoidState
	Pointer  Pointer
	Viewport Viewport
	Params   Params
}

// Snapshot copies the current state. Trails are copied only when trails is true.
func (f *Flock) Snapshot(trails bool) *Snapshot {
	s := &Snapshot{
		Tick:     f.tick,
		Boids:    make([]BoidState, len(f.boids)),
		Pointer:  f.pointer,
		Viewport: f.viewport,
		Params:   f.params,
	}
	for i, b := range f.boids {
		s.Boids[i] = BoidState{
			Pos:     b.Pos,
			Vel:     b.Vel,
			Heading: b.Heading(),
		}
		if trails {
			s.Boids[i].Trail = append([]geometry.Vector2D(nil), b.History...)
		}
	}
	return s
}
