package flock

import (
	"math/rand/v2"
	"testing"

	"github.com/67O7XoO4/go-boids/pkg/geometry"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

func TestFlock_SetAgentCount(t *testing.T) {
	vp := Viewport{Width: 640, Height: 480}
	p := DefaultParams()

	for _, n := range []int{0, 1, 60, 250} {
		f := New(p, vp, seeded())
		f.SetAgentCount(n)

		if f.Len() != n {
			t.Fatalf("SetAgentCount(%d) gave %d boids", n, f.Len())
		}
		half := p.SpeedLimit / 2
		for i, b := range f.Boids() {
			if b.Pos.X < 0 || b.Pos.X >= vp.Width || b.Pos.Y < 0 || b.Pos.Y >= vp.Height {
				t.Errorf("boid %d spawned outside the viewport at %v", i, b.Pos)
			}
			if b.Vel.X < -half || b.Vel.X >= half || b.Vel.Y < -half || b.Vel.Y >= half {
				t.Errorf("boid %d velocity %v outside [-%v, %v)", i, b.Vel, half, half)
			}
			if len(b.History) != 0 {
				t.Errorf("boid %d spawned with history %v", i, b.History)
			}
		}
	}
}

func TestFlock_SetAgentCountNegative(t *testing.T) {
	f := New(DefaultParams(), Viewport{Width: 100, Height: 100}, seeded())
	f.SetAgentCount(5)
	f.SetAgentCount(-3)
	if f.Len() != 0 {
		t.Errorf("SetAgentCount(-3) gave %d boids; want 0", f.Len())
	}
}

func TestFlock_ReinitDiscardsHistory(t *testing.T) {
	f := New(DefaultParams(), Viewport{Width: 800, Height: 600}, seeded())
	f.SetAgentCount(10)
	for i := 0; i < 5; i++ {
		f.Advance()
	}
	f.SetAgentCount(10)
	for i, b := range f.Boids() {
		if len(b.History) != 0 {
			t.Errorf("boid %d kept %d history entries across reinit", i, len(b.History))
		}
	}
}

func TestFlock_HistoryIsBounded(t *testing.T) {
	f := New(DefaultParams(), Viewport{Width: 800, Height: 600}, seeded())
	f.SetAgentCount(3)

	f.Advance()
	first := f.Boids()[0].Pos
	for i := 1; i < HistoryLen; i++ {
		f.Advance()
	}

	h := f.Boids()[0].History
	if len(h) != HistoryLen {
		t.Fatalf("history length after %d ticks = %d; want %d", HistoryLen, len(h), HistoryLen)
	}
	if h[0] != first {
		t.Errorf("oldest history entry = %v; want first tick position %v", h[0], first)
	}
	if h[len(h)-1] != f.Boids()[0].Pos {
		t.Errorf("newest history entry = %v; want current position %v", h[len(h)-1], f.Boids()[0].Pos)
	}

	for i := 0; i < 3*HistoryLen; i++ {
		f.Advance()
		for j, b := range f.Boids() {
			if len(b.History) > HistoryLen {
				t.Fatalf("boid %d history grew to %d", j, len(b.History))
			}
		}
	}
}

func TestFlock_BoundaryNudgeThroughTick(t *testing.T) {
	// margin=100, turnFactor=1, x=99 with zero velocity: dx becomes exactly 1 after one tick.
	p := Params{Margin: 100}
	f := New(p, Viewport{Width: 1000, Height: 1000}, seeded())
	f.SetAgentCount(1)
	b := f.Boids()[0]
	b.Pos = geometry.Vector2D{X: 99, Y: 500}
	b.Vel = geometry.Vector2D{}

	f.Advance()

	if b.Vel.X != 1.0 {
		t.Errorf("dx after one tick = %v; want 1.0", b.Vel.X)
	}
	if b.Vel.Y != 0 {
		t.Errorf("dy after one tick = %v; want 0", b.Vel.Y)
	}
	if b.Pos != (geometry.Vector2D{X: 100, Y: 500}) {
		t.Errorf("position after one tick = %v; want (100, 500)", b.Pos)
	}
}

func TestFlock_NoOpPipeline(t *testing.T) {
	// All factors zero, speedLimit=0, margin=0: nothing ever moves.
	f := New(Params{}, Viewport{Width: 800, Height: 600}, seeded())
	f.SetAgentCount(1)
	start := f.Boids()[0].Pos

	for i := 0; i < 200; i++ {
		f.Advance()
	}

	if got := f.Boids()[0].Pos; got != start {
		t.Errorf("position moved from %v to %v", start, got)
	}
	if f.Tick() != 200 {
		t.Errorf("Tick() = %d; want 200", f.Tick())
	}
}

func TestFlock_ApplyRulesToggle(t *testing.T) {
	// With the master toggle off only the speed limit and edge rules run.
	p := DefaultParams()
	p.ApplyRules = false
	p.SpeedLimit = 0
	p.Margin = 0
	f := New(p, Viewport{Width: 1000, Height: 1000}, seeded())
	f.SetAgentCount(2)
	a, b := f.Boids()[0], f.Boids()[1]
	a.Pos, a.Vel = geometry.Vector2D{X: 500, Y: 500}, geometry.Vector2D{X: 1}
	b.Pos, b.Vel = geometry.Vector2D{X: 505, Y: 500}, geometry.Vector2D{X: -1}

	f.Advance()

	if a.Vel != (geometry.Vector2D{X: 1}) || b.Vel != (geometry.Vector2D{X: -1}) {
		t.Errorf("velocities changed with rules off: a=%v b=%v", a.Vel, b.Vel)
	}
}

func TestFlock_CoincidentBoidsStayFinite(t *testing.T) {
	f := New(DefaultParams(), Viewport{Width: 800, Height: 600}, seeded())
	f.SetAgentCount(4)
	for _, b := range f.Boids() {
		b.Pos = geometry.Vector2D{X: 400, Y: 300}
		b.Vel = geometry.Vector2D{}
	}
	f.SetPointer(Pointer{Pos: geometry.Vector2D{X: 400, Y: 300}})

	for i := 0; i < 20; i++ {
		f.Advance()
		for j, b := range f.Boids() {
			if !b.Vel.IsFinite() || !b.Pos.IsFinite() {
				t.Fatalf("tick %d boid %d went non finite: pos=%v vel=%v", i, j, b.Pos, b.Vel)
			}
		}
	}
}

func TestFlock_SpeedNeverExceedsLimit(t *testing.T) {
	p := DefaultParams()
	p.Margin = -1e9 // the edge nudge runs after the limit, keep it out of the way
	f := New(p, Viewport{Width: 800, Height: 600}, seeded())
	f.SetAgentCount(80)

	for i := 0; i < 100; i++ {
		f.Advance()
		for j, b := range f.Boids() {
			if s := b.Vel.Len(); s > p.SpeedLimit+1e-9 {
				t.Fatalf("tick %d boid %d speed %v over limit %v", i, j, s, p.SpeedLimit)
			}
		}
	}
}

func TestFlock_Deterministic(t *testing.T) {
	run := func() *Snapshot {
		f := New(DefaultParams(), Viewport{Width: 800, Height: 600}, seeded())
		f.SetAgentCount(30)
		for i := 0; i < 40; i++ {
			f.Advance()
		}
		return f.Snapshot(false)
	}

	a, b := run(), run()
	for i := range a.Boids {
		if a.Boids[i].Pos != b.Boids[i].Pos || a.Boids[i].Vel != b.Boids[i].Vel {
			t.Fatalf("boid %d diverged between identical runs: %v vs %v", i, a.Boids[i], b.Boids[i])
		}
	}
}

func TestFlock_Snapshot(t *testing.T) {
	f := New(DefaultParams(), Viewport{Width: 800, Height: 600}, seeded())
	f.SetAgentCount(5)
	f.SetPointer(Pointer{Pos: geometry.Vector2D{X: 3, Y: 4}})
	for i := 0; i < 3; i++ {
		f.Advance()
	}

	t.Run("Without trails", func(t *testing.T) {
		s := f.Snapshot(false)
		if s.Tick != 3 || len(s.Boids) != 5 {
			t.Fatalf("Snapshot tick=%d boids=%d; want 3 and 5", s.Tick, len(s.Boids))
		}
		for i, bs := range s.Boids {
			if bs.Trail != nil {
				t.Errorf("boid %d has a trail without trails requested", i)
			}
			if bs.Heading != f.Boids()[i].Heading() {
				t.Errorf("boid %d heading = %v; want %v", i, bs.Heading, f.Boids()[i].Heading())
			}
		}
		if s.Pointer != f.Pointer() {
			t.Errorf("Snapshot pointer = %v; want %v", s.Pointer, f.Pointer())
		}
	})

	t.Run("Trails are copies", func(t *testing.T) {
		s := f.Snapshot(true)
		if len(s.Boids[0].Trail) != 3 {
			t.Fatalf("trail length = %d; want 3", len(s.Boids[0].Trail))
		}
		s.Boids[0].Trail[0] = geometry.Vector2D{X: -1, Y: -1}
		if f.Boids()[0].History[0] == (geometry.Vector2D{X: -1, Y: -1}) {
			t.Error("writing to a snapshot trail changed the flock history")
		}
	})
}

func BenchmarkFlock_Advance(b *testing.B) {
	f := New(DefaultParams(), Viewport{Width: 1000, Height: 800}, seeded())
	f.SetAgentCount(200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Advance()
	}
}

func TestStep_Order(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 800}

	tests := []struct {
		name    string
		params  Params
		ptr     Pointer
		self    Boid
		other   Boid
		wantVel geometry.Vector2D
	}{
		{
			// cohesion +0.5, match sees 0.5 and averages with 4: +0.875, pointer at distance 10 pushes (2, -2)
			name: "Rules in order",
			params: Params{
				ApplyRules: true, CohesionFactor: 20, SeparationFactor: 5, MatchFactor: 50,
				PointerAvoidFactor: 20, SpeedLimit: 10, VisualRange: 75, MinDistance: 20,
				PointerMinDistance: 20, Margin: -1e9,
			},
			ptr:     Pointer{Pos: geometry.Vector2D{X: -6, Y: 8}},
			self:    Boid{},
			other:   Boid{Pos: geometry.Vector2D{X: 50}, Vel: geometry.Vector2D{X: 4}},
			wantVel: geometry.Vector2D{X: 3.375, Y: -2},
		},
		{
			name:    "Match sees cohesion",
			params:  Params{ApplyRules: true, CohesionFactor: 20, MatchFactor: 50, VisualRange: 75, Margin: -1e9},
			ptr:     Pointer{Out: true},
			self:    Boid{},
			other:   Boid{Pos: geometry.Vector2D{X: 50}, Vel: geometry.Vector2D{X: 4}},
			wantVel: geometry.Vector2D{X: 1.375},
		},
		{
			// clamp to 1 first, then the edge nudge adds TurnFactor on top
			name:    "Edge nudge after speed limit",
			params:  Params{SpeedLimit: 1, Margin: 100},
			ptr:     Pointer{Out: true},
			self:    Boid{Pos: geometry.Vector2D{X: 10, Y: 300}, Vel: geometry.Vector2D{X: 5}},
			other:   Boid{Pos: geometry.Vector2D{X: 500, Y: 400}},
			wantVel: geometry.Vector2D{X: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			self, other := tt.self, tt.other
			start := self.Pos
			Step(&self, []*Boid{&self, &other}, &tt.params, tt.ptr, vp)

			if !self.Vel.Eq(tt.wantVel) {
				t.Errorf("vel = %v; want %v", self.Vel, tt.wantVel)
			}
			if want := start.Add(tt.wantVel); !self.Pos.Eq(want) {
				t.Errorf("pos = %v; want %v", self.Pos, want)
			}
		})
	}
}

func TestFlock_AdvanceUpdatesInPlace(t *testing.T) {
	// boid 0 moves to x=10.15 first, so boid 1 pulls toward (10.15+30)/2 instead of 15.
	p := Params{ApplyRules: true, CohesionFactor: 10, VisualRange: 75, Margin: -1e9}
	f := New(p, Viewport{Width: 1000, Height: 800}, seeded())
	f.SetAgentCount(2)
	b0, b1 := f.Boids()[0], f.Boids()[1]
	b0.Pos, b0.Vel = geometry.Vector2D{X: 0, Y: 400}, geometry.Vector2D{X: 10}
	b1.Pos, b1.Vel = geometry.Vector2D{X: 30, Y: 400}, geometry.Vector2D{}

	f.Advance()

	if want := (geometry.Vector2D{X: 10.15}); !b0.Vel.Eq(want) {
		t.Errorf("boid 0 vel = %v; want %v", b0.Vel, want)
	}
	if want := (geometry.Vector2D{X: -0.09925}); !b1.Vel.Eq(want) {
		t.Errorf("boid 1 vel = %v; want %v (scan of the moved boid 0)", b1.Vel, want)
	}
}
