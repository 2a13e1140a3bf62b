package simulation

import (
	"math/rand/v2"
	"time"

	"github.com/67O7XoO4/go-boids/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// FlockActor owns the authoritative Flock.
// The mailbox processes one message at a time, so host updates always land between two ticks
// and every tick runs on a consistent set of parameters, pointer and viewport.
type FlockActor struct {
	flock      *flock.Flock
	host       HostUpdate
	numBoids   int
	snapshotCh chan<- *flock.Snapshot

	// --- Benchmark Stats ---
	tickCount   int
	lastLogTime time.Time
}

var _ actor.Actor = (*FlockActor)(nil)

// NewFlockActor creates the flock logic unit. Snapshots are pushed on snapshotCh after every
// tick and every reinitialisation; a full channel drops the frame instead of blocking.
// A zero cfg.Seed picks a random seed.
func NewFlockActor(snapshotCh chan<- *flock.Snapshot, cfg *Config) *FlockActor {
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	host := HostUpdateFromConfig(cfg)
	return &FlockActor{
		flock:       flock.New(host.Params, host.Viewport, rng),
		host:        host,
		numBoids:    cfg.NumBoids,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *FlockActor) PreStart(ctx *actor.Context) error {
	// The flock is spawned before the first message so the very first Tick already has boids.
	w.flock.SetAgentCount(w.numBoids)
	ctx.ActorSystem().Logger().Infof("Flock spawned %d boids in %.0fx%.0f",
		w.flock.Len(), w.host.Viewport.Width, w.host.Viewport.Height)
	return nil
}

func (w *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Info("Flock started")
		w.pushSnapshot()

	// 1. The Main Simulation Step (Driven by Game Loop)
	case *emptypb.Empty:
		w.flock.Advance()
		w.tickCount++
		w.logBenchmarks(ctx)
		w.pushSnapshot()

	// 2. Explicit reinitialisation, the host is responsible for debouncing
	case *wrapperspb.Int32Value:
		w.flock.SetAgentCount(int(msg.GetValue()))
		ctx.Logger().Infof("Flock reinitialised with %d boids", w.flock.Len())
		w.pushSnapshot()

	// 3. Host state: sliders, pointer, window size
	case *structpb.Struct:
		w.applyHostUpdate(MergeProto(w.host, msg))

	default:
		ctx.Unhandled()
	}
}

func (w *FlockActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Flock is shutdown after tick %d", w.flock.Tick())
	return nil
}

func (w *FlockActor) applyHostUpdate(u HostUpdate) {
	w.host = u
	w.flock.SetParams(u.Params)
	w.flock.SetPointer(u.Pointer)
	w.flock.SetViewport(u.Viewport)
}

func (w *FlockActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Debugf("TICK RATE: %d/sec | Boids: %d | Tick: %d",
			w.tickCount, w.flock.Len(), w.flock.Tick())
		w.tickCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *FlockActor) pushSnapshot() {
	select {
	case w.snapshotCh <- w.flock.Snapshot(w.host.Trails):
	default:
		// UI busy, skip frame
	}
}
