package simulation

import (
	"math"

	"github.com/67O7XoO4/go-boids/pkg/flock"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Messages understood by FlockActor:
//
//	*emptypb.Empty         advance one tick
//	*wrapperspb.Int32Value reinitialise the flock with that many boids
//	*structpb.Struct       host update (see HostUpdate), applied between ticks

// NewTick returns the message that advances the flock by one tick.
func NewTick() *emptypb.Empty { return &emptypb.Empty{} }

// NewSetAgentCount returns the message that reinitialises the flock with n boids.
// n is clamped to [0, math.MaxInt32].
func NewSetAgentCount(n int) *wrapperspb.Int32Value {
	n = max(0, min(n, math.MaxInt32))
	return wrapperspb.Int32(int32(n))
}

// HostUpdate is everything the host owns and the flock only reads:
// rule parameters, pointer, viewport, and whether snapshots should carry trails.
type HostUpdate struct {
	Params   flock.Params
	Pointer  flock.Pointer
	Viewport flock.Viewport
	Trails   bool
}

// Keys reuse the configuration names so a config file and a host update read the same.
var numberFields = []struct {
	key string
	ref func(u *HostUpdate) *float64
}{
	{"cohesionFactor", func(u *HostUpdate) *float64 { return &u.Params.CohesionFactor }},
	{"separationFactor", func(u *HostUpdate) *float64 { return &u.Params.SeparationFactor }},
	{"pointerAvoidFactor", func(u *HostUpdate) *float64 { return &u.Params.PointerAvoidFactor }},
	{"matchFactor", func(u *HostUpdate) *float64 { return &u.Params.MatchFactor }},
	{"speedLimit", func(u *HostUpdate) *float64 { return &u.Params.SpeedLimit }},
	{"visualRange", func(u *HostUpdate) *float64 { return &u.Params.VisualRange }},
	{"minDistance", func(u *HostUpdate) *float64 { return &u.Params.MinDistance }},
	{"pointerMinDistance", func(u *HostUpdate) *float64 { return &u.Params.PointerMinDistance }},
	{"margin", func(u *HostUpdate) *float64 { return &u.Params.Margin }},
	{"pointerX", func(u *HostUpdate) *float64 { return &u.Pointer.Pos.X }},
	{"pointerY", func(u *HostUpdate) *float64 { return &u.Pointer.Pos.Y }},
	{"width", func(u *HostUpdate) *float64 { return &u.Viewport.Width }},
	{"height", func(u *HostUpdate) *float64 { return &u.Viewport.Height }},
}

var boolFields = []struct {
	key string
	ref func(u *HostUpdate) *bool
}{
	{"applyRules", func(u *HostUpdate) *bool { return &u.Params.ApplyRules }},
	{"pointerOut", func(u *HostUpdate) *bool { return &u.Pointer.Out }},
	{"drawTrail", func(u *HostUpdate) *bool { return &u.Trails }},
}

// ToProto converts the update into the protobuf "Envelope" sent to the actor.
func (u HostUpdate) ToProto() (*structpb.Struct, error) {
	m := make(map[string]interface{}, len(numberFields)+len(boolFields))
	for _, f := range numberFields {
		m[f.key] = *f.ref(&u)
	}
	for _, f := range boolFields {
		m[f.key] = *f.ref(&u)
	}
	return structpb.NewStruct(m)
}

// MergeProto returns base with every known key of s applied on top.
// Unknown keys and keys holding the wrong kind of value are ignored, so partial updates are fine.
func MergeProto(base HostUpdate, s *structpb.Struct) HostUpdate {
	fields := s.GetFields()
	for _, f := range numberFields {
		if v, ok := fields[f.key].GetKind().(*structpb.Value_NumberValue); ok {
			*f.ref(&base) = v.NumberValue
		}
	}
	for _, f := range boolFields {
		if v, ok := fields[f.key].GetKind().(*structpb.Value_BoolValue); ok {
			*f.ref(&base) = v.BoolValue
		}
	}
	return base
}

// HostUpdateFromConfig seeds a HostUpdate from a loaded configuration.
// The pointer starts outside the viewport.
func HostUpdateFromConfig(cfg *Config) HostUpdate {
	return HostUpdate{
		Params:   cfg.Params,
		Pointer:  flock.Pointer{Out: true},
		Viewport: cfg.Viewport(),
		Trails:   cfg.DrawTrail,
	}
}
