package swarm

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/swarmsim/server/internal/vmath"
)

var (
	ErrNoWaypoints = errors.New("swarm: no waypoint source")
	ErrNoFallback  = errors.New("swarm: no fallback source")
	ErrClosed      = errors.New("swarm: simulation closed")
	ErrBadDelta    = errors.New("swarm: dt must be positive and finite")
	ErrPoolResized = errors.New("swarm: waypoint count changed")
)

// WaypointSource supplies the waypoint pool. The slice is read, never written, and its length
// must stay the same for the life of a Sim.
type WaypointSource interface {
	Waypoints() []vmath.Vec3
}

// FallbackSource supplies the shared fallback target, read once per tick.
type FallbackSource interface {
	Position() vmath.Vec3
}

// StaticPool is a fixed waypoint pool.
type StaticPool []vmath.Vec3

func (p StaticPool) Waypoints() []vmath.Vec3 { return p }

// FixedPoint is a fallback that never moves.
type FixedPoint vmath.Vec3

func (p FixedPoint) Position() vmath.Vec3 { return vmath.Vec3(p) }

// Config is fixed for the lifetime of a Sim.
type Config struct {
	Speed     float32 // units per second
	BatchSize int     // entities per integration batch
	Workers   int     // concurrent batches; 0 picks a default from the CPU count
}

func (c Config) validate() error {
	if c.Speed < 0 || vmath.IsNaN(c.Speed) || math.IsInf(float64(c.Speed), 0) {
		return fmt.Errorf("swarm: invalid speed %v", c.Speed)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("swarm: batch size %d must be at least 1", c.BatchSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("swarm: workers %d must not be negative", c.Workers)
	}
	return nil
}

// DefaultWorkers is half the CPUs, clamped to 1..4.
func DefaultWorkers() int {
	w := runtime.NumCPU() / 2
	if w < 1 {
		w = 1
	}
	if w > 4 {
		w = 4
	}
	return w
}

// Sim owns the entity buffers and runs assignment then integration each tick.
// It is not safe for concurrent use; the host's tick loop is the only caller.
type Sim struct {
	cfg      Config
	buf      *Buffers
	pool     WaypointSource
	fallback FallbackSource
	assigner *Assigner

	waypointCount int
	tick          uint64
	fallbacks     int
}

// New allocates the buffers for len(initial) entities and runs the initial assignment pass
// against the current pool and fallback.
func New(cfg Config, initial []vmath.Vec3, pool WaypointSource, fallback FallbackSource) (*Sim, error) {
	if pool == nil {
		return nil, ErrNoWaypoints
	}
	if fallback == nil {
		return nil, ErrNoFallback
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers()
	}
	for i, p := range initial {
		if !vmath.Finite(p) {
			return nil, fmt.Errorf("swarm: entity %d has non-finite position %v", i, p)
		}
	}

	buf := NewBuffers(initial)
	ok := false
	defer func() {
		if !ok {
			buf.Release()
		}
	}()

	wps := pool.Waypoints()
	for i, w := range wps {
		if !vmath.Finite(w) {
			return nil, fmt.Errorf("swarm: waypoint %d has non-finite position %v", i, w)
		}
	}

	s := &Sim{
		cfg:           cfg,
		buf:           buf,
		pool:          pool,
		fallback:      fallback,
		assigner:      NewAssigner(),
		waypointCount: len(wps),
	}
	s.fallbacks = s.assigner.Pass(buf.Positions, wps, fallback.Position(), buf.Targets, buf.claims)
	ok = true
	return s, nil
}

// Tick runs one assignment pass and one integration pass. On error nothing is modified.
// The returned Frame aliases the Sim's buffers and is only valid until the next Tick or Close.
func (s *Sim) Tick(dt float32) (Frame, error) {
	if s.buf.Released() {
		return Frame{}, ErrClosed
	}
	if !(dt > 0) || math.IsInf(float64(dt), 0) {
		return Frame{}, fmt.Errorf("%w: got %v", ErrBadDelta, dt)
	}
	wps := s.pool.Waypoints()
	if len(wps) != s.waypointCount {
		return Frame{}, fmt.Errorf("%w: %d -> %d", ErrPoolResized, s.waypointCount, len(wps))
	}
	fb := s.fallback.Position()

	s.fallbacks = s.assigner.Pass(s.buf.Positions, wps, fb, s.buf.Targets, s.buf.claims)
	IntegrateAll(s.buf, dt, s.cfg.Speed, s.cfg.BatchSize, s.cfg.Workers)
	s.tick++

	return s.frame(fb), nil
}

// Close releases the buffers. Calling it more than once is harmless.
func (s *Sim) Close() {
	s.buf.Release()
}

func (s *Sim) Closed() bool { return s.buf.Released() }

// Len is the entity count N.
func (s *Sim) Len() int { return s.buf.Len() }

// WaypointCount is the pool size M captured at New.
func (s *Sim) WaypointCount() int { return s.waypointCount }

func (s *Sim) TickCount() uint64 { return s.tick }

// Current returns a frame over the buffers without advancing the simulation.
func (s *Sim) Current() Frame {
	if s.buf.Released() {
		return Frame{}
	}
	return s.frame(s.fallback.Position())
}

// HoldsWaypoint reports whether entity i's target came from the pool.
func (s *Sim) HoldsWaypoint(i int) bool {
	return s.buf.FromPool(i)
}

func (s *Sim) frame(fb vmath.Vec3) Frame {
	return Frame{
		Tick:          s.tick,
		Positions:     s.buf.Positions,
		Velocities:    s.buf.Velocities,
		Targets:       s.buf.Targets,
		Claims:        s.buf.claims,
		Fallback:      fb,
		FallbackCount: s.fallbacks,
	}
}
