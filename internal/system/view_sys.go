package system

import (
	"time"

	coresys "github.com/swarmsim/server/internal/core/system"
	"github.com/swarmsim/server/internal/swarm"
	"github.com/swarmsim/server/internal/vmath"
)

// FrameSource yields the latest published frame.
type FrameSource interface {
	Frame() swarm.Frame
}

// Presenter draws a frame. *render.Terminal implements it.
type Presenter interface {
	Draw(f swarm.Frame, waypoints []vmath.Vec3)
}

// ViewSystem hands each frame to the presenter. Phase 3 (Output).
type ViewSystem struct {
	frames    FrameSource
	pool      swarm.WaypointSource
	presenter Presenter
	every     int
	tickCount int
}

// NewViewSystem draws every n-th tick; n < 1 draws every tick.
func NewViewSystem(frames FrameSource, pool swarm.WaypointSource, presenter Presenter, n int) *ViewSystem {
	if n < 1 {
		n = 1
	}
	return &ViewSystem{frames: frames, pool: pool, presenter: presenter, every: n}
}

func (s *ViewSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *ViewSystem) Update(_ time.Duration) error {
	s.tickCount++
	if s.tickCount%s.every != 0 {
		return nil
	}
	s.presenter.Draw(s.frames.Frame(), s.pool.Waypoints())
	return nil
}
