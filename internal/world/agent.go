package world

import (
	"github.com/swarmsim/server/internal/spawn"
	"github.com/swarmsim/server/internal/vmath"
)

// RespawnMode selects where the agent goes when a swarm entity reaches it.
type RespawnMode string

const (
	RespawnRandom  RespawnMode = "random"  // uniform point inside the respawn area
	RespawnInitial RespawnMode = "initial" // back to where it started
)

// Agent is the controlling agent the swarm falls back to. It implements swarm.FallbackSource.
// Single-goroutine access only (game loop).
type Agent struct {
	initial vmath.Vec3
	pos     vmath.Vec3

	mode     RespawnMode
	area     vmath.Bounds
	sampler  *spawn.Sampler
	respawns int
}

func NewAgent(start vmath.Vec3, mode RespawnMode, area vmath.Bounds, sampler *spawn.Sampler) *Agent {
	return &Agent{
		initial: start,
		pos:     start,
		mode:    mode,
		area:    area,
		sampler: sampler,
	}
}

func (a *Agent) Position() vmath.Vec3 { return a.pos }

// SetPosition moves the agent. Non-finite positions are ignored so a misbehaving script can't
// poison every entity's target.
func (a *Agent) SetPosition(p vmath.Vec3) bool {
	if !vmath.Finite(p) {
		return false
	}
	a.pos = p
	return true
}

// Respawn relocates the agent according to its mode and returns the new position.
func (a *Agent) Respawn() vmath.Vec3 {
	a.respawns++
	if a.mode == RespawnRandom && a.sampler != nil {
		a.pos = a.sampler.Point(a.area)
		return a.pos
	}
	a.pos = a.initial
	return a.pos
}

// Respawns counts how many times the agent has been reset.
func (a *Agent) Respawns() int { return a.respawns }

func (a *Agent) Initial() vmath.Vec3 { return a.initial }
