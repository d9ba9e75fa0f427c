package system

import (
	"fmt"
	"time"

	"github.com/swarmsim/server/internal/core/event"
	coresys "github.com/swarmsim/server/internal/core/system"
	"github.com/swarmsim/server/internal/swarm"
	"github.com/swarmsim/server/internal/world"
	"go.uber.org/zap"
)

// ArrivalConfig controls what happens when an entity reaches the agent.
type ArrivalConfig struct {
	ResetOnArrive bool
	ResetDistance float32
}

// SwarmSystem advances the swarm one fixed step per tick and publishes the resulting frame.
// Phase 2 (Update).
// The core is fed the configured dt, never the measured wall-clock delta.
type SwarmSystem struct {
	sim     *swarm.Sim
	bus     *event.Bus
	agent   *world.Agent
	dt      float32
	arrival ArrivalConfig
	log     *zap.Logger

	last     swarm.Frame
	arrivals int
}

// NewSwarmSystem subscribes the arrival handler when ResetOnArrive is set.
func NewSwarmSystem(sim *swarm.Sim, bus *event.Bus, agent *world.Agent, dt float32, arrival ArrivalConfig, log *zap.Logger) *SwarmSystem {
	s := &SwarmSystem{
		sim:     sim,
		bus:     bus,
		agent:   agent,
		dt:      dt,
		arrival: arrival,
		log:     log,
		last:    sim.Current(),
	}
	if arrival.ResetOnArrive {
		event.Subscribe(bus, s.onAgentReached)
	}
	return s
}

func (s *SwarmSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SwarmSystem) Update(_ time.Duration) error {
	f, err := s.sim.Tick(s.dt)
	if err != nil {
		return fmt.Errorf("swarm tick %d: %w", s.sim.TickCount()+1, err)
	}
	s.last = f

	if !s.arrival.ResetOnArrive {
		return nil
	}
	if i, ok := f.Reached(s.agent.Position(), s.arrival.ResetDistance); ok {
		event.Emit(s.bus, event.AgentReached{
			Tick:     f.Tick,
			Entity:   i,
			Position: f.Positions[i],
		})
	}
	return nil
}

// Frame is the most recent frame. It aliases the swarm buffers; clone it to keep it.
func (s *SwarmSystem) Frame() swarm.Frame { return s.last }

// Arrivals counts how many times the agent has been reached and respawned.
func (s *SwarmSystem) Arrivals() int { return s.arrivals }

func (s *SwarmSystem) onAgentReached(ev event.AgentReached) {
	from := s.agent.Position()
	to := s.agent.Respawn()
	s.arrivals++
	s.log.Debug("agent reached",
		zap.Uint64("tick", ev.Tick),
		zap.Int("entity", ev.Entity),
		zap.Any("from", from),
		zap.Any("to", to),
	)
	event.Emit(s.bus, event.AgentRespawned{Tick: ev.Tick, From: from, To: to})
}
