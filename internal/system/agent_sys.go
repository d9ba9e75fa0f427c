package system

import (
	"time"

	coresys "github.com/swarmsim/server/internal/core/system"
	"github.com/swarmsim/server/internal/scripting"
	"github.com/swarmsim/server/internal/vmath"
	"github.com/swarmsim/server/internal/world"
	"go.uber.org/zap"
)

// AgentStepper is the script hook that moves the agent. *scripting.Engine implements it.
type AgentStepper interface {
	AgentStep(ctx scripting.AgentContext) (vmath.Vec3, bool)
}

// AgentSystem asks the agent script for the agent's next position. Phase 0 (Input).
// Without a script the agent stays where it is (or where it was respawned).
type AgentSystem struct {
	agent   *world.Agent
	stepper AgentStepper
	log     *zap.Logger
	tick    uint64
	rejects int
}

func NewAgentSystem(agent *world.Agent, stepper AgentStepper, log *zap.Logger) *AgentSystem {
	return &AgentSystem{agent: agent, stepper: stepper, log: log}
}

func (s *AgentSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *AgentSystem) Update(dt time.Duration) error {
	s.tick++
	if s.stepper == nil {
		return nil
	}
	next, ok := s.stepper.AgentStep(scripting.AgentContext{
		Position: s.agent.Position(),
		DT:       dt.Seconds(),
		Tick:     s.tick,
		Respawns: s.agent.Respawns(),
	})
	if !ok {
		return nil
	}
	if !s.agent.SetPosition(next) {
		s.rejects++
		if s.rejects <= 3 {
			s.log.Warn("agent script returned non-finite position",
				zap.Uint64("tick", s.tick), zap.Any("pos", next))
		}
	}
	return nil
}
