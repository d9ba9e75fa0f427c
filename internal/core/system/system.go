package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: move the agent (script input)
	PhasePreUpdate              // 1: deliver last tick's events
	PhaseUpdate                 // 2: assignment + integration
	PhaseOutput                 // 3: publish the frame to the viewer
	PhasePersist                // 4: record snapshots
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration) error
}
