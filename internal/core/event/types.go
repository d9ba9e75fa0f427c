package event

import "github.com/swarmsim/server/internal/vmath"

// AgentReached is emitted when a swarm entity comes within reset distance of the agent.
// Only the lowest entity index is reported per tick.
type AgentReached struct {
	Tick     uint64
	Entity   int
	Position vmath.Vec3
}

// AgentRespawned is emitted after the agent has been relocated.
type AgentRespawned struct {
	Tick uint64
	From vmath.Vec3
	To   vmath.Vec3
}
