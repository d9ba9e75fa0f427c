package swarm

import "github.com/swarmsim/server/internal/vmath"

// NoWaypoint is the claim of an entity holding the fallback (or nothing yet).
const NoWaypoint int32 = -1

// Buffers holds the per-entity slots. All slices have length N from allocation until Release.
type Buffers struct {
	Positions  []vmath.Vec3
	Velocities []vmath.Vec3
	Targets    []vmath.Vec3

	// claims[i] is the claim key of the pool waypoint entity i holds, NoWaypoint otherwise.
	claims   []int32
	released bool
}

// NewBuffers allocates N slots, copies the initial positions and zeroes the velocities.
func NewBuffers(initial []vmath.Vec3) *Buffers {
	n := len(initial)
	b := &Buffers{
		Positions:  make([]vmath.Vec3, n),
		Velocities: make([]vmath.Vec3, n),
		Targets:    make([]vmath.Vec3, n),
		claims:     make([]int32, n),
	}
	copy(b.Positions, initial)
	for i := range b.claims {
		b.claims[i] = NoWaypoint
	}
	return b
}

func (b *Buffers) Len() int { return len(b.Positions) }

// Released reports whether Release has run.
func (b *Buffers) Released() bool { return b.released }

// Release drops the slots. Only the first call has any effect.
func (b *Buffers) Release() {
	if b.released {
		return
	}
	b.released = true
	b.Positions = nil
	b.Velocities = nil
	b.Targets = nil
	b.claims = nil
}

// FromPool reports whether entity i currently holds a pool waypoint rather than the fallback.
func (b *Buffers) FromPool(i int) bool {
	return b.claims[i] != NoWaypoint
}
