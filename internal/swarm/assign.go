package swarm

import (
	"math"

	"github.com/swarmsim/server/internal/vmath"
)

// Assigner recomputes every entity's target once per tick.
//
// Entities are visited in index order. A waypoint is available to entity i when no other
// entity currently holds it, where "currently" is the target buffer mid-overwrite: entities
// before i already hold this tick's choice, entities after i still hold the previous tick's.
// The result is first-come-first-served and depends on index order; it is not a globally
// optimal matching.
//
// Holding is tracked with a per-waypoint counter instead of rescanning all N entities for
// every candidate, which gives the same answer in O(N*M) instead of O(N*N*M).
type Assigner struct {
	// keys[w] is the claim key for waypoint w: the index of the first waypoint at the same
	// position, so coincident waypoints can only be held once between them.
	keys   []int32
	byPos  map[vmath.Vec3]int32
	counts []int32
}

func NewAssigner() *Assigner {
	return &Assigner{
		byPos: make(map[vmath.Vec3]int32, 16),
	}
}

// Pass runs one assignment over the buffers and returns how many entities got the fallback.
// targets and claims must have the same length as positions.
func (a *Assigner) Pass(positions, waypoints []vmath.Vec3, fallback vmath.Vec3, targets []vmath.Vec3, claims []int32) int {
	a.index(waypoints)

	// Re-resolve last tick's claims by position so a waypoint the owner moved between ticks
	// is no longer considered held.
	for j, key := range claims {
		if key == NoWaypoint {
			continue
		}
		k, ok := a.byPos[targets[j]]
		if !ok {
			claims[j] = NoWaypoint
			continue
		}
		claims[j] = k
		a.counts[k]++
	}

	fallbacks := 0
	for i, p := range positions {
		if own := claims[i]; own != NoWaypoint {
			a.counts[own]-- // an entity never blocks itself
		}

		best := -1
		bestDist := float32(math.Inf(1))
		for w, wp := range waypoints {
			d := vmath.Dist(p, wp)
			if d < bestDist && a.counts[a.keys[w]] == 0 {
				bestDist = d
				best = w
			}
		}

		if best < 0 {
			targets[i] = fallback
			claims[i] = NoWaypoint
			fallbacks++
			continue
		}
		key := a.keys[best]
		targets[i] = waypoints[best]
		claims[i] = key
		a.counts[key]++
	}
	return fallbacks
}

func (a *Assigner) index(waypoints []vmath.Vec3) {
	clear(a.byPos)
	a.keys = a.keys[:0]
	if cap(a.counts) < len(waypoints) {
		a.counts = make([]int32, len(waypoints))
	} else {
		a.counts = a.counts[:len(waypoints)]
		clear(a.counts)
	}
	for w, wp := range waypoints {
		if k, ok := a.byPos[wp]; ok {
			a.keys = append(a.keys, k)
			continue
		}
		a.byPos[wp] = int32(w)
		a.keys = append(a.keys, int32(w))
	}
}

// Assign is a single stateless pass: nobody holds anything before the first entity is visited.
func Assign(positions, waypoints []vmath.Vec3, fallback vmath.Vec3) []vmath.Vec3 {
	targets := make([]vmath.Vec3, len(positions))
	claims := make([]int32, len(positions))
	for i := range claims {
		claims[i] = NoWaypoint
	}
	NewAssigner().Pass(positions, waypoints, fallback, targets, claims)
	return targets
}
