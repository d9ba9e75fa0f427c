package swarm

import "github.com/swarmsim/server/internal/vmath"

// Frame is what one tick publishes to the presentation layer.
type Frame struct {
	Tick          uint64
	Positions     []vmath.Vec3
	Velocities    []vmath.Vec3
	Targets       []vmath.Vec3
	Claims        []int32 // pool index each entity holds, NoWaypoint when on the fallback
	Fallback      vmath.Vec3
	FallbackCount int
}

// Clone deep-copies the slices so the frame survives the next tick.
func (f Frame) Clone() Frame {
	out := f
	out.Positions = append([]vmath.Vec3(nil), f.Positions...)
	out.Velocities = append([]vmath.Vec3(nil), f.Velocities...)
	out.Targets = append([]vmath.Vec3(nil), f.Targets...)
	out.Claims = append([]int32(nil), f.Claims...)
	return out
}

// OnFallback reports whether entity i is steering toward the fallback.
func (f Frame) OnFallback(i int) bool {
	return f.Claims[i] == NoWaypoint
}

// Reached returns the lowest entity index within radius of point.
func (f Frame) Reached(point vmath.Vec3, radius float32) (int, bool) {
	r2 := radius * radius
	for i, p := range f.Positions {
		if vmath.MagSq(vmath.Sub(p, point)) <= r2 {
			return i, true
		}
	}
	return -1, false
}
