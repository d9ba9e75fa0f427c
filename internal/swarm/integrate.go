package swarm

import (
	"github.com/swarmsim/server/internal/vmath"
	"golang.org/x/sync/errgroup"
)

// Integrate steps one entity toward target at a constant speed.
// A zero (or non-finite) heading yields zero velocity and leaves the position unchanged.
func Integrate(position, target vmath.Vec3, dt, speed float32) (vmath.Vec3, vmath.Vec3) {
	dir := vmath.Normalize(vmath.Sub(target, position))
	vel := vmath.Scale(dir, speed)
	return vmath.Add(position, vmath.Scale(vel, dt)), vel
}

// IntegrateAll advances every entity in b. Entities are split into batches of batchSize,
// at most workers batches run at once, and the call returns only after all of them finish.
// Each entity reads and writes only its own slot.
func IntegrateAll(b *Buffers, dt, speed float32, batchSize, workers int) {
	n := b.Len()
	if batchSize < 1 {
		batchSize = n
	}
	if n <= batchSize || workers <= 1 {
		integrateRange(b, 0, n, dt, speed)
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += batchSize {
		start := start
		end := min(start+batchSize, n)
		g.Go(func() error {
			integrateRange(b, start, end, dt, speed)
			return nil
		})
	}
	_ = g.Wait() // batches never fail
}

func integrateRange(b *Buffers, start, end int, dt, speed float32) {
	pos, vel, tgt := b.Positions, b.Velocities, b.Targets
	for i := start; i < end; i++ {
		pos[i], vel[i] = Integrate(pos[i], tgt[i], dt, speed)
	}
}
