// Package spawn places entities, waypoints and the agent uniformly inside arena boxes.
package spawn

import (
	"math/rand"
	"time"

	"github.com/swarmsim/server/internal/vmath"
)

// Sampler draws uniform points. A given seed always yields the same sequence, so a run is
// reproducible from its config plus the seed.
type Sampler struct {
	rng  *rand.Rand
	seed int64
}

// NewSampler seeds from the clock when seed is 0.
func NewSampler(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the effective seed, useful for logging a run so it can be replayed.
func (s *Sampler) Seed() int64 { return s.seed }

// Point returns a point inside b. A zero-width axis always yields its min.
func (s *Sampler) Point(b vmath.Bounds) vmath.Vec3 {
	return vmath.Vec3{
		X: s.between(b.Min.X, b.Max.X),
		Y: s.between(b.Min.Y, b.Max.Y),
		Z: s.between(b.Min.Z, b.Max.Z),
	}
}

// Points returns n points inside b.
func (s *Sampler) Points(n int, b vmath.Bounds) []vmath.Vec3 {
	out := make([]vmath.Vec3, n)
	for i := range out {
		out[i] = s.Point(b)
	}
	return out
}

func (s *Sampler) between(lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float32()*(hi-lo)
}
