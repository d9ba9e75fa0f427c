package swarm

import (
	"math"
	"math/rand"
	"testing"

	"github.com/swarmsim/server/internal/vmath"
)

func near(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestIntegrateMovesAtSpeed(t *testing.T) {
	pos, vel := Integrate(v(0, 0, 0), v(3, 0, 4), 0.5, 2)
	if !near(vmath.Mag(vel), 2, 1e-5) {
		t.Errorf("velocity magnitude %v, want 2", vmath.Mag(vel))
	}
	want := v(0.6, 0, 0.8)
	if !near(pos.X, want.X, 1e-5) || !near(pos.Y, want.Y, 1e-5) || !near(pos.Z, want.Z, 1e-5) {
		t.Errorf("position %v, want %v", pos, want)
	}
}

func TestIntegrateAtTargetStaysPut(t *testing.T) {
	p := v(4, 1, -2)
	pos, vel := Integrate(p, p, 0.016, 2)
	if vel != vmath.Zero {
		t.Errorf("velocity %v, want zero", vel)
	}
	if pos != p {
		t.Errorf("position %v, want unchanged %v", pos, p)
	}
	if !vmath.Finite(pos) || !vmath.Finite(vel) {
		t.Fatalf("non-finite result pos=%v vel=%v", pos, vel)
	}
}

func TestIntegrateConvergesWithoutRunaway(t *testing.T) {
	const (
		dt    = float32(0.1)
		speed = float32(2)
	)
	step := speed * dt
	target := v(10, 0, 0)
	pos := v(0, 0, 0)

	prev := vmath.Dist(pos, target)
	steps := 0
	for prev > step {
		pos, _ = Integrate(pos, target, dt, speed)
		d := vmath.Dist(pos, target)
		if d >= prev {
			t.Fatalf("step %d: distance %v did not decrease from %v", steps, d, prev)
		}
		prev = d
		steps++
		if steps > 1000 {
			t.Fatalf("never came within %v of the target", step)
		}
	}

	for i := 0; i < 50; i++ {
		pos, _ = Integrate(pos, target, dt, speed)
		if d := vmath.Dist(pos, target); d > step+1e-5 {
			t.Fatalf("after arrival, tick %d: distance %v exceeds one step %v", i, d, step)
		}
	}
}

func TestIntegrateAllMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 1000
	initial := make([]vmath.Vec3, n)
	for i := range initial {
		initial[i] = v(rng.Float32()*20-10, rng.Float32(), rng.Float32()*20-10)
	}

	par := NewBuffers(initial)
	seq := NewBuffers(initial)
	for i := 0; i < n; i++ {
		tgt := v(rng.Float32()*20-10, 0, rng.Float32()*20-10)
		if i%97 == 0 {
			tgt = initial[i]
		}
		par.Targets[i] = tgt
		seq.Targets[i] = tgt
	}

	IntegrateAll(par, 0.02, 2, 64, 4)
	IntegrateAll(seq, 0.02, 2, n, 1)

	for i := 0; i < n; i++ {
		if par.Positions[i] != seq.Positions[i] || par.Velocities[i] != seq.Velocities[i] {
			t.Fatalf("entity %d: parallel (%v, %v) != sequential (%v, %v)",
				i, par.Positions[i], par.Velocities[i], seq.Positions[i], seq.Velocities[i])
		}
	}
}

func TestIntegrateAllUnevenBatches(t *testing.T) {
	initial := make([]vmath.Vec3, 130)
	buf := NewBuffers(initial)
	for i := range buf.Targets {
		buf.Targets[i] = v(1, 0, 0)
	}
	IntegrateAll(buf, 1, 1, 64, 3)
	for i, p := range buf.Positions {
		if !near(p.X, 1, 1e-6) {
			t.Fatalf("entity %d was not integrated: %v", i, p)
		}
	}
}
