package system

import (
	"errors"
	"testing"
	"time"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
	err   error
}

func (r *recorder) Phase() Phase { return r.phase }

func (r *recorder) Update(time.Duration) error {
	*r.log = append(*r.log, r.name)
	return r.err
}

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{name: "persist", phase: PhasePersist, log: &log})
	r.Register(&recorder{name: "update-a", phase: PhaseUpdate, log: &log})
	r.Register(&recorder{name: "input", phase: PhaseInput, log: &log})
	r.Register(&recorder{name: "update-b", phase: PhaseUpdate, log: &log})

	if err := r.Tick(time.Millisecond); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	want := []string{"input", "update-a", "update-b", "persist"}
	if len(log) != len(want) {
		t.Fatalf("ran %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("ran %v, want %v", log, want)
		}
	}
	if r.Ticks() != 1 {
		t.Fatalf("Ticks = %d, want 1", r.Ticks())
	}
}

func TestRunnerStopsAtFailingPhase(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	r := NewRunner()
	r.Register(&recorder{name: "update", phase: PhaseUpdate, log: &log, err: boom})
	r.Register(&recorder{name: "output", phase: PhaseOutput, log: &log})

	err := r.Tick(time.Millisecond)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if len(log) != 1 || r.Ticks() != 0 {
		t.Fatalf("ran %v with %d ticks counted; output should not run", log, r.Ticks())
	}
}

func TestTickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{name: "input", phase: PhaseInput, log: &log})
	r.Register(&recorder{name: "update", phase: PhaseUpdate, log: &log})

	if err := r.TickPhase(PhaseInput, time.Millisecond); err != nil {
		t.Fatalf("TickPhase: %v", err)
	}
	if len(log) != 1 || log[0] != "input" {
		t.Fatalf("ran %v, want only input", log)
	}
}
