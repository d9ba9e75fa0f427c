package event

import "testing"

func TestEventsDeliveredNextTick(t *testing.T) {
	b := NewBus()
	var got []AgentReached
	Subscribe(b, func(ev AgentReached) { got = append(got, ev) })

	Emit(b, AgentReached{Tick: 1, Entity: 4})
	Emit(b, AgentReached{Tick: 1, Entity: 7})
	if b.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", b.Pending())
	}
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("events delivered before swap: %v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 || got[0].Entity != 4 || got[1].Entity != 7 {
		t.Fatalf("got %v, want entities 4 then 7", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 {
		t.Fatalf("events redelivered: %v", got)
	}
}

func TestHandlersOnlySeeTheirType(t *testing.T) {
	b := NewBus()
	reached, respawned := 0, 0
	Subscribe(b, func(AgentReached) { reached++ })
	Subscribe(b, func(AgentRespawned) { respawned++ })

	Emit(b, AgentRespawned{Tick: 3})
	b.SwapBuffers()
	b.DispatchAll()
	if reached != 0 || respawned != 1 {
		t.Fatalf("reached=%d respawned=%d, want 0 and 1", reached, respawned)
	}
}
