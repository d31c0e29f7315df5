package event

import "testing"

func TestBusDeliversNextFrame(t *testing.T) {
	b := NewBus()
	var got []CollisionBegan
	Subscribe(b, func(ev CollisionBegan) { got = append(got, ev) })

	Emit(b, CollisionBegan{A: 1, B: 2})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatal("event delivered before SwapBuffers")
	}
	if b.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", b.Pending())
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0].A != 1 || got[0].B != 2 {
		t.Fatalf("got %+v", got)
	}

	// Front buffer is consumed by the next swap.
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 {
		t.Errorf("event delivered twice: %d", len(got))
	}
}

func TestBusDispatchOrderFollowsFirstEmit(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(ActorSwept) { order = append(order, "swept") })
	Subscribe(b, func(ActorSpawned) { order = append(order, "spawned") })

	Emit(b, ActorSpawned{ID: 1})
	Emit(b, ActorSwept{ID: 1})
	b.SwapBuffers()
	b.DispatchAll()

	if len(order) != 2 || order[0] != "spawned" || order[1] != "swept" {
		t.Errorf("order = %v", order)
	}
}

func TestEmitOnNilBus(t *testing.T) {
	var b *Bus
	Emit(b, SceneChanged{From: "a", To: "b"})
}
