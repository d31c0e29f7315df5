package engine

import (
	"github.com/greybox2d/greybox/internal/core/event"
	"github.com/greybox2d/greybox/internal/world"
)

// Stats are running totals, counted from the event bus. Bus counts lag the
// simulation by one frame.
type Stats struct {
	Scene           string
	Frames          uint64
	Actors          int
	Spawned         int
	Swept           int
	CollisionsBegan int
	CollisionsEnded int
	SceneChanges    int
	Autosaves       int
	World           world.Stats
}

func (e *Engine) subscribeStats() {
	event.Subscribe(e.bus, func(event.ActorSpawned) { e.stats.Spawned++ })
	event.Subscribe(e.bus, func(event.ActorSwept) { e.stats.Swept++ })
	event.Subscribe(e.bus, func(event.CollisionBegan) { e.stats.CollisionsBegan++ })
	event.Subscribe(e.bus, func(event.CollisionEnded) { e.stats.CollisionsEnded++ })
	event.Subscribe(e.bus, func(event.SceneChanged) { e.stats.SceneChanges++ })
}

func (e *Engine) Stats() Stats {
	s := e.stats
	s.Frames = e.clock.Frame()
	s.World = e.world.Stats()
	if e.scene != nil {
		s.Actors = e.scene.Len()
	}
	return s
}
