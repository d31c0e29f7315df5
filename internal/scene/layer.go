package scene

import (
	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/core/ecs"
	"github.com/greybox2d/greybox/internal/core/event"
	"github.com/greybox2d/greybox/internal/data"
	"github.com/greybox2d/greybox/internal/entity"
)

// Layer owns a z-ordered set of actors. The live slice is never structurally
// modified while a phase is being dispatched over it: spawns land in pending
// and deaths are only flagged, both are applied at the start of the next
// Advance.
type Layer struct {
	name    string
	z       float64
	visible bool

	ctx   *entity.Context
	index *ecs.Store[entity.Actor] // shared with the owning scene

	live    []*entity.Actor
	pending []*entity.Actor
}

func newLayer(name string, z float64, visible bool, ctx *entity.Context, index *ecs.Store[entity.Actor]) *Layer {
	return &Layer{
		name:    name,
		z:       z,
		visible: visible,
		ctx:     ctx,
		index:   index,
		live:    make([]*entity.Actor, 0, 32),
	}
}

func (l *Layer) Name() string { return l.name }
func (l *Layer) Z() float64   { return l.z }

func (l *Layer) SetVisible(v bool) { l.visible = v }
func (l *Layer) IsVisible() bool   { return l.visible }

// Actors returns the live actors in insertion order.
func (l *Layer) Actors() []*entity.Actor {
	return append([]*entity.Actor(nil), l.live...)
}

// Pending returns the number of actors spawned since the last Advance.
func (l *Layer) Pending() int { return len(l.pending) }

// Len returns the number of live actors.
func (l *Layer) Len() int { return len(l.live) }

// SpawnActor implements entity.Spawner. The actor joins the live set, and
// receives Start, at the next Advance.
func (l *Layer) SpawnActor(p *data.Prefab) (*entity.Actor, error) {
	a, err := entity.Spawn(l.ctx, l, p)
	if err != nil {
		return nil, err
	}
	l.pending = append(l.pending, a)
	l.index.Set(a.ID(), a)
	event.Emit(l.ctx.Bus, event.ActorSpawned{
		ID:     a.ID(),
		Name:   a.Name(),
		Prefab: a.Prefab(),
		Layer:  l.name,
	})
	return a, nil
}

// Step runs one frame phase over the layer.
func (l *Layer) Step(phase entity.Phase) {
	switch phase {
	case entity.PhaseAdvance:
		l.merge()
		l.sweep()
		for _, a := range l.live {
			a.Advance()
		}
	case entity.PhaseUpdate:
		for _, a := range l.live {
			a.Update()
		}
	case entity.PhaseRender:
		if !l.visible {
			return
		}
		for _, a := range l.live {
			a.Render()
		}
	case entity.PhaseGUI:
		if !l.visible {
			return
		}
		for _, a := range l.live {
			a.GUI()
		}
	case entity.PhaseLeave:
		l.teardown()
	}
}

// merge moves pending actors into the live set. Actors killed before they
// ever joined are dropped without Start.
func (l *Layer) merge() {
	if len(l.pending) == 0 {
		return
	}
	pending := l.pending
	l.pending = nil
	for _, a := range pending {
		if a.IsDead() {
			l.remove(a)
			continue
		}
		l.live = append(l.live, a)
		a.Start()
	}
}

// sweep removes dead actors from the live set, keeping the order of the rest.
func (l *Layer) sweep() {
	n := 0
	for _, a := range l.live {
		if !a.IsDead() {
			l.live[n] = a
			n++
			continue
		}
		l.remove(a)
	}
	clear(l.live[n:])
	l.live = l.live[:n]
}

func (l *Layer) remove(a *entity.Actor) {
	a.Leave()
	a.Destroy()
	l.index.Remove(a.ID())
	event.Emit(l.ctx.Bus, event.ActorSwept{ID: a.ID(), Name: a.Name(), Layer: l.name})
}

// teardown removes every actor, live or pending, including any spawned by
// the Leave and collision hooks it triggers.
func (l *Layer) teardown() {
	n := 0
	for len(l.live) > 0 || len(l.pending) > 0 {
		live, pending := l.live, l.pending
		l.live, l.pending = nil, nil
		for _, a := range live {
			l.remove(a)
		}
		for _, a := range pending {
			l.remove(a)
		}
		n += len(live) + len(pending)
	}
	if n > 0 {
		l.ctx.Log.Debug("layer torn down", zap.String("layer", l.name), zap.Int("actors", n))
	}
}
