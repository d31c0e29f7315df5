package entity

import (
	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/core/ecs"
	"github.com/greybox2d/greybox/internal/core/event"
	"github.com/greybox2d/greybox/internal/data"
	"github.com/greybox2d/greybox/internal/world"
)

// Context carries the simulation services actors and components use. One
// Context is shared by every actor of a scene; nothing here is global.
// Hooks, Renderer and Bus may be nil.
type Context struct {
	World      *world.World
	IDs        *ecs.Pool
	Components *Registry
	Prefabs    *data.PrefabTable
	Hooks      Hooks
	Renderer   Renderer
	Bus        *event.Bus
	Log        *zap.Logger
	DebugDraw  bool
}

// Hooks evaluates named script functions on behalf of actors. A namespace is
// an actor name, a Behavior's script or a scene script. self and other may be
// nil. Call's bool result is the hook's verdict (true when it returned
// nothing).
type Hooks interface {
	Has(ns, hook string) bool
	Call(ns, hook string, self, other *Actor) (bool, error)
}

// Renderer draws on behalf of renderable components. Coordinates are world
// units, angles degrees.
type Renderer interface {
	DrawSprite(texture string, x, y, angle, width, height float64)
	DrawCircle(x, y, radius float64)
	DrawSegment(x1, y1, x2, y2, radius float64)
	DrawText(x, y float64, text string)
}

// Spawner is the container an actor was spawned into. Layers implement it.
type Spawner interface {
	Name() string
	SpawnActor(p *data.Prefab) (*Actor, error)
}
