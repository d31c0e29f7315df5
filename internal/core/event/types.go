package event

import "github.com/greybox2d/greybox/internal/core/ecs"

// ActorSpawned is emitted when an actor is built and queued on a layer.
type ActorSpawned struct {
	ID     ecs.ActorID
	Name   string
	Prefab string
	Layer  string
}

// ActorSwept is emitted after an actor received Leave and was torn down.
type ActorSwept struct {
	ID    ecs.ActorID
	Name  string
	Layer string
}

// CollisionBegan is emitted once per shape pair when overlap begins.
type CollisionBegan struct {
	A, B ecs.ActorID
}

// CollisionEnded is emitted once per shape pair when overlap ends.
type CollisionEnded struct {
	A, B ecs.ActorID
}

// SceneChanged is emitted when the engine swaps in a pending scene.
type SceneChanged struct {
	From, To string
}
