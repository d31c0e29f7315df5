package world

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/config"
)

// ErrInvalidState is returned when a registration's preconditions do not
// hold, e.g. a collider whose owner has no body.
var ErrInvalidState = errors.New("invalid state")

// Owner is anything backed by a physics body that wants collision reports.
// Actors implement it.
type Owner interface {
	Body() *cp.Body
	// BeginContact reports a new overlap with other and returns whether the
	// contact should be physically resolved.
	BeginContact(other Owner) bool
	EndContact(other Owner)
}

// Collider owns exactly one shape attached to its owner's body.
type Collider interface {
	Shape() *cp.Shape
	Owner() Owner
}

const ownedCollisionType cp.CollisionType = 1

// maxFlushPasses bounds how often a flush may re-drain queues refilled by
// callbacks fired from the flush itself.
const maxFlushPasses = 16

// Stats are running totals since the world was created.
type Stats struct {
	Bodies, Shapes       int // currently in the space
	Begins, Ends         int
	DeferredShapeRemoves int
	DeferredBodyRemoves  int
	DeferredAdds         int
}

// World owns the physics space. Everything touching the space goes through
// it: nothing is added or removed while the space is locked (mid-step or
// inside a collision callback); such requests wait in the queues below until
// removeShapesAndBodies runs after the step.
// Accessed only from the simulation goroutine.
type World struct {
	space *cp.Space
	log   *zap.Logger

	bodies map[*cp.Body]Owner
	shapes map[*cp.Shape]Collider

	locked int

	shapeRemovals handleQueue[*cp.Shape, Collider]
	bodyRemovals  handleQueue[*cp.Body, Owner]
	bodyAdds      handleQueue[*cp.Body, Owner]
	shapeAdds     handleQueue[*cp.Shape, Collider]

	stats Stats
}

func New(cfg config.PhysicsConfig, log *zap.Logger) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: cfg.GravityX, Y: cfg.GravityY})
	if cfg.Damping > 0 {
		space.SetDamping(cfg.Damping)
	}

	w := &World{
		space:         space,
		log:           log,
		bodies:        make(map[*cp.Body]Owner, 64),
		shapes:        make(map[*cp.Shape]Collider, 64),
		shapeRemovals: newHandleQueue[*cp.Shape, Collider](),
		bodyRemovals:  newHandleQueue[*cp.Body, Owner](),
		bodyAdds:      newHandleQueue[*cp.Body, Owner](),
		shapeAdds:     newHandleQueue[*cp.Shape, Collider](),
	}

	handler := space.NewCollisionHandler(ownedCollisionType, ownedCollisionType)
	handler.BeginFunc = w.beginCollision
	handler.SeparateFunc = w.endCollision
	return w
}

// Space exposes the physics space for read-only use (queries, debug draw).
func (w *World) Space() *cp.Space { return w.space }

// Locked reports whether structural changes are currently being deferred.
func (w *World) Locked() bool { return w.locked > 0 }

func (w *World) Stats() Stats {
	s := w.stats
	s.Bodies = len(w.bodies)
	s.Shapes = len(w.shapes)
	return s
}

// HasBody reports whether o's body is in the space, including bodies whose
// removal is still queued.
func (w *World) HasBody(o Owner) bool {
	if o == nil {
		return false
	}
	_, ok := w.bodies[o.Body()]
	return ok
}

// HasCollider reports whether c's shape is in the space, including shapes
// whose removal is still queued.
func (w *World) HasCollider(c Collider) bool {
	if c == nil {
		return false
	}
	_, ok := w.shapes[c.Shape()]
	return ok
}

// Pending returns the sizes of the shape and body removal queues.
func (w *World) Pending() (shapes, bodies int) {
	return w.shapeRemovals.len(), w.bodyRemovals.len()
}

// AddRigidBody registers o's body with the space. Registering twice is a no-op.
func (w *World) AddRigidBody(o Owner) error {
	if o == nil || o.Body() == nil {
		return fmt.Errorf("add rigid body: no body: %w", ErrInvalidState)
	}
	body := o.Body()
	if w.bodyRemovals.cancel(body) {
		return nil // still in the space
	}
	if _, ok := w.bodies[body]; ok {
		return nil
	}
	if w.Locked() {
		if w.bodyAdds.push(body, o) {
			w.stats.DeferredAdds++
		}
		return nil
	}
	w.addBodyNow(body, o)
	return nil
}

// RemoveRigidBody unregisters o's body. Removing a body that is not
// registered is a no-op so teardown paths stay idempotent.
func (w *World) RemoveRigidBody(o Owner) {
	if o == nil || o.Body() == nil {
		return
	}
	body := o.Body()
	if w.bodyAdds.cancel(body) {
		return
	}
	if _, ok := w.bodies[body]; !ok {
		return
	}
	if w.Locked() {
		if w.bodyRemovals.push(body, o) {
			w.stats.DeferredBodyRemoves++
		}
		return
	}
	w.removeBodyNow(body)
}

// AddCollider registers c's shape with the space. The shape must be attached
// to its owner's body.
func (w *World) AddCollider(c Collider) error {
	if c == nil || c.Shape() == nil {
		return fmt.Errorf("add collider: no shape: %w", ErrInvalidState)
	}
	o := c.Owner()
	if o == nil || o.Body() == nil {
		return fmt.Errorf("add collider: owner has no body: %w", ErrInvalidState)
	}
	shape := c.Shape()
	if shape.Body() != o.Body() {
		return fmt.Errorf("add collider: shape is attached to a foreign body: %w", ErrInvalidState)
	}
	if w.shapeRemovals.cancel(shape) {
		return nil
	}
	if _, ok := w.shapes[shape]; ok {
		return nil
	}
	shape.SetCollisionType(ownedCollisionType)
	if w.Locked() {
		if w.shapeAdds.push(shape, c) {
			w.stats.DeferredAdds++
		}
		return nil
	}
	w.addShapeNow(shape, c)
	return nil
}

// RemoveCollider unregisters c's shape. Removing a shape that is not
// registered is a no-op.
func (w *World) RemoveCollider(c Collider) {
	if c == nil || c.Shape() == nil {
		return
	}
	shape := c.Shape()
	if w.shapeAdds.cancel(shape) {
		return
	}
	if _, ok := w.shapes[shape]; !ok {
		return
	}
	if w.Locked() {
		if w.shapeRemovals.push(shape, c) {
			w.stats.DeferredShapeRemoves++
		}
		return
	}
	w.removeShapeNow(shape)
	// end-of-contact callbacks fired by the removal may have queued more
	w.removeShapesAndBodies()
}

// Step advances the simulation by dt seconds, then flushes every mutation
// deferred while the space was locked.
func (w *World) Step(dt float64) {
	if w.Locked() {
		w.log.Error("world step re-entered from a collision callback; ignored")
		return
	}
	w.locked++
	w.space.Step(dt)
	w.locked--

	w.removeShapesAndBodies()
}

// removeShapesAndBodies flushes the deferred queues: shapes before bodies so
// a body never leaves the space while its shapes still reference it, then
// pending additions bodies first. Removing a shape can fire end-of-contact
// callbacks that queue more work; those are drained here too.
func (w *World) removeShapesAndBodies() {
	for pass := 0; w.queued(); pass++ {
		if pass == maxFlushPasses {
			w.log.Warn("physics flush did not settle",
				zap.Int("shapes", w.shapeRemovals.len()),
				zap.Int("bodies", w.bodyRemovals.len()))
			return
		}

		shapes, _ := w.shapeRemovals.drain()
		for _, s := range shapes {
			w.removeShapeNow(s)
		}
		bodies, _ := w.bodyRemovals.drain()
		for _, b := range bodies {
			w.removeBodyNow(b)
		}
		addBodies, owners := w.bodyAdds.drain()
		for _, b := range addBodies {
			w.addBodyNow(b, owners[b])
		}
		addShapes, colliders := w.shapeAdds.drain()
		for _, s := range addShapes {
			w.addShapeNow(s, colliders[s])
		}
	}
}

func (w *World) queued() bool {
	return w.shapeRemovals.len() > 0 || w.bodyRemovals.len() > 0 ||
		w.bodyAdds.len() > 0 || w.shapeAdds.len() > 0
}

func (w *World) addBodyNow(body *cp.Body, o Owner) {
	if _, ok := w.bodies[body]; ok {
		return
	}
	w.space.AddBody(body)
	w.bodies[body] = o
}

func (w *World) addShapeNow(shape *cp.Shape, c Collider) {
	if _, ok := w.shapes[shape]; ok {
		return
	}
	w.space.AddShape(shape)
	w.shapes[shape] = c
}

// removeShapeNow takes the shape out of the space before forgetting its
// collider, so end-of-contact callbacks fired by the removal still resolve.
func (w *World) removeShapeNow(shape *cp.Shape) {
	if _, ok := w.shapes[shape]; !ok {
		return
	}
	w.locked++
	w.space.RemoveShape(shape)
	w.locked--
	delete(w.shapes, shape)
}

func (w *World) removeBodyNow(body *cp.Body) {
	if _, ok := w.bodies[body]; !ok {
		return
	}
	w.space.RemoveBody(body)
	delete(w.bodies, body)
}
