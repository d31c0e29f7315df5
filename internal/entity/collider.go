package entity

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/greybox2d/greybox/internal/world"
)

// Collider owns one physics shape on its actor's body. The shape is
// registered at Init and queued for removal when the actor is torn down.
type Collider struct {
	Base
	shape *cp.Shape

	friction   float64
	elasticity float64
	sensor     bool
}

// Shape implements world.Collider.
func (c *Collider) Shape() *cp.Shape { return c.shape }

// Owner implements world.Collider.
func (c *Collider) Owner() world.Owner {
	if c.actor == nil {
		return nil
	}
	return c.actor
}

func (c *Collider) colliderProperties() []Property {
	return []Property{
		FloatProperty("friction", &c.friction),
		FloatProperty("elasticity", &c.elasticity),
		BoolProperty("sensor", &c.sensor),
	}
}

// body returns the owning actor's body or an InvalidState error.
func (c *Collider) body() (*cp.Body, error) {
	if c.actor == nil || c.actor.body == nil {
		return nil, fmt.Errorf("collider has no body: %w", world.ErrInvalidState)
	}
	return c.actor.body, nil
}

func (c *Collider) attach(shape *cp.Shape) error {
	shape.SetFriction(c.friction)
	shape.SetElasticity(c.elasticity)
	shape.SetSensor(c.sensor)
	c.shape = shape
	return c.actor.ctx.World.AddCollider(c)
}

// Destroy implements Destroyer.
func (c *Collider) Destroy() {
	if c.shape == nil {
		return
	}
	c.actor.ctx.World.RemoveCollider(c)
}

func (c *Collider) debugDraw() bool {
	ctx := c.actor.ctx
	return ctx.DebugDraw && ctx.Renderer != nil
}

// CircleCollider is a circle of the given radius, offset from the actor origin.
type CircleCollider struct {
	Collider
	radius float64
	x, y   float64
}

func (c *CircleCollider) Properties() []Property {
	return append(c.colliderProperties(),
		FloatProperty("radius", &c.radius),
		FloatProperty("x", &c.x),
		FloatProperty("y", &c.y),
	)
}

func (c *CircleCollider) Init() error {
	body, err := c.body()
	if err != nil {
		return err
	}
	if c.radius <= 0 {
		return errors.New("radius must be positive")
	}
	return c.attach(cp.NewCircle(body, c.radius, cp.Vector{X: c.x, Y: c.y}))
}

func (c *CircleCollider) Radius() float64        { return c.radius }
func (c *CircleCollider) Offset() (x, y float64) { return c.x, c.y }

func (c *CircleCollider) Render() {
	if !c.debugDraw() {
		return
	}
	x, y := c.actor.TransformPoint(c.x, c.y)
	c.actor.ctx.Renderer.DrawCircle(x, y, c.radius)
}

// SegmentCollider is a capsule between two local points.
type SegmentCollider struct {
	Collider
	radius         float64
	x1, y1, x2, y2 float64
}

func (c *SegmentCollider) Properties() []Property {
	return append(c.colliderProperties(),
		FloatProperty("radius", &c.radius),
		FloatProperty("x1", &c.x1),
		FloatProperty("y1", &c.y1),
		FloatProperty("x2", &c.x2),
		FloatProperty("y2", &c.y2),
	)
}

func (c *SegmentCollider) Init() error {
	body, err := c.body()
	if err != nil {
		return err
	}
	if c.radius < 0 {
		return errors.New("radius must not be negative")
	}
	if c.x1 == c.x2 && c.y1 == c.y2 {
		return errors.New("segment endpoints must differ")
	}
	return c.attach(cp.NewSegment(body, cp.Vector{X: c.x1, Y: c.y1}, cp.Vector{X: c.x2, Y: c.y2}, c.radius))
}

func (c *SegmentCollider) Radius() float64 { return c.radius }

func (c *SegmentCollider) Endpoints() (x1, y1, x2, y2 float64) {
	return c.x1, c.y1, c.x2, c.y2
}

func (c *SegmentCollider) Render() {
	if !c.debugDraw() {
		return
	}
	ax, ay := c.actor.TransformPoint(c.x1, c.y1)
	bx, by := c.actor.TransformPoint(c.x2, c.y2)
	c.actor.ctx.Renderer.DrawSegment(ax, ay, bx, by, c.radius)
}
