package entity

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/core/ecs"
	"github.com/greybox2d/greybox/internal/core/event"
	"github.com/greybox2d/greybox/internal/world"
)

// Actor is a simulation entity: a physics body for its transform, a tag set
// and an ordered list of components. The owning layer holds the canonical
// reference; components only point back.
//
// The body is the single source of truth for position, angle and velocity;
// the actor caches none of them.
type Actor struct {
	id     ecs.ActorID
	name   string
	prefab string
	ctx    *Context
	layer  Spawner

	body       *cp.Body
	tags       map[string]struct{}
	components []Component

	dead      bool
	visible   bool
	trigger   bool
	kinematic bool

	started   bool
	left      bool
	destroyed bool
}

func (a *Actor) ID() ecs.ActorID { return a.id }

// Name is optional and not unique. It doubles as the actor's hook namespace.
func (a *Actor) Name() string        { return a.name }
func (a *Actor) SetName(name string) { a.name = name }

// Prefab returns the name of the prefab the actor was built from.
func (a *Actor) Prefab() string { return a.prefab }

func (a *Actor) Context() *Context { return a.ctx }

// Layer returns the container the actor was spawned into.
func (a *Actor) Layer() Spawner { return a.layer }

// Body implements world.Owner.
func (a *Actor) Body() *cp.Body { return a.body }

// Components returns the attached components in registration order.
func (a *Actor) Components() []Component {
	return append([]Component(nil), a.components...)
}

// ── Lifecycle ─────────────────────────────────────────────────────

// Kill marks the actor for removal at its layer's next sweep. The actor keeps
// receiving phases (and collision reports) until then.
func (a *Actor) Kill()        { a.dead = true }
func (a *Actor) IsDead() bool { return a.dead }

// Started reports whether the actor has received Start.
func (a *Actor) Started() bool { return a.started }

// Destroyed reports whether the actor has been torn down.
func (a *Actor) Destroyed() bool { return a.destroyed }

// gone reports whether the actor has had its terminal Leave or been torn
// down. A gone actor hears no more collisions.
func (a *Actor) gone() bool { return a.left || a.destroyed }

func (a *Actor) SetVisible(v bool) { a.visible = v }
func (a *Actor) IsVisible() bool   { return a.visible }

func (a *Actor) IsTrigger() bool   { return a.trigger }
func (a *Actor) IsKinematic() bool { return a.kinematic }

// setTrigger and setKinematic are only written by RigidBody during Init.
func (a *Actor) setTrigger(v bool) { a.trigger = v }

func (a *Actor) setKinematic(v bool) {
	a.kinematic = v
	if v {
		a.body.SetType(cp.BODY_KINEMATIC)
	} else {
		a.body.SetType(cp.BODY_DYNAMIC)
	}
}

// Destroy releases everything the actor holds in the world: components in
// reverse order, then its body, then its ID. The owning layer calls it after
// Leave. Idempotent.
func (a *Actor) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	for i := len(a.components) - 1; i >= 0; i-- {
		if d, ok := a.components[i].(Destroyer); ok {
			d.Destroy()
		}
	}
	a.ctx.World.RemoveRigidBody(a)
	a.ctx.IDs.Release(a.id)
}

// ── Tags ──────────────────────────────────────────────────────────

func (a *Actor) AddTag(tag string)    { a.tags[tag] = struct{}{} }
func (a *Actor) RemoveTag(tag string) { delete(a.tags, tag) }

func (a *Actor) HasTag(tag string) bool {
	_, ok := a.tags[tag]
	return ok
}

// Tags returns the tag set sorted.
func (a *Actor) Tags() []string {
	out := make([]string, 0, len(a.tags))
	for t := range a.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ── Transform ─────────────────────────────────────────────────────

func (a *Actor) Position() (x, y float64) {
	p := a.body.Position()
	return p.X, p.Y
}

func (a *Actor) X() float64 { return a.body.Position().X }
func (a *Actor) Y() float64 { return a.body.Position().Y }

// Angle returns the rotation in degrees.
func (a *Actor) Angle() float64 { return a.body.Angle() * 180 / math.Pi }

func (a *Actor) SetPosition(x, y float64) {
	a.body.SetPosition(cp.Vector{X: x, Y: y})
}

// SetAngle sets the rotation in degrees.
func (a *Actor) SetAngle(degrees float64) {
	a.body.SetAngle(degrees * math.Pi / 180)
}

// TranslateBy moves the actor. Unless global, the delta is in the actor's
// local frame.
func (a *Actor) TranslateBy(dx, dy float64, global bool) {
	if !global {
		dx, dy = a.RotatePoint(dx, dy)
	}
	x, y := a.Position()
	a.SetPosition(x+dx, y+dy)
}

func (a *Actor) RotateBy(degrees float64) {
	a.SetAngle(a.Angle() + degrees)
}

// RotatePoint rotates a local-space vector by the actor's angle.
func (a *Actor) RotatePoint(x, y float64) (float64, float64) {
	v := cp.ForAngle(a.body.Angle()).Rotate(cp.Vector{X: x, Y: y})
	return v.X, v.Y
}

// TransformPoint maps a local-space point into world space.
func (a *Actor) TransformPoint(x, y float64) (float64, float64) {
	rx, ry := a.RotatePoint(x, y)
	px, py := a.Position()
	return px + rx, py + ry
}

func (a *Actor) Velocity() (vx, vy float64) {
	v := a.body.Velocity()
	return v.X, v.Y
}

func (a *Actor) SetVelocity(vx, vy float64) {
	a.body.SetVelocityVector(cp.Vector{X: vx, Y: vy})
}

// ── Frame phases ──────────────────────────────────────────────────

// Start runs once, on the frame the actor joins its layer's live set.
func (a *Actor) Start() {
	if a.started {
		return
	}
	a.started = true
	a.dispatch(PhaseStart)
	a.hook(PhaseStart)
}

func (a *Actor) Advance() {
	a.dispatch(PhaseAdvance)
	a.hook(PhaseAdvance)
}

func (a *Actor) Update() {
	a.dispatch(PhaseUpdate)
	a.hook(PhaseUpdate)
}

// Render draws renderable components, only while the actor is visible.
func (a *Actor) Render() {
	if !a.visible {
		return
	}
	a.dispatch(PhaseRender)
}

func (a *Actor) GUI() {
	a.dispatch(PhaseGUI)
	a.hook(PhaseGUI)
}

// Leave runs exactly once for every actor that received Start, dead or not.
func (a *Actor) Leave() {
	if !a.started || a.left {
		return
	}
	a.left = true
	a.dispatch(PhaseLeave)
	a.hook(PhaseLeave)
}

func (a *Actor) dispatch(p Phase) {
	for _, c := range a.components {
		if !c.IsEnabled() {
			continue
		}
		switch p {
		case PhaseStart:
			c.Start()
		case PhaseAdvance:
			c.Advance()
		case PhaseUpdate:
			c.Update()
		case PhaseRender:
			c.Render()
		case PhaseLeave:
			c.Leave()
		case PhaseGUI:
			c.GUI()
		}
	}
}

func (a *Actor) hook(p Phase) {
	a.Invoke(a.name, p.String(), nil)
}

// Invoke runs hook ns.name with the actor as self. Missing hooks and script
// errors both yield true; errors are logged.
func (a *Actor) Invoke(ns, name string, other *Actor) bool {
	h := a.ctx.Hooks
	if h == nil || ns == "" || !h.Has(ns, name) {
		return true
	}
	ok, err := h.Call(ns, name, a, other)
	if err != nil {
		a.ctx.Log.Warn("script hook failed",
			zap.String("hook", ns+"."+name),
			zap.Uint64("actor", uint64(a.id)),
			zap.Error(err))
		return true
	}
	return ok
}

// ── Collisions ────────────────────────────────────────────────────

// BeginContact implements world.Owner.
func (a *Actor) BeginContact(other world.Owner) bool {
	o, ok := other.(*Actor)
	if !ok {
		return true
	}
	return a.BeginCollision(o)
}

// EndContact implements world.Owner.
func (a *Actor) EndContact(other world.Owner) {
	if o, ok := other.(*Actor); ok {
		a.EndCollision(o)
	}
}

// BeginCollision is called when one of the actor's shapes starts overlapping
// one of other's. It returns whether the contact should be resolved: false
// if the actor is a trigger or any listener rejects it. Every listener is
// told regardless. A killed actor keeps hearing collisions until its sweep.
func (a *Actor) BeginCollision(other *Actor) bool {
	if a.gone() {
		return false
	}
	resolve := true
	for _, c := range a.components {
		if h, ok := c.(Contact); ok && c.IsEnabled() {
			if !h.BeginCollision(other) {
				resolve = false
			}
		}
	}
	if !a.Invoke(a.name, HookBeginCollision, other) {
		resolve = false
	}
	if a.id < other.id || other.gone() {
		event.Emit(a.ctx.Bus, event.CollisionBegan{A: a.id, B: other.id})
	}
	return resolve && !a.trigger
}

// EndCollision is notification only. Once the actor has left, only its
// partner is told: removing its shapes at teardown ends its contacts.
func (a *Actor) EndCollision(other *Actor) {
	if a.gone() {
		return
	}
	for _, c := range a.components {
		if h, ok := c.(Contact); ok && c.IsEnabled() {
			h.EndCollision(other)
		}
	}
	a.Invoke(a.name, HookEndCollision, other)
	if a.id < other.id || other.gone() {
		event.Emit(a.ctx.Bus, event.CollisionEnded{A: a.id, B: other.id})
	}
}

// Spawn asks the actor's layer to spawn another prefab at the given
// transform. The new actor starts next frame.
func (a *Actor) Spawn(prefab string, x, y, angle float64) (*Actor, error) {
	if a.layer == nil {
		return nil, &ConstructionError{Prefab: prefab, Err: ErrNoLayer}
	}
	if a.ctx.Prefabs == nil {
		return nil, &ConstructionError{Prefab: prefab, Err: ErrNoPrefab}
	}
	p := a.ctx.Prefabs.Get(prefab)
	if p == nil {
		return nil, &ConstructionError{Prefab: prefab, Err: ErrNoPrefab}
	}
	return a.layer.SpawnActor(p.At(x, y, angle))
}
