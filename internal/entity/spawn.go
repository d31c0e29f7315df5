package entity

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/greybox2d/greybox/internal/data"
)

// defaultMass is the mass of a fresh actor body; RigidBody may override it.
const defaultMass = 1.0

// Spawn builds an actor from a prefab: body at the prefab transform, tags,
// then each component in declaration order (resolve type, wire properties,
// Init). On any failure everything built so far is released and a
// *ConstructionError is returned; no actor is produced.
//
// The actor is not started and belongs to no live set yet; layer is the
// container it is being spawned into and may be nil.
func Spawn(ctx *Context, layer Spawner, p *data.Prefab) (*Actor, error) {
	if p == nil {
		return nil, &ConstructionError{Err: ErrNoPrefab}
	}

	a := &Actor{
		id:      ctx.IDs.Create(),
		name:    p.Name,
		prefab:  p.Name,
		ctx:     ctx,
		layer:   layer,
		body:    cp.NewBody(defaultMass, cp.INFINITY),
		tags:    make(map[string]struct{}, len(p.Tags)),
		visible: p.IsVisible(),
	}
	a.body.SetPosition(cp.Vector{X: p.X, Y: p.Y})
	a.body.SetAngle(p.Angle * math.Pi / 180)
	for _, t := range p.Tags {
		a.tags[t] = struct{}{}
	}

	a.components = make([]Component, 0, len(p.Components))
	for _, spec := range p.Components {
		c, err := a.build(spec)
		if err != nil {
			a.Destroy()
			return nil, err
		}
		a.components = append(a.components, c)
	}
	return a, nil
}

func (a *Actor) build(spec data.ComponentSpec) (Component, error) {
	c, ok := a.ctx.Components.New(spec.Type)
	if !ok {
		return nil, &ConstructionError{Prefab: a.prefab, Component: spec.Type, Err: ErrUnknownComponent}
	}
	b := c.base()
	b.actor = a
	b.name = spec.Name

	if err := wire(c, spec.Properties); err != nil {
		err.Prefab = a.prefab
		err.Component = spec.Type
		return nil, err
	}

	if init, ok := c.(Initializer); ok {
		if err := init.Init(); err != nil {
			return nil, &ConstructionError{Prefab: a.prefab, Component: spec.Type, Err: err}
		}
	}
	return c, nil
}

// wire applies prefab properties through the component's declared setters,
// in sorted name order so failures are reported deterministically.
func wire(c Component, props map[string]string) *ConstructionError {
	if len(props) == 0 {
		return nil
	}
	setters := make(map[string]func(string) error)
	if w, ok := c.(Wired); ok {
		for _, p := range w.Properties() {
			setters[p.Name] = p.Set
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		set, ok := setters[name]
		if !ok {
			return &ConstructionError{Property: name, Err: ErrUnknownProperty}
		}
		if err := set(props[name]); err != nil {
			return &ConstructionError{Property: name, Err: err}
		}
	}
	return nil
}
