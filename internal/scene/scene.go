package scene

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/core/ecs"
	"github.com/greybox2d/greybox/internal/data"
	"github.com/greybox2d/greybox/internal/entity"
)

var ErrDuplicateLayer = errors.New("duplicate layer")

// Scene is an ordered set of layers plus an optional script namespace that
// receives scene-level hooks with no actor bound.
type Scene struct {
	name   string
	script string
	ctx    *entity.Context

	layers []*Layer // z ascending, insertion order among equals
	index  *ecs.Store[entity.Actor]

	started bool
	left    bool
}

func New(name string, ctx *entity.Context) *Scene {
	return &Scene{
		name:  name,
		ctx:   ctx,
		index: ecs.NewStore[entity.Actor](),
	}
}

// Build creates a scene from its descriptor and spawns its initial actors.
// Spawns that fail are logged and skipped.
func Build(ctx *entity.Context, desc *data.SceneDesc) (*Scene, error) {
	s := New(desc.Name, ctx)
	s.script = desc.Script
	for _, ld := range desc.Layers {
		if _, err := s.AddLayer(ld.Name, ld.Z, ld.IsVisible()); err != nil {
			return nil, fmt.Errorf("build scene %s: %w", desc.Name, err)
		}
	}

	for _, sp := range desc.Spawns {
		l := s.Layer(sp.Layer)
		if l == nil {
			return nil, fmt.Errorf("build scene %s: unknown layer %q", desc.Name, sp.Layer)
		}
		var p *data.Prefab
		if ctx.Prefabs != nil {
			p = ctx.Prefabs.Get(sp.Prefab)
		}
		if p == nil {
			ctx.Log.Warn("scene spawn skipped: unknown prefab",
				zap.String("scene", desc.Name), zap.String("prefab", sp.Prefab))
			continue
		}
		a, err := l.SpawnActor(p.At(sp.X, sp.Y, sp.Angle))
		if err != nil {
			ctx.Log.Warn("scene spawn failed",
				zap.String("scene", desc.Name), zap.String("prefab", sp.Prefab), zap.Error(err))
			continue
		}
		if sp.Name != "" {
			a.SetName(sp.Name)
		}
	}
	return s, nil
}

func (s *Scene) Name() string   { return s.name }
func (s *Scene) Script() string { return s.script }

// SetScript binds the scene's hook namespace.
func (s *Scene) SetScript(ns string) { s.script = ns }

func (s *Scene) Context() *entity.Context { return s.ctx }

// AddLayer appends a layer and re-sorts by z, keeping insertion order among
// layers with equal z.
func (s *Scene) AddLayer(name string, z float64, visible bool) (*Layer, error) {
	if s.Layer(name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateLayer, name)
	}
	l := newLayer(name, z, visible, s.ctx, s.index)
	s.layers = append(s.layers, l)
	sort.SliceStable(s.layers, func(i, j int) bool { return s.layers[i].z < s.layers[j].z })
	return l, nil
}

// Layer returns the layer with the given name, or nil.
func (s *Scene) Layer(name string) *Layer {
	for _, l := range s.layers {
		if l.name == name {
			return l
		}
	}
	return nil
}

// Layers returns the layers in dispatch order.
func (s *Scene) Layers() []*Layer {
	return append([]*Layer(nil), s.layers...)
}

// Step runs one frame phase over every layer in z order, then the scene's
// own hook. Start and Leave run at most once.
func (s *Scene) Step(phase entity.Phase) {
	switch phase {
	case entity.PhaseStart:
		if s.started {
			return
		}
		s.started = true
		s.hook(phase)
	case entity.PhaseLeave:
		if !s.started || s.left {
			return
		}
		s.left = true
		s.hook(phase)
		for _, l := range s.layers {
			l.Step(phase)
		}
	case entity.PhaseRender:
		for _, l := range s.layers {
			l.Step(phase)
		}
	default:
		for _, l := range s.layers {
			l.Step(phase)
		}
		s.hook(phase)
	}
}

func (s *Scene) hook(phase entity.Phase) {
	h := s.ctx.Hooks
	name := phase.String()
	if h == nil || s.script == "" || !h.Has(s.script, name) {
		return
	}
	if _, err := h.Call(s.script, name, nil, nil); err != nil {
		s.ctx.Log.Warn("scene hook failed",
			zap.String("scene", s.name),
			zap.String("hook", s.script+"."+name),
			zap.Error(err))
	}
}

// Find returns the actor with the given id, live or pending.
func (s *Scene) Find(id ecs.ActorID) *entity.Actor {
	a, _ := s.index.Get(id)
	return a
}

// FindByName returns the first live actor with the given name, scanning
// layers in z order.
func (s *Scene) FindByName(name string) *entity.Actor {
	for _, l := range s.layers {
		for _, a := range l.live {
			if a.Name() == name {
				return a
			}
		}
	}
	return nil
}

// FindByTag returns every live actor carrying tag, in dispatch order.
func (s *Scene) FindByTag(tag string) []*entity.Actor {
	var out []*entity.Actor
	for _, l := range s.layers {
		for _, a := range l.live {
			if a.HasTag(tag) {
				out = append(out, a)
			}
		}
	}
	return out
}

// Len returns the number of actors the scene holds, live or pending.
func (s *Scene) Len() int { return s.index.Len() }
