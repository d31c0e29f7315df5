package entity

import "sort"

// Factory returns a fresh, unwired component.
type Factory func() Component

// Registry resolves prefab component type names.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory, 8)}
}

// DefaultRegistry knows every component type this package defines.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("CircleCollider", func() Component { return &CircleCollider{} })
	r.Register("SegmentCollider", func() Component { return &SegmentCollider{} })
	r.Register("RigidBody", func() Component { return &RigidBody{} })
	r.Register("Behavior", func() Component { return &Behavior{} })
	r.Register("Sprite", func() Component { return &Sprite{} })
	return r
}

// Register adds or replaces a component type.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

func (r *Registry) New(name string) (Component, bool) {
	f, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
