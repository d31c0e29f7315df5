package entity

import "errors"

// Behavior binds a script namespace to the actor. Unlike the actor's own
// hooks (namespaced by actor name), several actors can share one script.
type Behavior struct {
	Base
	script string
}

func (b *Behavior) Properties() []Property {
	return []Property{StringProperty("script", &b.script)}
}

func (b *Behavior) Init() error {
	if b.script == "" {
		return errors.New("script is required")
	}
	return nil
}

func (b *Behavior) Script() string { return b.script }

func (b *Behavior) Start()   { b.actor.Invoke(b.script, PhaseStart.String(), nil) }
func (b *Behavior) Advance() { b.actor.Invoke(b.script, PhaseAdvance.String(), nil) }
func (b *Behavior) Update()  { b.actor.Invoke(b.script, PhaseUpdate.String(), nil) }
func (b *Behavior) Leave()   { b.actor.Invoke(b.script, PhaseLeave.String(), nil) }
func (b *Behavior) GUI()     { b.actor.Invoke(b.script, PhaseGUI.String(), nil) }

func (b *Behavior) BeginCollision(other *Actor) bool {
	return b.actor.Invoke(b.script, HookBeginCollision, other)
}

func (b *Behavior) EndCollision(other *Actor) {
	b.actor.Invoke(b.script, HookEndCollision, other)
}
