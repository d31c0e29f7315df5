package entity

// Phase is one stage of the per-frame pipeline an actor takes part in.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseAdvance
	PhaseUpdate
	PhaseRender
	PhaseLeave
	PhaseGUI
)

var phaseHooks = [...]string{"start", "advance", "update", "render", "leave", "gui"}

// String returns the hook name scripts define for the phase.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseHooks) {
		return "unknown"
	}
	return phaseHooks[p]
}

// Collision hook names.
const (
	HookBeginCollision = "begin_collision"
	HookEndCollision   = "end_collision"
)

// Component is a unit of per-actor behaviour. Implementations embed Base,
// which supplies no-op phase methods and the actor back reference.
type Component interface {
	Actor() *Actor
	Name() string
	Enable()
	Disable()
	IsEnabled() bool

	Start()
	Advance()
	Update()
	Render()
	Leave()
	GUI()

	base() *Base
}

// Initializer is implemented by components that need the world once their
// properties are wired (shapes, body registration).
type Initializer interface {
	Init() error
}

// Destroyer is implemented by components holding resources that must be
// released when their actor is torn down.
type Destroyer interface {
	Destroy()
}

// Contact is implemented by components that want collision reports.
type Contact interface {
	BeginCollision(other *Actor) bool
	EndCollision(other *Actor)
}

// Wired is implemented by components that accept prefab properties.
type Wired interface {
	Properties() []Property
}

// Base is embedded by every component.
type Base struct {
	actor    *Actor
	name     string
	disabled bool
}

func (b *Base) base() *Base { return b }

// Actor returns the owning actor. Valid only while the actor is alive.
func (b *Base) Actor() *Actor { return b.actor }

func (b *Base) Name() string    { return b.name }
func (b *Base) Enable()         { b.disabled = false }
func (b *Base) Disable()        { b.disabled = true }
func (b *Base) IsEnabled() bool { return !b.disabled }

func (b *Base) Start()   {}
func (b *Base) Advance() {}
func (b *Base) Update()  {}
func (b *Base) Render()  {}
func (b *Base) Leave()   {}
func (b *Base) GUI()     {}

// ComponentOf returns the first component of type T attached to a.
func ComponentOf[T Component](a *Actor) (T, bool) {
	for _, c := range a.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
