package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseScene   Phase = iota // 0: swap in a pending scene
	PhaseEvents               // 1: deliver last frame's events
	PhaseAdvance              // 2: merge spawns, sweep the dead, advance actors
	PhasePhysics              // 3: step the physics space + flush deferred removals
	PhaseUpdate               // 4: actor logic after physics
	PhaseRender               // 5: draw visible layers back to front
	PhaseGUI                  // 6: overlay pass
	PhasePersist              // 7: periodic snapshot saves
)

var phaseNames = [...]string{"scene", "events", "advance", "physics", "update", "render", "gui", "persist"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
