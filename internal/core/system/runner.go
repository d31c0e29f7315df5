package system

import (
	"fmt"
	"time"
)

// Runner executes systems in phase order each frame. Systems sharing a
// phase run in registration order.
type Runner struct {
	phases [len(phaseNames)][]System
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register adds s to its phase. A phase outside the pipeline is a
// programming error.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if p < 0 || int(p) >= len(r.phases) {
		panic(fmt.Sprintf("system: register %T with unknown phase %d", s, p))
	}
	r.phases[p] = append(r.phases[p], s)
}

// Len returns the number of registered systems.
func (r *Runner) Len() int {
	n := 0
	for _, ss := range r.phases {
		n += len(ss)
	}
	return n
}

func (r *Runner) Tick(dt time.Duration) {
	r.TickPhases(0, Phase(len(r.phases)-1), dt)
}

// TickPhases runs only the systems whose phase is in [first, last].
// The viewer splits a frame this way: simulation phases in ebiten's Update,
// the rest in Draw.
func (r *Runner) TickPhases(first, last Phase, dt time.Duration) {
	if first < 0 {
		first = 0
	}
	for p := first; p <= last && int(p) < len(r.phases); p++ {
		for _, s := range r.phases[p] {
			s.Update(dt)
		}
	}
}
