package world

import "github.com/jakecoffman/cp"

// beginCollision is the space's begin callback. Both owners hear about the
// contact before either answer is used; the contact is resolved only if
// both agree.
func (w *World) beginCollision(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b, ok := w.owners(arb)
	if !ok {
		return true
	}
	w.locked++
	defer func() { w.locked-- }()

	w.stats.Begins++
	resolveA := a.BeginContact(b)
	resolveB := b.BeginContact(a)
	return resolveA && resolveB
}

// endCollision is the space's separate callback. It also fires when a shape
// in contact is removed from the space.
func (w *World) endCollision(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	a, b, ok := w.owners(arb)
	if !ok {
		return
	}
	w.locked++
	defer func() { w.locked-- }()

	w.stats.Ends++
	a.EndContact(b)
	b.EndContact(a)
}

func (w *World) owners(arb *cp.Arbiter) (Owner, Owner, bool) {
	sa, sb := arb.Shapes()
	ca, okA := w.shapes[sa]
	cb, okB := w.shapes[sb]
	if !okA || !okB {
		return nil, nil, false
	}
	a, b := ca.Owner(), cb.Owner()
	if a == nil || b == nil {
		return nil, nil, false
	}
	return a, b, true
}
