package world

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap/zaptest"

	"github.com/greybox2d/greybox/internal/config"
)

type testOwner struct {
	name    string
	body    *cp.Body
	resolve bool
	begins  []string
	ends    []string
	onBegin func(other Owner)
}

func (o *testOwner) Body() *cp.Body { return o.body }

func (o *testOwner) BeginContact(other Owner) bool {
	o.begins = append(o.begins, other.(*testOwner).name)
	if o.onBegin != nil {
		o.onBegin(other)
	}
	return o.resolve
}

func (o *testOwner) EndContact(other Owner) {
	o.ends = append(o.ends, other.(*testOwner).name)
}

type testCollider struct {
	shape *cp.Shape
	owner Owner
}

func (c *testCollider) Shape() *cp.Shape { return c.shape }
func (c *testCollider) Owner() Owner     { return c.owner }

func newTestWorld(t *testing.T) *World {
	t.Helper()
	return New(config.PhysicsConfig{Damping: 1}, zaptest.NewLogger(t))
}

// ball registers a body at (x, y) with one circle of radius r.
func ball(t *testing.T, w *World, name string, x, y, r float64) (*testOwner, *testCollider) {
	t.Helper()
	body := cp.NewBody(1, cp.INFINITY)
	body.SetPosition(cp.Vector{X: x, Y: y})
	o := &testOwner{name: name, body: body, resolve: true}
	c := &testCollider{shape: cp.NewCircle(body, r, cp.Vector{}), owner: o}
	if err := w.AddRigidBody(o); err != nil {
		t.Fatalf("AddRigidBody(%s): %v", name, err)
	}
	if err := w.AddCollider(c); err != nil {
		t.Fatalf("AddCollider(%s): %v", name, err)
	}
	return o, c
}

func TestAddColliderWithoutBody(t *testing.T) {
	w := newTestWorld(t)
	o := &testOwner{name: "ghost"}
	shape := cp.NewCircle(cp.NewBody(1, cp.INFINITY), 5, cp.Vector{})
	err := w.AddCollider(&testCollider{shape: shape, owner: o})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if err := w.AddRigidBody(o); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("AddRigidBody err = %v", err)
	}
}

func TestAddColliderForeignBody(t *testing.T) {
	w := newTestWorld(t)
	o := &testOwner{name: "a", body: cp.NewBody(1, cp.INFINITY)}
	shape := cp.NewCircle(cp.NewBody(1, cp.INFINITY), 5, cp.Vector{})
	if err := w.AddCollider(&testCollider{shape: shape, owner: o}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestRemovalIsIdempotent(t *testing.T) {
	w := newTestWorld(t)
	o, c := ball(t, w, "a", 0, 0, 5)

	w.RemoveCollider(c)
	w.RemoveCollider(c)
	w.RemoveRigidBody(o)
	w.RemoveRigidBody(o)
	w.RemoveCollider(nil)
	w.RemoveRigidBody(nil)

	if w.HasCollider(c) || w.HasBody(o) {
		t.Fatal("handles should be gone")
	}
	if s := w.Stats(); s.Bodies != 0 || s.Shapes != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestRegisterTwiceIsNoop(t *testing.T) {
	w := newTestWorld(t)
	o, c := ball(t, w, "a", 0, 0, 5)
	if err := w.AddRigidBody(o); err != nil {
		t.Fatal(err)
	}
	if err := w.AddCollider(c); err != nil {
		t.Fatal(err)
	}
	if s := w.Stats(); s.Bodies != 1 || s.Shapes != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCollisionBeginEndSymmetry(t *testing.T) {
	w := newTestWorld(t)
	a, _ := ball(t, w, "a", 0, 0, 10)
	b, _ := ball(t, w, "b", 30, 0, 10)
	a.resolve = false // trigger: report, pass through
	b.body.SetVelocityVector(cp.Vector{X: -5})

	for i := 0; i < 4; i++ {
		w.Step(1)
	}
	if d := b.body.Position().X - a.body.Position().X; d >= 20 {
		t.Fatalf("shapes should overlap after 4 steps, distance %v", d)
	}
	if len(a.begins) != 1 || a.begins[0] != "b" {
		t.Fatalf("a.begins = %v", a.begins)
	}
	if len(b.begins) != 1 || b.begins[0] != "a" {
		t.Fatalf("b.begins = %v", b.begins)
	}
	if len(a.ends) != 0 || len(b.ends) != 0 {
		t.Fatalf("end fired while overlapping: %v %v", a.ends, b.ends)
	}

	for i := 0; i < 8; i++ {
		w.Step(1)
	}
	if d := math.Abs(b.body.Position().X - a.body.Position().X); d <= 20 {
		t.Fatalf("shapes should have separated, distance %v", d)
	}
	if len(a.ends) != 1 || len(b.ends) != 1 {
		t.Fatalf("ends = %v %v, want exactly one each", a.ends, b.ends)
	}
	if len(a.begins) != 1 || len(b.begins) != 1 {
		t.Errorf("begin fired again: %v %v", a.begins, b.begins)
	}
	if s := w.Stats(); s.Begins != 1 || s.Ends != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestRemovalDuringStepIsDeferred(t *testing.T) {
	w := newTestWorld(t)
	a, _ := ball(t, w, "a", 0, 0, 10)
	b, bc := ball(t, w, "b", 5, 0, 10)
	a.resolve = false

	var seenDuring struct {
		hasShape, hasBody bool
		shapes, bodies    int
		locked            bool
	}
	a.onBegin = func(Owner) {
		w.RemoveCollider(bc)
		w.RemoveRigidBody(b)
		seenDuring.hasShape = w.HasCollider(bc)
		seenDuring.hasBody = w.HasBody(b)
		seenDuring.shapes, seenDuring.bodies = w.Pending()
		seenDuring.locked = w.Locked()
	}

	w.Step(1.0 / 60)

	if !seenDuring.locked {
		t.Error("world should be locked inside a collision callback")
	}
	if !seenDuring.hasShape || !seenDuring.hasBody {
		t.Error("handles must stay registered until the flush")
	}
	if seenDuring.shapes != 1 || seenDuring.bodies != 1 {
		t.Errorf("pending = %d shapes, %d bodies", seenDuring.shapes, seenDuring.bodies)
	}
	if w.HasCollider(bc) || w.HasBody(b) {
		t.Error("handles should be removed after the step")
	}
	if s, bs := w.Pending(); s != 0 || bs != 0 {
		t.Errorf("queues not flushed: %d %d", s, bs)
	}
	// removing b's shape ends the contact exactly once on both sides
	if len(a.ends) != 1 || len(b.ends) != 1 {
		t.Errorf("ends = %v %v", a.ends, b.ends)
	}
	if s := w.Stats(); s.DeferredShapeRemoves != 1 || s.DeferredBodyRemoves != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestAddDuringStepIsDeferred(t *testing.T) {
	w := newTestWorld(t)
	a, _ := ball(t, w, "a", 0, 0, 10)
	ball(t, w, "b", 5, 0, 10)
	a.resolve = false

	body := cp.NewBody(1, cp.INFINITY)
	late := &testOwner{name: "late", body: body}
	lc := &testCollider{shape: cp.NewCircle(body, 1, cp.Vector{}), owner: late}
	var addedDuring bool
	a.onBegin = func(Owner) {
		if err := w.AddRigidBody(late); err != nil {
			t.Errorf("AddRigidBody: %v", err)
		}
		if err := w.AddCollider(lc); err != nil {
			t.Errorf("AddCollider: %v", err)
		}
		addedDuring = w.HasCollider(lc)
	}

	w.Step(1.0 / 60)

	if addedDuring {
		t.Error("shape must not enter the space while it is locked")
	}
	if !w.HasCollider(lc) || !w.HasBody(late) {
		t.Error("deferred additions should be applied after the step")
	}
}

func TestRemoveCancelsPendingAdd(t *testing.T) {
	w := newTestWorld(t)
	a, _ := ball(t, w, "a", 0, 0, 10)
	ball(t, w, "b", 5, 0, 10)
	a.resolve = false

	body := cp.NewBody(1, cp.INFINITY)
	late := &testOwner{name: "late", body: body}
	lc := &testCollider{shape: cp.NewCircle(body, 1, cp.Vector{}), owner: late}
	a.onBegin = func(Owner) {
		_ = w.AddRigidBody(late)
		_ = w.AddCollider(lc)
		w.RemoveCollider(lc)
		w.RemoveRigidBody(late)
	}

	w.Step(1.0 / 60)

	if w.HasCollider(lc) || w.HasBody(late) {
		t.Error("cancelled additions should never reach the space")
	}
}

func TestQueries(t *testing.T) {
	w := newTestWorld(t)
	a, _ := ball(t, w, "a", 0, 0, 10)
	w.Step(1.0 / 60)

	if got := w.PointQuery(1, 0, 0); got != Owner(a) {
		t.Errorf("PointQuery = %v, want a", got)
	}
	if got := w.PointQuery(100, 100, 1); got != nil {
		t.Errorf("PointQuery far away = %v, want nil", got)
	}

	o, x, _, ok := w.SegmentQuery(-50, 0, 50, 0, 0)
	if !ok || o != Owner(a) {
		t.Fatalf("SegmentQuery = %v %v", o, ok)
	}
	if math.Abs(x-(-10)) > 0.01 {
		t.Errorf("hit x = %v, want -10", x)
	}
}
