package entity

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/greybox2d/greybox/internal/config"
	"github.com/greybox2d/greybox/internal/core/ecs"
	"github.com/greybox2d/greybox/internal/core/event"
	"github.com/greybox2d/greybox/internal/data"
	"github.com/greybox2d/greybox/internal/world"
)

// fakeHooks answers every hook listed in verdicts and records calls as
// "ns.hook" or "ns.hook(other)".
type fakeHooks struct {
	verdicts map[string]bool
	fail     map[string]bool
	calls    []string
}

func (h *fakeHooks) Has(ns, hook string) bool {
	_, ok := h.verdicts[ns+"."+hook]
	return ok
}

func (h *fakeHooks) Call(ns, hook string, self, other *Actor) (bool, error) {
	key := ns + "." + hook
	if other != nil {
		h.calls = append(h.calls, fmt.Sprintf("%s(%s)", key, other.Name()))
	} else {
		h.calls = append(h.calls, key)
	}
	if h.fail[key] {
		return false, errors.New("boom")
	}
	return h.verdicts[key], nil
}

type fakeRenderer struct {
	sprites  []string
	circles  int
	segments int
}

func (r *fakeRenderer) DrawSprite(texture string, x, y, angle, w, h float64) {
	r.sprites = append(r.sprites, texture)
}
func (r *fakeRenderer) DrawCircle(x, y, radius float64)            { r.circles++ }
func (r *fakeRenderer) DrawSegment(x1, y1, x2, y2, radius float64) { r.segments++ }
func (r *fakeRenderer) DrawText(x, y float64, text string)         {}

// probe records every phase it sees into a shared log.
type probe struct {
	Base
	log     *[]string
	tag     string
	resolve bool
}

func (p *probe) Properties() []Property {
	return []Property{
		StringProperty("tag", &p.tag),
		BoolProperty("resolve", &p.resolve),
	}
}

func (p *probe) record(s string) { *p.log = append(*p.log, p.tag+":"+s) }

func (p *probe) Start()   { p.record("start") }
func (p *probe) Advance() { p.record("advance") }
func (p *probe) Update()  { p.record("update") }
func (p *probe) Render()  { p.record("render") }
func (p *probe) Leave()   { p.record("leave") }
func (p *probe) GUI()     { p.record("gui") }
func (p *probe) Destroy() { p.record("destroy") }

func (p *probe) BeginCollision(other *Actor) bool {
	p.record("begin " + other.Name())
	return p.resolve
}

func (p *probe) EndCollision(other *Actor) { p.record("end " + other.Name()) }

type failingInit struct{ Base }

func (failingInit) Init() error { return errors.New("no thanks") }

func newTestContext(t *testing.T) (*Context, *[]string) {
	t.Helper()
	log := new([]string)
	reg := DefaultRegistry()
	reg.Register("Probe", func() Component { return &probe{log: log, resolve: true} })
	reg.Register("Failing", func() Component { return &failingInit{} })
	return &Context{
		World:      world.New(config.PhysicsConfig{Damping: 1}, zaptest.NewLogger(t)),
		IDs:        ecs.NewPool(),
		Components: reg,
		Bus:        event.NewBus(),
		Log:        zaptest.NewLogger(t),
	}, log
}

func ballPrefab(name string, x, y float64, trigger bool) *data.Prefab {
	return &data.Prefab{
		Name: name,
		X:    x,
		Y:    y,
		Components: []data.ComponentSpec{
			{Type: "RigidBody", Properties: map[string]string{"trigger": fmt.Sprint(trigger)}},
			{Type: "CircleCollider", Properties: map[string]string{"radius": "10"}},
		},
	}
}

func mustSpawn(t *testing.T, ctx *Context, p *data.Prefab) *Actor {
	t.Helper()
	a, err := Spawn(ctx, nil, p)
	if err != nil {
		t.Fatalf("Spawn(%s): %v", p.Name, err)
	}
	return a
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSpawnFromPrefab(t *testing.T) {
	ctx, _ := newTestContext(t)
	p := &data.Prefab{
		Name:  "crate",
		Tags:  []string{"solid", "box"},
		X:     3,
		Y:     4,
		Angle: 90,
		Components: []data.ComponentSpec{
			{Type: "RigidBody", Properties: map[string]string{"kinematic": "true"}},
			{Type: "CircleCollider", Name: "hull", Properties: map[string]string{"radius": "5", "x": "1", "friction": "0.5"}},
			{Type: "Sprite", Properties: map[string]string{"texture": "crate.png", "width": "8"}},
		},
	}
	a := mustSpawn(t, ctx, p)

	if a.ID().IsZero() || a.Name() != "crate" || a.Prefab() != "crate" {
		t.Fatalf("identity = %v %q %q", a.ID(), a.Name(), a.Prefab())
	}
	if x, y := a.Position(); x != 3 || y != 4 {
		t.Errorf("position = (%v, %v), want (3, 4)", x, y)
	}
	if !near(a.Angle(), 90) {
		t.Errorf("angle = %v, want 90", a.Angle())
	}
	if got := a.Tags(); len(got) != 2 || got[0] != "box" || got[1] != "solid" {
		t.Errorf("tags = %v", got)
	}
	if !a.IsKinematic() || a.IsTrigger() {
		t.Errorf("kinematic=%v trigger=%v", a.IsKinematic(), a.IsTrigger())
	}
	if len(a.Components()) != 3 {
		t.Fatalf("components = %d, want 3", len(a.Components()))
	}

	c, ok := ComponentOf[*CircleCollider](a)
	if !ok {
		t.Fatal("circle collider missing")
	}
	if c.Name() != "hull" || c.Radius() != 5 {
		t.Errorf("collider %q radius %v", c.Name(), c.Radius())
	}
	if ox, oy := c.Offset(); ox != 1 || oy != 0 {
		t.Errorf("offset = (%v, %v)", ox, oy)
	}
	if !ctx.World.HasBody(a) || !ctx.World.HasCollider(c) {
		t.Error("body and shape should be registered with the world")
	}
	if c.Owner() != world.Owner(a) {
		t.Error("collider owner should be the actor")
	}
}

func TestSpawnErrors(t *testing.T) {
	tests := []struct {
		name     string
		specs    []data.ComponentSpec
		sentinel error
		property string
	}{
		{
			name:     "unknown type",
			specs:    []data.ComponentSpec{{Type: "Teleporter"}},
			sentinel: ErrUnknownComponent,
		},
		{
			name:     "unknown property",
			specs:    []data.ComponentSpec{{Type: "CircleCollider", Properties: map[string]string{"radius": "1", "colour": "red"}}},
			sentinel: ErrUnknownProperty,
			property: "colour",
		},
		{
			name:     "malformed value",
			specs:    []data.ComponentSpec{{Type: "CircleCollider", Properties: map[string]string{"radius": "wide"}}},
			property: "radius",
		},
		{
			name:  "init failure",
			specs: []data.ComponentSpec{{Type: "Failing"}},
		},
		{
			name:  "behavior without script",
			specs: []data.ComponentSpec{{Type: "Behavior"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, log := newTestContext(t)
			specs := append([]data.ComponentSpec{
				{Type: "RigidBody"},
				{Type: "CircleCollider", Properties: map[string]string{"radius": "3"}},
				{Type: "Probe", Properties: map[string]string{"tag": "p"}},
			}, tt.specs...)

			a, err := Spawn(ctx, nil, &data.Prefab{Name: "broken", Components: specs})
			if a != nil {
				t.Fatal("no actor should be produced")
			}
			if !errors.Is(err, ErrConstruction) {
				t.Fatalf("err = %v, want a construction error", err)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("err = %v, want %v", err, tt.sentinel)
			}
			var ce *ConstructionError
			if !errors.As(err, &ce) || ce.Prefab != "broken" || ce.Property != tt.property {
				t.Errorf("construction error = %+v", ce)
			}

			if st := ctx.World.Stats(); st.Bodies != 0 || st.Shapes != 0 {
				t.Errorf("world still holds %d bodies, %d shapes", st.Bodies, st.Shapes)
			}
			if ctx.IDs.Len() != 0 {
				t.Errorf("id pool holds %d ids", ctx.IDs.Len())
			}
			if len(*log) != 1 || (*log)[0] != "p:destroy" {
				t.Errorf("probe log = %v, want teardown of the built probe", *log)
			}
		})
	}
}

func TestSpawnNilPrefab(t *testing.T) {
	ctx, _ := newTestContext(t)
	if _, err := Spawn(ctx, nil, nil); !errors.Is(err, ErrNoPrefab) {
		t.Fatalf("err = %v, want ErrNoPrefab", err)
	}
}

func TestKillIsIdempotent(t *testing.T) {
	ctx, _ := newTestContext(t)
	a := mustSpawn(t, ctx, &data.Prefab{Name: "a"})
	a.Kill()
	a.Kill()
	if !a.IsDead() {
		t.Fatal("actor should be dead")
	}
}

func TestTransform(t *testing.T) {
	ctx, _ := newTestContext(t)
	a := mustSpawn(t, ctx, &data.Prefab{Name: "a", Angle: 90})

	a.TranslateBy(10, 0, false)
	if x, y := a.Position(); !near(x, 0) || !near(y, 10) {
		t.Errorf("local translate = (%v, %v), want (0, 10)", x, y)
	}
	a.TranslateBy(10, 0, true)
	if x, y := a.Position(); !near(x, 10) || !near(y, 10) {
		t.Errorf("global translate = (%v, %v), want (10, 10)", x, y)
	}
	a.RotateBy(-90)
	if !near(a.Angle(), 0) {
		t.Errorf("angle = %v, want 0", a.Angle())
	}
	if x, y := a.TransformPoint(1, 2); !near(x, 11) || !near(y, 12) {
		t.Errorf("TransformPoint = (%v, %v), want (11, 12)", x, y)
	}
	a.SetVelocity(3, -4)
	if vx, vy := a.Velocity(); vx != 3 || vy != -4 {
		t.Errorf("velocity = (%v, %v)", vx, vy)
	}
}

func TestTags(t *testing.T) {
	ctx, _ := newTestContext(t)
	a := mustSpawn(t, ctx, &data.Prefab{Name: "a", Tags: []string{"enemy"}})
	a.AddTag("boss")
	a.RemoveTag("enemy")
	if a.HasTag("enemy") || !a.HasTag("boss") || a.HasTag("Boss") {
		t.Errorf("tags = %v", a.Tags())
	}
}

func TestPhaseDispatch(t *testing.T) {
	ctx, log := newTestContext(t)
	hooks := &fakeHooks{verdicts: map[string]bool{"hero.start": true, "hero.update": true, "hero.leave": true}}
	ctx.Hooks = hooks

	a := mustSpawn(t, ctx, &data.Prefab{Name: "hero", Components: []data.ComponentSpec{
		{Type: "Probe", Properties: map[string]string{"tag": "one"}},
		{Type: "Probe", Properties: map[string]string{"tag": "two"}},
	}})
	a.Components()[1].Disable()

	a.Leave() // not started yet
	a.Start()
	a.Start()
	a.Advance()
	a.Update()
	a.SetVisible(false)
	a.Render()
	a.SetVisible(true)
	a.Render()
	a.GUI()
	a.Leave()
	a.Leave()
	a.Destroy()
	a.Destroy()

	want := []string{"one:start", "one:advance", "one:update", "one:render", "one:gui", "one:leave", "two:destroy", "one:destroy"}
	if fmt.Sprint(*log) != fmt.Sprint(want) {
		t.Errorf("component log = %v\nwant %v", *log, want)
	}
	wantHooks := []string{"hero.start", "hero.update", "hero.leave"}
	if fmt.Sprint(hooks.calls) != fmt.Sprint(wantHooks) {
		t.Errorf("hooks = %v, want %v", hooks.calls, wantHooks)
	}
	if !a.Destroyed() || ctx.IDs.Alive(a.ID()) {
		t.Error("destroy should release the id")
	}
}

func TestInvokeErrorCountsAsAccept(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Hooks = &fakeHooks{
		verdicts: map[string]bool{"a.begin_collision": false},
		fail:     map[string]bool{"a.begin_collision": true},
	}
	a := mustSpawn(t, ctx, &data.Prefab{Name: "a"})
	if !a.Invoke("a", HookBeginCollision, nil) {
		t.Error("failing hook should yield true")
	}
	if !a.Invoke("a", "missing", nil) {
		t.Error("missing hook should yield true")
	}
}

func TestSpriteAndDebugDraw(t *testing.T) {
	ctx, _ := newTestContext(t)
	r := &fakeRenderer{}
	ctx.Renderer = r
	a := mustSpawn(t, ctx, &data.Prefab{Name: "a", Components: []data.ComponentSpec{
		{Type: "Sprite", Properties: map[string]string{"texture": "hero.png"}},
		{Type: "CircleCollider", Properties: map[string]string{"radius": "2"}},
		{Type: "SegmentCollider", Properties: map[string]string{"x2": "10", "radius": "1"}},
	}})

	a.Render()
	if len(r.sprites) != 1 || r.circles != 0 {
		t.Fatalf("sprites=%v circles=%d", r.sprites, r.circles)
	}
	ctx.DebugDraw = true
	a.Render()
	if r.circles != 1 || r.segments != 1 {
		t.Errorf("debug draw circles=%d segments=%d", r.circles, r.segments)
	}
}

func TestSegmentNeedsDistinctEndpoints(t *testing.T) {
	ctx, _ := newTestContext(t)
	_, err := Spawn(ctx, nil, &data.Prefab{Name: "dot", Components: []data.ComponentSpec{
		{Type: "SegmentCollider", Properties: map[string]string{"x1": "1", "x2": "1"}},
	}})
	if !errors.Is(err, ErrConstruction) {
		t.Fatalf("err = %v", err)
	}
}

func TestTriggerCollisionThroughWorld(t *testing.T) {
	ctx, log := newTestContext(t)
	hooks := &fakeHooks{verdicts: map[string]bool{
		"a.begin_collision":     true,
		"a.end_collision":       true,
		"mover.begin_collision": true,
	}}
	ctx.Hooks = hooks

	a := mustSpawn(t, ctx, ballPrefab("a", 0, 0, true))
	bp := ballPrefab("b", 30, 0, false)
	bp.Components = append(bp.Components,
		data.ComponentSpec{Type: "Behavior", Properties: map[string]string{"script": "mover"}},
		data.ComponentSpec{Type: "Probe", Properties: map[string]string{"tag": "b"}},
	)
	b := mustSpawn(t, ctx, bp)
	b.SetVelocity(-5, 0)

	var began []event.CollisionBegan
	var ended []event.CollisionEnded
	event.Subscribe(ctx.Bus, func(e event.CollisionBegan) { began = append(began, e) })
	event.Subscribe(ctx.Bus, func(e event.CollisionEnded) { ended = append(ended, e) })

	for i := 0; i < 4; i++ {
		ctx.World.Step(1)
	}
	for i := 0; i < 8; i++ {
		ctx.World.Step(1)
	}
	ctx.Bus.SwapBuffers()
	ctx.Bus.DispatchAll()

	// the bridge's pair order is up to the space
	sort.Strings(hooks.calls)
	want := []string{"a.begin_collision(b)", "a.end_collision(b)", "mover.begin_collision(a)"}
	if fmt.Sprint(hooks.calls) != fmt.Sprint(want) {
		t.Errorf("hooks = %v, want %v", hooks.calls, want)
	}
	if len(began) != 1 || len(ended) != 1 {
		t.Fatalf("events: %d began, %d ended; want one each", len(began), len(ended))
	}
	if began[0].A != a.ID() || began[0].B != b.ID() {
		t.Errorf("began = %+v", began[0])
	}
	if fmt.Sprint(*log) != "[b:begin a b:end a]" {
		t.Errorf("contact components saw %v", *log)
	}
	if x := b.X(); x > -20 {
		t.Errorf("trigger should let b pass through, x = %v", x)
	}
}

type stubLayer struct {
	ctx     *Context
	spawned []*Actor
}

func (l *stubLayer) Name() string { return "stub" }

func (l *stubLayer) SpawnActor(p *data.Prefab) (*Actor, error) {
	a, err := Spawn(l.ctx, l, p)
	if err != nil {
		return nil, err
	}
	l.spawned = append(l.spawned, a)
	return a, nil
}

func TestActorSpawn(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Prefabs = data.NewPrefabTable(&data.Prefab{Name: "bullet", Tags: []string{"shot"}})
	l := &stubLayer{ctx: ctx}
	gun, err := l.SpawnActor(&data.Prefab{Name: "gun"})
	if err != nil {
		t.Fatal(err)
	}

	shot, err := gun.Spawn("bullet", 5, 6, 45)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if shot.Layer() != l || len(l.spawned) != 2 {
		t.Fatal("shot should be spawned into the gun's layer")
	}
	if x, y := shot.Position(); x != 5 || y != 6 || !near(shot.Angle(), 45) || !shot.HasTag("shot") {
		t.Errorf("shot at (%v, %v, %v) tags %v", x, y, shot.Angle(), shot.Tags())
	}
	if ctx.Prefabs.Get("bullet").X != 0 {
		t.Error("prefab template must not be modified")
	}

	if _, err := gun.Spawn("rocket", 0, 0, 0); !errors.Is(err, ErrNoPrefab) {
		t.Errorf("unknown prefab err = %v", err)
	}
	orphan := mustSpawn(t, ctx, &data.Prefab{Name: "orphan"})
	if _, err := orphan.Spawn("bullet", 0, 0, 0); !errors.Is(err, ErrNoLayer) {
		t.Errorf("orphan err = %v", err)
	}
}
