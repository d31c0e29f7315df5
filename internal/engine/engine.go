package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/config"
	"github.com/greybox2d/greybox/internal/core/ecs"
	"github.com/greybox2d/greybox/internal/core/event"
	coresys "github.com/greybox2d/greybox/internal/core/system"
	"github.com/greybox2d/greybox/internal/data"
	"github.com/greybox2d/greybox/internal/entity"
	"github.com/greybox2d/greybox/internal/persist"
	"github.com/greybox2d/greybox/internal/scene"
	"github.com/greybox2d/greybox/internal/world"
)

var ErrUnknownScene = errors.New("unknown scene")

// Options are the collaborators an Engine is assembled from. Hooks and
// Renderer may be nil.
type Options struct {
	Config     *config.Config
	Prefabs    *data.PrefabTable
	Scenes     *data.SceneTable
	Components *entity.Registry // nil means entity.DefaultRegistry()
	Hooks      entity.Hooks
	Renderer   entity.Renderer
	Store      persist.SnapshotStore // nil disables autosave
	Log        *zap.Logger
}

// Engine drives one scene at a time through the frame pipeline
// scene switch → events → Advance → physics → Update → Render → GUI →
// autosave.
// Accessed only from the simulation goroutine.
type Engine struct {
	cfg    *config.Config
	log    *zap.Logger
	clock  *Clock
	runner *coresys.Runner
	bus    *event.Bus
	world  *world.World
	ctx    *entity.Context
	scenes *data.SceneTable

	scene   *scene.Scene
	next    *data.SceneDesc
	restore *persist.Snapshot

	stats Stats
}

func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	reg := opts.Components
	if reg == nil {
		reg = entity.DefaultRegistry()
	}
	prefabs := opts.Prefabs
	if prefabs == nil {
		prefabs = data.NewPrefabTable()
	}

	bus := event.NewBus()
	w := world.New(cfg.Physics, log.Named("world"))

	e := &Engine{
		cfg:    cfg,
		log:    log,
		clock:  NewClock(cfg.Engine),
		runner: coresys.NewRunner(),
		bus:    bus,
		world:  w,
		scenes: opts.Scenes,
		ctx: &entity.Context{
			World:      w,
			IDs:        ecs.NewPool(),
			Components: reg,
			Prefabs:    prefabs,
			Hooks:      opts.Hooks,
			Renderer:   opts.Renderer,
			Bus:        bus,
			Log:        log,
			DebugDraw:  cfg.Display.DebugDraw,
		},
	}
	e.subscribeStats()

	e.runner.Register(&sceneSystem{e: e})
	e.runner.Register(&eventSystem{bus: bus})
	e.runner.Register(&phaseSystem{e: e, phase: coresys.PhaseAdvance, step: entity.PhaseAdvance})
	e.runner.Register(&physicsSystem{world: w})
	e.runner.Register(&phaseSystem{e: e, phase: coresys.PhaseUpdate, step: entity.PhaseUpdate})
	e.runner.Register(&phaseSystem{e: e, phase: coresys.PhaseRender, step: entity.PhaseRender})
	e.runner.Register(&phaseSystem{e: e, phase: coresys.PhaseGUI, step: entity.PhaseGUI})
	e.runner.Register(&statsSystem{e: e, interval: cfg.Engine.StatsInterval})
	if opts.Store != nil && cfg.Persist.AutosaveFrames > 0 {
		e.runner.Register(&autosaveSystem{e: e, store: opts.Store, interval: cfg.Persist.AutosaveFrames})
	}
	return e
}

func (e *Engine) Clock() *Clock            { return e.clock }
func (e *Engine) World() *world.World      { return e.world }
func (e *Engine) Bus() *event.Bus          { return e.bus }
func (e *Engine) Context() *entity.Context { return e.ctx }
func (e *Engine) Scene() *scene.Scene      { return e.scene }

// LoadScene schedules a switch to the named scene. It takes effect at the
// start of the next frame: the current scene receives Leave, the new one is
// built and receives Start.
func (e *Engine) LoadScene(name string) error {
	desc := e.lookup(name)
	if desc == nil {
		return fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	e.next = desc
	e.restore = nil
	return nil
}

func (e *Engine) lookup(name string) *data.SceneDesc {
	if e.scenes == nil {
		return nil
	}
	return e.scenes.Get(name)
}

// Frame runs the whole pipeline once. wall is the real time since the
// previous frame; the clock decides the simulated step.
func (e *Engine) Frame(wall time.Duration) {
	dt := e.clock.Tick(wall)
	e.runner.Tick(dt)
}

// Simulate runs the pipeline up to and including Update. Together with
// Draw it splits a frame for drivers that render separately.
func (e *Engine) Simulate(wall time.Duration) {
	dt := e.clock.Tick(wall)
	e.runner.TickPhases(coresys.PhaseScene, coresys.PhaseUpdate, dt)
}

// Draw runs the rest of the frame: Render, GUI and autosave.
func (e *Engine) Draw() {
	e.runner.TickPhases(coresys.PhaseRender, coresys.PhasePersist, e.clock.Delta())
}

// Shutdown ends the current scene.
func (e *Engine) Shutdown() {
	if e.scene == nil {
		return
	}
	e.scene.Step(entity.PhaseLeave)
	e.scene = nil
}

func (e *Engine) switchScene() {
	if e.next == nil {
		return
	}
	desc, snap := e.next, e.restore
	e.next, e.restore = nil, nil

	from := ""
	if e.scene != nil {
		from = e.scene.Name()
		e.scene.Step(entity.PhaseLeave)
		e.scene = nil
	}

	if snap != nil {
		// the snapshot replaces the descriptor's initial spawns
		bare := *desc
		bare.Spawns = nil
		desc = &bare
	}
	s, err := scene.Build(e.ctx, desc)
	if err != nil {
		e.log.Error("scene build failed", zap.String("scene", desc.Name), zap.Error(err))
		return
	}
	if snap != nil {
		e.respawn(s, snap)
	}

	e.scene = s
	e.stats.Scene = s.Name()
	s.Step(entity.PhaseStart)
	event.Emit(e.bus, event.SceneChanged{From: from, To: s.Name()})
	e.log.Info("scene started",
		zap.String("scene", s.Name()),
		zap.String("from", from),
		zap.Int("actors", s.Len()))
}
