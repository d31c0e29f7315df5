package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/core/event"
	coresys "github.com/greybox2d/greybox/internal/core/system"
	"github.com/greybox2d/greybox/internal/entity"
	"github.com/greybox2d/greybox/internal/persist"
	"github.com/greybox2d/greybox/internal/world"
)

// sceneSystem applies a pending scene switch before anything else runs.
type sceneSystem struct {
	e *Engine
}

func (s *sceneSystem) Phase() coresys.Phase { return coresys.PhaseScene }

func (s *sceneSystem) Update(_ time.Duration) {
	s.e.switchScene()
}

// eventSystem delivers the events emitted during the previous frame.
type eventSystem struct {
	bus *event.Bus
}

func (s *eventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *eventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// phaseSystem dispatches one actor phase over the current scene.
type phaseSystem struct {
	e     *Engine
	phase coresys.Phase
	step  entity.Phase
}

func (s *phaseSystem) Phase() coresys.Phase { return s.phase }

func (s *phaseSystem) Update(_ time.Duration) {
	if s.e.scene != nil {
		s.e.scene.Step(s.step)
	}
}

// physicsSystem steps the space and flushes deferred removals.
type physicsSystem struct {
	world *world.World
}

func (s *physicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *physicsSystem) Update(dt time.Duration) {
	s.world.Step(dt.Seconds())
}

// statsSystem logs running totals every interval frames.
type statsSystem struct {
	e        *Engine
	interval int
}

func (s *statsSystem) Phase() coresys.Phase { return coresys.PhaseGUI }

func (s *statsSystem) Update(_ time.Duration) {
	if s.interval <= 0 || s.e.clock.Frame()%uint64(s.interval) != 0 {
		return
	}
	st := s.e.Stats()
	s.e.log.Info("engine stats",
		zap.String("scene", st.Scene),
		zap.Uint64("frames", st.Frames),
		zap.Float64("fps", s.e.clock.FPS()),
		zap.Int("actors", st.Actors),
		zap.Int("spawned", st.Spawned),
		zap.Int("swept", st.Swept),
		zap.Int("collisions", st.CollisionsBegan),
		zap.Int("bodies", st.World.Bodies),
		zap.Int("shapes", st.World.Shapes),
		zap.Int("deferred_removals", st.World.DeferredShapeRemoves+st.World.DeferredBodyRemoves))
}

// autosaveSystem saves a snapshot of the running scene every interval frames.
// Failed saves are logged and retried at the next interval.
type autosaveSystem struct {
	e        *Engine
	store    persist.SnapshotStore
	interval int
	count    int
}

func (s *autosaveSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *autosaveSystem) Update(_ time.Duration) {
	s.count++
	if s.count < s.interval {
		return
	}
	s.count = 0

	snap := s.e.Snapshot()
	if snap == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Save(ctx, snap); err != nil {
		s.e.log.Error("autosave failed", zap.String("scene", snap.Scene), zap.Error(err))
		return
	}
	s.e.stats.Autosaves++
	s.e.log.Debug("autosave",
		zap.String("scene", snap.Scene),
		zap.Uint64("frame", snap.Frame),
		zap.Int("actors", len(snap.Actors)))
}
