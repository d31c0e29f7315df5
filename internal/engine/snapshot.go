package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/persist"
	"github.com/greybox2d/greybox/internal/scene"
)

// Snapshot captures every live actor of the current scene. Actors spawned
// this frame and not yet merged are not included.
func (e *Engine) Snapshot() *persist.Snapshot {
	if e.scene == nil {
		return nil
	}
	snap := &persist.Snapshot{
		Scene:   e.scene.Name(),
		Frame:   e.clock.Frame(),
		SavedAt: time.Now().UTC(),
	}
	for _, l := range e.scene.Layers() {
		for _, a := range l.Actors() {
			if a.IsDead() {
				continue
			}
			x, y := a.Position()
			vx, vy := a.Velocity()
			snap.Actors = append(snap.Actors, persist.ActorState{
				Prefab:  a.Prefab(),
				Layer:   l.Name(),
				Name:    a.Name(),
				X:       x,
				Y:       y,
				Angle:   a.Angle(),
				VX:      vx,
				VY:      vy,
				Visible: a.IsVisible(),
				Tags:    a.Tags(),
			})
		}
	}
	return snap
}

// Restore schedules a switch to the snapshot's scene, populated from the
// snapshot instead of the scene's own spawn list.
func (e *Engine) Restore(snap *persist.Snapshot) error {
	desc := e.lookup(snap.Scene)
	if desc == nil {
		return fmt.Errorf("restore: %w: %q", ErrUnknownScene, snap.Scene)
	}
	e.next = desc
	e.restore = snap
	return nil
}

func (e *Engine) respawn(s *scene.Scene, snap *persist.Snapshot) {
	for _, st := range snap.Actors {
		l := s.Layer(st.Layer)
		p := e.ctx.Prefabs.Get(st.Prefab)
		if l == nil || p == nil {
			e.log.Warn("snapshot actor skipped",
				zap.String("prefab", st.Prefab),
				zap.String("layer", st.Layer))
			continue
		}
		a, err := l.SpawnActor(p.At(st.X, st.Y, st.Angle))
		if err != nil {
			e.log.Warn("snapshot actor failed", zap.String("prefab", st.Prefab), zap.Error(err))
			continue
		}
		a.SetName(st.Name)
		a.SetVelocity(st.VX, st.VY)
		a.SetVisible(st.Visible)
		for _, t := range a.Tags() {
			a.RemoveTag(t)
		}
		for _, t := range st.Tags {
			a.AddTag(t)
		}
	}
	e.log.Info("snapshot restored",
		zap.String("scene", snap.Scene),
		zap.Uint64("frame", snap.Frame),
		zap.Int("actors", len(snap.Actors)))
}
