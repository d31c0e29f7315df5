package persist

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/config"
)

// Snapshot is the saved state of one scene: every live actor with enough to
// respawn it from its prefab.
type Snapshot struct {
	Scene   string       `yaml:"scene"`
	Frame   uint64       `yaml:"frame"`
	SavedAt time.Time    `yaml:"saved_at"`
	Actors  []ActorState `yaml:"actors"`
}

type ActorState struct {
	Prefab  string   `yaml:"prefab"`
	Layer   string   `yaml:"layer"`
	Name    string   `yaml:"name"`
	X       float64  `yaml:"x"`
	Y       float64  `yaml:"y"`
	Angle   float64  `yaml:"angle"` // degrees
	VX      float64  `yaml:"vx"`
	VY      float64  `yaml:"vy"`
	Visible bool     `yaml:"visible"`
	Tags    []string `yaml:"tags"`
}

// SnapshotStore keeps the latest snapshot per scene. Load returns nil, nil
// when the scene has none.
type SnapshotStore interface {
	Save(ctx context.Context, s *Snapshot) error
	Load(ctx context.Context, scene string) (*Snapshot, error)
	Close()
}

// Open returns the store selected by cfg.Backend. For postgres it connects
// and applies pending migrations.
func Open(ctx context.Context, cfg config.PersistConfig, log *zap.Logger) (SnapshotStore, error) {
	switch cfg.Backend {
	case "postgres":
		return OpenPGStore(ctx, cfg, log)
	case "local":
		return OpenLocalStore(cfg.AppName)
	case "none", "":
		return nopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown persist backend %q", cfg.Backend)
	}
}

type nopStore struct{}

func (nopStore) Save(context.Context, *Snapshot) error           { return nil }
func (nopStore) Load(context.Context, string) (*Snapshot, error) { return nil, nil }
func (nopStore) Close()                                          {}
