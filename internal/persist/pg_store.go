package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/config"
)

// PGStore keeps snapshots in PostgreSQL. Every save is a new row set; Load
// reads the newest one for the scene. With keep > 0, older sets beyond the
// newest keep are pruned after each save.
type PGStore struct {
	pool *pgxpool.Pool
	keep int
	log  *zap.Logger
}

// OpenPGStore connects to cfg.DSN and applies pending schema migrations.
func OpenPGStore(ctx context.Context, cfg config.PersistConfig, log *zap.Logger) (*PGStore, error) {
	pool, err := connect(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &PGStore{pool: pool, keep: cfg.KeepSnapshots, log: log}, nil
}

// Save writes the snapshot and its actors in a single transaction.
func (r *PGStore) Save(ctx context.Context, s *Snapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO scene_snapshots (scene, frame, saved_at)
		 VALUES ($1, $2, $3) RETURNING id`,
		s.Scene, int64(s.Frame), s.SavedAt,
	).Scan(&id); err != nil {
		return fmt.Errorf("snapshot insert: %w", err)
	}

	for i, a := range s.Actors {
		tags := a.Tags
		if tags == nil {
			tags = []string{}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO snapshot_actors (snapshot_id, seq, prefab, layer, name, x, y, angle, vx, vy, visible, tags)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			id, i, a.Prefab, a.Layer, a.Name, a.X, a.Y, a.Angle, a.VX, a.VY, a.Visible, tags,
		); err != nil {
			return fmt.Errorf("snapshot actor %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("snapshot commit: %w", err)
	}

	if r.keep > 0 {
		n, err := r.Prune(ctx, s.Scene, r.keep)
		if err != nil {
			r.log.Warn("snapshot prune failed", zap.String("scene", s.Scene), zap.Error(err))
		} else if n > 0 {
			r.log.Debug("snapshots pruned", zap.String("scene", s.Scene), zap.Int64("removed", n))
		}
	}
	return nil
}

func (r *PGStore) Load(ctx context.Context, scene string) (*Snapshot, error) {
	s := &Snapshot{Scene: scene}
	var id, frame int64
	err := r.pool.QueryRow(ctx,
		`SELECT id, frame, saved_at FROM scene_snapshots
		 WHERE scene = $1 ORDER BY id DESC LIMIT 1`, scene,
	).Scan(&id, &frame, &s.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Frame = uint64(frame)

	rows, err := r.pool.Query(ctx,
		`SELECT prefab, layer, name, x, y, angle, vx, vy, visible, tags
		 FROM snapshot_actors WHERE snapshot_id = $1 ORDER BY seq`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a ActorState
		if err := rows.Scan(&a.Prefab, &a.Layer, &a.Name, &a.X, &a.Y, &a.Angle,
			&a.VX, &a.VY, &a.Visible, &a.Tags); err != nil {
			return nil, err
		}
		s.Actors = append(s.Actors, a)
	}
	return s, rows.Err()
}

// Prune deletes all but the newest keep snapshots of a scene.
func (r *PGStore) Prune(ctx context.Context, scene string, keep int) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM scene_snapshots WHERE scene = $1 AND id NOT IN (
		     SELECT id FROM scene_snapshots WHERE scene = $1 ORDER BY id DESC LIMIT $2)`,
		scene, keep,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGStore) Close() {
	r.pool.Close()
}
