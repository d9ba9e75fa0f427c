package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swarmsim/server/internal/vmath"
)

// SnapshotRow is one entity's state at one recorded tick.
type SnapshotRow struct {
	Tick       uint64
	Entity     int
	Position   vmath.Vec3
	Velocity   vmath.Vec3
	Target     vmath.Vec3
	OnFallback bool
}

var snapshotColumns = []string{
	"run_id", "tick", "entity",
	"pos_x", "pos_y", "pos_z",
	"vel_x", "vel_y", "vel_z",
	"tgt_x", "tgt_y", "tgt_z",
	"on_fallback",
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// WriteSnapshots writes a batch in a single transaction. Either every row lands or none does;
// on error the caller keeps the batch and retries on the next flush.
func (r *SnapshotRepo) WriteSnapshots(ctx context.Context, runID int64, batch []SnapshotRow) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"sim_snapshots"},
		snapshotColumns,
		pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
			s := batch[i]
			return []any{
				runID, int64(s.Tick), s.Entity,
				s.Position.X, s.Position.Y, s.Position.Z,
				s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
				s.Target.X, s.Target.Y, s.Target.Z,
				s.OnFallback,
			}, nil
		}),
	); err != nil {
		return fmt.Errorf("snapshot copy: %w", err)
	}

	return tx.Commit(ctx)
}

// CountSnapshots returns how many rows a run has recorded.
func (r *SnapshotRepo) CountSnapshots(ctx context.Context, runID int64) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM sim_snapshots WHERE run_id = $1`, runID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("snapshot count: %w", err)
	}
	return n, nil
}
