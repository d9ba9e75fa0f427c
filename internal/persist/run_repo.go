package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swarmsim/server/internal/vmath"
)

// RunInfo describes one simulation run. Together with the seed it is enough to replay it.
type RunInfo struct {
	Name      string
	Digest    string
	Seed      int64
	Entities  int
	Waypoints int
	Speed     float32
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Create inserts the run row and its waypoint pool in one transaction and returns the run id.
func (r *RunRepo) Create(ctx context.Context, info RunInfo, waypoints []vmath.Vec3) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("run begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO sim_runs (name, digest, seed, entities, waypoints, speed)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		info.Name, info.Digest, info.Seed, info.Entities, info.Waypoints, info.Speed,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("run insert: %w", err)
	}

	if len(waypoints) > 0 {
		rows := make([][]any, len(waypoints))
		for i, w := range waypoints {
			rows[i] = []any{id, i, w.X, w.Y, w.Z}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"sim_waypoints"},
			[]string{"run_id", "idx", "x", "y", "z"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return 0, fmt.Errorf("run waypoints: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("run commit: %w", err)
	}
	return id, nil
}

// Finish stamps the end time and final tick count.
func (r *RunRepo) Finish(ctx context.Context, id int64, ticks uint64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE sim_runs SET finished_at = now(), ticks = $2 WHERE id = $1`,
		id, int64(ticks),
	)
	if err != nil {
		return fmt.Errorf("run finish: %w", err)
	}
	return nil
}

// Waypoints loads a run's pool in index order.
func (r *RunRepo) Waypoints(ctx context.Context, id int64) ([]vmath.Vec3, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT x, y, z FROM sim_waypoints WHERE run_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("run waypoints query: %w", err)
	}
	defer rows.Close()

	var out []vmath.Vec3
	for rows.Next() {
		var p vmath.Vec3
		if err := rows.Scan(&p.X, &p.Y, &p.Z); err != nil {
			return nil, fmt.Errorf("run waypoints scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
