package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/swarmsim/server/internal/config"
	"github.com/swarmsim/server/internal/vmath"
	"go.uber.org/zap/zaptest"
)

// openTestDB connects to SWARM_TEST_DSN and migrates it, or skips the test.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("SWARM_TEST_DSN")
	if dsn == "" {
		t.Skip("SWARM_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(db.Close)
	if err := RunMigrations(ctx, db.Pool); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	return db
}

func TestRunAndSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runs := NewRunRepo(db)
	snaps := NewSnapshotRepo(db)

	pool := []vmath.Vec3{{X: 1}, {X: 9}}
	id, err := runs.Create(ctx, RunInfo{Name: "test", Digest: "abc", Seed: 1, Entities: 3, Waypoints: 2, Speed: 2}, pool)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() {
		db.Pool.Exec(context.Background(), `DELETE FROM sim_runs WHERE id = $1`, id)
	})

	got, err := runs.Waypoints(ctx, id)
	if err != nil {
		t.Fatalf("Waypoints: %v", err)
	}
	if len(got) != 2 || got[0] != pool[0] || got[1] != pool[1] {
		t.Fatalf("Waypoints = %v, want %v", got, pool)
	}

	batch := []SnapshotRow{
		{Tick: 1, Entity: 0, Position: vmath.Vec3{X: 1}, Target: vmath.Vec3{X: 1}},
		{Tick: 1, Entity: 1, Position: vmath.Vec3{X: 6}, Target: vmath.Vec3{X: 9}},
		{Tick: 1, Entity: 2, Position: vmath.Vec3{X: 11}, Target: vmath.Vec3{X: 20}, OnFallback: true},
	}
	if err := snaps.WriteSnapshots(ctx, id, batch); err != nil {
		t.Fatalf("WriteSnapshots: %v", err)
	}
	n, err := snaps.CountSnapshots(ctx, id)
	if err != nil {
		t.Fatalf("CountSnapshots: %v", err)
	}
	if n != 3 {
		t.Fatalf("CountSnapshots = %d, want 3", n)
	}

	// Duplicate keys abort the whole batch.
	if err := snaps.WriteSnapshots(ctx, id, append(batch[:1:1], SnapshotRow{Tick: 2})); err == nil {
		t.Fatalf("expected duplicate (run, tick, entity) to fail")
	}
	if n, _ := snaps.CountSnapshots(ctx, id); n != 3 {
		t.Fatalf("partial batch landed: %d rows", n)
	}

	if err := runs.Finish(ctx, id, 10); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}
