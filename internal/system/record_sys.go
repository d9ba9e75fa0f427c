package system

import (
	"context"
	"time"

	coresys "github.com/swarmsim/server/internal/core/system"
	"github.com/swarmsim/server/internal/persist"
	"go.uber.org/zap"
)

// SnapshotWriter stores a batch of rows atomically. *persist.SnapshotRepo implements it.
type SnapshotWriter interface {
	WriteSnapshots(ctx context.Context, runID int64, rows []persist.SnapshotRow) error
}

// maxPendingRows caps the unflushed batch while the database is unreachable.
const maxPendingRows = 1 << 20

// RecordSystem samples frames into snapshot rows and writes them in batches. Phase 4 (Persist).
// A failed write keeps the batch for the next flush; the simulation never stops for the database.
type RecordSystem struct {
	writer        SnapshotWriter
	frames        FrameSource
	runID         int64
	snapshotEvery int
	flushEvery    int
	log           *zap.Logger

	tickCount int
	batch     []persist.SnapshotRow
	written   int64
	dropped   int64
}

func NewRecordSystem(writer SnapshotWriter, frames FrameSource, runID int64, snapshotEvery, flushEvery int, log *zap.Logger) *RecordSystem {
	return &RecordSystem{
		writer:        writer,
		frames:        frames,
		runID:         runID,
		snapshotEvery: max(1, snapshotEvery),
		flushEvery:    max(1, flushEvery),
		log:           log,
	}
}

func (s *RecordSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *RecordSystem) Update(_ time.Duration) error {
	s.tickCount++
	if s.tickCount%s.snapshotEvery == 0 {
		s.capture()
	}
	if s.tickCount%s.flushEvery == 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Flush(ctx); err != nil {
			s.log.Error("snapshot flush failed, keeping batch",
				zap.Int("rows", len(s.batch)), zap.Error(err))
		}
	}
	return nil
}

func (s *RecordSystem) capture() {
	f := s.frames.Frame()
	for i := range f.Positions {
		s.batch = append(s.batch, persist.SnapshotRow{
			Tick:       f.Tick,
			Entity:     i,
			Position:   f.Positions[i],
			Velocity:   f.Velocities[i],
			Target:     f.Targets[i],
			OnFallback: f.OnFallback(i),
		})
	}
	if over := len(s.batch) - maxPendingRows; over > 0 {
		s.batch = append(s.batch[:0], s.batch[over:]...)
		s.dropped += int64(over)
		s.log.Warn("snapshot backlog full, dropping oldest rows", zap.Int("dropped", over))
	}
}

// Flush writes the pending batch. Called by Update on the flush interval and at shutdown.
func (s *RecordSystem) Flush(ctx context.Context) error {
	if len(s.batch) == 0 {
		return nil
	}
	if err := s.writer.WriteSnapshots(ctx, s.runID, s.batch); err != nil {
		return err
	}
	s.written += int64(len(s.batch))
	s.batch = s.batch[:0]
	return nil
}

// Pending is the number of captured rows not yet written.
func (s *RecordSystem) Pending() int { return len(s.batch) }

// Written is the number of rows stored so far.
func (s *RecordSystem) Written() int64 { return s.written }

// Dropped is the number of rows discarded because the backlog overflowed.
func (s *RecordSystem) Dropped() int64 { return s.dropped }
