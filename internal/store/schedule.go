package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/domain"
)

// ScheduleStore defines the persistence interface for SRS schedule cells.
// Version: 1.0
type ScheduleStore interface {
	// GetDueCells retrieves every cell for the user whose next due time is
	// at or before now, ordered by due time ascending.
	GetDueCells(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.ScheduleCell, error)

	// GetByCell retrieves the schedule for one (mood, tense, person)
	// coordinate. Returns ErrScheduleCellNotFound if the cell has never been
	// reviewed.
	GetByCell(ctx context.Context, userID uuid.UUID, mood, tense, person string) (*domain.ScheduleCell, error)

	// Save upserts a schedule cell keyed by (user, mood, tense, person).
	// Saves are idempotent: replaying the same update is harmless, which is
	// what lets an abandoned turn skip rollback handling.
	Save(ctx context.Context, cell *domain.ScheduleCell) error

	// WithTx returns a ScheduleStore that runs against the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ScheduleStore
}
