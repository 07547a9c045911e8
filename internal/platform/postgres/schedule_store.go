package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/platform/logger"
	"github.com/cadell/conjugo-api/internal/store"
)

// PostgresScheduleStore implements the store.ScheduleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresScheduleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScheduleStore creates a new PostgreSQL implementation of the
// ScheduleStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresScheduleStore(db store.DBTX, logger *slog.Logger) *PostgresScheduleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresScheduleStore{
		db:     db,
		logger: logger.With(slog.String("component", "schedule_store")),
	}
}

// Ensure PostgresScheduleStore implements store.ScheduleStore interface
var _ store.ScheduleStore = (*PostgresScheduleStore)(nil)

// GetDueCells implements store.ScheduleStore.GetDueCells
func (s *PostgresScheduleStore) GetDueCells(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]*domain.ScheduleCell, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, mood, tense, person, interval, ease, reps, lapses,
		       leech, last_answer_correct, next_due_at, created_at, updated_at
		FROM schedule_cells
		WHERE user_id = $1 AND next_due_at <= $2
		ORDER BY next_due_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		log.Error("failed to query due cells",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query due cells: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var cells []*domain.ScheduleCell
	for rows.Next() {
		cell, err := scanScheduleCell(rows)
		if err != nil {
			log.Error("failed to scan schedule cell",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan schedule cell: %w", err)
		}
		cells = append(cells, cell)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due cells: %w", MapError(err))
	}

	return cells, nil
}

// GetByCell implements store.ScheduleStore.GetByCell
// Returns store.ErrScheduleCellNotFound if the cell has never been reviewed.
func (s *PostgresScheduleStore) GetByCell(
	ctx context.Context,
	userID uuid.UUID,
	mood, tense, person string,
) (*domain.ScheduleCell, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, mood, tense, person, interval, ease, reps, lapses,
		       leech, last_answer_correct, next_due_at, created_at, updated_at
		FROM schedule_cells
		WHERE user_id = $1 AND mood = $2 AND tense = $3 AND person = $4
	`

	row := s.db.QueryRowContext(ctx, query, userID, mood, tense, person)
	cell, err := scanScheduleCell(row)
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			return nil, store.ErrScheduleCellNotFound
		}
		log.Error("failed to get schedule cell",
			slog.String("user_id", userID.String()),
			slog.String("mood", mood),
			slog.String("tense", tense),
			slog.String("person", person),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get schedule cell: %w", MapError(err))
	}

	return cell, nil
}

// Save implements store.ScheduleStore.Save
// The upsert is keyed on (user_id, mood, tense, person), so replaying the
// same update overwrites the row with identical values.
func (s *PostgresScheduleStore) Save(ctx context.Context, cell *domain.ScheduleCell) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if cell == nil {
		return domain.ErrNilScheduleCell
	}
	if err := cell.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO schedule_cells (user_id, mood, tense, person, interval, ease,
		                            reps, lapses, leech, last_answer_correct,
		                            next_due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, mood, tense, person) DO UPDATE SET
			interval = EXCLUDED.interval,
			ease = EXCLUDED.ease,
			reps = EXCLUDED.reps,
			lapses = EXCLUDED.lapses,
			leech = EXCLUDED.leech,
			last_answer_correct = EXCLUDED.last_answer_correct,
			next_due_at = EXCLUDED.next_due_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		cell.UserID,
		cell.Mood,
		cell.Tense,
		cell.Person,
		cell.Interval,
		cell.Ease,
		cell.Reps,
		cell.Lapses,
		cell.Leech,
		cell.LastAnswerCorrect,
		cell.NextDueAt,
		cell.CreatedAt,
		cell.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save schedule cell",
			slog.String("user_id", cell.UserID.String()),
			slog.String("mood", cell.Mood),
			slog.String("tense", cell.Tense),
			slog.String("person", cell.Person),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save schedule cell: %w", MapError(err))
	}

	return nil
}

// WithTx implements store.ScheduleStore.WithTx
func (s *PostgresScheduleStore) WithTx(tx *sql.Tx) store.ScheduleStore {
	return &PostgresScheduleStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduleCell(row rowScanner) (*domain.ScheduleCell, error) {
	var cell domain.ScheduleCell
	err := row.Scan(
		&cell.UserID,
		&cell.Mood,
		&cell.Tense,
		&cell.Person,
		&cell.Interval,
		&cell.Ease,
		&cell.Reps,
		&cell.Lapses,
		&cell.Leech,
		&cell.LastAnswerCorrect,
		&cell.NextDueAt,
		&cell.CreatedAt,
		&cell.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cell, nil
}
