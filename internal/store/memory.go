package store

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/domain"
)

// MemoryScheduleStore is an in-memory ScheduleStore for stateless
// deployments and tests. Safe for concurrent use. Cells do not survive a
// restart.
type MemoryScheduleStore struct {
	mu    sync.RWMutex
	cells map[string]*domain.ScheduleCell
}

// NewMemoryScheduleStore returns an empty in-memory schedule store.
func NewMemoryScheduleStore() *MemoryScheduleStore {
	return &MemoryScheduleStore{
		cells: make(map[string]*domain.ScheduleCell),
	}
}

// Ensure MemoryScheduleStore implements ScheduleStore interface
var _ ScheduleStore = (*MemoryScheduleStore)(nil)

func cellKey(userID uuid.UUID, mood, tense, person string) string {
	return userID.String() + "|" + mood + "|" + tense + "|" + person
}

// GetDueCells implements ScheduleStore.GetDueCells
func (s *MemoryScheduleStore) GetDueCells(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]*domain.ScheduleCell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*domain.ScheduleCell
	for _, cell := range s.cells {
		if cell.UserID == userID && !cell.NextDueAt.After(now) {
			due = append(due, cell.Clone())
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].NextDueAt.Before(due[j].NextDueAt)
	})
	return due, nil
}

// GetByCell implements ScheduleStore.GetByCell
func (s *MemoryScheduleStore) GetByCell(
	ctx context.Context,
	userID uuid.UUID,
	mood, tense, person string,
) (*domain.ScheduleCell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cell, ok := s.cells[cellKey(userID, mood, tense, person)]
	if !ok {
		return nil, ErrScheduleCellNotFound
	}
	return cell.Clone(), nil
}

// Save implements ScheduleStore.Save
func (s *MemoryScheduleStore) Save(ctx context.Context, cell *domain.ScheduleCell) error {
	if cell == nil {
		return domain.ErrNilScheduleCell
	}
	if err := cell.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells[cellKey(cell.UserID, cell.Mood, cell.Tense, cell.Person)] = cell.Clone()
	return nil
}

// WithTx implements ScheduleStore.WithTx. The memory store has no
// transactions; it returns itself.
func (s *MemoryScheduleStore) WithTx(tx *sql.Tx) ScheduleStore {
	return s
}
