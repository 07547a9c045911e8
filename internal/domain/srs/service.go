package srs

import (
	"time"

	"github.com/cadell/conjugo-api/internal/domain"
)

// Service defines the interface for SRS schedule calculations.
type Service interface {
	// CalculateNextReview computes a new schedule cell based on a review outcome.
	CalculateNextReview(
		cell *domain.ScheduleCell,
		outcome domain.ReviewOutcome,
		now time.Time,
	) (*domain.ScheduleCell, error)

	// PostponeReview pushes the next due time forward by a number of days.
	PostponeReview(
		cell *domain.ScheduleCell,
		days int,
		now time.Time,
	) (*domain.ScheduleCell, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// CalculateNextReview implements the Service interface.
func (s *defaultService) CalculateNextReview(
	cell *domain.ScheduleCell,
	outcome domain.ReviewOutcome,
	now time.Time,
) (*domain.ScheduleCell, error) {
	if cell == nil {
		return nil, domain.ErrNilScheduleCell
	}
	if !outcome.IsValid() {
		return nil, domain.ErrInvalidOutcome
	}

	return calculateNextCell(cell, outcome, now, s.params), nil
}

// PostponeReview implements the Service interface.
func (s *defaultService) PostponeReview(
	cell *domain.ScheduleCell,
	days int,
	now time.Time,
) (*domain.ScheduleCell, error) {
	if cell == nil {
		return nil, domain.ErrNilScheduleCell
	}
	if days < 1 {
		return nil, domain.ErrInvalidPostpone
	}

	next := cell.Clone()
	next.NextDueAt = cell.NextDueAt.AddDate(0, 0, days)
	next.UpdatedAt = now

	return next, nil
}
