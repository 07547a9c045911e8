package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadell/conjugo-api/internal/domain"
)

func newTestCell(t *testing.T) *domain.ScheduleCell {
	t.Helper()
	cell, err := domain.NewScheduleCell(
		uuid.New(),
		domain.MoodIndicative,
		domain.TensePresent,
		domain.Person1s,
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return cell
}

func TestCalculateNewEase(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	tests := []struct {
		name     string
		ease     float64
		outcome  domain.ReviewOutcome
		expected float64
	}{
		{"again lowers ease", 2.5, domain.ReviewOutcomeAgain, 2.3},
		{"hard lowers ease", 2.5, domain.ReviewOutcomeHard, 2.35},
		{"good keeps ease", 2.5, domain.ReviewOutcomeGood, 2.5},
		{"easy raises ease", 2.5, domain.ReviewOutcomeEasy, 2.65},
		{"clamped at floor", 1.35, domain.ReviewOutcomeAgain, domain.MinEase},
		{"clamped at ceiling", 3.15, domain.ReviewOutcomeEasy, domain.MaxEase},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.expected, calculateNewEase(tc.ease, tc.outcome, params), 1e-9)
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	tests := []struct {
		name              string
		interval          int
		lastAnswerCorrect bool
		ease              float64
		outcome           domain.ReviewOutcome
		expected          int
	}{
		{"again resets", 14, true, 2.5, domain.ReviewOutcomeAgain, 0},
		{"first review good", 0, true, 2.5, domain.ReviewOutcomeGood, 1},
		{"first review easy", 0, true, 2.5, domain.ReviewOutcomeEasy, 2},
		{"first review hard", 0, true, 2.5, domain.ReviewOutcomeHard, 1},
		{"good multiplies by ease", 10, true, 2.5, domain.ReviewOutcomeGood, 25},
		{"hard grows slightly", 10, true, 2.5, domain.ReviewOutcomeHard, 12},
		{"easy compounds modifier and ease", 10, true, 2.5, domain.ReviewOutcomeEasy, 32},
		{"post-lapse good is conservative", 10, false, 2.5, domain.ReviewOutcomeGood, 15},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateNewInterval(tc.interval, tc.lastAnswerCorrect, tc.ease, tc.outcome, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCalculateNextReview_FirstReview(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	cell := newTestCell(t)
	now := time.Now().UTC()

	next, err := svc.CalculateNextReview(cell, domain.ReviewOutcomeGood, now)
	require.NoError(t, err)

	assert.Equal(t, 1, next.Reps)
	assert.Equal(t, 1, next.Interval)
	assert.True(t, next.LastAnswerCorrect)
	assert.Equal(t, 0, next.Lapses)
	assert.Equal(t, now.AddDate(0, 0, 1), next.NextDueAt)

	// Immutable update: the input cell is untouched.
	assert.Equal(t, 0, cell.Reps)
	assert.Equal(t, 0, cell.Interval)
}

func TestCalculateNextReview_AgainSchedulesInMinutes(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	cell := newTestCell(t)
	cell.Reps = 3
	cell.Interval = 7
	cell.LastAnswerCorrect = true
	now := time.Now().UTC()

	next, err := svc.CalculateNextReview(cell, domain.ReviewOutcomeAgain, now)
	require.NoError(t, err)

	assert.Equal(t, 0, next.Interval)
	assert.Equal(t, 1, next.Lapses, "again on a reviewed cell counts as a lapse")
	assert.False(t, next.LastAnswerCorrect)
	assert.Equal(t, now.Add(10*time.Minute), next.NextDueAt)
}

func TestCalculateNextReview_FirstAgainIsNotALapse(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	cell := newTestCell(t)
	now := time.Now().UTC()

	next, err := svc.CalculateNextReview(cell, domain.ReviewOutcomeAgain, now)
	require.NoError(t, err)

	assert.Equal(t, 0, next.Lapses, "failing a never-reviewed cell is not a lapse")
}

func TestCalculateNextReview_LeechLatches(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	cell := newTestCell(t)
	cell.Reps = 20
	cell.Lapses = 7
	now := time.Now().UTC()

	next, err := svc.CalculateNextReview(cell, domain.ReviewOutcomeAgain, now)
	require.NoError(t, err)
	assert.True(t, next.Leech, "eighth lapse crosses the leech threshold")

	// The flag survives later correct answers.
	recovered, err := svc.CalculateNextReview(next, domain.ReviewOutcomeEasy, now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, recovered.Leech)
}

func TestCalculateNextReview_Validation(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	now := time.Now().UTC()

	_, err := svc.CalculateNextReview(nil, domain.ReviewOutcomeGood, now)
	assert.ErrorIs(t, err, domain.ErrNilScheduleCell)

	_, err = svc.CalculateNextReview(newTestCell(t), domain.ReviewOutcome("perfect"), now)
	assert.ErrorIs(t, err, domain.ErrInvalidOutcome)
}

func TestPostponeReview(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	cell := newTestCell(t)
	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cell.NextDueAt = due
	now := time.Now().UTC()

	next, err := svc.PostponeReview(cell, 3, now)
	require.NoError(t, err)
	assert.Equal(t, due.AddDate(0, 0, 3), next.NextDueAt)
	assert.Equal(t, now, next.UpdatedAt)

	_, err = svc.PostponeReview(cell, 0, now)
	assert.ErrorIs(t, err, domain.ErrInvalidPostpone)
}
