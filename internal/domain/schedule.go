package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome represents the result of a drill attempt.
type ReviewOutcome string

// Possible review outcome values.
const (
	ReviewOutcomeAgain ReviewOutcome = "again"
	ReviewOutcomeHard  ReviewOutcome = "hard"
	ReviewOutcomeGood  ReviewOutcome = "good"
	ReviewOutcomeEasy  ReviewOutcome = "easy"
)

// IsValid reports whether the outcome is one of the four known values.
func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewOutcomeAgain, ReviewOutcomeHard, ReviewOutcomeGood, ReviewOutcomeEasy:
		return true
	default:
		return false
	}
}

// Correct reports whether the outcome counts as a correct answer for
// streak and lapse accounting.
func (o ReviewOutcome) Correct() bool {
	return o != ReviewOutcomeAgain
}

// Ease factor bounds for schedule cells. The ceiling is deliberately higher
// than classic SM-2 (2.5) to leave headroom for the family clustering boost.
const (
	MinEase = 1.3
	MaxEase = 3.2
)

// DefaultEase is the ease assigned to a cell on first review.
const DefaultEase = 2.5

// Common validation errors for ScheduleCell.
var (
	ErrEmptyCellUserID = errors.New("schedule cell user ID cannot be empty")
	ErrEmptyCellSlot   = errors.New("schedule cell mood, tense and person must all be set")
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEase     = errors.New("ease must be within the configured bounds")
	ErrInvalidReps     = errors.New("reps and lapses must be greater than or equal to 0")
	ErrInvalidOutcome  = errors.New("invalid review outcome")
	ErrNilScheduleCell = errors.New("schedule cell cannot be nil")
	ErrInvalidPostpone = errors.New("postpone days must be at least 1")
)

// ScheduleCell tracks a user's spaced repetition schedule for one
// (mood, tense, person) coordinate. Mastery is recorded at the cell level,
// not per lemma: every verb drilled in the same slot shares this record.
type ScheduleCell struct {
	UserID            uuid.UUID `json:"user_id"`
	Mood              string    `json:"mood"`
	Tense             string    `json:"tense"`
	Person            string    `json:"person"`
	Interval          int       `json:"interval"`            // Current interval in days
	Ease              float64   `json:"ease"`                // Ease factor, clamped to [MinEase, MaxEase]
	Reps              int       `json:"reps"`                // Total number of reviews
	Lapses            int       `json:"lapses"`              // Incorrect answers after prior success
	Leech             bool      `json:"leech"`               // Flagged as persistently difficult
	LastAnswerCorrect bool      `json:"last_answer_correct"` // Outcome of the most recent review
	NextDueAt         time.Time `json:"next_due_at"`         // When the cell should be reviewed next
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewScheduleCell creates a schedule record for a cell that has never been
// reviewed. The cell is due immediately.
func NewScheduleCell(userID uuid.UUID, mood, tense, person string, now time.Time) (*ScheduleCell, error) {
	cell := &ScheduleCell{
		UserID:    userID,
		Mood:      mood,
		Tense:     tense,
		Person:    person,
		Interval:  0,
		Ease:      DefaultEase,
		NextDueAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := cell.Validate(); err != nil {
		return nil, err
	}
	return cell, nil
}

// Validate checks whether the cell holds consistent data.
func (c *ScheduleCell) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrEmptyCellUserID
	}
	if c.Mood == "" || c.Tense == "" || c.Person == "" {
		return ErrEmptyCellSlot
	}
	if c.Interval < 0 {
		return ErrInvalidInterval
	}
	if c.Ease < MinEase || c.Ease > MaxEase {
		return ErrInvalidEase
	}
	if c.Reps < 0 || c.Lapses < 0 {
		return ErrInvalidReps
	}
	return nil
}

// Clone returns a deep copy of the cell. Schedule updates follow the
// immutable update pattern, so mutation always happens on a clone.
func (c *ScheduleCell) Clone() *ScheduleCell {
	cp := *c
	return &cp
}
