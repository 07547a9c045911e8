// Package practice is the application service for practice turns: resolving
// the forms pool, running the hierarchical selector, and processing answers
// into updated SRS schedules with the family clustering boost applied.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/selection"
)

// Common error types for the practice service.
var (
	// ErrNoEligibleForms indicates the settings produced an empty forms
	// pool. A legitimate outcome of over-narrow settings, surfaced to the
	// caller as a typed error so the UI can offer a fallback.
	ErrNoEligibleForms = errors.New("no eligible forms for current settings")

	// ErrInvalidAnswer indicates an unknown review outcome was submitted.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrInvalidCell indicates the submitted cell coordinates are incomplete.
	ErrInvalidCell = errors.New("mood, tense and person must all be set")
)

// DrillRequest carries the inputs for one practice turn.
type DrillRequest struct {
	UserID      uuid.UUID // Nil for anonymous sessions
	Region      string
	Settings    domain.Settings
	SessionType domain.ReviewSessionType
	Filter      domain.ReviewSessionFilter
	History     []domain.Form
	Exclude     *domain.Form
}

// DrillResult is the outcome of one practice turn, combining the selection
// result with pool observability data.
type DrillResult struct {
	Form         *domain.Form
	Method       string
	Errors       []selection.StageError
	PoolReused   bool
	PoolDuration time.Duration
}

// AnswerRequest identifies the drilled form and the learner's outcome.
type AnswerRequest struct {
	Lemma   string
	Mood    string
	Tense   string
	Person  string
	Outcome domain.ReviewOutcome
}

// SubmitResult is the updated schedule plus boost metadata.
type SubmitResult struct {
	Cell            *domain.ScheduleCell
	BoostApplied    bool
	FamilyMastery   float64
	BoostMultiplier float64
}

// HeatmapCell is one entry of the review heat map read model.
type HeatmapCell struct {
	Mood      string    `json:"mood"`
	Tense     string    `json:"tense"`
	Person    string    `json:"person"`
	Urgency   int       `json:"urgency"`
	Interval  int       `json:"interval"`
	Ease      float64   `json:"ease"`
	Leech     bool      `json:"leech"`
	NextDueAt time.Time `json:"next_due_at"`
}

// Service provides practice-turn operations over the selection pipeline and
// the SRS schedule.
type Service interface {
	// NextDrill selects the next form to present. Returns ErrNoEligibleForms
	// when the settings admit no forms at all; a nil Form with a nil error
	// does not occur.
	NextDrill(ctx context.Context, req DrillRequest) (*DrillResult, error)

	// SubmitAnswer records a review outcome, computes the next schedule for
	// the cell (with the family clustering boost for correct answers), and
	// persists it.
	SubmitAnswer(ctx context.Context, userID uuid.UUID, req AnswerRequest) (*SubmitResult, error)

	// Heatmap returns the user's due cells, narrowed by the filter, shaped
	// for the review heat map UI.
	Heatmap(ctx context.Context, userID uuid.UUID, filter domain.ReviewSessionFilter) ([]HeatmapCell, error)

	// FamilyRecommendations returns the irregular families worth practicing
	// next in the given cell.
	FamilyRecommendations(ctx context.Context, userID uuid.UUID, mood, tense, person string, limit int) []domain.FamilyMastery

	// FamilyStatistics returns per-family mastery aggregates for the user.
	FamilyStatistics(ctx context.Context, userID uuid.UUID, person string) []domain.FamilyMastery
}

// ServiceError wraps practice service failures with the operation that
// produced them, so consumers differentiate with errors.As instead of
// string matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewNextDrillError returns a ServiceError for the next_drill operation.
func NewNextDrillError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "next_drill", Message: message, Err: err}
}

// NewSubmitAnswerError returns a ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_answer", Message: message, Err: err}
}
