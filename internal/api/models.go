package api

import (
	"time"

	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/redact"
	"github.com/cadell/conjugo-api/internal/service/practice"
)

// NextDrillRequest is the request body for POST /practice/next.
type NextDrillRequest struct {
	Settings    domain.Settings            `json:"settings"`
	SessionType string                     `json:"session_type,omitempty" validate:"omitempty,oneof=mixed specific"`
	Filter      domain.ReviewSessionFilter `json:"filter"`
	History     []domain.Form              `json:"history,omitempty"`
	Exclude     *domain.Form               `json:"exclude,omitempty"`
}

// DrillResponse is the response body for a selected drill.
type DrillResponse struct {
	Form       domain.Form `json:"form"`
	Method     string      `json:"method"`
	Warnings   []string    `json:"warnings,omitempty"`
	PoolReused bool        `json:"pool_reused"`
}

// SubmitAnswerRequest is the request body for POST /practice/answer.
type SubmitAnswerRequest struct {
	Lemma   string `json:"lemma"`
	Mood    string `json:"mood"    validate:"required"`
	Tense   string `json:"tense"   validate:"required"`
	Person  string `json:"person"  validate:"required"`
	Outcome string `json:"outcome" validate:"required,oneof=again hard good easy"`
}

// ScheduleCellResponse is the wire shape of an updated schedule cell.
type ScheduleCellResponse struct {
	Mood              string    `json:"mood"`
	Tense             string    `json:"tense"`
	Person            string    `json:"person"`
	Interval          int       `json:"interval"`
	Ease              float64   `json:"ease"`
	Reps              int       `json:"reps"`
	Lapses            int       `json:"lapses"`
	Leech             bool      `json:"leech"`
	LastAnswerCorrect bool      `json:"last_answer_correct"`
	NextDueAt         time.Time `json:"next_due_at"`
}

// SubmitAnswerResponse is the response body for a processed answer.
type SubmitAnswerResponse struct {
	Cell            ScheduleCellResponse `json:"cell"`
	BoostApplied    bool                 `json:"family_clustering_applied"`
	FamilyMastery   float64              `json:"family_mastery"`
	BoostMultiplier float64              `json:"family_boost_multiplier"`
}

// FamilyMasteryResponse is the wire shape of one family mastery estimate.
type FamilyMasteryResponse struct {
	FamilyID      string  `json:"family_id"`
	Mastery       float64 `json:"mastery"`
	VerbCount     int     `json:"verb_count"`
	PracticeCount int     `json:"practice_count"`
	MasteredCount int     `json:"mastered_count"`
}

func cellToResponse(cell *domain.ScheduleCell) ScheduleCellResponse {
	return ScheduleCellResponse{
		Mood:              cell.Mood,
		Tense:             cell.Tense,
		Person:            cell.Person,
		Interval:          cell.Interval,
		Ease:              cell.Ease,
		Reps:              cell.Reps,
		Lapses:            cell.Lapses,
		Leech:             cell.Leech,
		LastAnswerCorrect: cell.LastAnswerCorrect,
		NextDueAt:         cell.NextDueAt,
	}
}

func drillToResponse(result *practice.DrillResult) DrillResponse {
	resp := DrillResponse{
		Form:       *result.Form,
		Method:     result.Method,
		PoolReused: result.PoolReused,
	}
	for _, stageErr := range result.Errors {
		resp.Warnings = append(resp.Warnings, stageErr.Stage+": "+redact.Error(stageErr.Err))
	}
	return resp
}

func familiesToResponse(masteries []domain.FamilyMastery) []FamilyMasteryResponse {
	out := make([]FamilyMasteryResponse, 0, len(masteries))
	for _, m := range masteries {
		out = append(out, FamilyMasteryResponse{
			FamilyID:      m.FamilyID,
			Mastery:       m.Mastery,
			VerbCount:     m.VerbCount,
			PracticeCount: m.PracticeCount,
			MasteredCount: m.MasteredCount,
		})
	}
	return out
}
