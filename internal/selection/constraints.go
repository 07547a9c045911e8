package selection

import (
	"math/rand"
	"time"

	"github.com/cadell/conjugo-api/internal/domain"
)

// Urgency tiers for due cells, coarsest classification of how overdue a
// review is. Higher is more urgent.
const (
	UrgencyLevelDefault  = 1 // not due, or never scheduled
	UrgencyLevelDueToday = 2 // due within 24 hours
	UrgencyLevelDueSoon  = 3 // due within 6 hours
	UrgencyLevelOverdue  = 4 // past due
)

// SpecificConstraints captures whether the current turn is locked to one
// mood/tense. It is recomputed every turn from settings and never persisted.
// Person is never populated: callers that constrain person do so from the
// due cell, not from settings.
type SpecificConstraints struct {
	IsSpecific bool
	Mood       string
	Tense      string
}

// BuildSpecificConstraints normalizes the mode-dependent settings shape into
// a single targeting object.
//
// Review-session targeting (review mode, specific session, filter carrying
// both mood and tense) takes precedence over ambient practice-mode
// targeting: a learner inside a specific review session drills that topic
// even if their practice settings point elsewhere. Whenever the result is
// not specific, mood and tense are cleared so stale settings values cannot
// leak partial constraints downstream.
func BuildSpecificConstraints(
	settings domain.Settings,
	sessionType domain.ReviewSessionType,
	filter domain.ReviewSessionFilter,
) SpecificConstraints {
	if settings.PracticeMode == domain.PracticeModeReview &&
		sessionType == domain.ReviewSessionSpecific &&
		filter.Mood != "" && filter.Tense != "" {
		return SpecificConstraints{IsSpecific: true, Mood: filter.Mood, Tense: filter.Tense}
	}

	if (settings.PracticeMode == domain.PracticeModeSpecific ||
		settings.PracticeMode == domain.PracticeModeTheme) &&
		settings.SpecificMood != "" && settings.SpecificTense != "" {
		return SpecificConstraints{
			IsSpecific: true,
			Mood:       settings.SpecificMood,
			Tense:      settings.SpecificTense,
		}
	}

	return SpecificConstraints{}
}

// ComputeUrgencyLevel classifies how urgent a cell's next due time is
// relative to now. Total function: a zero due time (never scheduled) maps to
// the default tier, never an error.
func ComputeUrgencyLevel(nextDue, now time.Time) int {
	if nextDue.IsZero() {
		return UrgencyLevelDefault
	}
	if nextDue.Before(now) {
		return UrgencyLevelOverdue
	}
	until := nextDue.Sub(now)
	switch {
	case until <= 6*time.Hour:
		return UrgencyLevelDueSoon
	case until <= 24*time.Hour:
		return UrgencyLevelDueToday
	default:
		return UrgencyLevelDefault
	}
}

// ApplyReviewSessionFilter narrows the due queue for a review session:
// exact-match coordinate predicates first, then the urgency tier, then the
// limit.
//
// For specific sessions the urgency and limit refinements are best-effort:
// if they empty the set, the coordinate-only match is returned instead, so a
// specific-topic review never silently comes up empty while matching cells
// exist.
func ApplyReviewSessionFilter(
	cells []*domain.ScheduleCell,
	sessionType domain.ReviewSessionType,
	filter domain.ReviewSessionFilter,
	now time.Time,
) []*domain.ScheduleCell {
	matched := filterByCoordinates(cells, filter)

	refined := filterByUrgency(matched, filter, now)
	refined = truncateByLimit(refined, filter)

	if sessionType == domain.ReviewSessionSpecific && len(refined) == 0 {
		return matched
	}
	return refined
}

func filterByCoordinates(cells []*domain.ScheduleCell, filter domain.ReviewSessionFilter) []*domain.ScheduleCell {
	out := make([]*domain.ScheduleCell, 0, len(cells))
	for _, cell := range cells {
		if cell == nil {
			continue
		}
		if filter.Mood != "" && cell.Mood != filter.Mood {
			continue
		}
		if filter.Tense != "" && cell.Tense != filter.Tense {
			continue
		}
		if filter.Person != "" && cell.Person != filter.Person {
			continue
		}
		out = append(out, cell)
	}
	return out
}

func filterByUrgency(cells []*domain.ScheduleCell, filter domain.ReviewSessionFilter, now time.Time) []*domain.ScheduleCell {
	if filter.UrgencyLevel == 0 && (filter.Urgency == "" || filter.Urgency == domain.UrgencyAll) {
		return cells
	}

	out := make([]*domain.ScheduleCell, 0, len(cells))
	for _, cell := range cells {
		level := ComputeUrgencyLevel(cell.NextDueAt, now)
		switch {
		case filter.UrgencyLevel > 0:
			if level == filter.UrgencyLevel {
				out = append(out, cell)
			}
		case filter.Urgency == domain.UrgencyUrgent:
			if level >= UrgencyLevelDueSoon {
				out = append(out, cell)
			}
		case filter.Urgency == domain.UrgencyOverdue:
			if level == UrgencyLevelOverdue {
				out = append(out, cell)
			}
		}
	}
	return out
}

func truncateByLimit(cells []*domain.ScheduleCell, filter domain.ReviewSessionFilter) []*domain.ScheduleCell {
	limit := 0
	switch {
	case filter.LimitPreset == domain.LimitPresetLight:
		limit = filter.MaxItems
		if limit <= 0 {
			limit = 10
		}
	case filter.MaxItems > 0:
		limit = filter.MaxItems
	}

	if limit > 0 && len(cells) > limit {
		return cells[:limit]
	}
	return cells
}

// SelectDueCandidate picks one cell uniformly at random from the non-nil
// entries, so equally due cells do not starve each other across turns.
// Returns nil on empty input.
func SelectDueCandidate(cells []*domain.ScheduleCell, rng *rand.Rand) *domain.ScheduleCell {
	candidates := make([]*domain.ScheduleCell, 0, len(cells))
	for _, cell := range cells {
		if cell != nil {
			candidates = append(candidates, cell)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[intn(rng, len(candidates))]
}

// intn draws from the provided source, falling back to the package-level
// generator when none is injected.
func intn(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.Intn(n)
	}
	return rand.Intn(n)
}
