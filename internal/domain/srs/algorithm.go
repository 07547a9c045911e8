package srs

import (
	"time"

	"github.com/cadell/conjugo-api/internal/domain"
)

// calculateNewEase determines the new ease factor based on the review outcome.
//
// The ease factor represents the cell's difficulty - higher values mean the
// cell is easier and intervals will grow faster. The per-outcome adjustment
// comes from the params; the result is clamped to [MinEase, MaxEase].
func calculateNewEase(currentEase float64, outcome domain.ReviewOutcome, params *Params) float64 {
	newEase := currentEase + params.EaseAdjustment[outcome]

	if newEase < params.MinEase {
		newEase = params.MinEase
	}
	if newEase > params.MaxEase {
		newEase = params.MaxEase
	}

	return newEase
}

// calculateNewInterval determines the new interval in days based on the
// review outcome and the cell's current schedule.
//
// Behavior:
//   - "Again" resets the interval to 0 (review in minutes, not days).
//   - First reviews (interval 0) use the predefined first-review intervals.
//   - After a lapse (streak broken but interval > 0), a "Good" answer uses a
//     conservative 1.5 multiplier instead of the full ease factor.
//   - Otherwise "Good" multiplies by the ease factor, "Hard" by a small fixed
//     modifier, and "Easy" by a large modifier times the ease factor.
//
// This is an SM-2 variant with modified lapse handling, carried over from the
// flashcard scheduler this system grew out of.
func calculateNewInterval(
	currentInterval int,
	lastAnswerCorrect bool,
	ease float64,
	outcome domain.ReviewOutcome,
	params *Params,
) int {
	if outcome == domain.ReviewOutcomeAgain {
		return 0
	}

	if currentInterval == 0 {
		return params.FirstReviewIntervals[outcome]
	}

	// Recovering from a lapse: the previous answer was wrong but the cell
	// still carries an interval. Grow it cautiously.
	if !lastAnswerCorrect && outcome == domain.ReviewOutcomeGood {
		return int(float64(currentInterval) * 1.5)
	}

	var modifier float64
	if outcome == domain.ReviewOutcomeGood {
		modifier = ease
	} else {
		modifier = params.IntervalModifier[outcome]
		if outcome == domain.ReviewOutcomeEasy {
			modifier *= ease
		}
	}

	return int(float64(currentInterval) * modifier)
}

// calculateNextDue converts the calculated interval into the next review
// time. "Again" outcomes are rescheduled in minutes so a failed cell comes
// back within the same session.
func calculateNextDue(interval int, outcome domain.ReviewOutcome, now time.Time, params *Params) time.Time {
	if outcome == domain.ReviewOutcomeAgain {
		return now.Add(time.Duration(params.AgainReviewMinutes) * time.Minute)
	}

	return now.AddDate(0, 0, interval)
}

// calculateNextCell creates a new ScheduleCell with updated values based on
// the review outcome. The input cell is never modified: the function returns
// a fresh copy with the new schedule, following the immutable update pattern.
//
// Lapse accounting: an "Again" answer on a cell that has been reviewed before
// counts as a lapse. Once lapses reach the configured threshold the leech
// flag latches; it is never cleared by further reviews.
func calculateNextCell(
	cell *domain.ScheduleCell,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) *domain.ScheduleCell {
	next := cell.Clone()

	next.Reps++
	next.Ease = calculateNewEase(cell.Ease, outcome, params)

	if outcome == domain.ReviewOutcomeAgain {
		if cell.Reps > 0 {
			next.Lapses++
		}
		next.LastAnswerCorrect = false
	} else {
		next.LastAnswerCorrect = true
	}

	if next.Lapses >= params.LeechLapseThreshold {
		next.Leech = true
	}

	next.Interval = calculateNewInterval(
		cell.Interval,
		cell.LastAnswerCorrect || cell.Reps == 0,
		next.Ease,
		outcome,
		params,
	)

	next.NextDueAt = calculateNextDue(next.Interval, outcome, now, params)
	next.UpdatedAt = now

	return next
}
