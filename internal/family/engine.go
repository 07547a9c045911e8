package family

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/catalog"
	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/platform/logger"
	"github.com/cadell/conjugo-api/internal/store"
)

// Mastery computation constants. The weights sum to 1.0 with the baseline;
// the penalties and bonus scale the weighted sum.
const (
	// minFamilySize excludes tiny families from clustering: fewer than three
	// member verbs is too little evidence that a pattern generalizes.
	minFamilySize = 3

	intervalWeight   = 0.4
	easeWeight       = 0.3
	repsWeight       = 0.2
	masteryBaseline  = 0.1
	intervalCeiling  = 30.0 // days at which interval counts as fully known
	repsCeiling      = 10.0 // reps at which repetition counts as fully known
	lapseDecayFactor = 3.0  // e-folding scale of the lapse penalty
	leechPenalty     = 0.5
	recencyBonus     = 1.1
	recencyPenalty   = 0.9
)

// Boost constants. The mastery floor gates any transfer at all; the
// multiplier cap prevents runaway acceleration of the schedule.
const (
	boostMasteryFloor   = 0.3
	transferBoostFactor = 0.3
	intervalBoostFactor = 1.3
	maxBoostMultiplier  = 2.0
	easeBoostFactor     = 0.2
)

// Sweet-spot band for recommendations: patterns recognizable but not yet
// saturated.
const (
	recommendFloor    = 0.3
	recommendCeiling  = 0.9
	masteredThreshold = 0.8
)

// BoostResult is the outcome of a clustering boost application: the
// (possibly adjusted) schedule plus observability metadata. The input
// schedule is never mutated.
type BoostResult struct {
	Cell            *domain.ScheduleCell `json:"cell"`
	Applied         bool                 `json:"family_clustering_applied"`
	FamilyMastery   float64              `json:"family_mastery"`
	BoostMultiplier float64              `json:"family_boost_multiplier"`
}

// Engine computes family mastery estimates and applies the clustering boost.
// Schedule data comes from the injected store; the family taxonomy is the
// static catalog.
type Engine struct {
	schedule store.ScheduleStore
	logger   *slog.Logger
}

// NewEngine creates a family mastery engine.
// If logger is nil, a default logger will be used.
func NewEngine(schedule store.ScheduleStore, logger *slog.Logger) *Engine {
	if schedule == nil {
		panic("schedule store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		schedule: schedule,
		logger:   logger.With(slog.String("component", "family_engine")),
	}
}

// FamilyMastery estimates how well the user has internalized the family's
// pattern in the given cell, in [0,1].
//
// The schema tracks schedules per cell, not per lemma, so the cell schedule
// stands in for "how well is this pattern known in this slot". That
// conflates all verbs sharing the cell; it is a documented approximation,
// kept until per-lemma schedules exist.
//
// Store failures degrade to mastery 0 for the family rather than
// propagating: a broken lookup must never block the schedule update it
// feeds into.
func (e *Engine) FamilyMastery(
	ctx context.Context,
	userID uuid.UUID,
	familyID, mood, tense, person string,
) domain.FamilyMastery {
	log := logger.FromContextOrDefault(ctx, e.logger)

	result := domain.FamilyMastery{FamilyID: familyID}

	fam, ok := catalog.FamilyByID(familyID)
	if !ok || len(fam.Examples) < minFamilySize {
		return result
	}
	result.VerbCount = len(fam.Examples)

	cell, err := e.schedule.GetByCell(ctx, userID, mood, tense, person)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Warn("family mastery lookup failed, degrading to zero",
				slog.String("family_id", familyID),
				slog.String("error", err.Error()))
		}
		return result
	}

	result.Mastery = cellMastery(cell)
	result.PracticeCount = cell.Reps
	if result.Mastery >= masteredThreshold {
		result.MasteredCount = result.VerbCount
	}
	return result
}

// cellMastery is the pure mastery formula over one schedule cell.
func cellMastery(cell *domain.ScheduleCell) float64 {
	intervalScore := math.Min(1, float64(cell.Interval)/intervalCeiling)
	easeScore := (cell.Ease - domain.MinEase) / (domain.MaxEase - domain.MinEase)
	repsScore := math.Min(1, float64(cell.Reps)/repsCeiling)

	mastery := intervalWeight*intervalScore +
		easeWeight*easeScore +
		repsWeight*repsScore +
		masteryBaseline

	mastery *= math.Exp(-float64(cell.Lapses) / lapseDecayFactor)
	if cell.Leech {
		mastery *= leechPenalty
	}
	if cell.LastAnswerCorrect {
		mastery *= recencyBonus
	} else {
		mastery *= recencyPenalty
	}

	return math.Max(0, math.Min(1, mastery))
}

// ApplyClusteringBoost adjusts a freshly computed schedule update using the
// best mastery among the lemma's families. Below the mastery floor the
// update is returned unmodified. The boost is strictly promotional: the
// output interval is never below the input interval, the multiplier never
// exceeds the cap, and ease never exceeds the domain ceiling.
func (e *Engine) ApplyClusteringBoost(
	ctx context.Context,
	userID uuid.UUID,
	lemma string,
	update *domain.ScheduleCell,
) *BoostResult {
	result := &BoostResult{Cell: update, BoostMultiplier: 1.0}

	maxMastery := 0.0
	for _, familyID := range catalog.CategorizeVerb(lemma) {
		m := e.FamilyMastery(ctx, userID, familyID, update.Mood, update.Tense, update.Person)
		if m.Mastery > maxMastery {
			maxMastery = m.Mastery
		}
	}
	result.FamilyMastery = maxMastery

	if maxMastery < boostMasteryFloor {
		return result
	}

	transferBoost := transferBoostFactor * maxMastery
	multiplier := math.Min(maxBoostMultiplier, 1+transferBoost*intervalBoostFactor)

	boosted := update.Clone()
	boosted.Interval = boostedInterval(update.Interval, multiplier)
	boosted.Ease = math.Min(domain.MaxEase, update.Ease+transferBoost*easeBoostFactor)
	if update.Interval > 0 {
		boosted.NextDueAt = update.UpdatedAt.AddDate(0, 0, boosted.Interval)
	}

	result.Cell = boosted
	result.Applied = true
	result.BoostMultiplier = multiplier
	return result
}

// boostedInterval applies the multiplier with rounding and a one-day floor,
// and never shrinks the proposed interval.
func boostedInterval(interval int, multiplier float64) int {
	boosted := int(math.Round(float64(interval) * multiplier))
	if boosted < 1 {
		boosted = 1
	}
	if boosted < interval {
		boosted = interval
	}
	return boosted
}

// Recommendations returns the families in the sweet-spot mastery band for
// the cell, sorted by descending mastery so near-complete patterns surface
// first. Limit 0 means no truncation.
func (e *Engine) Recommendations(
	ctx context.Context,
	userID uuid.UUID,
	mood, tense, person string,
	limit int,
) []domain.FamilyMastery {
	var out []domain.FamilyMastery
	for _, familyID := range sortedFamilyIDs() {
		m := e.FamilyMastery(ctx, userID, familyID, mood, tense, person)
		if m.VerbCount == 0 {
			continue
		}
		if m.Mastery >= recommendFloor && m.Mastery <= recommendCeiling {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mastery > out[j].Mastery
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Statistics reports mastery for every family across its affected tenses in
// the given person column: per-family average mastery, total practice, and
// how many affected tenses are mastered. Read-only; built on the same
// mastery computation as the boost path.
func (e *Engine) Statistics(
	ctx context.Context,
	userID uuid.UUID,
	person string,
) []domain.FamilyMastery {
	var out []domain.FamilyMastery
	for _, familyID := range sortedFamilyIDs() {
		fam, _ := catalog.FamilyByID(familyID)
		if len(fam.Examples) < minFamilySize || len(fam.AffectedTenses) == 0 {
			continue
		}

		agg := domain.FamilyMastery{FamilyID: familyID, VerbCount: len(fam.Examples)}
		total := 0.0
		for _, tense := range fam.AffectedTenses {
			m := e.FamilyMastery(ctx, userID, familyID, moodForTense(tense), tense, person)
			total += m.Mastery
			agg.PracticeCount += m.PracticeCount
			if m.Mastery >= masteredThreshold {
				agg.MasteredCount++
			}
		}
		agg.Mastery = total / float64(len(fam.AffectedTenses))
		out = append(out, agg)
	}
	return out
}

func moodForTense(tense string) string {
	if tense == domain.TenseSubjPresent {
		return domain.MoodSubjunctive
	}
	return domain.MoodIndicative
}

func sortedFamilyIDs() []string {
	ids := make([]string, 0, len(catalog.IrregularFamilies))
	for id := range catalog.IrregularFamilies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
