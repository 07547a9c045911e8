package selection

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/catalog"
	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/platform/logger"
	"github.com/cadell/conjugo-api/internal/store"
)

// Selection methods, recorded on every result for analytics and debugging.
// The method identifies which stage produced the form; it carries no
// correctness weight.
const (
	MethodSRSDueWithVariety   = "srs_due_with_variety"
	MethodAdaptiveWithVariety = "adaptive_recommendation_with_variety"
	MethodStandardGenerator   = "standard_generator"
)

// StageError records a recoverable failure encountered during selection,
// tagged with the stage that produced it. Only the adaptive stage is
// expected to contribute entries.
type StageError struct {
	Stage string
	Err   error
}

// SelectionResult is the outcome of one selection turn. Form is nil only
// when no stage had a candidate (an empty or over-narrowed pool); Method is
// set exactly when Form is non-nil. The result is produced fresh each turn
// and consumed immediately.
type SelectionResult struct {
	Form   *domain.Form
	Method string
	Errors []StageError
}

// CurriculumGate filters due cells down to those the user's settings can
// actually drill. Injected so the selector stays independent of the
// curriculum tables.
type CurriculumGate func(cells []*domain.ScheduleCell, settings domain.Settings) []*domain.ScheduleCell

// Request carries the per-turn inputs to selection. A Nil UserID marks an
// anonymous session: the SRS stage is skipped entirely.
type Request struct {
	UserID      uuid.UUID
	Settings    domain.Settings
	SessionType domain.ReviewSessionType
	Filter      domain.ReviewSessionFilter
	History     []domain.Form // most recent last
	Exclude     *domain.Form  // the previous drill, never repeated immediately
	Now         time.Time
}

// Selector is the hierarchical form selector: three stages evaluated in
// strict priority order, where the first stage with a non-empty candidate
// set wins. All strategies are injected; the zero dependencies fall back to
// the package defaults.
type Selector struct {
	schedule    store.ScheduleStore
	gate        CurriculumGate
	variety     VarietyStrategy
	recommender AdaptiveRecommender
	chooser     Chooser
	rng         *rand.Rand
	logger      *slog.Logger
}

// SelectorConfig collects the Selector's dependencies. Schedule may be nil
// when the deployment has no SRS store; Variety, Recommender and Chooser
// default to the package strategies when nil.
type SelectorConfig struct {
	Schedule    store.ScheduleStore
	Gate        CurriculumGate
	Variety     VarietyStrategy
	Recommender AdaptiveRecommender
	Chooser     Chooser
	Rng         *rand.Rand
	Logger      *slog.Logger
}

// NewSelector creates a Selector from the config, filling in default
// strategies where none are provided.
func NewSelector(cfg SelectorConfig) *Selector {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	variety := cfg.Variety
	if variety == nil {
		variety = &RecencyVariety{Window: 10, Rng: cfg.Rng}
	}
	chooser := cfg.Chooser
	if chooser == nil {
		chooser = &RandomChooser{Rng: cfg.Rng}
	}
	recommender := cfg.Recommender
	if recommender == nil {
		recommender = &CurriculumRecommender{Rng: cfg.Rng}
	}

	gate := cfg.Gate
	if gate == nil {
		gate = catalog.GateDueCellsByCurriculum
	}

	return &Selector{
		schedule:    cfg.Schedule,
		gate:        gate,
		variety:     variety,
		recommender: recommender,
		chooser:     chooser,
		rng:         cfg.Rng,
		logger:      log.With(slog.String("component", "form_selector")),
	}
}

// SelectNextForm picks exactly one form for the turn, or none when the pool
// has no eligible forms. The fallback chain, in order:
//
//  1. SRS-due: a due cell chosen at random, drilled with the variety
//     strategy over the cell's matching forms.
//  2. Adaptive recommendation: an external suggestion of what to drill,
//     with any recommender failure recorded and swallowed.
//  3. Generic chooser over the full pool.
//
// Exactly one authoritative selection is produced per call; errors from the
// adaptive stage accumulate on the result without aborting selection.
func (s *Selector) SelectNextForm(ctx context.Context, pool *FormsPool, req Request) SelectionResult {
	log := logger.FromContextOrDefault(ctx, s.logger)
	result := SelectionResult{}

	if pool == nil || len(pool.Forms) == 0 {
		log.Warn("selection requested against empty forms pool")
		return result
	}

	constraints := BuildSpecificConstraints(req.Settings, req.SessionType, req.Filter)

	if form, ok := s.selectFromDueCells(ctx, pool, req, constraints, log); ok {
		result.Form = &form
		result.Method = MethodSRSDueWithVariety
		return result
	}

	if form, ok := s.selectFromRecommendation(ctx, pool, req, &result, log); ok {
		result.Form = &form
		result.Method = MethodAdaptiveWithVariety
		return result
	}

	if form, ok := s.chooser.Choose(pool.Forms, req.History, req.Exclude); ok {
		result.Form = &form
		result.Method = MethodStandardGenerator
		return result
	}

	log.Warn("all selection stages exhausted without a candidate",
		slog.String("signature", pool.Signature))
	return result
}

// selectFromDueCells implements the SRS-due stage.
func (s *Selector) selectFromDueCells(
	ctx context.Context,
	pool *FormsPool,
	req Request,
	constraints SpecificConstraints,
	log *slog.Logger,
) (domain.Form, bool) {
	if req.UserID == uuid.Nil || s.schedule == nil {
		return domain.Form{}, false
	}

	cells, err := s.schedule.GetDueCells(ctx, req.UserID, req.Now)
	if err != nil {
		// A store failure degrades to "nothing due"; the later stages still
		// produce a drill for the turn.
		log.Warn("failed to fetch due cells, skipping SRS stage",
			slog.String("error", err.Error()),
			slog.String("user_id", req.UserID.String()))
		return domain.Form{}, false
	}

	cells = s.gate(cells, req.Settings)

	if constraints.IsSpecific {
		narrowed := make([]*domain.ScheduleCell, 0, len(cells))
		for _, cell := range cells {
			if cell.Mood == constraints.Mood && cell.Tense == constraints.Tense {
				narrowed = append(narrowed, cell)
			}
		}
		cells = narrowed
	}

	if req.Settings.PracticeMode == domain.PracticeModeReview {
		cells = ApplyReviewSessionFilter(cells, req.SessionType, req.Filter, req.Now)
	}

	cell := SelectDueCandidate(cells, s.rng)
	if cell == nil {
		return domain.Form{}, false
	}

	// When the turn is not locked to a topic, the person is left open:
	// drilling any person of the due mood/tense preserves variety without
	// starving the due cell.
	var candidates []domain.Form
	if constraints.IsSpecific {
		candidates = pool.Index().FormsForPerson(cell.Mood, cell.Tense, cell.Person)
	} else {
		candidates = pool.Index().FormsFor(cell.Mood, cell.Tense)
	}

	candidates = filterByVerbType(candidates, req.Settings.VerbType)
	if len(candidates) == 0 {
		return domain.Form{}, false
	}

	return s.pickWithVariety(candidates, req.History), true
}

// selectFromRecommendation implements the adaptive-recommendation stage.
// Recommender failures are recorded on the result and treated as "no
// recommendation".
func (s *Selector) selectFromRecommendation(
	ctx context.Context,
	pool *FormsPool,
	req Request,
	result *SelectionResult,
	log *slog.Logger,
) (domain.Form, bool) {
	if s.recommender == nil {
		return domain.Form{}, false
	}

	rec, err := s.recommender.Recommend(ctx, req.UserID, req.Settings.Level)
	if err != nil {
		log.Warn("adaptive recommender failed",
			slog.String("error", err.Error()))
		result.Errors = append(result.Errors, StageError{Stage: "adaptive", Err: err})
		return domain.Form{}, false
	}
	if rec == nil || rec.Mood == "" || rec.Tense == "" {
		return domain.Form{}, false
	}

	candidates := pool.Index().FormsFor(rec.Mood, rec.Tense)
	if len(candidates) == 0 {
		return domain.Form{}, false
	}

	// The verb hint is advisory: honored only when the narrowed set is
	// non-empty.
	if rec.VerbID != "" {
		narrowed := make([]domain.Form, 0, len(candidates))
		for _, f := range candidates {
			if f.Lemma == rec.VerbID {
				narrowed = append(narrowed, f)
			}
		}
		if len(narrowed) > 0 {
			candidates = narrowed
		}
	}

	return s.pickWithVariety(candidates, req.History), true
}

// pickWithVariety applies the variety strategy, falling back to a uniform
// pick from the same candidate set when the strategy yields nothing.
func (s *Selector) pickWithVariety(candidates []domain.Form, history []domain.Form) domain.Form {
	if form, ok := s.variety.Pick(candidates, history); ok {
		return form
	}
	return candidates[intn(s.rng, len(candidates))]
}

// filterByVerbType narrows candidates by the configured verb-type filter.
func filterByVerbType(candidates []domain.Form, verbType domain.VerbType) []domain.Form {
	if verbType == "" || verbType == domain.VerbTypeAll {
		return candidates
	}
	out := make([]domain.Form, 0, len(candidates))
	for _, f := range candidates {
		entry, ok := catalog.VerbByLemma(f.Lemma)
		if !ok {
			continue
		}
		if verbType == domain.VerbTypeIrregular && !entry.Irregular() {
			continue
		}
		if verbType == domain.VerbTypeRegular && entry.Irregular() {
			continue
		}
		out = append(out, f)
	}
	return out
}
