package practice

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/domain/srs"
	"github.com/cadell/conjugo-api/internal/family"
	"github.com/cadell/conjugo-api/internal/platform/logger"
	"github.com/cadell/conjugo-api/internal/selection"
	"github.com/cadell/conjugo-api/internal/store"
)

// practiceService implements the Service interface.
type practiceService struct {
	resolver *selection.PoolResolver
	selector *selection.Selector
	srs      srs.Service
	families *family.Engine
	schedule store.ScheduleStore
	db       *sql.DB // optional; when nil, answer updates run untransacted
	logger   *slog.Logger

	// The pool cache is not safe for concurrent use on its own, so the
	// service serializes access to it.
	mu    sync.Mutex
	cache *selection.Cache
}

// Ensure practiceService implements the Service interface.
var _ Service = (*practiceService)(nil)

// NewService creates a practice service. Resolver, selector, srsService,
// families and schedule are required; db may be nil for deployments without
// a relational store (answer updates then run untransacted).
// If logger is nil, a default logger will be used.
func NewService(
	resolver *selection.PoolResolver,
	selector *selection.Selector,
	srsService srs.Service,
	families *family.Engine,
	schedule store.ScheduleStore,
	db *sql.DB,
	logger *slog.Logger,
) Service {
	if resolver == nil {
		panic("pool resolver cannot be nil")
	}
	if selector == nil {
		panic("selector cannot be nil")
	}
	if srsService == nil {
		panic("srs service cannot be nil")
	}
	if families == nil {
		panic("family engine cannot be nil")
	}
	if schedule == nil {
		panic("schedule store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &practiceService{
		resolver: resolver,
		selector: selector,
		srs:      srsService,
		families: families,
		schedule: schedule,
		db:       db,
		logger:   logger.With(slog.String("component", "practice_service")),
		cache:    selection.NewCache(),
	}
}

// NextDrill implements the Service interface.
func (s *practiceService) NextDrill(ctx context.Context, req DrillRequest) (*DrillResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	region := req.Region
	if region == "" {
		region = domain.RegionLatinAmerica
	}

	s.mu.Lock()
	pool, stats, err := s.resolver.Resolve(ctx, region, req.Settings, s.cache)
	s.mu.Unlock()
	if err != nil {
		log.Error("failed to resolve forms pool",
			slog.String("error", err.Error()),
			slog.String("region", region))
		return nil, NewNextDrillError("failed to resolve forms pool", err)
	}
	if len(pool.Forms) == 0 {
		return nil, ErrNoEligibleForms
	}

	selReq := selection.Request{
		UserID:      req.UserID,
		Settings:    req.Settings,
		SessionType: req.SessionType,
		Filter:      req.Filter,
		History:     req.History,
		Exclude:     req.Exclude,
		Now:         time.Now().UTC(),
	}
	result := s.selector.SelectNextForm(ctx, pool, selReq)
	if result.Form == nil {
		return nil, ErrNoEligibleForms
	}

	log.Debug("drill selected",
		slog.String("method", result.Method),
		slog.String("lemma", result.Form.Lemma),
		slog.String("tense", result.Form.Tense),
		slog.Bool("pool_reused", stats.Reused))

	return &DrillResult{
		Form:         result.Form,
		Method:       result.Method,
		Errors:       result.Errors,
		PoolReused:   stats.Reused,
		PoolDuration: stats.Duration,
	}, nil
}

// SubmitAnswer implements the Service interface.
//
// The schedule update is computed from the stored cell and the outcome, then
// the clustering boost is applied for correct answers only: a lapse must not
// be softened by the learner's progress on related verbs. When a database
// handle is present, the read-modify-write runs in one transaction.
func (s *practiceService) SubmitAnswer(ctx context.Context, userID uuid.UUID, req AnswerRequest) (*SubmitResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, NewSubmitAnswerError("user ID is required", domain.ErrEmptyCellUserID)
	}
	if !req.Outcome.IsValid() {
		return nil, ErrInvalidAnswer
	}
	if req.Mood == "" || req.Tense == "" || req.Person == "" {
		return nil, ErrInvalidCell
	}

	now := time.Now().UTC()
	var result *SubmitResult

	process := func(ctx context.Context, sched store.ScheduleStore) error {
		cell, err := sched.GetByCell(ctx, userID, req.Mood, req.Tense, req.Person)
		if err != nil {
			if !store.IsNotFoundError(err) {
				return NewSubmitAnswerError("failed to load schedule cell", err)
			}
			cell, err = domain.NewScheduleCell(userID, req.Mood, req.Tense, req.Person, now)
			if err != nil {
				return NewSubmitAnswerError("failed to create schedule cell", err)
			}
		}

		updated, err := s.srs.CalculateNextReview(cell, req.Outcome, now)
		if err != nil {
			return NewSubmitAnswerError("failed to calculate next review", err)
		}

		res := &SubmitResult{Cell: updated, BoostMultiplier: 1.0}
		if req.Outcome.Correct() && req.Lemma != "" {
			boost := s.families.ApplyClusteringBoost(ctx, userID, req.Lemma, updated)
			res.Cell = boost.Cell
			res.BoostApplied = boost.Applied
			res.FamilyMastery = boost.FamilyMastery
			res.BoostMultiplier = boost.BoostMultiplier
		}

		if err := sched.Save(ctx, res.Cell); err != nil {
			return NewSubmitAnswerError("failed to save schedule cell", err)
		}
		result = res
		return nil
	}

	var err error
	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return process(ctx, s.schedule.WithTx(tx))
		})
	} else {
		err = process(ctx, s.schedule)
	}
	if err != nil {
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			err = NewSubmitAnswerError("failed to process answer", err)
		}
		log.Error("answer submission failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Debug("answer processed",
		slog.String("outcome", string(req.Outcome)),
		slog.Int("interval", result.Cell.Interval),
		slog.Bool("boost_applied", result.BoostApplied),
		slog.String("user_id", userID.String()))

	return result, nil
}

// Heatmap implements the Service interface.
func (s *practiceService) Heatmap(ctx context.Context, userID uuid.UUID, filter domain.ReviewSessionFilter) ([]HeatmapCell, error) {
	if userID == uuid.Nil {
		return nil, NewNextDrillError("user ID is required", domain.ErrEmptyCellUserID)
	}

	now := time.Now().UTC()
	cells, err := s.schedule.GetDueCells(ctx, userID, now)
	if err != nil {
		return nil, &ServiceError{Operation: "heatmap", Message: "failed to fetch due cells", Err: err}
	}

	cells = selection.ApplyReviewSessionFilter(cells, domain.ReviewSessionMixed, filter, now)

	out := make([]HeatmapCell, 0, len(cells))
	for _, cell := range cells {
		out = append(out, HeatmapCell{
			Mood:      cell.Mood,
			Tense:     cell.Tense,
			Person:    cell.Person,
			Urgency:   selection.ComputeUrgencyLevel(cell.NextDueAt, now),
			Interval:  cell.Interval,
			Ease:      cell.Ease,
			Leech:     cell.Leech,
			NextDueAt: cell.NextDueAt,
		})
	}
	return out, nil
}

// FamilyRecommendations implements the Service interface.
func (s *practiceService) FamilyRecommendations(ctx context.Context, userID uuid.UUID, mood, tense, person string, limit int) []domain.FamilyMastery {
	return s.families.Recommendations(ctx, userID, mood, tense, person, limit)
}

// FamilyStatistics implements the Service interface.
func (s *practiceService) FamilyStatistics(ctx context.Context, userID uuid.UUID, person string) []domain.FamilyMastery {
	return s.families.Statistics(ctx, userID, person)
}
