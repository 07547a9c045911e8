package family

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadell/conjugo-api/internal/catalog"
	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/store"
)

// strongCell returns a cell whose schedule signals high mastery.
func strongCell(userID uuid.UUID, mood, tense, person string) *domain.ScheduleCell {
	now := time.Now().UTC()
	return &domain.ScheduleCell{
		UserID:            userID,
		Mood:              mood,
		Tense:             tense,
		Person:            person,
		Interval:          30,
		Ease:              3.0,
		Reps:              12,
		LastAnswerCorrect: true,
		NextDueAt:         now.AddDate(0, 0, 30),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func seedStore(t *testing.T, cells ...*domain.ScheduleCell) *store.MemoryScheduleStore {
	t.Helper()
	s := store.NewMemoryScheduleStore()
	for _, cell := range cells {
		require.NoError(t, s.Save(context.Background(), cell))
	}
	return s
}

// failingStore simulates an unavailable schedule backend.
type failingStore struct {
	*store.MemoryScheduleStore
}

func (s *failingStore) GetByCell(ctx context.Context, userID uuid.UUID, mood, tense, person string) (*domain.ScheduleCell, error) {
	return nil, errors.New("connection refused")
}

func TestCellMastery(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("strong schedule approaches one", func(t *testing.T) {
		t.Parallel()
		cell := strongCell(userID, domain.MoodIndicative, domain.TensePresent, domain.Person1s)
		m := cellMastery(cell)
		assert.Greater(t, m, 0.8)
		assert.LessOrEqual(t, m, 1.0)
	})

	t.Run("fresh cell is weak", func(t *testing.T) {
		t.Parallel()
		cell, err := domain.NewScheduleCell(userID, domain.MoodIndicative, domain.TensePresent, domain.Person1s, time.Now().UTC())
		require.NoError(t, err)
		m := cellMastery(cell)
		assert.Less(t, m, boostMasteryFloor)
	})

	t.Run("leech halves mastery", func(t *testing.T) {
		t.Parallel()
		// Mid-strength schedule so neither variant hits the unit clamp.
		cell := strongCell(userID, domain.MoodIndicative, domain.TensePresent, domain.Person1s)
		cell.Interval = 15
		cell.Reps = 5
		cell.Ease = 2.5
		base := cellMastery(cell)

		leech := cell.Clone()
		leech.Leech = true
		assert.InDelta(t, base*leechPenalty, cellMastery(leech), 1e-9)
	})

	t.Run("lapses decay mastery", func(t *testing.T) {
		t.Parallel()
		cell := strongCell(userID, domain.MoodIndicative, domain.TensePresent, domain.Person1s)
		base := cellMastery(cell)

		lapsed := cell.Clone()
		lapsed.Lapses = 6
		assert.Less(t, cellMastery(lapsed), base/2)
	})

	t.Run("always clamped to unit interval", func(t *testing.T) {
		t.Parallel()
		cell := strongCell(userID, domain.MoodIndicative, domain.TensePresent, domain.Person1s)
		cell.Interval = 1000
		cell.Reps = 1000
		cell.Ease = domain.MaxEase
		m := cellMastery(cell)
		assert.LessOrEqual(t, m, 1.0)
		assert.GreaterOrEqual(t, m, 0.0)
	})
}

func TestFamilyMastery_StoreFailureDegradesToZero(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&failingStore{store.NewMemoryScheduleStore()}, nil)

	m := engine.FamilyMastery(context.Background(), uuid.New(),
		catalog.FamilyEIE, domain.MoodIndicative, domain.TensePresent, domain.Person1s)

	assert.Equal(t, 0.0, m.Mastery)
	assert.Equal(t, catalog.FamilyEIE, m.FamilyID)
}

func TestFamilyMastery_UnknownFamily(t *testing.T) {
	t.Parallel()

	engine := NewEngine(store.NewMemoryScheduleStore(), nil)

	m := engine.FamilyMastery(context.Background(), uuid.New(),
		"portmanteau_verbs", domain.MoodIndicative, domain.TensePresent, domain.Person1s)

	assert.Equal(t, 0.0, m.Mastery)
	assert.Equal(t, 0, m.VerbCount)
}

func TestApplyClusteringBoost(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Now().UTC()

	newUpdate := func() *domain.ScheduleCell {
		return &domain.ScheduleCell{
			UserID:            userID,
			Mood:              domain.MoodIndicative,
			Tense:             domain.TensePresent,
			Person:            domain.Person1s,
			Interval:          10,
			Ease:              2.5,
			Reps:              4,
			LastAnswerCorrect: true,
			NextDueAt:         now.AddDate(0, 0, 10),
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}

	t.Run("low mastery leaves update unchanged", func(t *testing.T) {
		t.Parallel()
		engine := NewEngine(store.NewMemoryScheduleStore(), nil)
		update := newUpdate()

		result := engine.ApplyClusteringBoost(context.Background(), userID, "pensar", update)

		assert.False(t, result.Applied)
		assert.Equal(t, 1.0, result.BoostMultiplier)
		assert.Same(t, update, result.Cell)
	})

	t.Run("high family mastery extends the schedule", func(t *testing.T) {
		t.Parallel()
		seeded := seedStore(t, strongCell(userID, domain.MoodIndicative, domain.TensePresent, domain.Person1s))
		engine := NewEngine(seeded, nil)
		update := newUpdate()

		result := engine.ApplyClusteringBoost(context.Background(), userID, "pensar", update)

		require.True(t, result.Applied)
		assert.Greater(t, result.FamilyMastery, boostMasteryFloor)
		assert.Greater(t, result.BoostMultiplier, 1.0)
		assert.LessOrEqual(t, result.BoostMultiplier, maxBoostMultiplier)
		assert.GreaterOrEqual(t, result.Cell.Interval, update.Interval)
		assert.LessOrEqual(t, result.Cell.Ease, domain.MaxEase)
		assert.GreaterOrEqual(t, result.Cell.Ease, update.Ease)

		// The input update stays untouched.
		assert.Equal(t, 10, update.Interval)
		assert.Equal(t, 2.5, update.Ease)
	})

	t.Run("unknown lemma gets no boost", func(t *testing.T) {
		t.Parallel()
		seeded := seedStore(t, strongCell(userID, domain.MoodIndicative, domain.TensePresent, domain.Person1s))
		engine := NewEngine(seeded, nil)
		update := newUpdate()

		result := engine.ApplyClusteringBoost(context.Background(), userID, "googlear", update)

		assert.False(t, result.Applied)
		assert.Equal(t, 0.0, result.FamilyMastery)
	})
}

func TestBoostedInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		interval   int
		multiplier float64
		expected   int
	}{
		{"rounds to nearest day", 10, 1.26, 13},
		{"floor of one day", 0, 1.5, 1},
		{"never shrinks", 10, 0.5, 10},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, boostedInterval(tc.interval, tc.multiplier))
		})
	}
}

func TestRecommendations_SweetSpotBand(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	// A moderately known cell lands families affecting it in the sweet spot.
	cell := strongCell(userID, domain.MoodIndicative, domain.TensePresent, domain.Person1s)
	cell.Interval = 10
	cell.Reps = 4
	cell.Ease = 2.2
	engine := NewEngine(seedStore(t, cell), nil)

	recs := engine.Recommendations(context.Background(), userID,
		domain.MoodIndicative, domain.TensePresent, domain.Person1s, 0)

	require.NotEmpty(t, recs)
	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.Mastery, recommendFloor)
		assert.LessOrEqual(t, rec.Mastery, recommendCeiling)
	}
	// Sorted by descending mastery.
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Mastery, recs[i].Mastery)
	}

	limited := engine.Recommendations(context.Background(), userID,
		domain.MoodIndicative, domain.TensePresent, domain.Person1s, 2)
	assert.LessOrEqual(t, len(limited), 2)
}

func TestStatistics_AggregatesAcrossTenses(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	engine := NewEngine(seedStore(t,
		strongCell(userID, domain.MoodIndicative, domain.TensePresent, domain.Person1s),
		strongCell(userID, domain.MoodSubjunctive, domain.TenseSubjPresent, domain.Person1s),
	), nil)

	stats := engine.Statistics(context.Background(), userID, domain.Person1s)
	require.NotEmpty(t, stats)

	byID := make(map[string]domain.FamilyMastery, len(stats))
	for _, s := range stats {
		byID[s.FamilyID] = s
	}

	eie, ok := byID[catalog.FamilyEIE]
	require.True(t, ok)
	assert.Greater(t, eie.Mastery, 0.0)
	assert.Equal(t, len(catalog.IrregularFamilies[catalog.FamilyEIE].Examples), eie.VerbCount)
}
