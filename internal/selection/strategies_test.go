package selection

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadell/conjugo-api/internal/domain"
)

func TestRecencyVariety_AvoidsRecentSlots(t *testing.T) {
	t.Parallel()

	candidates := testForms()
	v := &RecencyVariety{Window: 10, Rng: rand.New(rand.NewSource(5))}

	// Everything but the preterite form was drilled recently.
	history := []domain.Form{candidates[0], candidates[1], candidates[3]}

	for i := 0; i < 10; i++ {
		form, ok := v.Pick(candidates, history)
		require.True(t, ok)
		assert.Equal(t, domain.TensePreterite, form.Tense)
	}
}

func TestRecencyVariety_AllSeenYieldsNothing(t *testing.T) {
	t.Parallel()

	candidates := testForms()
	v := &RecencyVariety{Window: 10}

	_, ok := v.Pick(candidates, candidates)
	assert.False(t, ok, "a fully recent candidate set defers to the fallback pick")
}

func TestRecencyVariety_WindowForgetsOldHistory(t *testing.T) {
	t.Parallel()

	candidates := testForms()
	v := &RecencyVariety{Window: 2, Rng: rand.New(rand.NewSource(5))}

	// The full pool was seen, but only the last two entries count.
	history := []domain.Form{candidates[2], candidates[3], candidates[0], candidates[1]}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		form, ok := v.Pick(candidates, history)
		require.True(t, ok)
		seen[form.Value] = true
		assert.NotEqual(t, candidates[0].Value, form.Value)
		assert.NotEqual(t, candidates[1].Value, form.Value)
	}
	assert.True(t, seen[candidates[2].Value], "forms outside the window become eligible again")
}

func TestRecencyVariety_EmptyCandidates(t *testing.T) {
	t.Parallel()

	v := &RecencyVariety{}
	_, ok := v.Pick(nil, nil)
	assert.False(t, ok)
}

func TestRandomChooser_ExcludesPreviousDrill(t *testing.T) {
	t.Parallel()

	pool := testForms()
	exclude := pool[0]
	c := &RandomChooser{Rng: rand.New(rand.NewSource(9))}

	for i := 0; i < 50; i++ {
		form, ok := c.Choose(pool, nil, &exclude)
		require.True(t, ok)
		assert.NotEqual(t, exclude.Value, form.Value)
	}
}

func TestRandomChooser_WaivesExclusionForSingleFormPool(t *testing.T) {
	t.Parallel()

	pool := testForms()[:1]
	exclude := pool[0]
	c := &RandomChooser{Rng: rand.New(rand.NewSource(9))}

	form, ok := c.Choose(pool, nil, &exclude)
	require.True(t, ok, "a single-form pool must still produce a drill")
	assert.Equal(t, exclude.Value, form.Value)
}

func TestRandomChooser_EmptyPool(t *testing.T) {
	t.Parallel()

	c := &RandomChooser{}
	_, ok := c.Choose(nil, nil, nil)
	assert.False(t, ok)
}

func TestCurriculumRecommender_SuggestsMostAdvancedTense(t *testing.T) {
	t.Parallel()

	r := &CurriculumRecommender{Rng: rand.New(rand.NewSource(2))}

	rec, err := r.Recommend(context.Background(), uuid.New(), domain.LevelA1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.MoodIndicative, rec.Mood)
	assert.Equal(t, domain.TensePresent, rec.Tense)
	assert.NotEmpty(t, rec.VerbID, "present tense has paradigmatic irregulars attached")

	rec, err = r.Recommend(context.Background(), uuid.New(), domain.LevelB2)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.MoodSubjunctive, rec.Mood)
	assert.Equal(t, domain.TenseSubjPresent, rec.Tense)
}

func TestCurriculumRecommender_DeterministicUnderSeed(t *testing.T) {
	t.Parallel()

	first := &CurriculumRecommender{Rng: rand.New(rand.NewSource(42))}
	second := &CurriculumRecommender{Rng: rand.New(rand.NewSource(42))}

	recA, err := first.Recommend(context.Background(), uuid.New(), domain.LevelA2)
	require.NoError(t, err)
	recB, err := second.Recommend(context.Background(), uuid.New(), domain.LevelA2)
	require.NoError(t, err)

	assert.Equal(t, recA, recB)
}

func TestCurriculumRecommender_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &CurriculumRecommender{}
	_, err := r.Recommend(ctx, uuid.New(), domain.LevelA1)
	assert.ErrorIs(t, err, context.Canceled)
}
