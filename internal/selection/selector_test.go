package selection

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadell/conjugo-api/internal/domain"
	"github.com/cadell/conjugo-api/internal/store"
)

// stubScheduleStore serves a fixed due queue.
type stubScheduleStore struct {
	cells []*domain.ScheduleCell
	err   error
}

func (s *stubScheduleStore) GetDueCells(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.ScheduleCell, error) {
	return s.cells, s.err
}

func (s *stubScheduleStore) GetByCell(ctx context.Context, userID uuid.UUID, mood, tense, person string) (*domain.ScheduleCell, error) {
	return nil, store.ErrScheduleCellNotFound
}

func (s *stubScheduleStore) Save(ctx context.Context, cell *domain.ScheduleCell) error {
	return nil
}

func (s *stubScheduleStore) WithTx(tx *sql.Tx) store.ScheduleStore { return s }

// stubRecommender returns a fixed recommendation or error.
type stubRecommender struct {
	rec *Recommendation
	err error
}

func (r *stubRecommender) Recommend(ctx context.Context, userID uuid.UUID, level domain.Level) (*Recommendation, error) {
	return r.rec, r.err
}

func selectorPool() *FormsPool {
	return &FormsPool{Forms: testForms(), Signature: "test"}
}

func baseRequest() Request {
	return Request{
		UserID:   uuid.New(),
		Settings: domain.Settings{Level: domain.LevelB2},
		Now:      time.Now().UTC(),
	}
}

func TestSelectNextForm_EmptyPool(t *testing.T) {
	t.Parallel()

	s := NewSelector(SelectorConfig{})

	result := s.SelectNextForm(context.Background(), nil, baseRequest())
	assert.Nil(t, result.Form)
	assert.Empty(t, result.Method)

	result = s.SelectNextForm(context.Background(), &FormsPool{}, baseRequest())
	assert.Nil(t, result.Form)
}

func TestSelectNextForm_DueCellWinsFirst(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	sched := &stubScheduleStore{cells: []*domain.ScheduleCell{
		dueCell(domain.MoodIndicative, domain.TensePreterite, domain.Person1s, now.Add(-time.Hour)),
	}}
	s := NewSelector(SelectorConfig{
		Schedule:    sched,
		Recommender: &stubRecommender{rec: &Recommendation{Mood: domain.MoodIndicative, Tense: domain.TensePresent}},
		Rng:         rand.New(rand.NewSource(1)),
	})

	result := s.SelectNextForm(context.Background(), selectorPool(), baseRequest())

	require.NotNil(t, result.Form)
	assert.Equal(t, MethodSRSDueWithVariety, result.Method)
	assert.Equal(t, domain.TensePreterite, result.Form.Tense, "drill targets the due cell's slot")
	assert.Empty(t, result.Errors)
}

func TestSelectNextForm_AnonymousSkipsSRSStage(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	sched := &stubScheduleStore{cells: []*domain.ScheduleCell{
		dueCell(domain.MoodIndicative, domain.TensePreterite, domain.Person1s, now.Add(-time.Hour)),
	}}
	s := NewSelector(SelectorConfig{
		Schedule:    sched,
		Recommender: &stubRecommender{},
		Rng:         rand.New(rand.NewSource(1)),
	})

	req := baseRequest()
	req.UserID = uuid.Nil
	result := s.SelectNextForm(context.Background(), selectorPool(), req)

	require.NotNil(t, result.Form)
	assert.Equal(t, MethodStandardGenerator, result.Method)
}

func TestSelectNextForm_StoreFailureFallsThrough(t *testing.T) {
	t.Parallel()

	sched := &stubScheduleStore{err: errors.New("connection refused")}
	s := NewSelector(SelectorConfig{
		Schedule:    sched,
		Recommender: &stubRecommender{},
		Rng:         rand.New(rand.NewSource(1)),
	})

	result := s.SelectNextForm(context.Background(), selectorPool(), baseRequest())

	require.NotNil(t, result.Form, "a broken store must not abort selection")
	assert.Equal(t, MethodStandardGenerator, result.Method)
	assert.Empty(t, result.Errors, "store failures are logged, not surfaced")
}

func TestSelectNextForm_RecommendationStage(t *testing.T) {
	t.Parallel()

	s := NewSelector(SelectorConfig{
		Schedule: &stubScheduleStore{},
		Recommender: &stubRecommender{
			rec: &Recommendation{Mood: domain.MoodIndicative, Tense: domain.TensePreterite, VerbID: "hablar"},
		},
		Rng: rand.New(rand.NewSource(1)),
	})

	result := s.SelectNextForm(context.Background(), selectorPool(), baseRequest())

	require.NotNil(t, result.Form)
	assert.Equal(t, MethodAdaptiveWithVariety, result.Method)
	assert.Equal(t, domain.TensePreterite, result.Form.Tense)
	assert.Equal(t, "hablar", result.Form.Lemma)
}

func TestSelectNextForm_RecommenderErrorIsRecorded(t *testing.T) {
	t.Parallel()

	s := NewSelector(SelectorConfig{
		Schedule:    &stubScheduleStore{},
		Recommender: &stubRecommender{err: errors.New("quota exceeded")},
		Rng:         rand.New(rand.NewSource(1)),
	})

	result := s.SelectNextForm(context.Background(), selectorPool(), baseRequest())

	require.NotNil(t, result.Form, "recommender failure must not abort selection")
	assert.Equal(t, MethodStandardGenerator, result.Method)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "adaptive", result.Errors[0].Stage)
}

func TestSelectNextForm_UnhonorableVerbHintIsAdvisory(t *testing.T) {
	t.Parallel()

	s := NewSelector(SelectorConfig{
		Schedule: &stubScheduleStore{},
		Recommender: &stubRecommender{
			rec: &Recommendation{Mood: domain.MoodIndicative, Tense: domain.TensePreterite, VerbID: "zurcir"},
		},
		Rng: rand.New(rand.NewSource(1)),
	})

	result := s.SelectNextForm(context.Background(), selectorPool(), baseRequest())

	require.NotNil(t, result.Form)
	assert.Equal(t, MethodAdaptiveWithVariety, result.Method)
	assert.Equal(t, "hablar", result.Form.Lemma, "unknown verb hint falls back to the slot's forms")
}

func TestSelectNextForm_ExcludeNeverRepeats(t *testing.T) {
	t.Parallel()

	pool := &FormsPool{Forms: []domain.Form{
		{Lemma: "hablar", Mood: domain.MoodIndicative, Tense: domain.TensePresent, Person: domain.Person1s, Value: "hablo"},
		{Lemma: "hablar", Mood: domain.MoodIndicative, Tense: domain.TensePresent, Person: domain.Person3s, Value: "habla"},
	}}
	exclude := pool.Forms[0]

	s := NewSelector(SelectorConfig{Rng: rand.New(rand.NewSource(3))})

	req := baseRequest()
	req.UserID = uuid.Nil
	req.Exclude = &exclude

	for i := 0; i < 20; i++ {
		result := s.SelectNextForm(context.Background(), pool, req)
		require.NotNil(t, result.Form)
		assert.NotEqual(t, exclude.Value, result.Form.Value)
	}
}

func TestSelectNextForm_SpecificReviewNarrowsDueCells(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	sched := &stubScheduleStore{cells: []*domain.ScheduleCell{
		dueCell(domain.MoodIndicative, domain.TensePresent, domain.Person1s, now.Add(-2*time.Hour)),
		dueCell(domain.MoodIndicative, domain.TensePreterite, domain.Person1s, now.Add(-time.Hour)),
	}}
	s := NewSelector(SelectorConfig{
		Schedule:    sched,
		Recommender: &stubRecommender{},
		Rng:         rand.New(rand.NewSource(1)),
	})

	req := baseRequest()
	req.Settings.PracticeMode = domain.PracticeModeReview
	req.SessionType = domain.ReviewSessionSpecific
	req.Filter = domain.ReviewSessionFilter{Mood: domain.MoodIndicative, Tense: domain.TensePreterite}

	for i := 0; i < 10; i++ {
		result := s.SelectNextForm(context.Background(), selectorPool(), req)
		require.NotNil(t, result.Form)
		assert.Equal(t, MethodSRSDueWithVariety, result.Method)
		assert.Equal(t, domain.TensePreterite, result.Form.Tense)
		assert.Equal(t, domain.Person1s, result.Form.Person, "specific sessions pin the due cell's person")
	}
}
