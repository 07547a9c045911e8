package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadell/conjugo-api/internal/domain"
)

func TestConjugate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lemma    string
		tense    string
		person   string
		expected string
	}{
		// Regular paradigms
		{"regular ar present", "hablar", domain.TensePresent, domain.Person1s, "hablo"},
		{"regular ar present tu", "hablar", domain.TensePresent, domain.Person2sTu, "hablas"},
		{"regular ar present vos", "hablar", domain.TensePresent, domain.Person2sVos, "hablás"},
		{"regular er present vos", "comer", domain.TensePresent, domain.Person2sVos, "comés"},
		{"regular ir present vos", "vivir", domain.TensePresent, domain.Person2sVos, "vivís"},
		{"regular ar imperfect", "hablar", domain.TenseImperfect, domain.Person1p, "hablábamos"},
		{"regular er preterite", "comer", domain.TensePreterite, domain.Person3p, "comieron"},
		{"regular future", "hablar", domain.TenseFuture, domain.Person3s, "hablará"},
		{"regular conditional", "vivir", domain.TenseConditional, domain.Person1s, "viviría"},

		// Diphthongizing stem changes apply only in stressed slots
		{"e to ie stressed", "pensar", domain.TensePresent, domain.Person1s, "pienso"},
		{"e to ie third plural", "pensar", domain.TensePresent, domain.Person3p, "piensan"},
		{"e to ie skips nosotros", "pensar", domain.TensePresent, domain.Person1p, "pensamos"},
		{"e to ie skips vos", "pensar", domain.TensePresent, domain.Person2sVos, "pensás"},
		{"o to ue stressed", "contar", domain.TensePresent, domain.Person3s, "cuenta"},
		{"o to ue skips nosotros", "dormir", domain.TensePresent, domain.Person1p, "dormimos"},
		{"e to i stressed", "pedir", domain.TensePresent, domain.Person2sTu, "pides"},

		// Irregular yo forms and the subjunctive stems derived from them
		{"go verb yo", "tener", domain.TensePresent, domain.Person1s, "tengo"},
		{"go verb keeps stem change elsewhere", "tener", domain.TensePresent, domain.Person2sTu, "tienes"},
		{"zco verb yo", "conocer", domain.TensePresent, domain.Person1s, "conozco"},
		{"subjunctive from go stem", "tener", domain.TenseSubjPresent, domain.Person1s, "tenga"},
		{"subjunctive from zco stem", "conocer", domain.TenseSubjPresent, domain.Person3s, "conozca"},

		// Strong preterites
		{"strong preterite tener", "tener", domain.TensePreterite, domain.Person1s, "tuve"},
		{"strong preterite third", "tener", domain.TensePreterite, domain.Person3s, "tuvo"},
		{"strong preterite hacer", "hacer", domain.TensePreterite, domain.Person1s, "hice"},
		{"hizo override beats strong stem", "hacer", domain.TensePreterite, domain.Person3s, "hizo"},

		// Third-person vowel raising in -ir stem changers
		{"e to i raised preterite", "pedir", domain.TensePreterite, domain.Person3s, "pidió"},
		{"o to u raised preterite", "dormir", domain.TensePreterite, domain.Person3p, "durmieron"},
		{"raising skips first person", "pedir", domain.TensePreterite, domain.Person1s, "pedí"},

		// Orthographic adjustments before e
		{"car to qu preterite", "buscar", domain.TensePreterite, domain.Person1s, "busqué"},
		{"gar to gu preterite", "llegar", domain.TensePreterite, domain.Person1s, "llegué"},
		{"zar to c preterite", "empezar", domain.TensePreterite, domain.Person1s, "empecé"},
		{"ortho and stem change stack in subjunctive", "empezar", domain.TenseSubjPresent, domain.Person1s, "empiece"},
		{"ortho without stem change in nosotros", "empezar", domain.TenseSubjPresent, domain.Person1p, "empecemos"},
		{"car to qu subjunctive", "buscar", domain.TenseSubjPresent, domain.Person2sTu, "busques"},

		// e→i raises in every subjunctive person, diphthongs only when stressed
		{"e to i subjunctive nosotros", "pedir", domain.TenseSubjPresent, domain.Person1p, "pidamos"},
		{"diphthong subjunctive vos", "querer", domain.TenseSubjPresent, domain.Person2sVos, "quieras"},
		{"diphthong present vos unchanged", "querer", domain.TensePresent, domain.Person2sVos, "querés"},

		// Suppletive overrides
		{"ser present", "ser", domain.TensePresent, domain.Person1s, "soy"},
		{"ser voseo", "ser", domain.TensePresent, domain.Person2sVos, "sos"},
		{"ser imperfect", "ser", domain.TenseImperfect, domain.Person1p, "éramos"},
		{"ir preterite", "ir", domain.TensePreterite, domain.Person3s, "fue"},
		{"ir future", "ir", domain.TenseFuture, domain.Person1s, "iré"},
		{"estar present", "estar", domain.TensePresent, domain.Person2sVos, "estás"},
		{"ser future falls back to rule", "ser", domain.TenseFuture, domain.Person1s, "seré"},

		// Irregular future stems
		{"tener future", "tener", domain.TenseFuture, domain.Person1s, "tendré"},
		{"hacer conditional", "hacer", domain.TenseConditional, domain.Person3s, "haría"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Conjugate(tc.lemma, tc.tense, tc.person)
			require.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestConjugate_UnknownSlots(t *testing.T) {
	t.Parallel()

	_, ok := Conjugate("googlear", domain.TensePresent, domain.Person1s)
	assert.False(t, ok, "lemmas outside the dataset produce nothing")

	_, ok = Conjugate("hablar", "pluscuamperfecto", domain.Person1s)
	assert.False(t, ok, "tenses outside the curriculum produce nothing")

	_, ok = Conjugate("hablar", domain.TensePresent, "4s")
	assert.False(t, ok, "unknown persons produce nothing")
}

func TestGenerateAllForms_DefaultSettings(t *testing.T) {
	t.Parallel()

	c := NewStaticCatalog(nil)
	forms, err := c.GenerateAllForms(context.Background(), domain.RegionLatinAmerica, domain.Settings{Level: domain.LevelA1})
	require.NoError(t, err)

	// Every dataset verb in the present tense, tuteo paradigm without vosotros.
	assert.Len(t, forms, len(AllVerbs())*5)
	for _, f := range forms {
		assert.Equal(t, domain.TensePresent, f.Tense)
		assert.Equal(t, domain.MoodIndicative, f.Mood)
		assert.Equal(t, domain.RegionLatinAmerica, f.Region)
		assert.NotEqual(t, domain.Person2sVos, f.Person)
		assert.NotEqual(t, domain.Person2pVosotros, f.Person)
	}
}

func TestGenerateAllForms_VoseoSwapsSecondPerson(t *testing.T) {
	t.Parallel()

	c := NewStaticCatalog(nil)
	forms, err := c.GenerateAllForms(context.Background(), domain.RegionRioplatense,
		domain.Settings{Level: domain.LevelA1, UseVoseo: true})
	require.NoError(t, err)

	sawVos := false
	for _, f := range forms {
		assert.NotEqual(t, domain.Person2sTu, f.Person)
		if f.Person == domain.Person2sVos {
			sawVos = true
		}
	}
	assert.True(t, sawVos)
}

func TestGenerateAllForms_VerbTypeFilter(t *testing.T) {
	t.Parallel()

	c := NewStaticCatalog(nil)

	regular, err := c.GenerateAllForms(context.Background(), domain.RegionLatinAmerica,
		domain.Settings{Level: domain.LevelA1, VerbType: domain.VerbTypeRegular})
	require.NoError(t, err)
	for _, f := range regular {
		entry, ok := VerbByLemma(f.Lemma)
		require.True(t, ok)
		assert.False(t, entry.Irregular())
	}

	irregular, err := c.GenerateAllForms(context.Background(), domain.RegionLatinAmerica,
		domain.Settings{Level: domain.LevelA1, VerbType: domain.VerbTypeIrregular})
	require.NoError(t, err)
	for _, f := range irregular {
		entry, ok := VerbByLemma(f.Lemma)
		require.True(t, ok)
		assert.True(t, entry.Irregular())
	}
}

func TestGenerateAllForms_FamilyFilter(t *testing.T) {
	t.Parallel()

	c := NewStaticCatalog(nil)
	forms, err := c.GenerateAllForms(context.Background(), domain.RegionLatinAmerica,
		domain.Settings{Level: domain.LevelA1, FamilyFilter: FamilyZcoVerbs})
	require.NoError(t, err)

	lemmas := make(map[string]bool)
	for _, f := range forms {
		lemmas[f.Lemma] = true
	}
	assert.Equal(t, map[string]bool{"conocer": true, "ofrecer": true, "parecer": true}, lemmas)
}

func TestGenerateAllForms_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewStaticCatalog(nil)
	_, err := c.GenerateAllForms(ctx, domain.RegionLatinAmerica, domain.Settings{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	base := domain.Settings{Level: domain.LevelB1}

	assert.Equal(t,
		CacheKey(domain.RegionLatinAmerica, base),
		CacheKey(domain.RegionLatinAmerica, base))

	assert.NotEqual(t,
		CacheKey(domain.RegionLatinAmerica, base),
		CacheKey(domain.RegionPeninsular, base))

	leveled := base
	leveled.Level = domain.LevelB2
	assert.NotEqual(t, CacheKey(domain.RegionLatinAmerica, base), CacheKey(domain.RegionLatinAmerica, leveled))

	voseo := base
	voseo.UseVoseo = true
	assert.NotEqual(t, CacheKey(domain.RegionLatinAmerica, base), CacheKey(domain.RegionLatinAmerica, voseo))

	// Targeting settings narrow selection, not eligibility.
	targeted := base
	targeted.PracticeMode = domain.PracticeModeSpecific
	targeted.SpecificMood = domain.MoodSubjunctive
	targeted.SpecificTense = domain.TenseSubjPresent
	assert.Equal(t, CacheKey(domain.RegionLatinAmerica, base), CacheKey(domain.RegionLatinAmerica, targeted))
}

func TestGateDueCellsByCurriculum(t *testing.T) {
	t.Parallel()

	cell := func(tense, person string) *domain.ScheduleCell {
		return &domain.ScheduleCell{Mood: domain.MoodIndicative, Tense: tense, Person: person}
	}

	cells := []*domain.ScheduleCell{
		nil,
		cell(domain.TensePresent, domain.Person1s),
		cell(domain.TensePreterite, domain.Person1s),
		cell(domain.TensePresent, domain.Person2sTu),
		cell(domain.TensePresent, domain.Person2sVos),
		cell(domain.TensePresent, domain.Person2pVosotros),
	}

	t.Run("level gates tenses", func(t *testing.T) {
		t.Parallel()
		got := GateDueCellsByCurriculum(cells, domain.Settings{Level: domain.LevelA1})
		for _, c := range got {
			assert.Equal(t, domain.TensePresent, c.Tense)
		}
		assert.Len(t, got, 2) // 1s and tu; vos and vosotros stay disabled
	})

	t.Run("voseo swaps the second person", func(t *testing.T) {
		t.Parallel()
		got := GateDueCellsByCurriculum(cells, domain.Settings{Level: domain.LevelA2, UseVoseo: true})
		persons := make(map[string]bool)
		for _, c := range got {
			persons[c.Person] = true
		}
		assert.True(t, persons[domain.Person2sVos])
		assert.False(t, persons[domain.Person2sTu])
	})

	t.Run("tuteo and voseo can coexist", func(t *testing.T) {
		t.Parallel()
		got := GateDueCellsByCurriculum(cells,
			domain.Settings{Level: domain.LevelA1, UseTuteo: true, UseVoseo: true})
		persons := make(map[string]bool)
		for _, c := range got {
			persons[c.Person] = true
		}
		assert.True(t, persons[domain.Person2sVos])
		assert.True(t, persons[domain.Person2sTu])
	})

	t.Run("vosotros requires the flag", func(t *testing.T) {
		t.Parallel()
		got := GateDueCellsByCurriculum(cells, domain.Settings{Level: domain.LevelA1, UseVosotros: true})
		persons := make(map[string]bool)
		for _, c := range got {
			persons[c.Person] = true
		}
		assert.True(t, persons[domain.Person2pVosotros])
	})
}
