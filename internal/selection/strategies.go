package selection

import (
	"context"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/catalog"
	"github.com/cadell/conjugo-api/internal/domain"
)

// Recommendation is an adaptive-practice suggestion: a mood/tense to drill,
// optionally narrowed to one verb. The verb hint is advisory; the selector
// ignores it when the pool cannot honor it.
type Recommendation struct {
	Mood   string `json:"mood"`
	Tense  string `json:"tense"`
	VerbID string `json:"verb_id,omitempty"`
}

// AdaptiveRecommender suggests what a learner should drill next when no SRS
// cell is due. A (nil, nil) return means "no suggestion" and is not an
// error; errors are soft signals recorded by the selector and never
// propagated.
type AdaptiveRecommender interface {
	Recommend(ctx context.Context, userID uuid.UUID, level domain.Level) (*Recommendation, error)
}

// VarietyStrategy picks one form from a candidate set while avoiding recent
// repeats. Returning false means no candidate satisfied the policy; the
// selector then falls back to a uniform pick from the same set.
type VarietyStrategy interface {
	Pick(candidates []domain.Form, history []domain.Form) (domain.Form, bool)
}

// Chooser is the general-purpose final-fallback selection over the full
// pool. It must succeed whenever the pool is non-empty.
type Chooser interface {
	Choose(pool []domain.Form, history []domain.Form, exclude *domain.Form) (domain.Form, bool)
}

func formKey(f domain.Form) string {
	return f.Lemma + "|" + f.Mood + "|" + f.Tense + "|" + f.Person
}

// RecencyVariety is the default variety strategy: it refuses any form whose
// slot appeared in the recent history window.
type RecencyVariety struct {
	Window int // how many history entries count as "recent"; 0 means all
	Rng    *rand.Rand
}

// Pick implements VarietyStrategy.
func (v *RecencyVariety) Pick(candidates []domain.Form, history []domain.Form) (domain.Form, bool) {
	if len(candidates) == 0 {
		return domain.Form{}, false
	}

	recent := history
	if v.Window > 0 && len(history) > v.Window {
		recent = history[len(history)-v.Window:]
	}
	seen := make(map[string]bool, len(recent))
	for _, f := range recent {
		seen[formKey(f)] = true
	}

	fresh := make([]domain.Form, 0, len(candidates))
	for _, f := range candidates {
		if !seen[formKey(f)] {
			fresh = append(fresh, f)
		}
	}
	if len(fresh) == 0 {
		return domain.Form{}, false
	}
	return fresh[intn(v.Rng, len(fresh))], true
}

// RandomChooser is the default generic chooser: uniform over the pool,
// excluding the immediately preceding item so the learner never sees the
// same drill twice in a row. When exclusion empties the pool (single-form
// pools), the exclusion is waived.
type RandomChooser struct {
	Rng *rand.Rand
}

// Choose implements Chooser.
func (c *RandomChooser) Choose(pool []domain.Form, history []domain.Form, exclude *domain.Form) (domain.Form, bool) {
	if len(pool) == 0 {
		return domain.Form{}, false
	}

	eligible := pool
	if exclude != nil {
		filtered := make([]domain.Form, 0, len(pool))
		for _, f := range pool {
			if formKey(f) != formKey(*exclude) {
				filtered = append(filtered, f)
			}
		}
		if len(filtered) > 0 {
			eligible = filtered
		}
	}
	return eligible[intn(c.Rng, len(eligible))], true
}

// CurriculumRecommender is the default adaptive recommender: with no
// per-user signal available it suggests the most advanced tense of the
// learner's level, drilled on one of its paradigmatic irregulars when the
// tense has a family attached. Deterministic given (level, rng).
type CurriculumRecommender struct {
	Rng *rand.Rand
}

// Recommend implements AdaptiveRecommender.
func (r *CurriculumRecommender) Recommend(
	ctx context.Context,
	userID uuid.UUID,
	level domain.Level,
) (*Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tenses := catalog.TensesForLevel(level)
	if len(tenses) == 0 {
		return nil, nil
	}
	tense := tenses[len(tenses)-1]

	rec := &Recommendation{Tense: tense}
	if tense == domain.TenseSubjPresent {
		rec.Mood = domain.MoodSubjunctive
	} else {
		rec.Mood = domain.MoodIndicative
	}

	// Attach a paradigmatic verb from a family affected in this tense, when
	// one exists, so newly taught tenses start on their signature irregulars.
	// Family IDs are walked in sorted order to keep the choice reproducible
	// under an injected rng.
	famIDs := make([]string, 0, len(catalog.IrregularFamilies))
	for id := range catalog.IrregularFamilies {
		famIDs = append(famIDs, id)
	}
	sort.Strings(famIDs)

	var verbs []string
	for _, id := range famIDs {
		fam := catalog.IrregularFamilies[id]
		for _, t := range fam.AffectedTenses {
			if t == tense {
				verbs = append(verbs, fam.ParadigmaticVerbs...)
				break
			}
		}
	}
	if len(verbs) > 0 {
		rec.VerbID = verbs[intn(r.Rng, len(verbs))]
	}

	return rec, nil
}
