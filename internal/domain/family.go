package domain

// Family describes one irregular-verb family: a named morphological pattern
// shared by a set of lemmas (for example e→ie stem changers). Families are
// static reference data owned by the catalog; they are never persisted or
// mutated at runtime.
type Family struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Pattern           string   `json:"pattern"`
	Examples          []string `json:"examples"`           // Lemmas exhibiting the pattern
	AffectedTenses    []string `json:"affected_tenses"`    // Tenses where the irregularity surfaces
	ParadigmaticVerbs []string `json:"paradigmatic_verbs"` // Canonical members shown to learners
}

// Contains reports whether the lemma is a known member of the family.
func (f Family) Contains(lemma string) bool {
	for _, l := range f.Examples {
		if l == lemma {
			return true
		}
	}
	return false
}

// FamilyMastery is a derived estimate of how well a user has internalized a
// family's pattern in one schedule cell. It is computed on demand and never
// persisted.
type FamilyMastery struct {
	FamilyID      string  `json:"family_id"`
	Mastery       float64 `json:"mastery"` // 0..1
	VerbCount     int     `json:"verb_count"`
	PracticeCount int     `json:"practice_count"`
	MasteredCount int     `json:"mastered_count"`
}
