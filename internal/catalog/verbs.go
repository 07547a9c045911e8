package catalog

// VerbEntry is one lemma in the static dataset, tagged with its
// classification and the irregular families it belongs to.
type VerbEntry struct {
	Lemma    string
	Families []string // empty for regular verbs
}

// Irregular reports whether the verb belongs to any irregular family.
func (v VerbEntry) Irregular() bool {
	return len(v.Families) > 0
}

// verbs is the curated dataset. Deliberately small: wide enough to exercise
// every family in the taxonomy and every tense the curriculum teaches,
// without pretending to be a full dictionary. Bulk imports live in separate
// tooling, not in this service.
var verbs = []VerbEntry{
	// Regular verbs
	{Lemma: "hablar"},
	{Lemma: "trabajar"},
	{Lemma: "estudiar"},
	{Lemma: "comer"},
	{Lemma: "beber"},
	{Lemma: "vivir"},
	{Lemma: "escribir"},

	// Stem changers
	{Lemma: "pensar", Families: []string{FamilyEIE}},
	{Lemma: "cerrar", Families: []string{FamilyEIE}},
	{Lemma: "empezar", Families: []string{FamilyEIE, FamilyOrthoCarGar}},
	{Lemma: "contar", Families: []string{FamilyOUE}},
	{Lemma: "volver", Families: []string{FamilyOUE}},
	{Lemma: "poder", Families: []string{FamilyOUE, FamilyStrongPret}},
	{Lemma: "dormir", Families: []string{FamilyOUE}},
	{Lemma: "pedir", Families: []string{FamilyEI}},
	{Lemma: "servir", Families: []string{FamilyEI}},
	{Lemma: "repetir", Families: []string{FamilyEI}},

	// Yo-go and -zco verbs
	{Lemma: "tener", Families: []string{FamilyEIE, FamilyGoVerbs, FamilyStrongPret}},
	{Lemma: "hacer", Families: []string{FamilyGoVerbs, FamilyStrongPret}},
	{Lemma: "poner", Families: []string{FamilyGoVerbs, FamilyStrongPret}},
	{Lemma: "salir", Families: []string{FamilyGoVerbs}},
	{Lemma: "conocer", Families: []string{FamilyZcoVerbs}},
	{Lemma: "ofrecer", Families: []string{FamilyZcoVerbs}},
	{Lemma: "parecer", Families: []string{FamilyZcoVerbs}},

	// Orthographic changers
	{Lemma: "buscar", Families: []string{FamilyOrthoCarGar}},
	{Lemma: "llegar", Families: []string{FamilyOrthoCarGar}},

	// Other irregulars
	{Lemma: "querer", Families: []string{FamilyEIE, FamilyStrongPret}},
	{Lemma: "ser", Families: []string{FamilyFullIrreg}},
	{Lemma: "estar", Families: []string{FamilyFullIrreg, FamilyStrongPret}},
	{Lemma: "ir", Families: []string{FamilyFullIrreg}},
}

// verbIndex supports lemma lookups without scanning the dataset.
var verbIndex = func() map[string]VerbEntry {
	idx := make(map[string]VerbEntry, len(verbs))
	for _, v := range verbs {
		idx[v.Lemma] = v
	}
	return idx
}()

// AllVerbs returns the full dataset. The returned slice is a copy; callers
// may filter it freely.
func AllVerbs() []VerbEntry {
	out := make([]VerbEntry, len(verbs))
	copy(out, verbs)
	return out
}

// VerbByLemma looks up a single dataset entry.
func VerbByLemma(lemma string) (VerbEntry, bool) {
	v, ok := verbIndex[lemma]
	return v, ok
}
