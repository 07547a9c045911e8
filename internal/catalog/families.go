package catalog

import (
	"github.com/cadell/conjugo-api/internal/domain"
)

// Irregular family identifiers.
const (
	FamilyEIE         = "e_ie"
	FamilyOUE         = "o_ue"
	FamilyEI          = "e_i"
	FamilyGoVerbs     = "go_verbs"
	FamilyZcoVerbs    = "zco_verbs"
	FamilyStrongPret  = "strong_preterite"
	FamilyOrthoCarGar = "ortho_car_gar_zar"
	FamilyFullIrreg   = "fully_irregular"
)

// IrregularFamilies is the static taxonomy of irregular-verb families.
// Read-only reference data: the mastery engine and the conjugator both key
// off it, so entries must stay consistent with the verb dataset in verbs.go.
var IrregularFamilies = map[string]domain.Family{
	FamilyEIE: {
		ID:                FamilyEIE,
		Name:              "e→ie stem changers",
		Pattern:           "stem vowel e diphthongizes to ie in stressed syllables",
		Examples:          []string{"pensar", "cerrar", "empezar", "querer", "tener"},
		AffectedTenses:    []string{domain.TensePresent, domain.TenseSubjPresent},
		ParadigmaticVerbs: []string{"pensar", "querer"},
	},
	FamilyOUE: {
		ID:                FamilyOUE,
		Name:              "o→ue stem changers",
		Pattern:           "stem vowel o diphthongizes to ue in stressed syllables",
		Examples:          []string{"contar", "volver", "poder", "dormir"},
		AffectedTenses:    []string{domain.TensePresent, domain.TenseSubjPresent},
		ParadigmaticVerbs: []string{"contar", "poder"},
	},
	FamilyEI: {
		ID:                FamilyEI,
		Name:              "e→i stem changers",
		Pattern:           "stem vowel e raises to i in stressed syllables and third-person preterite",
		Examples:          []string{"pedir", "servir", "repetir"},
		AffectedTenses:    []string{domain.TensePresent, domain.TenseSubjPresent, domain.TensePreterite},
		ParadigmaticVerbs: []string{"pedir"},
	},
	FamilyGoVerbs: {
		ID:                FamilyGoVerbs,
		Name:              "irregular yo -go",
		Pattern:           "first-person singular present ends in -go",
		Examples:          []string{"tener", "hacer", "poner", "salir"},
		AffectedTenses:    []string{domain.TensePresent, domain.TenseSubjPresent},
		ParadigmaticVerbs: []string{"tener", "hacer"},
	},
	FamilyZcoVerbs: {
		ID:                FamilyZcoVerbs,
		Name:              "-cer/-cir to -zco",
		Pattern:           "first-person singular present ends in -zco",
		Examples:          []string{"conocer", "ofrecer", "parecer"},
		AffectedTenses:    []string{domain.TensePresent, domain.TenseSubjPresent},
		ParadigmaticVerbs: []string{"conocer"},
	},
	FamilyStrongPret: {
		ID:                FamilyStrongPret,
		Name:              "strong preterites",
		Pattern:           "suppletive preterite stem with unstressed endings",
		Examples:          []string{"tener", "estar", "hacer", "poder", "poner", "querer"},
		AffectedTenses:    []string{domain.TensePreterite},
		ParadigmaticVerbs: []string{"tener", "poder"},
	},
	FamilyOrthoCarGar: {
		ID:                FamilyOrthoCarGar,
		Name:              "-car/-gar/-zar orthographic",
		Pattern:           "spelling change before e to preserve the stem consonant sound",
		Examples:          []string{"buscar", "llegar", "empezar"},
		AffectedTenses:    []string{domain.TensePreterite, domain.TenseSubjPresent},
		ParadigmaticVerbs: []string{"buscar", "llegar"},
	},
	FamilyFullIrreg: {
		ID:                FamilyFullIrreg,
		Name:              "fully irregular",
		Pattern:           "suppletive or heavily irregular paradigm",
		Examples:          []string{"ser", "estar", "ir"},
		AffectedTenses: []string{
			domain.TensePresent, domain.TensePreterite, domain.TenseImperfect,
			domain.TenseSubjPresent,
		},
		ParadigmaticVerbs: []string{"ser", "ir"},
	},
}

// CategorizeVerb returns the IDs of every family the lemma belongs to.
// Unknown or regular lemmas return nil.
func CategorizeVerb(lemma string) []string {
	entry, ok := verbIndex[lemma]
	if !ok {
		return nil
	}
	return entry.Families
}

// FamilyByID looks up a family in the taxonomy.
func FamilyByID(id string) (domain.Family, bool) {
	f, ok := IrregularFamilies[id]
	return f, ok
}

// tensesByLevel lists which tenses the curriculum teaches at each level.
// Levels are cumulative.
var tensesByLevel = map[domain.Level][]string{
	domain.LevelA1: {domain.TensePresent},
	domain.LevelA2: {domain.TensePresent, domain.TensePreterite, domain.TenseImperfect},
	domain.LevelB1: {
		domain.TensePresent, domain.TensePreterite, domain.TenseImperfect,
		domain.TenseFuture, domain.TenseSubjPresent,
	},
	domain.LevelB2: {
		domain.TensePresent, domain.TensePreterite, domain.TenseImperfect,
		domain.TenseFuture, domain.TenseConditional, domain.TenseSubjPresent,
	},
	domain.LevelC1: {
		domain.TensePresent, domain.TensePreterite, domain.TenseImperfect,
		domain.TenseFuture, domain.TenseConditional, domain.TenseSubjPresent,
	},
}

// TensesForLevel returns the tenses taught at the given level. Unknown
// levels fall back to the full B2 curriculum rather than an empty set.
func TensesForLevel(level domain.Level) []string {
	if tenses, ok := tensesByLevel[level]; ok {
		return tenses
	}
	return tensesByLevel[domain.LevelB2]
}

// GateDueCellsByCurriculum drops due cells whose coordinates the user's
// current settings cannot produce: tenses above the configured level and
// second persons disabled by the dialect flags. A cell scheduled under old
// settings must never force a drill the current settings cannot render.
func GateDueCellsByCurriculum(cells []*domain.ScheduleCell, settings domain.Settings) []*domain.ScheduleCell {
	allowed := make(map[string]bool)
	for _, tense := range TensesForLevel(settings.Level) {
		allowed[tense] = true
	}

	gated := make([]*domain.ScheduleCell, 0, len(cells))
	for _, cell := range cells {
		if cell == nil || !allowed[cell.Tense] {
			continue
		}
		if !personAllowed(cell.Person, settings) {
			continue
		}
		gated = append(gated, cell)
	}
	return gated
}

// personAllowed reports whether the dialect flags admit the person. When
// neither tuteo nor voseo is configured, tuteo is assumed so that default
// settings still cover the full singular paradigm.
func personAllowed(person string, settings domain.Settings) bool {
	switch person {
	case domain.Person2sTu:
		return settings.UseTuteo || !settings.UseVoseo
	case domain.Person2sVos:
		return settings.UseVoseo
	case domain.Person2pVosotros:
		return settings.UseVosotros
	default:
		return true
	}
}
