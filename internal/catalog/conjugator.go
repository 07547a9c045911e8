package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cadell/conjugo-api/internal/domain"
)

// StaticCatalog implements Generator over the embedded verb dataset with a
// rule-based conjugator: regular ending tables, family-driven stem changes,
// and explicit overrides for the suppletive paradigms.
type StaticCatalog struct {
	logger *slog.Logger
}

// NewStaticCatalog creates a catalog backed by the embedded dataset.
// If logger is nil, a default logger will be used.
func NewStaticCatalog(logger *slog.Logger) *StaticCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &StaticCatalog{
		logger: logger.With(slog.String("component", "forms_catalog")),
	}
}

// Ensure StaticCatalog implements the Generator interface.
var _ Generator = (*StaticCatalog)(nil)

// GenerateAllForms implements Generator. It expands the dataset into every
// form the settings admit: tenses gated by level, persons gated by dialect
// flags, verbs gated by type and family filters.
func (c *StaticCatalog) GenerateAllForms(
	ctx context.Context,
	region string,
	settings domain.Settings,
) ([]domain.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tenses := TensesForLevel(settings.Level)
	persons := eligiblePersons(settings)

	var forms []domain.Form
	for _, verb := range AllVerbs() {
		if !verbEligible(verb, settings) {
			continue
		}
		for _, tense := range tenses {
			for _, person := range persons {
				value, ok := Conjugate(verb.Lemma, tense, person)
				if !ok {
					continue
				}
				forms = append(forms, domain.Form{
					Lemma:  verb.Lemma,
					Mood:   moodForTense(tense),
					Tense:  tense,
					Person: person,
					Region: region,
					Value:  value,
				})
			}
		}
	}

	c.logger.Debug("generated forms",
		slog.String("region", region),
		slog.String("level", string(settings.Level)),
		slog.Int("count", len(forms)))

	return forms, nil
}

// verbEligible applies the verb-type and family filters.
func verbEligible(verb VerbEntry, settings domain.Settings) bool {
	switch settings.VerbType {
	case domain.VerbTypeRegular:
		if verb.Irregular() {
			return false
		}
	case domain.VerbTypeIrregular:
		if !verb.Irregular() {
			return false
		}
	}

	if settings.FamilyFilter != "" {
		for _, id := range verb.Families {
			if id == settings.FamilyFilter {
				return true
			}
		}
		return false
	}
	return true
}

// eligiblePersons returns the persons the dialect flags admit, in paradigm
// order. Tuteo is the default when no second-person flag is set.
func eligiblePersons(settings domain.Settings) []string {
	persons := []string{domain.Person1s}
	if settings.UseTuteo || !settings.UseVoseo {
		persons = append(persons, domain.Person2sTu)
	}
	if settings.UseVoseo {
		persons = append(persons, domain.Person2sVos)
	}
	persons = append(persons, domain.Person3s, domain.Person1p)
	if settings.UseVosotros {
		persons = append(persons, domain.Person2pVosotros)
	}
	return append(persons, domain.Person3p)
}

// moodForTense maps a tense key to its grammatical mood.
func moodForTense(tense string) string {
	if tense == domain.TenseSubjPresent {
		return domain.MoodSubjunctive
	}
	return domain.MoodIndicative
}

// personOrder fixes the column order of the ending tables.
var personOrder = []string{
	domain.Person1s, domain.Person2sTu, domain.Person2sVos,
	domain.Person3s, domain.Person1p, domain.Person2pVosotros, domain.Person3p,
}

// Regular ending tables, one row per verb class, columns in personOrder.
// Voseo differs from tuteo only in the present tenses; elsewhere the vos
// column repeats the tú form.
var regularEndings = map[string]map[string][7]string{
	domain.TensePresent: {
		"ar": {"o", "as", "ás", "a", "amos", "áis", "an"},
		"er": {"o", "es", "és", "e", "emos", "éis", "en"},
		"ir": {"o", "es", "ís", "e", "imos", "ís", "en"},
	},
	domain.TensePreterite: {
		"ar": {"é", "aste", "aste", "ó", "amos", "asteis", "aron"},
		"er": {"í", "iste", "iste", "ió", "imos", "isteis", "ieron"},
		"ir": {"í", "iste", "iste", "ió", "imos", "isteis", "ieron"},
	},
	domain.TenseImperfect: {
		"ar": {"aba", "abas", "abas", "aba", "ábamos", "abais", "aban"},
		"er": {"ía", "ías", "ías", "ía", "íamos", "íais", "ían"},
		"ir": {"ía", "ías", "ías", "ía", "íamos", "íais", "ían"},
	},
	domain.TenseSubjPresent: {
		"ar": {"e", "es", "es", "e", "emos", "éis", "en"},
		"er": {"a", "as", "as", "a", "amos", "áis", "an"},
		"ir": {"a", "as", "as", "a", "amos", "áis", "an"},
	},
}

// Future and conditional attach to the infinitive (or an irregular stem),
// identically for all classes.
var futureEndings = [7]string{"é", "ás", "ás", "á", "emos", "éis", "án"}
var conditionalEndings = [7]string{"ía", "ías", "ías", "ía", "íamos", "íais", "ían"}

// Irregular first-person-singular present forms. The subjunctive stem is
// derived from these, which is why they are kept separate from overrides.
var irregularYo = map[string]string{
	"tener":   "tengo",
	"hacer":   "hago",
	"poner":   "pongo",
	"salir":   "salgo",
	"conocer": "conozco",
	"ofrecer": "ofrezco",
	"parecer": "parezco",
}

// Strong preterite stems with their shared unstressed endings.
var strongPretStems = map[string]string{
	"tener":  "tuv",
	"estar":  "estuv",
	"hacer":  "hic",
	"poder":  "pud",
	"poner":  "pus",
	"querer": "quis",
}

var strongPretEndings = [7]string{"e", "iste", "iste", "o", "imos", "isteis", "ieron"}

// Irregular future/conditional stems.
var futureStems = map[string]string{
	"tener":  "tendr",
	"poner":  "pondr",
	"salir":  "saldr",
	"hacer":  "har",
	"poder":  "podr",
	"querer": "querr",
}

// overrides holds fully irregular paradigms keyed by "tense|person", applied
// before any rule. Only suppletive slots live here; everything derivable
// stays in the rule engine.
var overrides = map[string]map[string]string{
	"ser": {
		"pres|1s": "soy", "pres|2s_tu": "eres", "pres|2s_vos": "sos",
		"pres|3s": "es", "pres|1p": "somos", "pres|2p_vosotros": "sois", "pres|3p": "son",
		"pretIndef|1s": "fui", "pretIndef|2s_tu": "fuiste", "pretIndef|2s_vos": "fuiste",
		"pretIndef|3s": "fue", "pretIndef|1p": "fuimos",
		"pretIndef|2p_vosotros": "fuisteis", "pretIndef|3p": "fueron",
		"impf|1s": "era", "impf|2s_tu": "eras", "impf|2s_vos": "eras",
		"impf|3s": "era", "impf|1p": "éramos", "impf|2p_vosotros": "erais", "impf|3p": "eran",
		"subjPres|1s": "sea", "subjPres|2s_tu": "seas", "subjPres|2s_vos": "seas",
		"subjPres|3s": "sea", "subjPres|1p": "seamos",
		"subjPres|2p_vosotros": "seáis", "subjPres|3p": "sean",
	},
	"ir": {
		"pres|1s": "voy", "pres|2s_tu": "vas", "pres|2s_vos": "vas",
		"pres|3s": "va", "pres|1p": "vamos", "pres|2p_vosotros": "vais", "pres|3p": "van",
		"pretIndef|1s": "fui", "pretIndef|2s_tu": "fuiste", "pretIndef|2s_vos": "fuiste",
		"pretIndef|3s": "fue", "pretIndef|1p": "fuimos",
		"pretIndef|2p_vosotros": "fuisteis", "pretIndef|3p": "fueron",
		"impf|1s": "iba", "impf|2s_tu": "ibas", "impf|2s_vos": "ibas",
		"impf|3s": "iba", "impf|1p": "íbamos", "impf|2p_vosotros": "ibais", "impf|3p": "iban",
		"subjPres|1s": "vaya", "subjPres|2s_tu": "vayas", "subjPres|2s_vos": "vayas",
		"subjPres|3s": "vaya", "subjPres|1p": "vayamos",
		"subjPres|2p_vosotros": "vayáis", "subjPres|3p": "vayan",
		"fut|1s": "iré", "fut|2s_tu": "irás", "fut|2s_vos": "irás",
		"fut|3s": "irá", "fut|1p": "iremos", "fut|2p_vosotros": "iréis", "fut|3p": "irán",
		"cond|1s": "iría", "cond|2s_tu": "irías", "cond|2s_vos": "irías",
		"cond|3s": "iría", "cond|1p": "iríamos", "cond|2p_vosotros": "iríais", "cond|3p": "irían",
	},
	"estar": {
		"pres|1s": "estoy", "pres|2s_tu": "estás", "pres|2s_vos": "estás",
		"pres|3s": "está", "pres|1p": "estamos", "pres|2p_vosotros": "estáis", "pres|3p": "están",
		"subjPres|1s": "esté", "subjPres|2s_tu": "estés", "subjPres|2s_vos": "estés",
		"subjPres|3s": "esté", "subjPres|1p": "estemos",
		"subjPres|2p_vosotros": "estéis", "subjPres|3p": "estén",
	},
	"hacer": {
		"pretIndef|3s": "hizo",
	},
}

// Conjugate produces the form for one slot of the paradigm. The second
// return value is false when the slot cannot be produced (unknown lemma,
// unknown tense, or a lemma too short to carry a class suffix).
func Conjugate(lemma, tense, person string) (string, bool) {
	entry, ok := verbIndex[lemma]
	if !ok {
		return "", false
	}

	pi := personIndex(person)
	if pi < 0 {
		return "", false
	}

	if slot, ok := overrides[lemma][tense+"|"+person]; ok {
		return slot, true
	}

	if len(lemma) < 3 {
		// Two-letter lemmas ("ir") are covered entirely by overrides.
		return "", false
	}

	class := lemma[len(lemma)-2:]
	stem := lemma[:len(lemma)-2]

	switch tense {
	case domain.TenseFuture:
		return futureStem(lemma) + futureEndings[pi], true
	case domain.TenseConditional:
		return futureStem(lemma) + conditionalEndings[pi], true
	case domain.TensePreterite:
		return conjugatePreterite(entry, lemma, stem, class, person, pi)
	case domain.TensePresent:
		return conjugatePresent(entry, lemma, stem, class, person, pi)
	case domain.TenseSubjPresent:
		return conjugateSubjPresent(entry, lemma, stem, class, person, pi)
	case domain.TenseImperfect:
		endings, ok := regularEndings[tense][class]
		if !ok {
			return "", false
		}
		return stem + endings[pi], true
	default:
		return "", false
	}
}

func personIndex(person string) int {
	for i, p := range personOrder {
		if p == person {
			return i
		}
	}
	return -1
}

func futureStem(lemma string) string {
	if stem, ok := futureStems[lemma]; ok {
		return stem
	}
	return lemma
}

func hasFamily(entry VerbEntry, id string) bool {
	for _, f := range entry.Families {
		if f == id {
			return true
		}
	}
	return false
}

// stemChangePersons are the paradigm slots where the stressed syllable falls
// on the stem: stem changes apply here and nowhere else. Voseo and the first
// and second plural keep the unstressed stem.
func stemChangeApplies(person string) bool {
	switch person {
	case domain.Person1s, domain.Person2sTu, domain.Person3s, domain.Person3p:
		return true
	default:
		return false
	}
}

// changeStem applies the family's vowel change to the last matching vowel of
// the stem.
func changeStem(stem string, entry VerbEntry) string {
	switch {
	case hasFamily(entry, FamilyEIE):
		return replaceLast(stem, "e", "ie")
	case hasFamily(entry, FamilyOUE):
		return replaceLast(stem, "o", "ue")
	case hasFamily(entry, FamilyEI):
		return replaceLast(stem, "e", "i")
	default:
		return stem
	}
}

func replaceLast(s, old, repl string) string {
	i := strings.LastIndex(s, old)
	if i < 0 {
		return s
	}
	return s[:i] + repl + s[i+len(old):]
}

func conjugatePresent(entry VerbEntry, lemma, stem, class, person string, pi int) (string, bool) {
	endings, ok := regularEndings[domain.TensePresent][class]
	if !ok {
		return "", false
	}

	if person == domain.Person1s {
		if yo, ok := irregularYo[lemma]; ok {
			return yo, true
		}
	}

	if stemChangeApplies(person) {
		stem = changeStem(stem, entry)
	}
	return stem + endings[pi], true
}

func conjugatePreterite(entry VerbEntry, lemma, stem, class, person string, pi int) (string, bool) {
	if strong, ok := strongPretStems[lemma]; ok {
		return strong + strongPretEndings[pi], true
	}

	endings, ok := regularEndings[domain.TensePreterite][class]
	if !ok {
		return "", false
	}

	// Third-person vowel raising in -ir stem changers: pidió, durmieron.
	if class == "ir" && (person == domain.Person3s || person == domain.Person3p) {
		if hasFamily(entry, FamilyEI) {
			stem = replaceLast(stem, "e", "i")
		} else if hasFamily(entry, FamilyOUE) {
			stem = replaceLast(stem, "o", "u")
		}
	}

	ending := endings[pi]
	if person == domain.Person1s && class == "ar" {
		stem = orthographicAdjust(stem)
	}
	return stem + ending, true
}

func conjugateSubjPresent(entry VerbEntry, lemma, stem, class, person string, pi int) (string, bool) {
	endings, ok := regularEndings[domain.TenseSubjPresent][class]
	if !ok {
		return "", false
	}

	// The subjunctive stem comes from the irregular yo form when one exists
	// (tengo → tenga, conozco → conozca); stem changes do not stack on top.
	if yo, ok := irregularYo[lemma]; ok && strings.HasSuffix(yo, "o") {
		return yo[:len(yo)-1] + endings[pi], true
	}

	// e→i raises in every subjunctive person; the diphthong families only in
	// the stressed slots.
	if hasFamily(entry, FamilyEI) {
		stem = replaceLast(stem, "e", "i")
	} else if stemChangeApplies(person) || person == domain.Person2sVos {
		stem = changeStem(stem, entry)
	}

	// All -ar subjunctive endings start with e, so the orthographic families
	// adjust in every person (busque, llegue, empiece).
	if class == "ar" {
		stem = orthographicAdjust(stem)
	}
	return stem + endings[pi], true
}

// orthographicAdjust rewrites a stem-final c/g/z before an e-initial ending
// to preserve pronunciation: buscar→busqué, llegar→llegué, empezar→empecé.
func orthographicAdjust(stem string) string {
	switch {
	case strings.HasSuffix(stem, "c"):
		return stem[:len(stem)-1] + "qu"
	case strings.HasSuffix(stem, "g"):
		return stem + "u"
	case strings.HasSuffix(stem, "z"):
		return stem[:len(stem)-1] + "c"
	default:
		return stem
	}
}

// String implements fmt.Stringer for debugging convenience.
func (v VerbEntry) String() string {
	if !v.Irregular() {
		return v.Lemma
	}
	return fmt.Sprintf("%s (%s)", v.Lemma, strings.Join(v.Families, ","))
}
