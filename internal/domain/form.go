package domain

import "errors"

// Grammatical moods tracked by the drill system.
const (
	MoodIndicative  = "indicative"
	MoodSubjunctive = "subjunctive"
	MoodImperative  = "imperative"
	MoodConditional = "conditional"
)

// Tense identifiers. These are stable keys shared with the persisted schedule
// cells, so they must never be renamed once data exists.
const (
	TensePresent     = "pres"
	TensePreterite   = "pretIndef"
	TenseImperfect   = "impf"
	TenseFuture      = "fut"
	TenseConditional = "cond"
	TenseSubjPresent = "subjPres"
)

// Person identifiers. The second-person singular is split by dialect: tú and
// vos carry different conjugations in voseo regions.
const (
	Person1s         = "1s"
	Person2sTu       = "2s_tu"
	Person2sVos      = "2s_vos"
	Person3s         = "3s"
	Person1p         = "1p"
	Person2pVosotros = "2p_vosotros"
	Person3p         = "3p"
)

// Region identifies the dialect a form set targets.
const (
	RegionLatinAmerica = "la_general"
	RegionRioplatense  = "rioplatense"
	RegionPeninsular   = "peninsular"
)

// IsValidMood reports whether mood is one of the known mood identifiers.
func IsValidMood(mood string) bool {
	switch mood {
	case MoodIndicative, MoodSubjunctive, MoodImperative, MoodConditional:
		return true
	default:
		return false
	}
}

// IsValidTense reports whether tense is one of the known tense keys.
func IsValidTense(tense string) bool {
	switch tense {
	case TensePresent, TensePreterite, TenseImperfect, TenseFuture, TenseConditional, TenseSubjPresent:
		return true
	default:
		return false
	}
}

// Common validation errors for Form.
var (
	ErrEmptyFormLemma = errors.New("form lemma cannot be empty")
	ErrEmptyFormSlot  = errors.New("form mood, tense and person must all be set")
	ErrEmptyFormValue = errors.New("form value cannot be empty")
)

// Form is a single conjugated verb form produced by the forms catalog.
// Forms are immutable value objects: they are never modified after creation,
// which lets the selection pipeline share pool slices freely across lookups.
type Form struct {
	Lemma  string `json:"lemma"`
	Mood   string `json:"mood"`
	Tense  string `json:"tense"`
	Person string `json:"person"`
	Region string `json:"region"`
	Value  string `json:"value"`
}

// Validate checks that the form identifies a complete conjugation slot.
func (f Form) Validate() error {
	if f.Lemma == "" {
		return ErrEmptyFormLemma
	}
	if f.Mood == "" || f.Tense == "" || f.Person == "" {
		return ErrEmptyFormSlot
	}
	if f.Value == "" {
		return ErrEmptyFormValue
	}
	return nil
}
