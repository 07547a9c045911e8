package domain

// PracticeMode selects which targeting rules apply to a practice turn.
type PracticeMode string

// Known practice modes. Mixed drills the full eligible pool; specific and
// theme lock the turn to one mood/tense; review drives turns from the SRS
// due queue.
const (
	PracticeModeMixed    PracticeMode = "mixed"
	PracticeModeSpecific PracticeMode = "specific"
	PracticeModeTheme    PracticeMode = "theme"
	PracticeModeReview   PracticeMode = "review"
)

// VerbType narrows the eligible pool by verb classification.
type VerbType string

// Known verb type filters. Empty or "all" means no narrowing.
const (
	VerbTypeAll       VerbType = "all"
	VerbTypeRegular   VerbType = "regular"
	VerbTypeIrregular VerbType = "irregular"
)

// Level is a CEFR curriculum level controlling which tenses are taught.
type Level string

// Curriculum levels in ascending order.
const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

// Settings carries every user preference that affects form eligibility and
// turn targeting. The shape is mode-dependent: SpecificMood/SpecificTense are
// only meaningful for the specific and theme modes. Downstream code must not
// inspect these fields directly; they are normalized into SpecificConstraints
// at the selection boundary.
type Settings struct {
	Level        Level        `json:"level"`
	PracticeMode PracticeMode `json:"practice_mode"`
	Region       string       `json:"region"`

	// Targeting for specific/theme practice modes.
	SpecificMood  string `json:"specific_mood,omitempty"`
	SpecificTense string `json:"specific_tense,omitempty"`

	// Pool narrowing.
	VerbType     VerbType `json:"verb_type,omitempty"`
	FamilyFilter string   `json:"family_filter,omitempty"`

	// Dialect flags controlling which second persons are generated.
	UseTuteo    bool `json:"use_tuteo"`
	UseVoseo    bool `json:"use_voseo"`
	UseVosotros bool `json:"use_vosotros"`
}

// ReviewSessionType distinguishes a free review session from one locked to a
// single topic.
type ReviewSessionType string

// Known review session types.
const (
	ReviewSessionMixed    ReviewSessionType = "mixed"
	ReviewSessionSpecific ReviewSessionType = "specific"
)

// Urgency presets for review session filters.
const (
	UrgencyAll     = "all"
	UrgencyUrgent  = "urgent"  // urgency level >= 3
	UrgencyOverdue = "overdue" // urgency level == 4
)

// LimitPresetLight caps a review session at a small number of cells.
const LimitPresetLight = "light"

// ReviewSessionFilter narrows the due queue for a review session. Zero-value
// fields are inactive. UrgencyLevel takes precedence over Urgency when set,
// matching that exact tier only.
type ReviewSessionFilter struct {
	Mood         string `json:"mood,omitempty"`
	Tense        string `json:"tense,omitempty"`
	Person       string `json:"person,omitempty"`
	Urgency      string `json:"urgency,omitempty"`
	UrgencyLevel int    `json:"urgency_level,omitempty"`
	LimitPreset  string `json:"limit_preset,omitempty"`
	MaxItems     int    `json:"max_items,omitempty"`
}
