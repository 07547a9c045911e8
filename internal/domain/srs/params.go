package srs

import (
	"github.com/cadell/conjugo-api/internal/domain"
)

// Params defines all configurable parameters for the SRS algorithm.
type Params struct {
	// Core limits
	MinEase float64
	MaxEase float64

	// Adjustments for different review outcomes
	EaseAdjustment   map[domain.ReviewOutcome]float64
	IntervalModifier map[domain.ReviewOutcome]float64

	// Special case handling
	FirstReviewIntervals map[domain.ReviewOutcome]int
	AgainReviewMinutes   int

	// A cell is flagged as a leech once it accumulates this many lapses.
	LeechLapseThreshold int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero-valued fields keep their defaults.
type ParamsConfig struct {
	MinEase float64
	MaxEase float64

	AgainEaseAdjustment float64
	HardEaseAdjustment  float64
	GoodEaseAdjustment  float64
	EasyEaseAdjustment  float64

	HardIntervalModifier float64
	GoodIntervalModifier float64
	EasyIntervalModifier float64

	FirstReviewHardInterval int
	FirstReviewGoodInterval int
	FirstReviewEasyInterval int

	AgainReviewMinutes  int
	LeechLapseThreshold int
}

// NewDefaultParams creates a new Params instance with default values.
// The ease ceiling follows domain.MaxEase rather than the classic SM-2 2.5
// so the family clustering boost has room to raise ease additively.
func NewDefaultParams() *Params {
	return &Params{
		MinEase: domain.MinEase,
		MaxEase: domain.MaxEase,

		EaseAdjustment: map[domain.ReviewOutcome]float64{
			domain.ReviewOutcomeAgain: -0.20,
			domain.ReviewOutcomeHard:  -0.15,
			domain.ReviewOutcomeGood:  0.0,
			domain.ReviewOutcomeEasy:  0.15,
		},

		IntervalModifier: map[domain.ReviewOutcome]float64{
			domain.ReviewOutcomeAgain: 0.0, // Reset interval
			domain.ReviewOutcomeHard:  1.2, // Slight increase
			domain.ReviewOutcomeGood:  1.0, // Use ease directly
			domain.ReviewOutcomeEasy:  1.3, // Significant increase
		},

		FirstReviewIntervals: map[domain.ReviewOutcome]int{
			domain.ReviewOutcomeHard: 1,
			domain.ReviewOutcomeGood: 1,
			domain.ReviewOutcomeEasy: 2,
		},

		// Review again in 10 minutes
		AgainReviewMinutes: 10,

		LeechLapseThreshold: 8,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEase > 0 {
		params.MinEase = config.MinEase
	}
	if config.MaxEase > 0 {
		params.MaxEase = config.MaxEase
	}

	if config.AgainEaseAdjustment != 0 {
		params.EaseAdjustment[domain.ReviewOutcomeAgain] = config.AgainEaseAdjustment
	}
	if config.HardEaseAdjustment != 0 {
		params.EaseAdjustment[domain.ReviewOutcomeHard] = config.HardEaseAdjustment
	}
	if config.GoodEaseAdjustment != 0 {
		params.EaseAdjustment[domain.ReviewOutcomeGood] = config.GoodEaseAdjustment
	}
	if config.EasyEaseAdjustment != 0 {
		params.EaseAdjustment[domain.ReviewOutcomeEasy] = config.EasyEaseAdjustment
	}

	if config.HardIntervalModifier > 0 {
		params.IntervalModifier[domain.ReviewOutcomeHard] = config.HardIntervalModifier
	}
	if config.GoodIntervalModifier > 0 {
		params.IntervalModifier[domain.ReviewOutcomeGood] = config.GoodIntervalModifier
	}
	if config.EasyIntervalModifier > 0 {
		params.IntervalModifier[domain.ReviewOutcomeEasy] = config.EasyIntervalModifier
	}

	if config.FirstReviewHardInterval > 0 {
		params.FirstReviewIntervals[domain.ReviewOutcomeHard] = config.FirstReviewHardInterval
	}
	if config.FirstReviewGoodInterval > 0 {
		params.FirstReviewIntervals[domain.ReviewOutcomeGood] = config.FirstReviewGoodInterval
	}
	if config.FirstReviewEasyInterval > 0 {
		params.FirstReviewIntervals[domain.ReviewOutcomeEasy] = config.FirstReviewEasyInterval
	}

	if config.AgainReviewMinutes > 0 {
		params.AgainReviewMinutes = config.AgainReviewMinutes
	}
	if config.LeechLapseThreshold > 0 {
		params.LeechLapseThreshold = config.LeechLapseThreshold
	}

	return params
}
