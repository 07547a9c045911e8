// Package gemini implements the adaptive practice recommender on top of
// Google's Gemini API. The recommender proposes a mood/tense (and optionally
// a verb) for the learner to drill next; its failures are soft by contract,
// so callers always have a local fallback.
package gemini
