// Package selection implements the adaptive drill-selection pipeline: a
// signature-cached pool of eligible forms with a combination index, the
// constraint builder that normalizes settings into per-turn targeting, and
// the hierarchical selector that picks exactly one form per practice turn.
//
// The selector's strategies (variety, adaptive recommendation, generic
// choice) are injected interfaces so the fallback chain stays an explicit,
// auditable list and every stage is unit-testable in isolation.
package selection
