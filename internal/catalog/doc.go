// Package catalog is the forms catalog: the static verb dataset, the
// rule-based conjugator that expands it into concrete forms for a region and
// settings combination, the irregular-verb family taxonomy, and the
// curriculum rules that gate which cells a level may practice.
//
// Everything in this package is reference data or pure computation. The
// selection pipeline consumes it through the Generator interface so tests
// can substitute a fixed form set.
package catalog
