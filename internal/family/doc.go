// Package family implements transfer learning across irregular-verb
// families: estimating how well a learner has internalized a morphological
// pattern, and converting that estimate into a bounded boost on newly
// computed SRS schedules so progress on one verb partially promotes its
// relatives.
package family
