// Package store defines the persistence interfaces consumed by the practice
// pipeline. The selection and scheduling logic depends only on these
// interfaces; the concrete database implementation lives under
// internal/platform/postgres and can be swapped out in tests.
package store
