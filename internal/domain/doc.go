// Package domain contains the core business entities and value objects for
// the conjugation drill system: conjugated forms, per-cell spaced repetition
// schedules, practice settings, and the irregular-verb family taxonomy types.
//
// Types in this package are transport- and storage-agnostic. They carry their
// own validation and follow the immutable update pattern: operations that
// change state return new instances instead of mutating receivers.
package domain
