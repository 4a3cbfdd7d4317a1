// Package store persists submission and attendance records in SQLite.
//
// All confirmation writes go through compare-and-set: an UPDATE conditioned
// on the confirmation value the caller last observed. A write that finds the
// record changed underneath it affects zero rows, which callers treat as a
// benign conflict rather than an error. No operation spans more than one
// record; single-record atomicity is the whole discipline.
package store
