// Package records defines the persisted record model shared by the
// reconciler, the record store, and the verification pipeline.
//
// Every verifiable claim carries a tri-state Confirmation rather than a
// nullable boolean so that "never checked" and "checked and rejected" stay
// distinguishable at every call site. Confirmed is terminal: a confirmed
// field is protected from later submissions and may only be touched by an
// administrative action outside this module.
package records
