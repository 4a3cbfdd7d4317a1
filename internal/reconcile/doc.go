// Package reconcile decides how an incoming submission interacts with
// existing stored state.
//
// The decision functions are pure: they read an optional existing record and
// an incoming payload and return a Decision without side effects. Callers
// apply decisions through the store's compare-and-set operations so a
// concurrent verification write-back can never be silently clobbered.
package reconcile
