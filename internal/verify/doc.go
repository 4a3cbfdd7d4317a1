// Package verify drives the verification pipeline over pending submission
// records.
//
// A run drains the pending queue for one claim kind (or all kinds) through a
// pool of workers. Each worker takes a record through reference checking,
// rate-governed fetching, and content matching, then writes the outcome back
// with a compare-and-set conditioned on the record still being pending. A
// record that was confirmed or re-imported in the meantime is left alone;
// the dropped write counts as a conflict, not an error.
//
// Runs are resumable: terminal records never reappear in the pending query,
// so re-invoking after a cancellation picks up exactly the unfinished work.
package verify
