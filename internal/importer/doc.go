// Package importer is the ingestion boundary for submission and attendance
// rows.
//
// Rows arrive in spreadsheet vocabulary: identities are emails in whatever
// casing the form captured, flags say TRUE/FALSE/-, durations come as MM:SS
// or HH:MM:SS. Everything is validated and canonicalized here, once, so the
// reconciler and store below can assume clean input. A bad row is recorded
// against the batch and skipped; it never aborts the rows behind it.
package importer
