// Package fetch retrieves external resources referenced by submissions and
// classifies transport-level outcomes.
//
// A single attempt distinguishes timeouts, connection failures, missing
// resources, and non-success HTTP statuses through sentinel errors, so the
// retry combinator and the verification pipeline can branch with errors.Is
// instead of string matching. Only timeouts and connection failures are
// retryable; content-level failures never are.
package fetch
