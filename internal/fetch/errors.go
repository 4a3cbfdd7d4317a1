package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors distinguish the outcomes the verification pipeline reacts
// to. ErrTimeout and ErrConnection are retryable; everything else is final.
var (
	ErrTimeout    = errors.New("fetch: request timed out")
	ErrConnection = errors.New("fetch: connection failed")
	ErrNotFound   = errors.New("fetch: resource not found")
)

// StatusError reports a non-success HTTP status other than 404.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: unexpected status %d for %s", e.Code, e.URL)
}

// Retryable reports whether another attempt against the same reference could
// plausibly succeed. Only transport failures qualify; HTTP-level outcomes
// reflect the remote state and repeat deterministically.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnection)
}
