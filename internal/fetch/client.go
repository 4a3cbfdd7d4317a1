package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"proofcheck/internal/config"
	"proofcheck/internal/logging"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxBodyBytes        = 4 << 20
)

// Result holds the outcome of a successful fetch.
type Result struct {
	// Body is the response body, capped at maxBodyBytes.
	Body []byte
	// FinalURL is the URL after redirects were followed.
	FinalURL string
	// StatusCode is always a success status; failures come back as errors.
	StatusCode int
}

// Client performs single-attempt HTTP fetches with error classification.
// Retries live in the Retrier so the pipeline controls pacing.
type Client struct {
	httpClient *http.Client
	userAgents []string
	nextAgent  atomic.Uint64
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Client from the verification settings.
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	timeout := defaultFetchTimeout
	var agents []string
	if cfg != nil {
		if cfg.Verification.FetchTimeout > 0 {
			timeout = time.Duration(cfg.Verification.FetchTimeout) * time.Second
		}
		agents = append(agents, cfg.Verification.UserAgents...)
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgents: agents,
		logger:     logging.NewComponentLogger(logger, "fetch"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Fetch retrieves reference once and classifies the outcome. A nil error
// guarantees a success status and a readable body.
func (c *Client) Fetch(ctx context.Context, reference string) (*Result, error) {
	parsed, err := url.Parse(strings.TrimSpace(reference))
	if err != nil {
		return nil, fmt.Errorf("fetch: parse reference %q: %w", reference, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("fetch: unsupported scheme %q in %q", parsed.Scheme, reference)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	if agent := c.userAgent(); agent != "" {
		req.Header.Set("User-Agent", agent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := classifyTransportError(err)
		c.logger.Debug("request failed",
			logging.String("url", parsed.String()),
			logging.Error(classified))
		return nil, classified
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, parsed.String())
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Code: resp.StatusCode, URL: parsed.String()}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	finalURL := parsed.String()
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{Body: body, FinalURL: finalURL, StatusCode: resp.StatusCode}, nil
}

func (c *Client) userAgent() string {
	if len(c.userAgents) == 0 {
		return ""
	}
	index := c.nextAgent.Add(1) - 1
	return c.userAgents[index%uint64(len(c.userAgents))]
}

func classifyTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return fmt.Errorf("%w: %v", ErrConnection, err)
}
