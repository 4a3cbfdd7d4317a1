package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Import.DefaultMode = strings.ToLower(strings.TrimSpace(c.Import.DefaultMode))
	if c.Import.DefaultMode == "" {
		c.Import.DefaultMode = defaultImportMode
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	c.Matching.ProfileHosts = normalizeHosts(c.Matching.ProfileHosts)
	c.Matching.BadgeHosts = normalizeHosts(c.Matching.BadgeHosts)
	c.Verification.UserAgents = trimNonEmpty(c.Verification.UserAgents)
	if len(c.Verification.UserAgents) == 0 {
		c.Verification.UserAgents = append([]string(nil), defaultUserAgents...)
	}
	return nil
}

func normalizeHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, host := range hosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			out = append(out, host)
		}
	}
	return out
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Verification.RateLimitDelay <= 0 {
		return errors.New("verification.rate_limit_delay must be positive")
	}
	if c.Verification.RetryAttempts < 1 {
		return errors.New("verification.retry_attempts must be at least 1")
	}
	if c.Verification.FetchTimeout <= 0 {
		return errors.New("verification.fetch_timeout must be positive")
	}
	if c.Verification.Workers < 1 {
		return errors.New("verification.workers must be at least 1")
	}
	if c.Matching.WordOverlap <= 0 || c.Matching.WordOverlap > 1 {
		return errors.New("matching.word_overlap must be in (0, 1]")
	}
	if len(c.Matching.ProfileHosts) == 0 {
		return errors.New("matching.profile_hosts must not be empty")
	}
	if len(c.Matching.BadgeHosts) == 0 {
		return errors.New("matching.badge_hosts must not be empty")
	}
	switch c.Import.DefaultMode {
	case "create", "update", "create-update":
	default:
		return fmt.Errorf("import.default_mode: unsupported value %q", c.Import.DefaultMode)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
