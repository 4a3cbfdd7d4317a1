package fetch

import (
	"net/url"
	"strings"
)

// HostClass derives the rate-limit class for a reference: the lowercased
// host without a port. Unparseable references share a single class so they
// still get paced rather than bursting.
func HostClass(reference string) string {
	parsed, err := url.Parse(strings.TrimSpace(reference))
	if err != nil || parsed.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(parsed.Hostname())
}
