package match

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"proofcheck/internal/config"
	"proofcheck/internal/records"
)

// Outcome classifies the result of evaluating a claim.
type Outcome int

const (
	// OutcomeMatch means the page supports the claim.
	OutcomeMatch Outcome = iota
	// OutcomeMismatch means the page was understood but contradicts the claim.
	OutcomeMismatch
	// OutcomeWrongDomain means the reference does not point at an allowed host
	// or lacks the path shape of the claimed resource.
	OutcomeWrongDomain
	// OutcomeUnparseable means the expected marker structure is absent.
	OutcomeUnparseable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeWrongDomain:
		return "wrong domain"
	case OutcomeUnparseable:
		return "unparseable"
	default:
		return "unknown"
	}
}

// Verdict pairs an outcome with a human-readable detail suitable for the
// record note.
type Verdict struct {
	Outcome Outcome
	Detail  string
}

// Expectation describes what a fetched page must show for the claim to hold.
type Expectation struct {
	Kind records.Kind
	// Holder is the expected profile owner name. Empty skips the name
	// comparison; profile accessibility alone then decides.
	Holder string
	// Title is the expected course title for badge claims.
	Title string
}

var (
	googleBadgePath = regexp.MustCompile(`^/public_profiles/[A-Za-z0-9-]+/badges/\d+`)
	credlyBadgePath = regexp.MustCompile(`^/badges/[A-Za-z0-9-]+`)
)

const profilePathPrefix = "/public_profiles/"

// Matcher evaluates claims against configured host allow-lists.
type Matcher struct {
	profileHosts map[string]struct{}
	badgeHosts   map[string]struct{}
	overlap      float64
}

// NewMatcher builds a Matcher from the matching settings.
func NewMatcher(cfg *config.Config) *Matcher {
	m := &Matcher{
		profileHosts: map[string]struct{}{},
		badgeHosts:   map[string]struct{}{},
		overlap:      0.6,
	}
	if cfg != nil {
		for _, host := range cfg.Matching.ProfileHosts {
			m.profileHosts[strings.ToLower(host)] = struct{}{}
		}
		for _, host := range cfg.Matching.BadgeHosts {
			m.badgeHosts[strings.ToLower(host)] = struct{}{}
		}
		if cfg.Matching.WordOverlap > 0 {
			m.overlap = cfg.Matching.WordOverlap
		}
	}
	return m
}

// CheckReference validates host and path shape for a claim kind before any
// fetch happens. A nil return means the reference is worth fetching.
func (m *Matcher) CheckReference(kind records.Kind, reference string) *Verdict {
	parsed, err := url.Parse(strings.TrimSpace(reference))
	if err != nil || parsed.Host == "" {
		return &Verdict{Outcome: OutcomeWrongDomain, Detail: "reference is not a valid URL"}
	}
	host := strings.ToLower(parsed.Hostname())

	switch kind {
	case records.KindProfile:
		if _, ok := m.profileHosts[host]; !ok {
			return &Verdict{
				Outcome: OutcomeWrongDomain,
				Detail:  fmt.Sprintf("incorrect domain %q for profile link", host),
			}
		}
		if !strings.HasPrefix(parsed.Path, profilePathPrefix) {
			return &Verdict{
				Outcome: OutcomeWrongDomain,
				Detail:  "incorrect path: profile links must start with /public_profiles/",
			}
		}
	case records.KindBadge:
		if _, ok := m.badgeHosts[host]; !ok {
			return &Verdict{
				Outcome: OutcomeWrongDomain,
				Detail:  fmt.Sprintf("incorrect domain %q for badge link", host),
			}
		}
		if isCredlyHost(host) {
			if !credlyBadgePath.MatchString(parsed.Path) {
				return &Verdict{
					Outcome: OutcomeWrongDomain,
					Detail:  "incorrect path: expected /badges/{id}",
				}
			}
		} else if !googleBadgePath.MatchString(parsed.Path) {
			return &Verdict{
				Outcome: OutcomeWrongDomain,
				Detail:  "incorrect path: expected /public_profiles/{id}/badges/{n}",
			}
		}
	default:
		return &Verdict{Outcome: OutcomeWrongDomain, Detail: fmt.Sprintf("unknown claim kind %q", kind)}
	}
	return nil
}

// Evaluate inspects fetched page content for the claim's expected marker.
// finalURL is the URL after redirects; a profile link that redirected off the
// public profile area is treated as contradicting the claim.
func (m *Matcher) Evaluate(exp Expectation, finalURL string, body []byte) Verdict {
	switch exp.Kind {
	case records.KindProfile:
		return m.evaluateProfile(exp, finalURL, body)
	case records.KindBadge:
		return m.evaluateBadge(exp, finalURL, body)
	default:
		return Verdict{Outcome: OutcomeWrongDomain, Detail: fmt.Sprintf("unknown claim kind %q", exp.Kind)}
	}
}

func (m *Matcher) evaluateProfile(exp Expectation, finalURL string, body []byte) Verdict {
	if parsed, err := url.Parse(finalURL); err == nil {
		if !strings.Contains(parsed.Path, "public_profiles") {
			return Verdict{
				Outcome: OutcomeMismatch,
				Detail:  "reference redirected away from a public profile",
			}
		}
	}

	name, ok := ExtractProfileName(body)
	if !ok {
		return Verdict{
			Outcome: OutcomeUnparseable,
			Detail:  "could not extract owner name from profile page",
		}
	}

	if exp.Holder != "" {
		matched, similarity := NamesMatch(exp.Holder, name)
		if !matched {
			return Verdict{
				Outcome: OutcomeMismatch,
				Detail: fmt.Sprintf("profile owner mismatch: expected %q, found %q (similarity %.2f)",
					exp.Holder, name, similarity),
			}
		}
	}
	return Verdict{Outcome: OutcomeMatch, Detail: fmt.Sprintf("valid profile (owner: %s)", name)}
}

func (m *Matcher) evaluateBadge(exp Expectation, finalURL string, body []byte) Verdict {
	credly := false
	if parsed, err := url.Parse(finalURL); err == nil {
		credly = isCredlyHost(strings.ToLower(parsed.Hostname()))
	}
	platform := "Google Skills Boost"
	if credly {
		platform = "Credly"
	}

	title, ok := ExtractBadgeTitle(body, credly)
	if !ok {
		return Verdict{
			Outcome: OutcomeUnparseable,
			Detail:  "could not extract course title from badge page",
		}
	}

	tier := TitlesMatch(exp.Title, title, m.overlap)
	if tier == TierNone {
		return Verdict{
			Outcome: OutcomeMismatch,
			Detail: fmt.Sprintf("course mismatch (%s): expected %q, found %q",
				platform, exp.Title, title),
		}
	}
	return Verdict{
		Outcome: OutcomeMatch,
		Detail:  fmt.Sprintf("course verified (%s - %s: %s)", platform, tier, title),
	}
}

func isCredlyHost(host string) bool {
	return host == "credly.com" || strings.HasSuffix(host, ".credly.com")
}
