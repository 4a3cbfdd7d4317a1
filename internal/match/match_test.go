package match

import (
	"strings"
	"testing"

	"proofcheck/internal/config"
	"proofcheck/internal/records"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	cfg := config.Default()
	return NewMatcher(&cfg)
}

func TestCheckReferenceProfile(t *testing.T) {
	matcher := newTestMatcher(t)
	tests := []struct {
		name      string
		reference string
		want      Outcome
		ok        bool
	}{
		{"valid skills boost", "https://www.cloudskillsboost.google/public_profiles/abc-123", 0, true},
		{"valid skills google", "https://www.skills.google/public_profiles/abc-123", 0, true},
		{"foreign host", "https://evil.example.com/public_profiles/abc", OutcomeWrongDomain, false},
		{"wrong path", "https://www.cloudskillsboost.google/paths/12", OutcomeWrongDomain, false},
		{"not a url", "::not a url::", OutcomeWrongDomain, false},
		{"empty", "", OutcomeWrongDomain, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := matcher.CheckReference(records.KindProfile, tt.reference)
			if tt.ok {
				if verdict != nil {
					t.Fatalf("expected acceptance, got %v (%s)", verdict.Outcome, verdict.Detail)
				}
				return
			}
			if verdict == nil {
				t.Fatal("expected rejection, reference was accepted")
			}
			if verdict.Outcome != tt.want {
				t.Errorf("Outcome = %v, want %v", verdict.Outcome, tt.want)
			}
		})
	}
}

func TestCheckReferenceBadge(t *testing.T) {
	matcher := newTestMatcher(t)
	tests := []struct {
		name      string
		reference string
		ok        bool
	}{
		{"google badge", "https://www.cloudskillsboost.google/public_profiles/abc-123/badges/456", true},
		{"credly badge", "https://www.credly.com/badges/a1b2-c3d4", true},
		{"google badge without number", "https://www.cloudskillsboost.google/public_profiles/abc/badges/", false},
		{"credly profile page", "https://www.credly.com/users/someone", false},
		{"profile path for badge", "https://www.cloudskillsboost.google/public_profiles/abc-123", false},
		{"foreign host", "https://badges.example.com/badges/123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := matcher.CheckReference(records.KindBadge, tt.reference)
			if tt.ok && verdict != nil {
				t.Fatalf("expected acceptance, got %v (%s)", verdict.Outcome, verdict.Detail)
			}
			if !tt.ok && verdict == nil {
				t.Fatal("expected rejection, reference was accepted")
			}
		})
	}
}

func TestEvaluateProfile(t *testing.T) {
	matcher := newTestMatcher(t)
	finalURL := "https://www.cloudskillsboost.google/public_profiles/abc-123"

	t.Run("accessible profile matches", func(t *testing.T) {
		body := []byte(`<html><head><title>Ada Lovelace - Cloud Skills Boost</title></head><body></body></html>`)
		verdict := matcher.Evaluate(Expectation{Kind: records.KindProfile}, finalURL, body)
		if verdict.Outcome != OutcomeMatch {
			t.Fatalf("Outcome = %v (%s), want match", verdict.Outcome, verdict.Detail)
		}
	})

	t.Run("holder name compared when provided", func(t *testing.T) {
		body := []byte(`<html><body><h1 class="profile-name">Ada Lovelace</h1></body></html>`)
		verdict := matcher.Evaluate(Expectation{Kind: records.KindProfile, Holder: "Grace Hopper"}, finalURL, body)
		if verdict.Outcome != OutcomeMismatch {
			t.Fatalf("Outcome = %v, want mismatch", verdict.Outcome)
		}
		verdict = matcher.Evaluate(Expectation{Kind: records.KindProfile, Holder: "ada LOVELACE"}, finalURL, body)
		if verdict.Outcome != OutcomeMatch {
			t.Fatalf("Outcome = %v (%s), want match", verdict.Outcome, verdict.Detail)
		}
	})

	t.Run("redirect off profile area is a mismatch", func(t *testing.T) {
		body := []byte(`<html><head><title>Sign in</title></head></html>`)
		verdict := matcher.Evaluate(Expectation{Kind: records.KindProfile},
			"https://www.cloudskillsboost.google/users/sign_in", body)
		if verdict.Outcome != OutcomeMismatch {
			t.Fatalf("Outcome = %v, want mismatch", verdict.Outcome)
		}
	})

	t.Run("empty page is unparseable", func(t *testing.T) {
		verdict := matcher.Evaluate(Expectation{Kind: records.KindProfile}, finalURL, []byte(`<html></html>`))
		if verdict.Outcome != OutcomeUnparseable {
			t.Fatalf("Outcome = %v, want unparseable", verdict.Outcome)
		}
	})
}

func TestEvaluateBadge(t *testing.T) {
	matcher := newTestMatcher(t)
	googleURL := "https://www.cloudskillsboost.google/public_profiles/abc/badges/7"
	credlyURL := "https://www.credly.com/badges/a1b2"

	t.Run("exact title", func(t *testing.T) {
		body := []byte(`<html><body><h1 class="badge-name">Introduction to Generative AI</h1></body></html>`)
		verdict := matcher.Evaluate(Expectation{Kind: records.KindBadge, Title: "Introduction to Generative AI"}, googleURL, body)
		if verdict.Outcome != OutcomeMatch {
			t.Fatalf("Outcome = %v (%s), want match", verdict.Outcome, verdict.Detail)
		}
	})

	t.Run("credly og:title with suffix", func(t *testing.T) {
		body := []byte(`<html><head><meta property="og:title" content="Prompt Design in Vertex AI - Credly"></head></html>`)
		verdict := matcher.Evaluate(Expectation{Kind: records.KindBadge, Title: "Prompt Design in Vertex AI"}, credlyURL, body)
		if verdict.Outcome != OutcomeMatch {
			t.Fatalf("Outcome = %v (%s), want match", verdict.Outcome, verdict.Detail)
		}
		if !strings.Contains(verdict.Detail, "Credly") {
			t.Errorf("Detail %q should name the platform", verdict.Detail)
		}
	})

	t.Run("different course is a mismatch", func(t *testing.T) {
		body := []byte(`<html><body><h1 class="badge-name">Responsible AI</h1></body></html>`)
		verdict := matcher.Evaluate(Expectation{Kind: records.KindBadge, Title: "Introduction to Large Language Models"}, googleURL, body)
		if verdict.Outcome != OutcomeMismatch {
			t.Fatalf("Outcome = %v (%s), want mismatch", verdict.Outcome, verdict.Detail)
		}
	})

	t.Run("no extractable title is unparseable", func(t *testing.T) {
		verdict := matcher.Evaluate(Expectation{Kind: records.KindBadge, Title: "Anything"}, googleURL, []byte(`<html></html>`))
		if verdict.Outcome != OutcomeUnparseable {
			t.Fatalf("Outcome = %v, want unparseable", verdict.Outcome)
		}
	})
}

func TestExtractProfileNameFallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"profile-name heading wins",
			`<html><head><title>Other - Cloud Skills Boost</title></head><body><h1 class="profile-name">Ada Lovelace</h1></body></html>`,
			"Ada Lovelace",
		},
		{
			"title with suffix stripped",
			`<html><head><title>Grace Hopper | Google Cloud Skills Boost</title></head></html>`,
			"Grace Hopper",
		},
		{
			"og title",
			`<html><head><meta property="og:title" content="Katherine Johnson"></head></html>`,
			"Katherine Johnson",
		},
		{
			"heading fallback",
			`<html><body><h2>Margaret Hamilton</h2></body></html>`,
			"Margaret Hamilton",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := ExtractProfileName([]byte(tt.body))
			if !ok {
				t.Fatal("extraction failed")
			}
			if name != tt.want {
				t.Errorf("name = %q, want %q", name, tt.want)
			}
		})
	}

	if _, ok := ExtractProfileName([]byte(`<html><body><p>nothing here</p></body></html>`)); ok {
		t.Error("extraction should fail without any name marker")
	}
}

func TestTitlesMatch(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		found    string
		want     Tier
	}{
		{"exact after normalization", "Introduction to Generative AI", "introduction   to generative ai", TierExact},
		{"containment", "Generative AI", "Introduction to Generative AI Course Badge", TierContains},
		{"word overlap", "Build Applications with Gemini and Streamlit", "Gemini and Streamlit Applications Skill Badge", TierOverlap},
		{"insufficient overlap", "Introduction to Security", "Advanced Kubernetes Networking", TierNone},
		{"empty expected", "", "Anything", TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitlesMatch(tt.expected, tt.found, 0.6); got != tt.want {
				t.Errorf("TitlesMatch(%q, %q) = %q, want %q", tt.expected, tt.found, got, tt.want)
			}
		})
	}
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		found    string
		want     bool
	}{
		{"identical", "Ada Lovelace", "Ada Lovelace", true},
		{"honorific ignored", "Dr Ada Lovelace", "ada lovelace", true},
		{"two shared words", "Ada Byron Lovelace King", "Ada Lovelace", true},
		{"different person", "Ada Lovelace", "Grace Hopper", false},
		{"empty", "", "Ada Lovelace", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := NamesMatch(tt.expected, tt.found)
			if got != tt.want {
				t.Errorf("NamesMatch(%q, %q) = %v, want %v", tt.expected, tt.found, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Intro\tTo   AI "); got != "intro to ai" {
		t.Errorf("Normalize = %q, want %q", got, "intro to ai")
	}
}
