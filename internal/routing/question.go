package routing

import (
	"regexp"
	"strconv"
	"strings"
)

// Question is the parsed, normalized form of a user question plus the
// parameters extracted from it. All derivation is pure and deterministic.
type Question struct {
	// Raw is the question text as received.
	Raw string

	// Normalized is the lowercased text with punctuation stripped
	// (quotes and hyphens kept) and whitespace collapsed.
	Normalized string

	// Namespace extracted from phrases like "in the payments namespace".
	// Empty means no namespace filter.
	Namespace string

	// Hours is the lookback window extracted from "last N hours" phrases.
	// Defaults to 1, never below 1.
	Hours int

	// PodName extracted from phrases like "logs from the api-gateway pod".
	PodName string

	// SearchQuery extracted from quoted strings or "search for X" phrases.
	SearchQuery string
}

var (
	reStripChars  = regexp.MustCompile(`[^a-z0-9\-\s"]+`)
	reCollapseWS  = regexp.MustCompile(`\s+`)
	reNamespace1  = regexp.MustCompile(`(?:in|from) (?:the )?([a-z0-9-]+) namespace`)
	reNamespace2  = regexp.MustCompile(`namespace ([a-z0-9-]+)`)
	reHours       = regexp.MustCompile(`(?:last|past) (\d+) hours?`)
	rePodPatterns = []*regexp.Regexp{
		regexp.MustCompile(`logs (?:from|for) (?:the )?([a-z0-9-]+)`),
		regexp.MustCompile(`pod ([a-z0-9-]+)`),
	}
	reQuoted         = regexp.MustCompile(`"([^"]+)"`)
	reSearchPatterns = []*regexp.Regexp{
		regexp.MustCompile(`search for ([a-z0-9 _.-]+)`),
		regexp.MustCompile(`find logs containing ([a-z0-9 _.-]+)`),
		regexp.MustCompile(`containing ([a-z0-9 _.-]+)`),
		regexp.MustCompile(`mentions ([a-z0-9 _.-]+)`),
	}
)

// ParseQuestion normalizes raw question text and extracts routing
// parameters. Same input always yields the same Question.
func ParseQuestion(raw string) Question {
	normalized := normalize(raw)
	return Question{
		Raw:         raw,
		Normalized:  normalized,
		Namespace:   extractNamespace(normalized),
		Hours:       extractHours(normalized),
		PodName:     extractPodName(normalized),
		SearchQuery: extractSearchQuery(raw),
	}
}

// mentions reports whether the normalized text contains any of the terms.
func (q Question) mentions(terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(q.Normalized, term) {
			return true
		}
	}
	return false
}

// commonArgs is the shared argument set for time-bounded log queries.
func (q Question) commonArgs() map[string]interface{} {
	return map[string]interface{}{
		"namespace": q.Namespace,
		"hours":     q.Hours,
	}
}

func normalize(text string) string {
	cleaned := reStripChars.ReplaceAllString(strings.ToLower(text), " ")
	return strings.TrimSpace(reCollapseWS.ReplaceAllString(cleaned, " "))
}

func extractNamespace(text string) string {
	for _, re := range []*regexp.Regexp{reNamespace1, reNamespace2} {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func extractHours(text string) int {
	if m := reHours.FindStringSubmatch(text); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err == nil && hours > 1 {
			return hours
		}
		return 1
	}
	// "right now" and "currently" both mean the most recent hour,
	// which is also the default.
	return 1
}

func extractPodName(text string) string {
	for _, re := range rePodPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractSearchQuery prefers an exact quoted phrase from the raw text,
// then falls back to trigger phrases over the lowercased text.
func extractSearchQuery(raw string) string {
	if m := reQuoted.FindStringSubmatch(raw); m != nil {
		return m[1]
	}

	lowered := strings.ToLower(raw)
	for _, re := range reSearchPatterns {
		if m := re.FindStringSubmatch(lowered); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	if strings.Contains(lowered, "timeout") {
		return "timeout"
	}
	return ""
}
