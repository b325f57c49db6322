// Package summarizer condenses raw backend tool output into a short
// human-readable summary.
//
// The model is used for phrasing only: it receives the tool output and a
// fixed instruction, never the user's question and never any tools. It
// cannot influence routing, tool choice or arguments. Summarization is
// best-effort: when it fails, callers still return the raw result with an
// explicit unavailability marker.
package summarizer

import (
	"context"

	"github.com/moolen/opsask/internal/logging"
)

// UnavailableMarker is the summary value used when summarization failed.
// The raw tool result still accompanies it, so the response stays useful.
const UnavailableMarker = "summary unavailable"

// Provider generates a completion for a fixed prompt. Implementations
// must not expose tool use; the prompt is the only input.
type Provider interface {
	// Complete returns the model output for the prompt.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider in logs and responses.
	Name() string
}

// Result is the outcome of a summarization attempt.
type Result struct {
	// Summary is the model output, or UnavailableMarker when Summarized
	// is false.
	Summary string

	// Summarized reports whether the model produced the summary.
	Summarized bool
}

// Summarizer wraps a Provider with the fixed summarization prompt and the
// degrade-on-failure policy.
type Summarizer struct {
	provider Provider
	logger   *logging.Logger
}

// New creates a Summarizer backed by the given provider.
func New(provider Provider) *Summarizer {
	return &Summarizer{
		provider: provider,
		logger:   logging.GetLogger("summarizer"),
	}
}

// Summarize condenses raw tool output. It never returns an error: a
// provider failure degrades to the unavailability marker, because a raw
// result without a summary is still a correct answer.
func (s *Summarizer) Summarize(ctx context.Context, toolOutput string) Result {
	summary, err := s.provider.Complete(ctx, buildPrompt(toolOutput))
	if err != nil {
		s.logger.WarnWithFields("summarization failed, returning raw result",
			logging.Field("provider", s.provider.Name()),
			logging.Field("error", err.Error()),
		)
		return Result{Summary: UnavailableMarker, Summarized: false}
	}
	return Result{Summary: summary, Summarized: true}
}
