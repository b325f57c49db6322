// Package orchestrator runs the question-answering pipeline: match the
// question against the route table, invoke the matched backend tool, then
// summarize the raw result.
//
// Failure policy is asymmetric on purpose. A failed tool invocation is
// fatal: no answer is fabricated and no other route is tried. A failed
// summarization is not: the raw result is returned with an explicit
// unavailability marker.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/moolen/opsask/internal/backend"
	"github.com/moolen/opsask/internal/logging"
	"github.com/moolen/opsask/internal/routing"
	"github.com/moolen/opsask/internal/summarizer"
)

// ErrNoRouteMatch is returned when no route recognizes the question.
// No backend call and no model call happen in that case.
var ErrNoRouteMatch = errors.New("no route matches the question")

// NoRouteError wraps ErrNoRouteMatch with the recognized question forms
// so callers can tell the user what they can ask.
type NoRouteError struct {
	Question        string
	RecognizedForms []string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route matches question %q", e.Question)
}

func (e *NoRouteError) Unwrap() error {
	return ErrNoRouteMatch
}

// Invoker invokes one backend tool. Implemented by backend.Client.
type Invoker interface {
	Invoke(ctx context.Context, b routing.Backend, tool string, args map[string]interface{}) (*backend.ToolResult, error)
}

// Response is the assembled answer for a question. It always carries the
// raw tool result next to the summary, so the answer stays debuggable
// even when the summary is wrong or missing.
type Response struct {
	Question   string                 `json:"question"`
	Route      string                 `json:"route"`
	Backend    routing.Backend        `json:"backend"`
	Tool       string                 `json:"tool"`
	Args       map[string]interface{} `json:"args"`
	RawResult  string                 `json:"raw_result"`
	Summary    string                 `json:"summary"`
	Summarized bool                   `json:"summarized"`
}

// Orchestrator wires the route table, backend client and summarizer into
// the fixed three-step pipeline.
type Orchestrator struct {
	table      *routing.Table
	invoker    Invoker
	summarizer *summarizer.Summarizer
	tracer     trace.Tracer
	logger     *logging.Logger
}

// New creates an Orchestrator.
func New(table *routing.Table, invoker Invoker, s *summarizer.Summarizer) *Orchestrator {
	return &Orchestrator{
		table:      table,
		invoker:    invoker,
		summarizer: s,
		tracer:     otel.Tracer("opsask/orchestrator"),
		logger:     logging.GetLogger("orchestrator"),
	}
}

// Ask answers one question. The pipeline is strictly sequential and every
// step's outcome is decided before the next one starts:
//
//  1. match   — deterministic, no I/O; NoMatch ends the pipeline here
//  2. invoke  — exactly one tool call on the matched backend; failure is fatal
//  3. summarize — best-effort; failure degrades to the raw result
func (o *Orchestrator) Ask(ctx context.Context, question string) (*Response, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.Ask",
		trace.WithAttributes(attribute.Int("question.length", len(question))))
	defer span.End()

	outcome := o.table.Match(question)
	if !outcome.Matched {
		span.SetAttributes(attribute.Bool("route.matched", false))
		o.logger.InfoWithFields("no route matched", logging.Field("question", question))
		return nil, &NoRouteError{
			Question:        question,
			RecognizedForms: o.table.RecognizedForms(),
		}
	}

	route := outcome.Route
	args := route.Args(outcome.Question)
	span.SetAttributes(
		attribute.Bool("route.matched", true),
		attribute.String("route.id", route.ID),
		attribute.String("route.backend", string(route.Backend)),
		attribute.String("route.tool", route.Tool),
	)
	o.logger.InfoWithFields("route matched",
		logging.Field("route", route.ID),
		logging.Field("backend", string(route.Backend)),
		logging.Field("tool", route.Tool),
	)

	result, err := o.invoker.Invoke(ctx, route.Backend, route.Tool, args)
	if err != nil {
		span.SetAttributes(attribute.String("outcome", "invocation_failed"))
		return nil, fmt.Errorf("route %s: %w", route.ID, err)
	}

	summary := o.summarizer.Summarize(ctx, result.Payload)
	if summary.Summarized {
		span.SetAttributes(attribute.String("outcome", "ok"))
	} else {
		span.SetAttributes(attribute.String("outcome", "summary_unavailable"))
	}

	return &Response{
		Question:   question,
		Route:      route.ID,
		Backend:    route.Backend,
		Tool:       route.Tool,
		Args:       args,
		RawResult:  result.Payload,
		Summary:    summary.Summary,
		Summarized: summary.Summarized,
	}, nil
}

// Routes exposes the route table in evaluation order, for the route
// listing endpoint and CLI.
func (o *Orchestrator) Routes() []routing.Route {
	return o.table.Routes()
}
