// Package routing implements the deterministic question-to-route matcher.
//
// A fixed, ordered set of routes binds recognized question shapes to one
// backend tool call each. Matching is a pure function of the question text
// and the static route set: no I/O, no randomness, no wall clock. The first
// route whose predicate matches wins, so route order is load-bearing
// configuration.
package routing

// Backend identifies which monitoring backend serves a route.
// This is a closed set; request building switches exhaustively over it.
type Backend string

const (
	// BackendLoki is the log query backend (Loki MCP server).
	BackendLoki Backend = "loki"
	// BackendPrometheus is the metrics query backend (Prometheus MCP server).
	BackendPrometheus Backend = "prometheus"
)

// Route binds a recognized question shape to one backend tool call.
// Routes are immutable after process start.
type Route struct {
	// ID identifies the route in responses and logs, e.g. "loki-errors".
	ID string

	// Backend selects the monitoring backend.
	Backend Backend

	// Tool is the MCP tool name invoked on the backend.
	Tool string

	// Form is the human-readable question form this route recognizes.
	// Surfaced to callers when no route matches.
	Form string

	matches func(Question) bool
	args    func(Question) map[string]interface{}
}

// Matches reports whether the route's predicate accepts the question.
func (r Route) Matches(q Question) bool {
	return r.matches(q)
}

// Args builds the backend tool arguments for a matched question.
// The argument shape per route is constant; only extracted parameters vary.
func (r Route) Args(q Question) map[string]interface{} {
	if r.args == nil {
		return map[string]interface{}{}
	}
	return r.args(q)
}

// MatchOutcome is the total result of matching: either a single matched
// route or no match. NoMatch is a value here, not an error.
type MatchOutcome struct {
	// Route is the matched route, nil when Matched is false.
	Route *Route

	// Matched indicates whether any route's predicate accepted the question.
	Matched bool

	// Question is the parsed form of the input, including extracted
	// parameters. Populated in both outcomes.
	Question Question
}
