package routing

// Table is the fixed, ordered route set. It is built once at startup and
// safely shared by any number of concurrent Match calls.
type Table struct {
	routes []Route
}

// NewTable returns the route table in its fixed evaluation order.
//
// Order matters: more specific shapes come first. Reordering changes which
// route wins for ambiguous questions and must be deliberate.
func NewTable() *Table {
	return &Table{routes: []Route{
		{
			ID:      "prometheus-health",
			Backend: BackendPrometheus,
			Tool:    "health_check",
			Form:    "is prometheus / are my metrics healthy?",
			matches: func(q Question) bool {
				return q.mentions("prometheus", "metrics") && q.mentions("health", "healthy", "up")
			},
			args: func(q Question) map[string]interface{} {
				return map[string]interface{}{}
			},
		},
		{
			ID:      "loki-namespaces",
			Backend: BackendLoki,
			Tool:    "list_namespaces",
			Form:    "which namespaces are logging?",
			matches: func(q Question) bool {
				return q.mentions("namespaces")
			},
			args: func(q Question) map[string]interface{} {
				return map[string]interface{}{}
			},
		},
		{
			ID:      "loki-pod-restarts",
			Backend: BackendLoki,
			Tool:    "find_pod_restarts",
			Form:    "which pods are restarting / crashing (in the X namespace) (in the last N hours)?",
			matches: func(q Question) bool {
				return q.mentions("restart", "restarts", "crash", "crashing", "crashloop", "oomkilled")
			},
			args: func(q Question) map[string]interface{} {
				return q.commonArgs()
			},
		},
		{
			ID:      "loki-pod-logs",
			Backend: BackendLoki,
			Tool:    "get_pod_logs",
			Form:    "show me logs from the X pod (in the Y namespace)",
			matches: func(q Question) bool {
				return q.PodName != ""
			},
			args: func(q Question) map[string]interface{} {
				args := q.commonArgs()
				args["pod_name"] = q.PodName
				return args
			},
		},
		{
			ID:      "loki-search",
			Backend: BackendLoki,
			Tool:    "search_logs",
			Form:    `search logs for "some phrase" / find logs containing X`,
			matches: func(q Question) bool {
				return q.SearchQuery != ""
			},
			args: func(q Question) map[string]interface{} {
				args := q.commonArgs()
				args["query"] = q.SearchQuery
				return args
			},
		},
		{
			ID:      "loki-errors",
			Backend: BackendLoki,
			Tool:    "get_error_summary",
			Form:    "what errors are happening (in the X namespace) (in the last N hours)?",
			matches: func(q Question) bool {
				return q.mentions("error", "errors", "exception", "exceptions", "panic", "fatal")
			},
			args: func(q Question) map[string]interface{} {
				return q.commonArgs()
			},
		},
	}}
}

// Match parses the question and evaluates routes in their fixed order,
// returning the first route whose predicate accepts it. Matching is total:
// every input yields either a matched route or NoMatch, never an error.
func (t *Table) Match(question string) MatchOutcome {
	q := ParseQuestion(question)

	for i := range t.routes {
		if t.routes[i].Matches(q) {
			return MatchOutcome{Route: &t.routes[i], Matched: true, Question: q}
		}
	}

	return MatchOutcome{Question: q}
}

// Routes returns a copy of the route slice in evaluation order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// RecognizedForms lists the question forms the table recognizes, in route
// order. Returned to callers whose question matched nothing.
func (t *Table) RecognizedForms() []string {
	forms := make([]string, 0, len(t.routes))
	for _, r := range t.routes {
		forms = append(forms, r.Form)
	}
	return forms
}
