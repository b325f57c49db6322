// Package api implements the HTTP handlers for the question endpoint and
// the route listing, plus the shared error and response types.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moolen/opsask/internal/backend"
	"github.com/moolen/opsask/internal/logging"
	"github.com/moolen/opsask/internal/orchestrator"
	"github.com/moolen/opsask/internal/routing"
)

// Asker answers questions. Implemented by orchestrator.Orchestrator.
type Asker interface {
	Ask(ctx context.Context, question string) (*orchestrator.Response, error)
	Routes() []routing.Route
}

// AskRequest is the JSON body of POST /v1/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskHandler serves POST /v1/ask.
type AskHandler struct {
	asker  Asker
	logger *logging.Logger
}

// NewAskHandler creates an AskHandler.
func NewAskHandler(asker Asker) *AskHandler {
	return &AskHandler{
		asker:  asker,
		logger: logging.GetLogger("api"),
	}
}

// Handle decodes the question, runs the pipeline and maps pipeline
// failures to API error codes.
func (h *AskHandler) Handle(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body: %v", err))
		return
	}
	if req.Question == "" {
		WriteError(w, NewInvalidRequestError("question must not be empty"))
		return
	}

	resp, err := h.asker.Ask(r.Context(), req.Question)
	if err != nil {
		WriteError(w, mapAskError(req.Question, err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = WriteJSON(w, resp)
}

func mapAskError(question string, err error) *APIError {
	var noRoute *orchestrator.NoRouteError
	if errors.As(err, &noRoute) {
		return NewNoRouteMatchError(question, noRoute.RecognizedForms)
	}

	var invErr *backend.InvocationError
	if errors.As(err, &invErr) {
		return NewToolInvocationError("%s", invErr.Error())
	}

	return NewInternalServerError("failed to answer question: %v", err)
}
