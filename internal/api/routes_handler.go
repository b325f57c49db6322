package api

import (
	"net/http"
)

// RouteInfo is the JSON shape of one route in the route listing.
type RouteInfo struct {
	ID      string `json:"id"`
	Backend string `json:"backend"`
	Tool    string `json:"tool"`
	Form    string `json:"form"`
}

// RoutesResponse is the body of GET /v1/routes.
type RoutesResponse struct {
	Routes []RouteInfo `json:"routes"`
}

// RoutesHandler serves GET /v1/routes: the route table in its fixed
// evaluation order. Useful to discover what the service can answer.
type RoutesHandler struct {
	asker Asker
}

// NewRoutesHandler creates a RoutesHandler.
func NewRoutesHandler(asker Asker) *RoutesHandler {
	return &RoutesHandler{asker: asker}
}

// Handle writes the ordered route listing.
func (h *RoutesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	routes := h.asker.Routes()
	resp := RoutesResponse{Routes: make([]RouteInfo, 0, len(routes))}
	for _, route := range routes {
		resp.Routes = append(resp.Routes, RouteInfo{
			ID:      route.ID,
			Backend: string(route.Backend),
			Tool:    route.Tool,
			Form:    route.Form,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = WriteJSON(w, resp)
}
