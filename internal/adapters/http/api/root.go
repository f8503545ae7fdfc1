// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// Service identity reported by the root endpoint.
const (
	serviceName    = "NeuroFit+ API"
	serviceVersion = "1.0.0"
)

// RootHandler handles service info requests.
type RootHandler struct {
	deps Dependencies
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps Dependencies) *RootHandler {
	return &RootHandler{deps: deps}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	modelStatus := "heuristic"
	if h.deps.ModelInfo(r.Context()).ModelLoaded {
		modelStatus = "loaded"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Welcome to " + serviceName,
		"version":      serviceVersion,
		"model_status": modelStatus,
		"endpoints": map[string]string{
			"predict_fatigue": "POST /predict_fatigue",
			"save_session":    "POST /save_session",
		},
	})
}
