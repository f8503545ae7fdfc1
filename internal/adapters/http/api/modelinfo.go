// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ModelHandler handles model introspection requests.
type ModelHandler struct {
	deps Dependencies
}

// NewModelHandler creates a new model handler.
func NewModelHandler(deps Dependencies) *ModelHandler {
	return &ModelHandler{deps: deps}
}

// HandleFeatures handles GET /model/features requests. It answers in both
// modes; when no model serves, the expected feature contract is still listed
// so clients can shape payloads.
func (h *ModelHandler) HandleFeatures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ModelInfo(r.Context()))
}

// HandleManifest handles GET /model/manifest requests. Without a validated
// model there is no manifest to report, hence 404 rather than an empty body.
func (h *ModelHandler) HandleManifest(w http.ResponseWriter, r *http.Request) {
	const op = "api.model_manifest"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	manifest, ok := h.deps.Manifest(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrManifestUnavailable))
		return
	}
	writeJSON(w, http.StatusOK, manifest)
}
