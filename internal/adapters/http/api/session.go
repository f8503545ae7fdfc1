// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/neurofitplus/neurofit/internal/domain/model"
)

// SessionHandler handles session persistence requests.
type SessionHandler struct {
	deps Dependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleSave handles POST /save_session requests. The raw payload is appended
// verbatim to the session log; persistence failures never affect predictions.
func (h *SessionHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var session model.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	receipt, err := h.deps.SaveSession(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save_error", WrapKind(op, ErrSave, err))
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
