// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/neurofitplus/neurofit/internal/domain/model"
)

// PredictHandler handles fatigue prediction requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /predict_fatigue requests. The payload contract
// is total: any syntactically valid JSON body scores, with missing or
// malformed fields coerced to zero by the session decoder.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_fatigue"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var session model.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.Predict(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "prediction_error", WrapKind(op, ErrPredict, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
