// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/neurofitplus/neurofit/internal/adapters/artifact"
	"github.com/neurofitplus/neurofit/internal/domain/model"
	"github.com/neurofitplus/neurofit/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service wiring.
type Dependencies interface {
	// Predict scores one session payload.
	Predict(ctx context.Context, s model.Session) (model.ScoreResult, error)

	// SaveSession appends one session payload to the session log.
	SaveSession(ctx context.Context, s model.Session) (model.SaveReceipt, error)

	// ModelInfo describes the serving classifier, loaded or not.
	ModelInfo(ctx context.Context) model.ModelInfo

	// Manifest returns the validated manifest; ok is false when no model serves.
	Manifest(ctx context.Context) (*artifact.Manifest, bool)
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler    *RootHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	predictHandler *PredictHandler
	sessionHandler *SessionHandler
	modelHandler   *ModelHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		rootHandler:    NewRootHandler(deps),
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		predictHandler: NewPredictHandler(deps),
		sessionHandler: NewSessionHandler(deps),
		modelHandler:   NewModelHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/model/features", MetricsMiddleware(s.modelHandler.HandleFeatures, "model_features"))
	mux.HandleFunc("/model/manifest", MetricsMiddleware(s.modelHandler.HandleManifest, "model_manifest"))
	mux.HandleFunc("/predict_fatigue", MetricsMiddleware(s.predictHandler.HandlePredict, "predict_fatigue"))
	mux.HandleFunc("/save_session", MetricsMiddleware(s.sessionHandler.HandleSave, "save_session"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
