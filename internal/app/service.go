// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neurofitplus/neurofit/internal/adapters/artifact"
	"github.com/neurofitplus/neurofit/internal/adapters/sessionlog"
	"github.com/neurofitplus/neurofit/internal/domain/feature"
	"github.com/neurofitplus/neurofit/internal/domain/model"
	"github.com/neurofitplus/neurofit/internal/domain/scoring"
	"github.com/neurofitplus/neurofit/pkg/logger"
	"github.com/neurofitplus/neurofit/pkg/metrics"
)

// Message reported by /model/features when the heuristic serves.
const heuristicMessage = "Model not loaded - using heuristic"

// Service implements the API dependencies for the fatigue prediction system.
//
// The validation outcome and scoring mode are fixed at Start and never change
// while the process lives; swapping artifacts requires a restart.
type Service struct {
	mu sync.RWMutex

	// Configuration
	modelPath       string
	manifestPath    string
	sessionsFile    string
	appendQueueSize int
	versions        artifact.Versions

	// Core components
	engine     *scoring.Engine
	store      sessionlog.Store
	validation artifact.Result

	// State
	started     bool
	startedAt   time.Time
	predictions atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithModelPath sets the classifier artifact location.
func WithModelPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithManifestPath sets the training manifest location.
func WithManifestPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.manifestPath = path
		}
	}
}

// WithSessionsFile sets the session log destination.
func WithSessionsFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.sessionsFile = path
		}
	}
}

// WithAppendQueueSize bounds the pending session log appends.
func WithAppendQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.appendQueueSize = size
		}
	}
}

// WithRuntimeVersions sets the training toolchain pins the manifest must match.
func WithRuntimeVersions(numpy, sklearn string) Option {
	return func(s *Service) {
		if numpy != "" {
			s.versions.Numpy = numpy
		}
		if sklearn != "" {
			s.versions.Sklearn = sklearn
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelPath:       filepath.Join("models", "fatigue_model.json"),
		manifestPath:    filepath.Join("models", "model_manifest.json"),
		sessionsFile:    filepath.Join("data", "sessions.jsonl"),
		appendQueueSize: 1024,
		versions:        artifact.Versions{Numpy: "1.26.4", Sklearn: "1.5.2"},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start validates the classifier artifacts, fixes the scoring mode for the
// lifetime of the process and opens the session log.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting fatigue prediction service...")

	s.validation = artifact.Validate(ctx, s.modelPath, s.manifestPath, s.versions)
	if s.validation.OK {
		s.engine = scoring.NewEngine(
			scoring.WithClassifier(s.validation.Model),
			scoring.WithModelTrusted(true),
		)
		metrics.UpdateModelLoaded(true)
		s.logger.Info(ctx, "classifier validated, serving ml_model predictions",
			logger.String("modelVersion", s.validation.Manifest.ModelVersion),
			logger.String("modelPath", s.modelPath),
		)
	} else {
		s.engine = scoring.NewEngine()
		metrics.UpdateModelLoaded(false)
		s.logger.Warn(ctx, "classifier validation failed, serving heuristic predictions",
			logger.String("reason", s.validation.Reason),
			logger.String("modelPath", s.modelPath),
		)
	}

	s.store = sessionlog.NewJSONLStore(s.sessionsFile,
		sessionlog.WithQueueSize(s.appendQueueSize),
		sessionlog.WithName("service.sessionlog"),
	)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "fatigue prediction service started",
		logger.Bool("modelLoaded", s.validation.OK),
		logger.String("sessionsFile", s.sessionsFile),
		logger.Int("appendQueueSize", s.appendQueueSize),
	)

	return nil
}

// Stop gracefully shuts down the service, draining pending session appends.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping fatigue prediction service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing session store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "fatigue prediction service stopped")
}

// Predict extracts the canonical feature vector from one session and scores
// it in whichever mode Start fixed.
func (s *Service) Predict(ctx context.Context, sess model.Session) (model.ScoreResult, error) {
	s.mu.RLock()
	engine := s.engine
	s.mu.RUnlock()

	if engine == nil {
		return model.ScoreResult{}, ErrNotStarted
	}

	start := time.Now()
	vec := feature.Build(sess)

	res, err := engine.Score(ctx, vec)
	if err != nil {
		metrics.RecordScoringError()
		if scoring.IsShapeMismatch(err) {
			metrics.RecordShapeMismatch()
		}
		s.logger.Error(ctx, "scoring failed",
			logger.Error(err),
			logger.String("userID", sess.UserID),
		)
		return model.ScoreResult{}, err
	}

	s.predictions.Add(1)
	metrics.RecordPrediction(res.ModelUsed)
	metrics.ObserveFatigueScore(res.Score)
	metrics.RecordRiskLevel(res.RiskLevel)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))

	return model.ScoreResult{
		FatigueScore:    res.Score,
		RiskLevel:       res.RiskLevel,
		Recommendations: res.Recommendations,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		ModelUsed:       res.ModelUsed,
	}, nil
}

// SaveSession appends one raw session payload to the session log.
func (s *Service) SaveSession(ctx context.Context, sess model.Session) (model.SaveReceipt, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()

	if store == nil {
		return model.SaveReceipt{}, ErrNotStarted
	}
	return store.Append(ctx, sess)
}

// ModelInfo describes the serving classifier, loaded or not. Either way the
// expected feature contract is listed so clients can shape payloads.
func (s *Service) ModelInfo(_ context.Context) model.ModelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := model.ModelInfo{
		NFeatures:        feature.Width,
		ExpectedFeatures: feature.Names(),
	}
	if !s.validation.OK {
		info.Message = heuristicMessage
		return info
	}

	info.ModelLoaded = true
	info.ModelType = s.validation.Model.ModelType
	info.ModelVersion = s.validation.Manifest.ModelVersion
	return info
}

// Manifest returns the validated manifest; ok is false in heuristic mode.
func (s *Service) Manifest(_ context.Context) (*artifact.Manifest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.validation.OK {
		return nil, false
	}
	return s.validation.Manifest, true
}

// ModelLoaded reports whether a validated classifier serves predictions.
func (s *Service) ModelLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validation.OK
}

// ValidationReason returns the mismatch description when validation failed.
func (s *Service) ValidationReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validation.Reason
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mode := model.ModeHeuristic
	if s.validation.OK {
		mode = model.ModeMLModel
	}

	stats := map[string]interface{}{
		"started":      s.started,
		"model_loaded": s.validation.OK,
		"scoring_mode": mode,
		"predictions":  s.predictions.Load(),
	}

	if s.started {
		stats["uptime_seconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["sessions_saved"] = s.store.Count(context.Background())
		stats["sessions_file"] = s.store.Path()
	}
	if !s.validation.OK && s.validation.Reason != "" {
		stats["validation_reason"] = s.validation.Reason
	}

	return stats
}
