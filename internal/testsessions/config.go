package testsessions

import "time"

// Config holds configuration for the session load test.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumSessions int           // Number of sessions to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated sessions
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Session mirrors the wire shape accepted by /predict_fatigue and
// /save_session.
type Session struct {
	UserID          string             `json:"user_id"`
	Timestamp       string             `json:"timestamp"`
	Answers         map[string]float64 `json:"answers"`
	TypingFeatures  TypingFeatures     `json:"typing_features"`
	TaskPerformance TaskPerformance    `json:"task_performance"`
}

// TypingFeatures mirrors the typing_features wire object.
type TypingFeatures struct {
	AverageLatencyMS float64 `json:"average_latency_ms"`
	TotalDurationMS  float64 `json:"total_duration_ms"`
	BackspaceRate    float64 `json:"backspace_rate"`
}

// TaskPerformance mirrors the task_performance wire object.
type TaskPerformance struct {
	ReactionTimeMS    float64 `json:"reaction_time_ms"`
	ReactionAttempted bool    `json:"reaction_attempted"`
}

// Prediction mirrors the response shape of /predict_fatigue.
type Prediction struct {
	FatigueScore    float64  `json:"fatigue_score"`
	RiskLevel       string   `json:"risk_level"`
	Recommendations []string `json:"recommendations"`
	Timestamp       string   `json:"timestamp"`
	ModelUsed       string   `json:"model_used"`
}

// SaveReceipt mirrors the response shape of /save_session.
type SaveReceipt struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	File      string `json:"file"`
}

// Stats holds test statistics.
type Stats struct {
	SessionsGenerated     int
	PredictionsSubmitted  int
	PredictionsSuccessful int
	PredictionsFailed     int
	SessionsSaved         int
	SavesFailed           int
	InvariantViolations   int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
