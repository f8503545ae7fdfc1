package model

// Scoring modes reported verbatim in ScoreResult.ModelUsed.
const (
	ModeMLModel   = "ml_model"
	ModeHeuristic = "heuristic"
)

// ScoreResult is the outcome of one fatigue prediction.
type ScoreResult struct {
	FatigueScore    float64  `json:"fatigue_score"`
	RiskLevel       string   `json:"risk_level"`
	Recommendations []string `json:"recommendations"`
	Timestamp       string   `json:"timestamp"`
	ModelUsed       string   `json:"model_used"`
}

// SaveReceipt acknowledges a persisted session record.
type SaveReceipt struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	File      string `json:"file"`
}

// ModelInfo describes the serving classifier, or its absence, for clients.
type ModelInfo struct {
	ModelLoaded      bool     `json:"model_loaded"`
	Message          string   `json:"message,omitempty"`
	ModelType        string   `json:"model_type,omitempty"`
	ModelVersion     string   `json:"model_version,omitempty"`
	NFeatures        int      `json:"expected_feature_count"`
	ExpectedFeatures []string `json:"expected_features"`
}
