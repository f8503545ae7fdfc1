// Package artifact loads the trained classifier artifact and its manifest and
// cross-checks them. It is the single validation component shared by service
// startup and the CI entry point so the two paths cannot drift.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// ModelTypeLogistic is the only classifier export the serving runtime accepts.
const ModelTypeLogistic = "logistic_regression"

// Model is a logistic-regression classifier exported by the offline trainer as
// JSON coefficients. It satisfies the scoring.Classifier contract.
type Model struct {
	ModelType    string    `json:"model_type"`
	NFeaturesIn  int       `json:"n_features_in"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LoadModel reads and structurally validates a classifier artifact.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnreadable, err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelMalformed, err)
	}

	switch {
	case m.ModelType != ModelTypeLogistic:
		return nil, fmt.Errorf("%w: unsupported model_type %q", ErrModelMalformed, m.ModelType)
	case m.NFeaturesIn <= 0:
		return nil, fmt.Errorf("%w: n_features_in must be positive", ErrModelMalformed)
	case len(m.Coefficients) != m.NFeaturesIn:
		return nil, fmt.Errorf("%w: %d coefficients for n_features_in=%d",
			ErrModelMalformed, len(m.Coefficients), m.NFeaturesIn)
	case len(m.FeatureNames) != m.NFeaturesIn:
		return nil, fmt.Errorf("%w: %d feature names for n_features_in=%d",
			ErrModelMalformed, len(m.FeatureNames), m.NFeaturesIn)
	}

	return &m, nil
}

// ExpectedInputWidth reports the feature count the model was trained on.
func (m *Model) ExpectedInputWidth() int {
	return m.NFeaturesIn
}

// PredictProba returns [p(rested), p(fatigued)] for one feature vector in
// canonical order.
func (m *Model) PredictProba(_ context.Context, features []float64) ([]float64, error) {
	if len(features) != m.NFeaturesIn {
		return nil, fmt.Errorf("%w: input width %d, expected %d",
			ErrInputWidth, len(features), m.NFeaturesIn)
	}

	z := m.Intercept
	for i, x := range features {
		z += m.Coefficients[i] * x
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
