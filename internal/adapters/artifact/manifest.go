package artifact

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest binds a trained classifier to its training provenance and the
// input contract it was fitted against. The trainer writes it next to the
// artifact; neither file is ever mutated in place.
type Manifest struct {
	ModelVersion   string   `json:"model_version"`
	TrainDate      string   `json:"train_date"`
	DatasetHash    string   `json:"dataset_hash"`
	NumpyVersion   string   `json:"numpy_version"`
	SklearnVersion string   `json:"sklearn_version"`
	FeatureNames   []string `json:"feature_names"`
	Notes          string   `json:"notes"`
}

// LoadManifest reads a manifest JSON file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestUnreadable, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestMalformed, err)
	}
	return &m, nil
}
