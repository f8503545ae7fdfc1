package artifact

import (
	"context"
	"fmt"
	"os"

	"github.com/neurofitplus/neurofit/internal/domain/feature"
)

// Versions pins the offline training toolchain a deployment accepts. Matching
// is an exact string comparison; no semver ranges.
type Versions struct {
	Numpy   string
	Sklearn string
}

// Result is the outcome of validating a classifier against its manifest.
// When OK is false, Reason carries the specific mismatch and the model must
// not serve predictions.
type Result struct {
	OK       bool
	Reason   string
	Model    *Model
	Manifest *Manifest
}

func failed(reason string) Result {
	return Result{OK: false, Reason: reason}
}

// Validate cross-checks the classifier artifact and manifest. All checks must
// pass for OK=true; the first failure wins, fail-fast. Both the service boot
// path and the CI command call exactly this function.
func Validate(_ context.Context, modelPath, manifestPath string, runtime Versions) Result {
	if _, err := os.Stat(modelPath); err != nil {
		return failed(fmt.Sprintf("model file not found: %s", modelPath))
	}
	if _, err := os.Stat(manifestPath); err != nil {
		return failed(fmt.Sprintf("manifest file not found: %s", manifestPath))
	}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return failed(fmt.Sprintf("failed to load manifest: %v", err))
	}
	model, err := LoadModel(modelPath)
	if err != nil {
		return failed(fmt.Sprintf("failed to load model: %v", err))
	}

	if len(manifest.FeatureNames) == 0 {
		return failed("manifest feature_names is empty")
	}

	if model.ExpectedInputWidth() != len(manifest.FeatureNames) {
		return failed(fmt.Sprintf(
			"feature count mismatch: model expects %d features, but manifest feature_names has %d",
			model.ExpectedInputWidth(), len(manifest.FeatureNames)))
	}

	if manifest.NumpyVersion != runtime.Numpy {
		return failed(fmt.Sprintf(
			"numpy version mismatch: manifest=%s, runtime=%s",
			manifest.NumpyVersion, runtime.Numpy))
	}
	if manifest.SklearnVersion != runtime.Sklearn {
		return failed(fmt.Sprintf(
			"sklearn version mismatch: manifest=%s, runtime=%s",
			manifest.SklearnVersion, runtime.Sklearn))
	}

	if !equalNames(manifest.FeatureNames, model.FeatureNames) {
		return failed(fmt.Sprintf(
			"feature names mismatch: manifest=%v, model=%v",
			manifest.FeatureNames, model.FeatureNames))
	}

	// The manifest must also match the order this serving build extracts
	// features in; a reordered contract silently mispredicts.
	if !equalNames(manifest.FeatureNames, feature.Names()) {
		return failed(fmt.Sprintf(
			"feature order mismatch: manifest=%v, serving=%v",
			manifest.FeatureNames, feature.Names()))
	}

	return Result{OK: true, Model: model, Manifest: manifest}
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
