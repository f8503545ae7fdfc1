package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/neurofitplus/neurofit/internal/adapters/artifact"
	"github.com/neurofitplus/neurofit/internal/domain/feature"
	. "github.com/smartystreets/goconvey/convey"
)

func writeArtifact(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
}

func setupArtifacts(t *testing.T, manifestNumpy string) {
	t.Helper()
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "fatigue_model.json")
	manifestPath := filepath.Join(dir, "model_manifest.json")

	writeArtifact(t, modelPath, artifact.Model{
		ModelType:    artifact.ModelTypeLogistic,
		NFeaturesIn:  feature.Width,
		FeatureNames: feature.Names(),
		Coefficients: make([]float64, feature.Width),
		Intercept:    0.5,
	})
	writeArtifact(t, manifestPath, artifact.Manifest{
		ModelVersion:   "2026-01-10T12:00:00Z",
		NumpyVersion:   manifestNumpy,
		SklearnVersion: "1.5.2",
		FeatureNames:   feature.Names(),
	})

	t.Setenv("NEUROFIT_MODEL_PATH", modelPath)
	t.Setenv("NEUROFIT_MANIFEST_PATH", manifestPath)
	t.Setenv("NEUROFIT_NUMPY_VERSION", "1.26.4")
	t.Setenv("NEUROFIT_SKLEARN_VERSION", "1.5.2")
}

func TestValidateModelCommand(t *testing.T) {
	Convey("Given a consistent artifact pair on disk", t, func() {
		setupArtifacts(t, "1.26.4")

		cmd := newRootCmd()
		var stdout, stderr bytes.Buffer
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)

		Convey("The command succeeds and reports the model", func() {
			So(cmd.Execute(), ShouldBeNil)
			So(stdout.String(), ShouldContainSubstring, "model validation passed")
			So(stdout.String(), ShouldContainSubstring, "8 features")
		})
	})

	Convey("Given a manifest pinned to a different numpy version", t, func() {
		setupArtifacts(t, "1.24.0")

		cmd := newRootCmd()
		var stdout, stderr bytes.Buffer
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)

		Convey("The command fails with the specific mismatch", func() {
			So(cmd.Execute(), ShouldNotBeNil)
			So(stderr.String(), ShouldContainSubstring, "numpy version mismatch")
			So(stderr.String(), ShouldContainSubstring, "manifest=1.24.0")
			So(stderr.String(), ShouldContainSubstring, "runtime=1.26.4")
		})
	})

	Convey("Given positional arguments", t, func() {
		cmd := newRootCmd()
		cmd.SetArgs([]string{"extra"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		Convey("The command rejects them", func() {
			So(cmd.Execute(), ShouldNotBeNil)
		})
	})
}
