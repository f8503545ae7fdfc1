// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"path/filepath"
)

// Version pins for the offline training toolchain. A deployed service only
// trusts classifier artifacts whose manifest records exactly these versions.
const (
	DefaultNumpyVersion   = "1.26.4"
	DefaultSklearnVersion = "1.5.2"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// ModelPath locates the serialized classifier artifact.
	ModelPath string `koanf:"model_path"`

	// ManifestPath locates the training manifest recorded next to the artifact.
	ManifestPath string `koanf:"manifest_path"`

	// SessionsFile is the append-only JSONL session log destination.
	SessionsFile string `koanf:"sessions_file"`

	// AppendQueueSize bounds the pending session log appends.
	AppendQueueSize int `koanf:"append_queue_size"`

	// NumpyVersion and SklearnVersion pin the training toolchain the manifest
	// must match exactly.
	NumpyVersion   string `koanf:"numpy_version"`
	SklearnVersion string `koanf:"sklearn_version"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8000",
		ModelPath:       filepath.Join("models", "fatigue_model.json"),
		ManifestPath:    filepath.Join("models", "model_manifest.json"),
		SessionsFile:    filepath.Join("data", "sessions.jsonl"),
		AppendQueueSize: 1024,
		NumpyVersion:    DefaultNumpyVersion,
		SklearnVersion:  DefaultSklearnVersion,
	}
}
