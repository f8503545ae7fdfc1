package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if NEUROFIT_CONFIG is set
//  3. env (prefix NEUROFIT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("NEUROFIT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: NEUROFIT_ADDR, NEUROFIT_MODEL_PATH, ...
	// Map env keys like NEUROFIT_MODEL_PATH -> model_path (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("NEUROFIT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "neurofit_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy of the defaults.
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.ModelPath == "":
		return nil, fmt.Errorf("%w: model_path must not be empty", ErrInvalidConfig)
	case cfg.ManifestPath == "":
		return nil, fmt.Errorf("%w: manifest_path must not be empty", ErrInvalidConfig)
	case cfg.SessionsFile == "":
		return nil, fmt.Errorf("%w: sessions_file must not be empty", ErrInvalidConfig)
	case cfg.AppendQueueSize <= 0:
		return nil, fmt.Errorf("%w: append_queue_size must be positive", ErrInvalidConfig)
	}
	if errors.Is(validateVersionPin(cfg.NumpyVersion), ErrInvalidConfig) {
		return nil, fmt.Errorf("%w: numpy_version must not be empty", ErrInvalidConfig)
	}
	if errors.Is(validateVersionPin(cfg.SklearnVersion), ErrInvalidConfig) {
		return nil, fmt.Errorf("%w: sklearn_version must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}

func validateVersionPin(v string) error {
	if strings.TrimSpace(v) == "" {
		return ErrInvalidConfig
	}
	return nil
}
