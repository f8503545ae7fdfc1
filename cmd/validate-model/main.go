package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/neurofitplus/neurofit/internal/adapters/artifact"
	"github.com/neurofitplus/neurofit/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-model",
		Short: "Validate the classifier artifact against its manifest",
		Long: `Runs the same model/manifest cross-checks the service performs at startup:
file presence, feature count and order, and training toolchain version pins.
Exits non-zero on the first mismatch, so CI can gate deploys on it.

Paths and version pins come from configuration (NEUROFIT_* environment
variables or a NEUROFIT_CONFIG file).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			res := artifact.Validate(cmd.Context(), cfg.ModelPath, cfg.ManifestPath, artifact.Versions{
				Numpy:   cfg.NumpyVersion,
				Sklearn: cfg.SklearnVersion,
			})
			if !res.OK {
				fmt.Fprintf(cmd.ErrOrStderr(), "model validation failed: %s\n", res.Reason)
				return fmt.Errorf("model validation failed")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "model validation passed: %s (%d features, model version %s)\n",
				cfg.ModelPath, res.Model.ExpectedInputWidth(), res.Manifest.ModelVersion)
			return nil
		},
	}
	return cmd
}
