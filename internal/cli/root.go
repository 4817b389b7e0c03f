package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"bias-assessment-service/internal/config"
	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI. Cancelling ctx stops a running server gracefully.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:           "bias-assessment",
		Short:         "Unconscious bias self-assessment service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewSeedCmd(&configPath))
	cmd.AddCommand(NewScoreCmd(&configPath))
	return cmd
}

// loadConfig reads path, falling back to defaults when the file is absent.
// missing reports whether the fallback was taken.
func loadConfig(path string) (cfg config.Config, missing bool, err error) {
	cfg, err = config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), true, nil
	}
	return cfg, false, err
}
