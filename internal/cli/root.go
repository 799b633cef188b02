package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hunger-insights/internal/config"
	"hunger-insights/internal/logging"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "hunger-insights",
		Short:        "Hunger knowledge quiz and donation impact service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewImportCmd(&configPath))
	return cmd
}

// bootstrap loads the config and builds the logger. A missing config file
// leaves the in-memory defaults in place.
func bootstrap(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	missing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !missing {
		return cfg, nil, err
	}
	log := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if missing {
		log.Warn("config file not found, using defaults", zap.String("path", path))
	}
	return cfg, log, nil
}
