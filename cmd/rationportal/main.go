package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/rationportal/internal/config"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "rationportal",
		Short:         "Ration beneficiary admin",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to rationportal.yaml")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("store-backend", "", "record store: sqlite, postgres or supabase")
	root.PersistentFlags().String("store-dsn", "", "sqlite path or postgres dsn")
	root.PersistentFlags().String("store-url", "", "supabase project url")
	root.PersistentFlags().Bool("row-by-row", false, "import rows one at a time")
	root.Flags().String("port", "", "http port")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, configFile)
		},
	}
	serve.Flags().String("port", "", "http port")
	for _, cmd := range []*cobra.Command{root, serve} {
		cmd.Flags().Bool("prompt-code", false, "read the access code from the terminal when admin_password is unset")
	}

	root.AddCommand(
		serve,
		newImportCommand(&configFile),
		newMigrateCommand(&configFile),
		newSecretsCommand(),
	)
	return root
}

// loadConfig reads the layered configuration and builds the process logger.
func loadConfig(cmd *cobra.Command, configFile string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cmd, configFile)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = atomicLevel
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
