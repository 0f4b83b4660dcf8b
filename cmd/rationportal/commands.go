package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/rationportal/internal/cli"
	"github.com/terraincognita07/rationportal/internal/config"
	"github.com/terraincognita07/rationportal/internal/db"
	"github.com/terraincognita07/rationportal/internal/models"
	"github.com/terraincognita07/rationportal/internal/services"
	"github.com/terraincognita07/rationportal/internal/spreadsheet"
	"go.uber.org/zap"
)

var errSQLBackendRequired = errors.New("migrate needs the sqlite or postgres backend")

func newImportCommand(configFile *string) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a CSV, XLS or XLSX sheet into one location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, *configFile, location, args[0])
		},
	}
	cmd.Flags().StringVar(&location, "location", string(models.LocationInsideGIKI), "inside_giki or outside_giki")
	return cmd
}

func runImport(cmd *cobra.Command, configFile string, rawLocation string, path string) error {
	location, ok := models.ParseLocation(rawLocation)
	if !ok {
		return fmt.Errorf("%w: %q", services.ErrInvalidLocation, rawLocation)
	}

	cfg, log, err := loadConfig(cmd, configFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if err := cfg.Validate(); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheet, err := spreadsheet.Read(file, filepath.Base(path))
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	importer := services.NewImporter(store, services.NewCNICCache(store), importMode(cfg), log.Named("import"))
	result := importer.Import(cmd.Context(), location, sheet)

	out := cmd.OutOrStdout()
	switch {
	case result.Empty:
		fmt.Fprintln(out, services.ErrEmptySheet.Error())
		return nil
	case result.PartialWriteUnknown:
		return fmt.Errorf("import failed, some rows may have been written: %w", result.Err)
	case result.Failed():
		return fmt.Errorf("import stopped after %d inserted, %d skipped: %w", result.Inserted, result.Skipped, result.Err)
	}
	fmt.Fprintf(out, "inserted %d, skipped %d\n", result.Inserted, result.Skipped)
	return nil
}

func newMigrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, *configFile)
		},
	}
}

// runMigrate opens the SQL store, which applies pending migrations on the
// way in, and reports the result.
func runMigrate(cmd *cobra.Command, configFile string) error {
	cfg, log, err := loadConfig(cmd, configFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Store.Backend != config.BackendSQLite && cfg.Store.Backend != config.BackendPostgres {
		return errSQLBackendRequired
	}

	database, err := db.Open(cfg.Store.Backend, cfg.Store.DSN, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Warn("close database failed", zap.Error(err))
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.Store.Backend)
	return nil
}

func newSecretsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "secrets",
		Short: "Print a fresh secret key and access code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.WriteGeneratedSecrets(cmd.OutOrStdout(), config.EnvPrefix)
		},
	}
}
