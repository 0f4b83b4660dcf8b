package main

import (
	"fmt"

	"github.com/terraincognita07/rationportal/internal/config"
	"github.com/terraincognita07/rationportal/internal/db"
	"github.com/terraincognita07/rationportal/internal/services"
	"github.com/terraincognita07/rationportal/internal/supabase"
	"go.uber.org/zap"
)

// openStore connects the configured record store. The returned close func is
// never nil.
func openStore(cfg config.Config, logger *zap.Logger) (services.BeneficiaryStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite, config.BackendPostgres:
		database, err := db.Open(cfg.Store.Backend, cfg.Store.DSN, logger)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
		}
		closeDatabase := func() {
			if err := db.Close(database); err != nil {
				logger.Warn("close database failed", zap.Error(err))
			}
		}
		return db.NewRepositories(database).Beneficiaries, closeDatabase, nil
	case config.BackendSupabase:
		client, err := supabase.NewClient(cfg.Store.URL, cfg.Store.Key, cfg.Store.Timeout)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open supabase store: %w", err)
		}
		return client, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("%w %q", config.ErrUnknownBackend, cfg.Store.Backend)
	}
}

func importMode(cfg config.Config) services.ImportMode {
	if cfg.Import.RowByRow {
		return services.ImportModeRowByRow
	}
	return services.ImportModeBulk
}
