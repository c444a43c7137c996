// Package factory builds configured dependencies for the service runner.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/motoguard/motoguard/internal/config"
	storepkg "github.com/motoguard/motoguard/internal/store"
	storemem "github.com/motoguard/motoguard/internal/store/memory"
	storepg "github.com/motoguard/motoguard/internal/store/postgres"
	storesqlite "github.com/motoguard/motoguard/internal/store/sqlite"
)

// NewStore returns the store.Store selected by cfg.DBDriver.
// The postgres path opens the connection synchronously since health
// checks need it immediately, and ensures the schema exists.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		st, err := storesqlite.New(cfg.SQLitePath, cfg.SessionHistoryLimit, log)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("sqlite store ready")
		return st, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("MOTOGUARD_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := storepg.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		log.Info().Msg("postgres store ready")
		return storepg.NewWithDB(db, cfg.SessionHistoryLimit, log), nil

	case "memory":
		return storemem.New(cfg.SessionHistoryLimit), nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
