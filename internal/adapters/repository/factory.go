package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-dashboard/internal/config"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// LayoutFromConfig maps the data section of the configuration to a CSV layout.
func LayoutFromConfig(cfg config.DataConfig) TableLayout {
	return TableLayout{
		PersonColumn: cfg.PersonColumn,
		DateColumn:   cfg.DateColumn,
		Habits:       cfg.Habits,
		DateLayouts:  cfg.DateLayouts,
	}
}

// ConnectPostgres opens a pool with the configured driver ("pgx" or "postgres").
func ConnectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// OpenTableRepository builds the configured table source. The returned close func is
// never nil.
func OpenTableRepository(ctx context.Context, cfg *config.Config) (domain.TableRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Data.Source {
	case config.SourceCSV:
		return NewCSVTableRepository(cfg.Data.Path, LayoutFromConfig(cfg.Data)), noop, nil

	case config.SourcePostgres:
		db, err := ConnectPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		repo := NewPostgresTableRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return repo, db.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: unknown data source %q", config.ErrInvalidConfig, cfg.Data.Source)
	}
}
