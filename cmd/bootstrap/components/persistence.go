package components

import (
	"context"
	"log/slog"
	"time"

	"parking-engine/internal/infra/db"
	"parking-engine/internal/infra/memstore"
	"parking-engine/internal/infra/uow"
	"parking-engine/internal/pkg/config"
	"parking-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

const connectTimeout = 10 * time.Second

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewUnitOfWork selects the store named by STORE_DRIVER.
func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.UnitOfWork, error) {
	if cfg.Store.Driver != config.StoreDriverPostgres {
		logger.Info("using in-memory store")
		return memstore.NewUoW(memstore.New(logger)), nil
	}

	pool, err := NewDB(lc, cfg, logger)
	if err != nil {
		return nil, err
	}
	return uow.NewPostgresUoW(pool, logger), nil
}

// NewDB opens the pool and applies pending migrations when DB_AUTO_MIGRATE is set.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(pool, logger); err != nil {
			cleanup()
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
