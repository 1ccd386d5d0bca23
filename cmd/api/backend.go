package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/memory"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Materiales-api/pkg/config"
	"github.com/jhoicas/Materiales-api/pkg/logger"
)

// backend repositorios y unidad de trabajo del driver configurado.
type backend struct {
	users     repository.UserRepository
	stores    repository.StoreRepository
	materials repository.MaterialRepository
	products  repository.ProductRepository
	recipes   repository.MaterialQuantityRepository
	stocks    repository.MaterialStockRepository
	tx        inventory.TxRunner
	close     func()
}

func openBackend(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
		db := memory.New()
		return &backend{
			users:     db.Users(),
			stores:    db.Stores(),
			materials: db.Materials(),
			products:  db.Products(),
			recipes:   db.Recipes(),
			stocks:    db.Stocks(),
			tx:        db,
			close:     func() {},
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Msg("migraciones aplicadas")
		}
		return &backend{
			users:     postgres.NewUserRepository(pool),
			stores:    postgres.NewStoreRepository(pool),
			materials: postgres.NewMaterialRepository(pool),
			products:  postgres.NewProductRepository(pool),
			recipes:   postgres.NewMaterialQuantityRepository(pool),
			stocks:    postgres.NewMaterialStockRepository(pool),
			tx:        postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.Driver)
}
