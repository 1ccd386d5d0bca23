package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Materiales-api/docs"
	"github.com/jhoicas/Materiales-api/internal/application/auth"
	"github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/application/usecase"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Materiales-api/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/Materiales-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Materiales-api/internal/interfaces/http"
	"github.com/jhoicas/Materiales-api/pkg/config"
	"github.com/jhoicas/Materiales-api/pkg/logger"
)

// @title                       Materiales API
// @version                     1.0
// @description                 Inventario de materiales por tienda: reposición, ventas y capacidad de productos.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	db, err := openBackend(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("backend de persistencia")
	}
	defer db.close()

	var observer inventory.BatchObserver = inventory.NopObserver{}
	var batchMetrics *metrics.BatchMetrics
	if cfg.Metrics.Enabled {
		batchMetrics = metrics.NewBatchMetrics("materiales")
		observer = batchMetrics
	}

	// Idempotency-Key solo con Redis configurado
	var idempotency httpRouter.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no responde; Idempotency-Key desactivado")
		} else {
			idempotency = infraredis.NewIdempotencyStore(rdb, "idem")
		}
	}

	authUC := auth.NewAuthUseCase(db.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	queries := inventory.NewQueryUseCase(db.stores, db.materials, db.recipes, db.stocks, infrapdf.NewRestockOrderRenderer())
	restockUC := inventory.NewRestockUseCase(db.tx, observer, queries, log.Component("restock"))
	salesUC := inventory.NewSalesUseCase(db.tx, observer, queries, log.Component("sales"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.Swagger {
		docs.SwaggerInfo.Version = "1.0"
		app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(docs.SwaggerInfo.ReadDoc())
		})
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Materiales API",
		}))
	}

	deps := httpRouter.RouterDeps{
		ServiceName:    cfg.App.Name,
		AuthUC:         authUC,
		StoreUC:        usecase.NewStoreUseCase(db.stores),
		MaterialUC:     usecase.NewMaterialUseCase(db.materials, db.stores),
		ProductUC:      usecase.NewProductUseCase(db.products, db.stores),
		RecipeUC:       usecase.NewMaterialQuantityUseCase(db.recipes, db.stores),
		StockUC:        usecase.NewMaterialStockUseCase(db.stocks, db.stores, db.tx),
		Queries:        queries,
		Restock:        restockUC,
		Sales:          salesUC,
		JWTSecret:      cfg.JWT.Secret,
		Idempotency:    idempotency,
		IdempotencyTTL: cfg.Idempotency.TTL,
		Logger:         log.Component("http"),
	}
	if batchMetrics != nil {
		deps.Metrics = batchMetrics.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
