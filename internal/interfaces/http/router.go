package http

import (
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Materiales-api/internal/application/auth"
	"github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	AuthUC      *auth.AuthUseCase
	StoreUC     *usecase.StoreUseCase
	MaterialUC  *usecase.MaterialUseCase
	ProductUC   *usecase.ProductUseCase
	RecipeUC    *usecase.MaterialQuantityUseCase
	StockUC     *usecase.MaterialStockUseCase
	Queries     *inventory.QueryUseCase
	Restock     *inventory.RestockUseCase
	Sales       *inventory.SalesUseCase
	JWTSecret   string

	// Idempotency es opcional; sin almacén el header Idempotency-Key se ignora.
	Idempotency    IdempotencyStore
	IdempotencyTTL time.Duration
	// Metrics es opcional; si está presente se sirve en /metrics.
	Metrics nethttp.Handler
	Logger  zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	optionalAuth := OptionalAuth(deps.JWTSecret)
	idempotent := Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Logger)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	api.Get("/users/me", requireAuth, authHandler.Me)

	// Inventario: lecturas con auth opcional, lotes con auth obligatoria
	inv := NewInventoryHandler(deps.Queries, deps.Restock, deps.Sales)
	api.Get("/inventory", optionalAuth, inv.Inventory)
	api.Get("/product-capacity", optionalAuth, inv.ProductCapacity)
	api.Get("/restock", optionalAuth, inv.RestockSuggestion)
	api.Get("/restock/pdf", requireAuth, inv.RestockOrderPDF)
	api.Post("/restock", requireAuth, idempotent, inv.Restock)
	api.Post("/sales", requireAuth, idempotent, inv.Sell)

	// CRUD (protegido)
	stores := api.Group("/stores", requireAuth)
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Get("/", storeHandler.List)
	stores.Post("/", storeHandler.Create)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Put("/:id", storeHandler.Update)
	stores.Put("/:id/products", storeHandler.SetProducts)
	stores.Delete("/:id", storeHandler.Delete)

	materials := api.Group("/materials", requireAuth)
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Get("/", materialHandler.List)
	materials.Post("/", materialHandler.Create)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", materialHandler.Delete)

	products := api.Group("/products", requireAuth)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	recipes := api.Group("/material-quantities", requireAuth)
	recipeHandler := NewMaterialQuantityHandler(deps.RecipeUC)
	recipes.Get("/", recipeHandler.List)
	recipes.Post("/", recipeHandler.Create)
	recipes.Get("/:id", recipeHandler.GetByID)
	recipes.Put("/:id", recipeHandler.Update)
	recipes.Delete("/:id", recipeHandler.Delete)

	stocks := api.Group("/material-stocks", requireAuth)
	stockHandler := NewMaterialStockHandler(deps.StockUC)
	stocks.Get("/", stockHandler.List)
	stocks.Post("/", stockHandler.Create)
	stocks.Get("/:id", stockHandler.GetByID)
	stocks.Put("/:id", stockHandler.Update)
	stocks.Delete("/:id", stockHandler.Delete)
}
