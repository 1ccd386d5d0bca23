package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/inventory"
)

// SalesUseCase motor de ventas. A diferencia de la reposición, cada línea se valida contra el stock
// vigente dentro de la transacción: los descuentos de las líneas anteriores del mismo lote ya están
// persistidos (agotamiento progresivo). Si una línea falla se revierte el lote completo.
type SalesUseCase struct {
	txRunner TxRunner
	observer BatchObserver
	cache    ReadCache
	log      zerolog.Logger
}

// NewSalesUseCase construye el caso de uso. cache recibe la tienda de cada lote confirmado; puede ser nil.
func NewSalesUseCase(txRunner TxRunner, observer BatchObserver, cache ReadCache, log zerolog.Logger) *SalesUseCase {
	if observer == nil {
		observer = NopObserver{}
	}
	if cache == nil {
		cache = nopReadCache{}
	}
	return &SalesUseCase{txRunner: txRunner, observer: observer, cache: cache, log: log}
}

// Sell descuenta de la tienda del usuario los materiales de cada producto vendido según su receta.
func (uc *SalesUseCase) Sell(ctx context.Context, userID int64, batch SaleBatch) (*dto.SaleResponse, error) {
	start := time.Now()
	batchID := uuid.New().String()

	var out *dto.SaleResponse
	var storeID int64
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		store, err := repos.Stores.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("%w: el usuario no tiene tienda", domain.ErrNotFound)
		}
		storeID = store.ID

		offered := make([]int64, 0, len(batch.Lines))
		for _, id := range batch.ProductIDs() {
			if store.Offers(id) {
				offered = append(offered, id)
			}
		}
		recipes, err := repos.Recipes.ListByProducts(ctx, offered)
		if err != nil {
			return err
		}
		// Bloquea de entrada todas las filas que el lote puede tocar, en orden de material
		if _, err := repos.Stocks.LockByMaterials(ctx, store.ID, recipeMaterialIDs(recipes)); err != nil {
			return err
		}

		for i, line := range batch.Lines {
			if !store.Offers(line.ProductID) {
				return domain.NewLineError(i, "product", domain.ErrNotFound,
					"producto %d no ofrecido por la tienda", line.ProductID)
			}
			if line.Quantity <= 0 {
				return domain.NewLineError(i, "quantity", domain.ErrInvalidArgument,
					"quantity debe ser un entero positivo (recibido %d)", line.Quantity)
			}
			if err := uc.sellLine(ctx, repos, store.ID, i, line, recipes[line.ProductID]); err != nil {
				return err
			}
			uc.log.Debug().Str("batch_id", batchID).Int("line", i).Msg("línea de venta aplicada")
		}

		echo := make([]dto.SaleLine, 0, len(batch.Lines))
		for _, line := range batch.Lines {
			echo = append(echo, dto.SaleLine{Product: line.ProductID, Quantity: line.Quantity})
		}
		out = &dto.SaleResponse{Sale: echo}
		return nil
	})

	if err == nil {
		uc.cache.Forget(storeID)
	}
	finishBatch(uc.log, uc.observer, OperationSale, batchID, userID, len(batch.Lines), start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// sellLine relee el stock (ve los descuentos ya persistidos del lote), comprueba la disponibilidad
// y descuenta receta × cantidad de cada material.
func (uc *SalesUseCase) sellLine(
	ctx context.Context,
	repos Repos,
	storeID int64,
	index int,
	line SaleLine,
	recipe []entity.MaterialQuantity,
) error {
	ids := make([]int64, 0, len(recipe))
	for _, rl := range recipe {
		ids = append(ids, rl.MaterialID)
	}
	rows, err := repos.Stocks.ListByMaterials(ctx, storeID, ids)
	if err != nil {
		return err
	}
	levels := inventory.StockLevels(rows)

	available := inventory.AvailableQuantity(recipe, levels)
	if line.Quantity > available {
		if len(recipe) == 0 {
			return domain.NewLineError(index, "quantity", domain.ErrCapacityViolation,
				"el producto %d no tiene receta y no se puede vender", line.ProductID)
		}
		return domain.NewLineError(index, "quantity", domain.ErrCapacityViolation,
			"se solicitaron %d unidades del producto %d pero solo hay %d disponibles (material limitante %d)",
			line.Quantity, line.ProductID, available, inventory.LimitingMaterial(recipe, levels))
	}

	byMaterial := make(map[int64]*entity.MaterialStock, len(rows))
	for _, r := range rows {
		byMaterial[r.MaterialID] = r
	}
	for _, rl := range recipe {
		row := byMaterial[rl.MaterialID]
		next := row.CurrentCapacity - rl.Quantity*line.Quantity
		if err := inventory.ValidateCapacity(next, row.MaxCapacity); err != nil {
			return domain.WrapLine(index, "quantity", err)
		}
		if err := repos.Stocks.UpdateCurrent(ctx, row.ID, next); err != nil {
			return err
		}
	}
	return nil
}

func recipeMaterialIDs(recipes map[int64][]entity.MaterialQuantity) []int64 {
	var ids []int64
	for _, recipe := range recipes {
		for _, rl := range recipe {
			ids = append(ids, rl.MaterialID)
		}
	}
	return uniqueSorted(ids)
}
