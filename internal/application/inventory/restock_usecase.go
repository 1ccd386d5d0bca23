package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/inventory"
)

// RestockUseCase motor de reposición. Valida todas las líneas contra el stock persistido al inicio
// del lote (no contra los incrementos pendientes del mismo lote) y, si todas son válidas, aplica los
// incrementos en una única transacción con las filas bloqueadas (SELECT FOR UPDATE).
type RestockUseCase struct {
	txRunner TxRunner
	observer BatchObserver
	cache    ReadCache
	log      zerolog.Logger
}

// NewRestockUseCase construye el caso de uso. cache recibe la tienda de cada lote confirmado; puede ser nil.
func NewRestockUseCase(txRunner TxRunner, observer BatchObserver, cache ReadCache, log zerolog.Logger) *RestockUseCase {
	if observer == nil {
		observer = NopObserver{}
	}
	if cache == nil {
		cache = nopReadCache{}
	}
	return &RestockUseCase{txRunner: txRunner, observer: observer, cache: cache, log: log}
}

// Restock aplica el lote sobre la tienda del usuario y devuelve el eco del lote con el precio total.
// El primer error de validación rechaza el lote completo; nada se persiste.
func (uc *RestockUseCase) Restock(ctx context.Context, userID int64, batch RestockBatch) (*dto.RestockResponse, error) {
	start := time.Now()
	batchID := uuid.New().String()

	var out *dto.RestockResponse
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

		materialIDs := batch.MaterialIDs()
		rows, err := repos.Stocks.LockByMaterials(ctx, store.ID, materialIDs)
		if err != nil {
			return err
		}
		stockByMaterial := make(map[int64]*entity.MaterialStock, len(rows))
		for _, r := range rows {
			stockByMaterial[r.MaterialID] = r
		}
		materials, err := repos.Materials.GetByIDs(ctx, materialIDs)
		if err != nil {
			return err
		}

		// 1. Validación de cada línea contra el estado persistido
		pending := make(map[int64]int64, len(rows))
		lastLine := make(map[int64]int, len(rows))
		prices := make([]decimal.Decimal, 0, len(batch.Lines))
		for i, line := range batch.Lines {
			stock, ok := stockByMaterial[line.MaterialID]
			material := materials[line.MaterialID]
			if !ok || material == nil {
				return domain.NewLineError(i, "material", domain.ErrNotFound,
					"material %d no encontrado en el stock", line.MaterialID)
			}
			if line.Quantity <= 0 {
				return domain.NewLineError(i, "quantity", domain.ErrInvalidArgument,
					"quantity debe ser un entero positivo (recibido %d)", line.Quantity)
			}
			if err := inventory.ValidateRestockLine(stock.CurrentCapacity, line.Quantity, stock.MaxCapacity); err != nil {
				return domain.WrapLine(i, "quantity", err)
			}
			pending[line.MaterialID] += line.Quantity
			lastLine[line.MaterialID] = i
			prices = append(prices, inventory.LinePrice(line.Quantity, material.Price))
			uc.log.Debug().Str("batch_id", batchID).Int("line", i).Msg("línea de reposición validada")
		}

		// 2. Aplicación: incrementos sumados por fila y Capacity Guard sobre el valor resultante
		for _, id := range materialIDs {
			delta, ok := pending[id]
			if !ok {
				continue
			}
			stock := stockByMaterial[id]
			next := stock.CurrentCapacity + delta
			if err := inventory.ValidateCapacity(next, stock.MaxCapacity); err != nil {
				return domain.WrapLine(lastLine[id], "quantity", err)
			}
			if err := repos.Stocks.UpdateCurrent(ctx, stock.ID, next); err != nil {
				return err
			}
		}

		echo := make([]dto.RestockLine, 0, len(batch.Lines))
		for _, line := range batch.Lines {
			echo = append(echo, dto.RestockLine{Material: line.MaterialID, Quantity: line.Quantity})
		}
		out = &dto.RestockResponse{Materials: echo, TotalPrice: inventory.SumPrices(prices...)}
		return nil
	})

	if err == nil {
		uc.cache.Forget(storeID)
	}
	finishBatch(uc.log, uc.observer, OperationRestock, batchID, userID, len(batch.Lines), start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}
