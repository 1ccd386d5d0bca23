package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/inventory"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

// RestockOrderLine línea de la orden de reposición imprimible.
type RestockOrderLine struct {
	MaterialID   int64
	MaterialName string
	Quantity     int64
	UnitPrice    decimal.Decimal
	LinePrice    decimal.Decimal
}

// RestockOrder datos de la orden de reposición (lo que falta para llenar cada fila).
type RestockOrder struct {
	StoreName   string
	GeneratedAt time.Time
	Lines       []RestockOrderLine
	Total       decimal.Decimal
}

// QueryUseCase lecturas de inventario sobre la tienda del principal.
// Sin principal (userID 0) o sin tienda, todas devuelven colecciones vacías.
type QueryUseCase struct {
	stores    repository.StoreRepository
	materials repository.MaterialRepository
	recipes   repository.MaterialQuantityRepository
	stocks    repository.MaterialStockRepository
	renderer  RestockOrderRenderer
	group     singleflight.Group
	now       func() time.Time
}

// NewQueryUseCase construye el caso de uso. renderer puede ser nil si no se sirve el PDF.
func NewQueryUseCase(
	stores repository.StoreRepository,
	materials repository.MaterialRepository,
	recipes repository.MaterialQuantityRepository,
	stocks repository.MaterialStockRepository,
	renderer RestockOrderRenderer,
) *QueryUseCase {
	return &QueryUseCase{
		stores:    stores,
		materials: materials,
		recipes:   recipes,
		stocks:    stocks,
		renderer:  renderer,
		now:       time.Now,
	}
}

func (uc *QueryUseCase) storeOf(ctx context.Context, userID int64) (*entity.Store, error) {
	if userID == 0 {
		return nil, nil
	}
	return uc.stores.GetByUser(ctx, userID)
}

// Inventory lista las filas de stock con el porcentaje de ocupación.
func (uc *QueryUseCase) Inventory(ctx context.Context, userID int64) (*dto.InventoryResponse, error) {
	out := &dto.InventoryResponse{Materials: []dto.MaterialCapacityDTO{}}
	store, err := uc.storeOf(ctx, userID)
	if err != nil || store == nil {
		return out, err
	}
	rows, err := uc.stocks.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out.Materials = append(out.Materials, dto.MaterialCapacityDTO{
			Material:             r.MaterialID,
			MaxCapacity:          r.MaxCapacity,
			CurrentCapacity:      r.CurrentCapacity,
			PercentageOfCapacity: r.PercentageOfCapacity(),
		})
	}
	return out, nil
}

// ProductCapacity cuántas unidades de cada producto ofrecido se pueden ensamblar con el stock actual.
// Las consultas concurrentes de la misma tienda comparten una sola lectura (singleflight)
// hasta que un lote confirmado la descarta con Forget.
func (uc *QueryUseCase) ProductCapacity(ctx context.Context, userID int64) (*dto.ProductCapacityResponse, error) {
	store, err := uc.storeOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return &dto.ProductCapacityResponse{RemainingCapacities: []dto.ProductCapacityDTO{}}, nil
	}

	// La lectura compartida no depende del contexto del primer llamador: si ese cliente
	// se desconecta, los demás siguen esperando el resultado.
	shared := context.WithoutCancel(ctx)
	ch := uc.group.DoChan(productCapacityKey(store.ID), func() (interface{}, error) {
		return uc.productCapacity(shared, store)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.ProductCapacityResponse), nil
	}
}

// Forget descarta la lectura en curso de la tienda. Los motores la llaman tras confirmar un
// lote, antes de responder, así ninguna consulta posterior se une a una lectura anterior al commit.
func (uc *QueryUseCase) Forget(storeID int64) {
	uc.group.Forget(productCapacityKey(storeID))
}

func productCapacityKey(storeID int64) string {
	return fmt.Sprintf("product-capacity:%d", storeID)
}

func (uc *QueryUseCase) productCapacity(ctx context.Context, store *entity.Store) (*dto.ProductCapacityResponse, error) {
	productIDs := uniqueSorted(store.ProductIDs)
	recipes, err := uc.recipes.ListByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	rows, err := uc.stocks.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	levels := inventory.StockLevels(rows)

	out := &dto.ProductCapacityResponse{RemainingCapacities: make([]dto.ProductCapacityDTO, 0, len(productIDs))}
	for _, id := range productIDs {
		out.RemainingCapacities = append(out.RemainingCapacities, dto.ProductCapacityDTO{
			Product:  id,
			Quantity: inventory.AvailableQuantity(recipes[id], levels),
		})
	}
	return out, nil
}

// RestockSuggestion cantidad que falta en cada fila para llegar a su máximo y el costo total.
func (uc *QueryUseCase) RestockSuggestion(ctx context.Context, userID int64) (*dto.RestockResponse, error) {
	order, err := uc.restockOrder(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.RestockResponse{Materials: make([]dto.RestockLine, 0, len(order.Lines)), TotalPrice: order.Total}
	for _, l := range order.Lines {
		out.Materials = append(out.Materials, dto.RestockLine{Material: l.MaterialID, Quantity: l.Quantity})
	}
	return out, nil
}

// RestockOrderPDF renderiza la orden de reposición de la tienda del principal.
func (uc *QueryUseCase) RestockOrderPDF(ctx context.Context, userID int64) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("inventory: renderizador de PDF no configurado")
	}
	order, err := uc.restockOrder(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order.StoreName == "" {
		return nil, fmt.Errorf("%w: el usuario no tiene tienda", domain.ErrNotFound)
	}
	return uc.renderer.RenderRestockOrder(ctx, *order)
}

func (uc *QueryUseCase) restockOrder(ctx context.Context, userID int64) (*RestockOrder, error) {
	order := &RestockOrder{GeneratedAt: uc.now(), Lines: []RestockOrderLine{}, Total: decimal.Zero}
	store, err := uc.storeOf(ctx, userID)
	if err != nil || store == nil {
		return order, err
	}
	order.StoreName = store.Name

	rows, err := uc.stocks.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MaterialID < rows[j].MaterialID })
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.MaterialID)
	}
	materials, err := uc.materials.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	prices := make([]decimal.Decimal, 0, len(rows))
	for _, r := range rows {
		line := RestockOrderLine{MaterialID: r.MaterialID, Quantity: r.Shortfall(), UnitPrice: decimal.Zero}
		if m, ok := materials[r.MaterialID]; ok {
			line.MaterialName = m.Name
			line.UnitPrice = m.Price
		}
		line.LinePrice = inventory.LinePrice(line.Quantity, line.UnitPrice)
		prices = append(prices, line.LinePrice)
		order.Lines = append(order.Lines, line)
	}
	order.Total = inventory.SumPrices(prices...)
	return order, nil
}
