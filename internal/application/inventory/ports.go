package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD.
type Repos struct {
	Stores    repository.StoreRepository
	Materials repository.MaterialRepository
	Recipes   repository.MaterialQuantityRepository
	Stocks    repository.MaterialStockRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para los motores de reposición y venta: si fn retorna error no se persiste nada.
// Un conflicto de concurrencia detectado por la BD se reporta como domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// Resultados de un lote para métricas y logs.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeConflict  = "conflict"
	OutcomeError     = "error"
)

// Operaciones de lote.
const (
	OperationRestock = "restock"
	OperationSale    = "sale"
)

// BatchObserver registra el resultado de cada lote (implementado por las métricas Prometheus).
type BatchObserver interface {
	ObserveBatch(operation, outcome string, lines int, elapsed time.Duration)
}

// NopObserver BatchObserver que no hace nada.
type NopObserver struct{}

// ObserveBatch no registra nada.
func (NopObserver) ObserveBatch(string, string, int, time.Duration) {}

// ReadCache lecturas compartidas por tienda que un lote confirmado debe descartar
// para que la siguiente consulta vea el stock nuevo.
type ReadCache interface {
	Forget(storeID int64)
}

type nopReadCache struct{}

func (nopReadCache) Forget(int64) {}

// RestockOrderRenderer genera la orden de reposición imprimible (PDF).
type RestockOrderRenderer interface {
	RenderRestockOrder(ctx context.Context, order RestockOrder) ([]byte, error)
}
