package repository

import (
	"context"

	"github.com/jhoicas/Materiales-api/internal/domain/entity"
)

// MaterialStockRepository define el puerto para consultar/actualizar stock por tienda+material.
// Usado dentro de transacciones para garantizar consistencia.
type MaterialStockRepository interface {
	Create(ctx context.Context, stock *entity.MaterialStock) error
	GetByID(ctx context.Context, id int64) (*entity.MaterialStock, error)
	// ListByStore lista las filas de la tienda ordenadas por material.
	ListByStore(ctx context.Context, storeID int64) ([]*entity.MaterialStock, error)
	// ListByMaterials lee las filas de la tienda para los materiales indicados (sin bloqueo).
	ListByMaterials(ctx context.Context, storeID int64, materialIDs []int64) ([]*entity.MaterialStock, error)
	// LockByMaterials igual que ListByMaterials pero bloquea las filas (SELECT FOR UPDATE)
	// en orden de material_id para que dos lotes concurrentes no se bloqueen mutuamente.
	LockByMaterials(ctx context.Context, storeID int64, materialIDs []int64) ([]*entity.MaterialStock, error)
	// UpdateCurrent fija el stock actual de una fila.
	UpdateCurrent(ctx context.Context, id, current int64) error
	// Update actualiza ambas capacidades (edición directa).
	Update(ctx context.Context, stock *entity.MaterialStock) error
	Delete(ctx context.Context, id int64) error
}
