package repository

import (
	"context"

	"github.com/jhoicas/Materiales-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material (DIP).
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	// GetByIDs devuelve los materiales encontrados indexados por ID (los inexistentes se omiten).
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
	Delete(ctx context.Context, id int64) error
	// ListByStore lista los materiales que la tienda tiene en stock.
	ListByStore(ctx context.Context, storeID int64) ([]*entity.Material, error)
}
