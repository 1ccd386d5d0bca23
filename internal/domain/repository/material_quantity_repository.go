package repository

import (
	"context"

	"github.com/jhoicas/Materiales-api/internal/domain/entity"
)

// MaterialQuantityRepository define el puerto de persistencia para las líneas de receta.
type MaterialQuantityRepository interface {
	Create(ctx context.Context, mq *entity.MaterialQuantity) error
	GetByID(ctx context.Context, id int64) (*entity.MaterialQuantity, error)
	Update(ctx context.Context, mq *entity.MaterialQuantity) error
	Delete(ctx context.Context, id int64) error
	// ListByProducts devuelve las recetas de los productos indicados, indexadas por ProductID.
	ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]entity.MaterialQuantity, error)
	// ListByStore lista las líneas de receta de los productos que ofrece la tienda.
	ListByStore(ctx context.Context, storeID int64) ([]*entity.MaterialQuantity, error)
}
