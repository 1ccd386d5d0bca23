package repository

import (
	"context"

	"github.com/jhoicas/Materiales-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// No carga la receta; para eso está MaterialQuantityRepository.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) error
	// ListByStore lista los productos ofrecidos por la tienda.
	ListByStore(ctx context.Context, storeID int64) ([]*entity.Product, error)
}
