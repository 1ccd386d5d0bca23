package repository

import (
	"context"

	"github.com/jhoicas/Materiales-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store (DIP).
// GetByID y GetByUser cargan también ProductIDs.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id int64) (*entity.Store, error)
	// GetByUser devuelve la tienda del principal o nil si no tiene.
	GetByUser(ctx context.Context, userID int64) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	// SetProducts reemplaza el conjunto de productos ofrecidos por la tienda.
	SetProducts(ctx context.Context, storeID int64, productIDs []int64) error
	// Delete elimina la tienda y en cascada sus filas de stock.
	Delete(ctx context.Context, id int64) error
}
