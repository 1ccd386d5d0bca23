package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL (usable con pool o tx).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de tiendas. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// storeSelect carga la tienda con sus productos ofrecidos agregados en un arreglo.
const storeSelect = `
	SELECT s.id, s.name, s.user_id, s.created_at, s.updated_at,
	       COALESCE(array_agg(sp.product_id ORDER BY sp.product_id)
	                FILTER (WHERE sp.product_id IS NOT NULL), '{}')
	FROM stores s
	LEFT JOIN store_products sp ON sp.store_id = s.id`

// Create persiste la tienda y sus productos en una misma (sub)transacción.
func (r *StoreRepo) Create(ctx context.Context, store *entity.Store) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO stores (name, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id`
		if err := tx.QueryRow(ctx, query, store.Name, store.UserID, store.CreatedAt, store.UpdatedAt).Scan(&store.ID); err != nil {
			return mapError("insert store", err)
		}
		return setProducts(ctx, tx, store.ID, store.ProductIDs)
	})
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(ctx context.Context, id int64) (*entity.Store, error) {
	s, err := r.scanOne(ctx, storeSelect+` WHERE s.id = $1 GROUP BY s.id`, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// GetByUser obtiene la tienda del usuario; nil si no tiene.
func (r *StoreRepo) GetByUser(ctx context.Context, userID int64) (*entity.Store, error) {
	return r.scanOne(ctx, storeSelect+` WHERE s.user_id = $1 GROUP BY s.id`, userID)
}

func (r *StoreRepo) scanOne(ctx context.Context, query string, arg any) (*entity.Store, error) {
	var s entity.Store
	err := r.q.QueryRow(ctx, query, arg).Scan(&s.ID, &s.Name, &s.UserID, &s.CreatedAt, &s.UpdatedAt, &s.ProductIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get store", err)
	}
	return &s, nil
}

// Update renombra la tienda.
func (r *StoreRepo) Update(ctx context.Context, store *entity.Store) error {
	tag, err := r.q.Exec(ctx, `UPDATE stores SET name = $2, updated_at = now() WHERE id = $1`, store.ID, store.Name)
	if err != nil {
		return mapError("update store", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetProducts reemplaza los productos ofrecidos.
func (r *StoreRepo) SetProducts(ctx context.Context, storeID int64, productIDs []int64) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE stores SET updated_at = now() WHERE id = $1`, storeID)
		if err != nil {
			return mapError("touch store", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM store_products WHERE store_id = $1`, storeID); err != nil {
			return mapError("clear store products", err)
		}
		return setProducts(ctx, tx, storeID, productIDs)
	})
}

func setProducts(ctx context.Context, q Querier, storeID int64, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO store_products (store_id, product_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`
	if _, err := q.Exec(ctx, query, storeID, productIDs); err != nil {
		return mapError("insert store products", err)
	}
	return nil
}

// Delete elimina la tienda; stock y oferta caen por ON DELETE CASCADE.
func (r *StoreRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return mapError("delete store", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
