package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto y su receta de forma atómica.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO products (name, created_at, updated_at)
			VALUES ($1, $2, $3)
			RETURNING id`
		if err := tx.QueryRow(ctx, query, p.Name, p.CreatedAt, p.UpdatedAt).Scan(&p.ID); err != nil {
			return mapError("insert product", err)
		}
		recipes := NewMaterialQuantityRepository(tx)
		for i := range p.Recipe {
			p.Recipe[i].ProductID = p.ID
			if err := recipes.Create(ctx, &p.Recipe[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID obtiene un producto con su receta.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError("get product", err)
	}
	recipes, err := NewMaterialQuantityRepository(r.q).ListByProducts(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	p.Recipe = recipes[id]
	return &p, nil
}

// Update renombra el producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `UPDATE products SET name = $2, updated_at = now() WHERE id = $1 RETURNING updated_at`
	if err := r.q.QueryRow(ctx, query, p.ID, p.Name).Scan(&p.UpdatedAt); err != nil {
		return mapError("update product", err)
	}
	return nil
}

// Delete elimina el producto; receta y oferta caen por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStore productos ofrecidos por la tienda, con receta.
func (r *ProductRepo) ListByStore(ctx context.Context, storeID int64) ([]*entity.Product, error) {
	query := `
		SELECT p.id, p.name, p.created_at, p.updated_at
		FROM products p
		JOIN store_products sp ON sp.product_id = p.id
		WHERE sp.store_id = $1
		ORDER BY p.id`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, mapError("list products", err)
	}
	var list []*entity.Product
	var ids []int64
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, mapError("scan product", err)
		}
		list = append(list, &p)
		ids = append(ids, p.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError("list products", err)
	}

	recipes, err := NewMaterialQuantityRepository(r.q).ListByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		p.Recipe = recipes[p.ID]
	}
	return list, nil
}
