package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

var _ repository.MaterialQuantityRepository = (*MaterialQuantityRepo)(nil)

// MaterialQuantityRepo líneas de receta sobre PostgreSQL.
type MaterialQuantityRepo struct {
	q Querier
}

// NewMaterialQuantityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialQuantityRepository(q Querier) *MaterialQuantityRepo {
	return &MaterialQuantityRepo{q: q}
}

const materialQuantityColumns = `mq.id, mq.product_id, mq.material_id, mq.quantity`

func scanMaterialQuantity(row pgx.Row) (entity.MaterialQuantity, error) {
	var mq entity.MaterialQuantity
	err := row.Scan(&mq.ID, &mq.ProductID, &mq.MaterialID, &mq.Quantity)
	return mq, err
}

// Create agrega una línea de receta.
func (r *MaterialQuantityRepo) Create(ctx context.Context, mq *entity.MaterialQuantity) error {
	query := `
		INSERT INTO material_quantities (product_id, material_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, mq.ProductID, mq.MaterialID, mq.Quantity).Scan(&mq.ID); err != nil {
		return mapError("insert material quantity", err)
	}
	return nil
}

// GetByID obtiene una línea de receta.
func (r *MaterialQuantityRepo) GetByID(ctx context.Context, id int64) (*entity.MaterialQuantity, error) {
	mq, err := scanMaterialQuantity(r.q.QueryRow(ctx,
		`SELECT `+materialQuantityColumns+` FROM material_quantities mq WHERE mq.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError("get material quantity", err)
	}
	return &mq, nil
}

// Update cambia la cantidad y devuelve la línea completa en mq.
func (r *MaterialQuantityRepo) Update(ctx context.Context, mq *entity.MaterialQuantity) error {
	query := `
		UPDATE material_quantities mq SET quantity = $2
		WHERE mq.id = $1
		RETURNING ` + materialQuantityColumns
	updated, err := scanMaterialQuantity(r.q.QueryRow(ctx, query, mq.ID, mq.Quantity))
	if err != nil {
		return mapError("update material quantity", err)
	}
	*mq = updated
	return nil
}

// Delete quita la línea.
func (r *MaterialQuantityRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM material_quantities WHERE id = $1`, id)
	if err != nil {
		return mapError("delete material quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProducts recetas de los productos indicados, ordenadas por material.
func (r *MaterialQuantityRepo) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]entity.MaterialQuantity, error) {
	out := make(map[int64][]entity.MaterialQuantity, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT ` + materialQuantityColumns + `
		FROM material_quantities mq
		WHERE mq.product_id = ANY($1)
		ORDER BY mq.product_id, mq.material_id`
	rows, err := r.q.Query(ctx, query, productIDs)
	if err != nil {
		return nil, mapError("list recipes", err)
	}
	defer rows.Close()
	for rows.Next() {
		mq, err := scanMaterialQuantity(rows)
		if err != nil {
			return nil, mapError("scan material quantity", err)
		}
		out[mq.ProductID] = append(out[mq.ProductID], mq)
	}
	return out, rows.Err()
}

// ListByStore líneas de receta de los productos ofrecidos por la tienda.
func (r *MaterialQuantityRepo) ListByStore(ctx context.Context, storeID int64) ([]*entity.MaterialQuantity, error) {
	query := `
		SELECT ` + materialQuantityColumns + `
		FROM material_quantities mq
		JOIN store_products sp ON sp.product_id = mq.product_id
		WHERE sp.store_id = $1
		ORDER BY mq.id`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, mapError("list material quantities", err)
	}
	defer rows.Close()
	var list []*entity.MaterialQuantity
	for rows.Next() {
		mq, err := scanMaterialQuantity(rows)
		if err != nil {
			return nil, mapError("scan material quantity", err)
		}
		list = append(list, &mq)
	}
	return list, rows.Err()
}
