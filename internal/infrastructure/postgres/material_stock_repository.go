package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

var _ repository.MaterialStockRepository = (*MaterialStockRepo)(nil)

// MaterialStockRepo implementación de MaterialStockRepository sobre PostgreSQL (usable con pool o tx).
// El CHECK material_stocks_capacity_range respalda al Capacity Guard a nivel de BD.
type MaterialStockRepo struct {
	q Querier
}

// NewMaterialStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewMaterialStockRepository(q Querier) *MaterialStockRepo {
	return &MaterialStockRepo{q: q}
}

const stockColumns = `id, store_id, material_id, max_capacity, current_capacity, updated_at`

func scanStock(row pgx.Row) (*entity.MaterialStock, error) {
	var s entity.MaterialStock
	if err := row.Scan(&s.ID, &s.StoreID, &s.MaterialID, &s.MaxCapacity, &s.CurrentCapacity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create agrega una fila de stock.
func (r *MaterialStockRepo) Create(ctx context.Context, s *entity.MaterialStock) error {
	query := `
		INSERT INTO material_stocks (store_id, material_id, max_capacity, current_capacity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, updated_at`
	if err := r.q.QueryRow(ctx, query, s.StoreID, s.MaterialID, s.MaxCapacity, s.CurrentCapacity).
		Scan(&s.ID, &s.UpdatedAt); err != nil {
		return mapError("insert material stock", err)
	}
	return nil
}

// GetByID obtiene una fila por ID.
func (r *MaterialStockRepo) GetByID(ctx context.Context, id int64) (*entity.MaterialStock, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM material_stocks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError("get material stock", err)
	}
	return s, nil
}

// ListByStore filas de la tienda ordenadas por material.
func (r *MaterialStockRepo) ListByStore(ctx context.Context, storeID int64) ([]*entity.MaterialStock, error) {
	return r.list(ctx, "list material stocks",
		`SELECT `+stockColumns+` FROM material_stocks WHERE store_id = $1 ORDER BY material_id`, storeID)
}

// ListByMaterials filas de la tienda para los materiales indicados, sin bloqueo.
func (r *MaterialStockRepo) ListByMaterials(ctx context.Context, storeID int64, materialIDs []int64) ([]*entity.MaterialStock, error) {
	if len(materialIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, "list material stocks",
		`SELECT `+stockColumns+` FROM material_stocks
		 WHERE store_id = $1 AND material_id = ANY($2)
		 ORDER BY material_id`, storeID, materialIDs)
}

// LockByMaterials lee y bloquea las filas (SELECT FOR UPDATE). El ORDER BY material_id fija
// el orden de adquisición de locks entre lotes concurrentes de la misma tienda.
func (r *MaterialStockRepo) LockByMaterials(ctx context.Context, storeID int64, materialIDs []int64) ([]*entity.MaterialStock, error) {
	if len(materialIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, "lock material stocks",
		`SELECT `+stockColumns+` FROM material_stocks
		 WHERE store_id = $1 AND material_id = ANY($2)
		 ORDER BY material_id
		 FOR UPDATE`, storeID, materialIDs)
}

func (r *MaterialStockRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.MaterialStock, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	var list []*entity.MaterialStock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return list, nil
}

// UpdateCurrent fija el stock actual de una fila.
func (r *MaterialStockRepo) UpdateCurrent(ctx context.Context, id, current int64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE material_stocks SET current_capacity = $2, updated_at = now() WHERE id = $1`, id, current)
	if err != nil {
		return mapError("update material stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update edita ambas capacidades.
func (r *MaterialStockRepo) Update(ctx context.Context, s *entity.MaterialStock) error {
	query := `
		UPDATE material_stocks SET max_capacity = $2, current_capacity = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	if err := r.q.QueryRow(ctx, query, s.ID, s.MaxCapacity, s.CurrentCapacity).Scan(&s.UpdatedAt); err != nil {
		return mapError("update material stock", err)
	}
	return nil
}

// Delete elimina una fila de stock.
func (r *MaterialStockRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM material_stocks WHERE id = $1`, id)
	if err != nil {
		return mapError("delete material stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
