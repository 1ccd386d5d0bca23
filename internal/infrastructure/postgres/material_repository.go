package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL.
// price es NUMERIC(12,2) y se lee con el codec de shopspring registrado en el pool.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `m.id, m.name, m.price, m.created_at, m.updated_at`

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	if err := row.Scan(&m.ID, &m.Name, &m.Price, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un material.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (name, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, m.Name, m.Price, m.CreatedAt, m.UpdatedAt).Scan(&m.ID); err != nil {
		return mapError("insert material", err)
	}
	return nil
}

// GetByID obtiene un material por ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials m WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError("get material", err)
	}
	return m, nil
}

// GetByIDs obtiene varios materiales indexados por ID.
func (r *MaterialRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Material, error) {
	out := make(map[int64]*entity.Material, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+materialColumns+` FROM materials m WHERE m.id = ANY($1)`, ids)
	if err != nil {
		return nil, mapError("get materials", err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, mapError("scan material", err)
		}
		out[m.ID] = m
	}
	return out, rows.Err()
}

// Update actualiza nombre y precio.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials SET name = $2, price = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	if err := r.q.QueryRow(ctx, query, m.ID, m.Name, m.Price).Scan(&m.UpdatedAt); err != nil {
		return mapError("update material", err)
	}
	return nil
}

// Delete elimina el material; stock y recetas caen por ON DELETE CASCADE.
func (r *MaterialRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return mapError("delete material", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStore materiales con fila de stock en la tienda.
func (r *MaterialRepo) ListByStore(ctx context.Context, storeID int64) ([]*entity.Material, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM materials m
		JOIN material_stocks ms ON ms.material_id = m.id
		WHERE ms.store_id = $1
		ORDER BY m.id`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, mapError("list materials", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, mapError("scan material", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
