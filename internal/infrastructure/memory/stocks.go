package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/inventory"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

var _ repository.MaterialStockRepository = (*MaterialStockRepo)(nil)

// MaterialStockRepo filas de stock en memoria. Aplica el mismo rango que el CHECK de la tabla
// (0 <= current <= max, max > 0) en cada escritura.
type MaterialStockRepo struct{ h *handle }

func (r *MaterialStockRepo) Create(_ context.Context, s *entity.MaterialStock) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.stores[s.StoreID]; !ok {
			return missingRef("tienda", s.StoreID)
		}
		if _, ok := st.materials[s.MaterialID]; !ok {
			return missingRef("material", s.MaterialID)
		}
		for _, other := range st.stocks {
			if other.StoreID == s.StoreID && other.MaterialID == s.MaterialID {
				return duplicate("la tienda %d ya tiene stock del material %d", s.StoreID, s.MaterialID)
			}
		}
		if err := inventory.ValidateCapacity(s.CurrentCapacity, s.MaxCapacity); err != nil {
			return err
		}
		s.ID = st.nextID()
		s.UpdatedAt = r.h.now()
		st.stocks[s.ID] = *s
		return nil
	})
}

func (r *MaterialStockRepo) GetByID(_ context.Context, id int64) (*entity.MaterialStock, error) {
	var out *entity.MaterialStock
	err := r.h.do(func(st *state) error {
		s, ok := st.stocks[id]
		if !ok {
			return notFound("stock", id)
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *MaterialStockRepo) ListByStore(_ context.Context, storeID int64) ([]*entity.MaterialStock, error) {
	return r.list(storeID, nil)
}

func (r *MaterialStockRepo) ListByMaterials(_ context.Context, storeID int64, materialIDs []int64) ([]*entity.MaterialStock, error) {
	return r.list(storeID, idSet(materialIDs))
}

// LockByMaterials no necesita bloquear: Run ya serializa las transacciones.
func (r *MaterialStockRepo) LockByMaterials(ctx context.Context, storeID int64, materialIDs []int64) ([]*entity.MaterialStock, error) {
	return r.ListByMaterials(ctx, storeID, materialIDs)
}

func (r *MaterialStockRepo) list(storeID int64, only map[int64]struct{}) ([]*entity.MaterialStock, error) {
	var out []*entity.MaterialStock
	err := r.h.do(func(st *state) error {
		for _, s := range st.stocks {
			if s.StoreID != storeID {
				continue
			}
			if only != nil {
				if _, ok := only[s.MaterialID]; !ok {
					continue
				}
			}
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return out, err
}

func (r *MaterialStockRepo) UpdateCurrent(_ context.Context, id, current int64) error {
	return r.h.do(func(st *state) error {
		s, ok := st.stocks[id]
		if !ok {
			return notFound("stock", id)
		}
		if err := inventory.ValidateCapacity(current, s.MaxCapacity); err != nil {
			return err
		}
		s.CurrentCapacity = current
		s.UpdatedAt = r.h.now()
		st.stocks[id] = s
		return nil
	})
}

func (r *MaterialStockRepo) Update(_ context.Context, s *entity.MaterialStock) error {
	return r.h.do(func(st *state) error {
		cur, ok := st.stocks[s.ID]
		if !ok {
			return notFound("stock", s.ID)
		}
		if err := inventory.ValidateCapacity(s.CurrentCapacity, s.MaxCapacity); err != nil {
			return err
		}
		cur.MaxCapacity = s.MaxCapacity
		cur.CurrentCapacity = s.CurrentCapacity
		cur.UpdatedAt = r.h.now()
		st.stocks[s.ID] = cur
		*s = cur
		return nil
	})
}

func (r *MaterialStockRepo) Delete(_ context.Context, id int64) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.stocks[id]; !ok {
			return notFound("stock", id)
		}
		delete(st.stocks, id)
		return nil
	})
}
