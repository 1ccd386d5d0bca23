package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository         = (*MaterialRepo)(nil)
	_ repository.ProductRepository          = (*ProductRepo)(nil)
	_ repository.MaterialQuantityRepository = (*MaterialQuantityRepo)(nil)
)

// MaterialRepo materiales en memoria.
type MaterialRepo struct{ h *handle }

func checkMaterial(st *state, m *entity.Material) error {
	if m.Price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidArgument)
	}
	for id, other := range st.materials {
		if id != m.ID && other.Name == m.Name {
			return duplicate("ya existe un material llamado %q", m.Name)
		}
	}
	return nil
}

func (r *MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	return r.h.do(func(st *state) error {
		m.ID = 0
		if err := checkMaterial(st, m); err != nil {
			return err
		}
		m.ID = st.nextID()
		if m.CreatedAt.IsZero() {
			m.CreatedAt = r.h.now()
		}
		m.UpdatedAt = m.CreatedAt
		st.materials[m.ID] = *m
		return nil
	})
}

func (r *MaterialRepo) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	var out *entity.Material
	err := r.h.do(func(st *state) error {
		m, ok := st.materials[id]
		if !ok {
			return notFound("material", id)
		}
		out = &m
		return nil
	})
	return out, err
}

func (r *MaterialRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*entity.Material, error) {
	out := make(map[int64]*entity.Material, len(ids))
	err := r.h.do(func(st *state) error {
		for _, id := range ids {
			if m, ok := st.materials[id]; ok {
				out[id] = &m
			}
		}
		return nil
	})
	return out, err
}

func (r *MaterialRepo) Update(_ context.Context, m *entity.Material) error {
	return r.h.do(func(st *state) error {
		cur, ok := st.materials[m.ID]
		if !ok {
			return notFound("material", m.ID)
		}
		if err := checkMaterial(st, m); err != nil {
			return err
		}
		m.CreatedAt = cur.CreatedAt
		m.UpdatedAt = r.h.now()
		st.materials[m.ID] = *m
		return nil
	})
}

// Delete elimina el material junto con sus filas de stock y líneas de receta.
func (r *MaterialRepo) Delete(_ context.Context, id int64) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.materials[id]; !ok {
			return notFound("material", id)
		}
		delete(st.materials, id)
		for sid, s := range st.stocks {
			if s.MaterialID == id {
				delete(st.stocks, sid)
			}
		}
		for rid, rl := range st.recipes {
			if rl.MaterialID == id {
				delete(st.recipes, rid)
			}
		}
		return nil
	})
}

func (r *MaterialRepo) ListByStore(_ context.Context, storeID int64) ([]*entity.Material, error) {
	var out []*entity.Material
	err := r.h.do(func(st *state) error {
		stocked := map[int64]struct{}{}
		for _, s := range st.stocks {
			if s.StoreID == storeID {
				stocked[s.MaterialID] = struct{}{}
			}
		}
		for _, id := range sortedKeys(st.materials) {
			if _, ok := stocked[id]; ok {
				m := st.materials[id]
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

// ProductRepo productos en memoria. Create persiste también la receta.
type ProductRepo struct{ h *handle }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.h.do(func(st *state) error {
		for _, other := range st.products {
			if other.Name == p.Name {
				return duplicate("ya existe un producto llamado %q", p.Name)
			}
		}
		seen := map[int64]struct{}{}
		for _, rl := range p.Recipe {
			if err := checkRecipeLine(st, rl); err != nil {
				return err
			}
			if _, dup := seen[rl.MaterialID]; dup {
				return duplicate("material %d repetido en la receta", rl.MaterialID)
			}
			seen[rl.MaterialID] = struct{}{}
		}

		p.ID = st.nextID()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = r.h.now()
		}
		p.UpdatedAt = p.CreatedAt
		for i := range p.Recipe {
			p.Recipe[i].ID = st.nextID()
			p.Recipe[i].ProductID = p.ID
			st.recipes[p.Recipe[i].ID] = p.Recipe[i]
		}
		stored := *p
		stored.Recipe = nil
		st.products[p.ID] = stored
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return notFound("producto", id)
		}
		p.Recipe = recipeOf(st, id)
		out = &p
		return nil
	})
	return out, err
}

// Update cambia el nombre del producto; la receta se edita con MaterialQuantityRepository.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.h.do(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return notFound("producto", p.ID)
		}
		for id, other := range st.products {
			if id != p.ID && other.Name == p.Name {
				return duplicate("ya existe un producto llamado %q", p.Name)
			}
		}
		cur.Name = p.Name
		cur.UpdatedAt = r.h.now()
		st.products[p.ID] = cur
		p.UpdatedAt = cur.UpdatedAt
		return nil
	})
}

// Delete elimina el producto, su receta y su oferta en las tiendas.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return notFound("producto", id)
		}
		delete(st.products, id)
		for rid, rl := range st.recipes {
			if rl.ProductID == id {
				delete(st.recipes, rid)
			}
		}
		for sid, s := range st.stores {
			kept := s.ProductIDs[:0:0]
			for _, pid := range s.ProductIDs {
				if pid != id {
					kept = append(kept, pid)
				}
			}
			s.ProductIDs = kept
			st.stores[sid] = s
		}
		return nil
	})
}

func (r *ProductRepo) ListByStore(_ context.Context, storeID int64) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.h.do(func(st *state) error {
		s, ok := st.stores[storeID]
		if !ok {
			return nil
		}
		offered := idSet(s.ProductIDs)
		for _, id := range sortedKeys(st.products) {
			if _, ok := offered[id]; ok {
				p := st.products[id]
				p.Recipe = recipeOf(st, id)
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}

func recipeOf(st *state, productID int64) []entity.MaterialQuantity {
	var out []entity.MaterialQuantity
	for _, rl := range st.recipes {
		if rl.ProductID == productID {
			out = append(out, rl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return out
}

func checkRecipeLine(st *state, rl entity.MaterialQuantity) error {
	if rl.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad de receta debe ser positiva", domain.ErrInvalidArgument)
	}
	if _, ok := st.materials[rl.MaterialID]; !ok {
		return missingRef("material", rl.MaterialID)
	}
	return nil
}

// MaterialQuantityRepo líneas de receta en memoria. Única por (producto, material).
type MaterialQuantityRepo struct{ h *handle }

func (r *MaterialQuantityRepo) Create(_ context.Context, mq *entity.MaterialQuantity) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.products[mq.ProductID]; !ok {
			return missingRef("producto", mq.ProductID)
		}
		if err := checkRecipeLine(st, *mq); err != nil {
			return err
		}
		for _, rl := range st.recipes {
			if rl.ProductID == mq.ProductID && rl.MaterialID == mq.MaterialID {
				return duplicate("el producto %d ya usa el material %d", mq.ProductID, mq.MaterialID)
			}
		}
		mq.ID = st.nextID()
		st.recipes[mq.ID] = *mq
		return nil
	})
}

func (r *MaterialQuantityRepo) GetByID(_ context.Context, id int64) (*entity.MaterialQuantity, error) {
	var out *entity.MaterialQuantity
	err := r.h.do(func(st *state) error {
		rl, ok := st.recipes[id]
		if !ok {
			return notFound("línea de receta", id)
		}
		out = &rl
		return nil
	})
	return out, err
}

// Update cambia la cantidad de la línea.
func (r *MaterialQuantityRepo) Update(_ context.Context, mq *entity.MaterialQuantity) error {
	return r.h.do(func(st *state) error {
		cur, ok := st.recipes[mq.ID]
		if !ok {
			return notFound("línea de receta", mq.ID)
		}
		if mq.Quantity <= 0 {
			return fmt.Errorf("%w: la cantidad de receta debe ser positiva", domain.ErrInvalidArgument)
		}
		cur.Quantity = mq.Quantity
		st.recipes[mq.ID] = cur
		*mq = cur
		return nil
	})
}

func (r *MaterialQuantityRepo) Delete(_ context.Context, id int64) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.recipes[id]; !ok {
			return notFound("línea de receta", id)
		}
		delete(st.recipes, id)
		return nil
	})
}

func (r *MaterialQuantityRepo) ListByProducts(_ context.Context, productIDs []int64) (map[int64][]entity.MaterialQuantity, error) {
	out := make(map[int64][]entity.MaterialQuantity, len(productIDs))
	err := r.h.do(func(st *state) error {
		for _, pid := range productIDs {
			if recipe := recipeOf(st, pid); len(recipe) > 0 {
				out[pid] = recipe
			}
		}
		return nil
	})
	return out, err
}

func (r *MaterialQuantityRepo) ListByStore(_ context.Context, storeID int64) ([]*entity.MaterialQuantity, error) {
	var out []*entity.MaterialQuantity
	err := r.h.do(func(st *state) error {
		s, ok := st.stores[storeID]
		if !ok {
			return nil
		}
		offered := idSet(s.ProductIDs)
		for _, id := range sortedKeys(st.recipes) {
			rl := st.recipes[id]
			if _, ok := offered[rl.ProductID]; ok {
				out = append(out, &rl)
			}
		}
		return nil
	})
	return out, err
}
