package memory

import (
	"context"

	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo tiendas en memoria. Replica las restricciones únicas de name y user_id.
type StoreRepo struct{ h *handle }

func checkStore(st *state, store *entity.Store) error {
	if _, ok := st.users[store.UserID]; !ok {
		return missingRef("usuario", store.UserID)
	}
	for id, s := range st.stores {
		if id == store.ID {
			continue
		}
		if s.Name == store.Name {
			return duplicate("ya existe una tienda llamada %q", store.Name)
		}
		if s.UserID == store.UserID {
			return duplicate("el usuario %d ya tiene tienda", store.UserID)
		}
	}
	return checkProducts(st, store.ProductIDs)
}

func checkProducts(st *state, ids []int64) error {
	for _, pid := range ids {
		if _, ok := st.products[pid]; !ok {
			return missingRef("producto", pid)
		}
	}
	return nil
}

func (r *StoreRepo) Create(_ context.Context, store *entity.Store) error {
	return r.h.do(func(st *state) error {
		store.ID = 0
		if err := checkStore(st, store); err != nil {
			return err
		}
		store.ID = st.nextID()
		store.ProductIDs = uniqueIDs(store.ProductIDs)
		if store.CreatedAt.IsZero() {
			store.CreatedAt = r.h.now()
		}
		store.UpdatedAt = store.CreatedAt
		st.stores[store.ID] = cloneStore(*store)
		return nil
	})
}

func (r *StoreRepo) GetByID(_ context.Context, id int64) (*entity.Store, error) {
	var out *entity.Store
	err := r.h.do(func(st *state) error {
		s, ok := st.stores[id]
		if !ok {
			return notFound("tienda", id)
		}
		c := cloneStore(s)
		out = &c
		return nil
	})
	return out, err
}

func (r *StoreRepo) GetByUser(_ context.Context, userID int64) (*entity.Store, error) {
	var out *entity.Store
	err := r.h.do(func(st *state) error {
		for _, s := range st.stores {
			if s.UserID == userID {
				c := cloneStore(s)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update actualiza el nombre; los productos se cambian con SetProducts.
func (r *StoreRepo) Update(_ context.Context, store *entity.Store) error {
	return r.h.do(func(st *state) error {
		cur, ok := st.stores[store.ID]
		if !ok {
			return notFound("tienda", store.ID)
		}
		probe := cur
		probe.Name = store.Name
		if err := checkStore(st, &probe); err != nil {
			return err
		}
		probe.UpdatedAt = r.h.now()
		st.stores[store.ID] = cloneStore(probe)
		store.UpdatedAt = probe.UpdatedAt
		return nil
	})
}

func (r *StoreRepo) SetProducts(_ context.Context, storeID int64, productIDs []int64) error {
	return r.h.do(func(st *state) error {
		cur, ok := st.stores[storeID]
		if !ok {
			return notFound("tienda", storeID)
		}
		if err := checkProducts(st, productIDs); err != nil {
			return err
		}
		cur.ProductIDs = uniqueIDs(productIDs)
		cur.UpdatedAt = r.h.now()
		st.stores[storeID] = cur
		return nil
	})
}

// Delete elimina la tienda y sus filas de stock.
func (r *StoreRepo) Delete(_ context.Context, id int64) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.stores[id]; !ok {
			return notFound("tienda", id)
		}
		delete(st.stores, id)
		for sid, s := range st.stocks {
			if s.StoreID == id {
				delete(st.stocks, sid)
			}
		}
		return nil
	})
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
