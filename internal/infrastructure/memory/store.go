// Package memory backend en memoria con semántica transaccional (copia del estado y commit al final).
// Implementa los mismos puertos que el adaptador PostgreSQL; se usa en tests y con DB_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	seq       int64
	users     map[int64]entity.User
	stores    map[int64]entity.Store
	materials map[int64]entity.Material
	products  map[int64]entity.Product
	recipes   map[int64]entity.MaterialQuantity
	stocks    map[int64]entity.MaterialStock
}

func newState() state {
	return state{
		users:     map[int64]entity.User{},
		stores:    map[int64]entity.Store{},
		materials: map[int64]entity.Material{},
		products:  map[int64]entity.Product{},
		recipes:   map[int64]entity.MaterialQuantity{},
		stocks:    map[int64]entity.MaterialStock{},
	}
}

func (s state) clone() state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.stores {
		c.stores[k] = cloneStore(v)
	}
	for k, v := range s.materials {
		c.materials[k] = v
	}
	for k, v := range s.products {
		v.Recipe = nil
		c.products[k] = v
	}
	for k, v := range s.recipes {
		c.recipes[k] = v
	}
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

func cloneStore(st entity.Store) entity.Store {
	st.ProductIDs = append([]int64(nil), st.ProductIDs...)
	return st
}

// Store base de datos en memoria. Run serializa las transacciones con un mutex global.
type Store struct {
	mu    sync.Mutex
	state state
	now   func() time.Time
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{state: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// handle acceso al estado: fuera de una tx toma el mutex en cada operación; dentro de Run
// opera sobre la copia privada de la tx (mu nil).
type handle struct {
	mu  *sync.Mutex
	st  *state
	now func() time.Time
}

func (h *handle) do(fn func(st *state) error) error {
	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	return fn(h.st)
}

func (s *Store) handle() *handle {
	return &handle{mu: &s.mu, st: &s.state, now: s.now}
}

// Run ejecuta fn sobre una copia del estado y la publica sólo si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	h := &handle{st: &tx, now: s.now}
	if err := fn(inventory.Repos{
		Stores:    &StoreRepo{h: h},
		Materials: &MaterialRepo{h: h},
		Recipes:   &MaterialQuantityRepo{h: h},
		Stocks:    &MaterialStockRepo{h: h},
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() *UserRepo { return &UserRepo{h: s.handle()} }

// Stores repositorio de tiendas fuera de transacción.
func (s *Store) Stores() *StoreRepo { return &StoreRepo{h: s.handle()} }

// Materials repositorio de materiales fuera de transacción.
func (s *Store) Materials() *MaterialRepo { return &MaterialRepo{h: s.handle()} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{h: s.handle()} }

// Recipes repositorio de líneas de receta fuera de transacción.
func (s *Store) Recipes() *MaterialQuantityRepo { return &MaterialQuantityRepo{h: s.handle()} }

// Stocks repositorio de stock fuera de transacción.
func (s *Store) Stocks() *MaterialStockRepo { return &MaterialStockRepo{h: s.handle()} }

func notFound(what string, id int64) error {
	return fmt.Errorf("%w: %s %d", domain.ErrNotFound, what, id)
}

func duplicate(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrDuplicate}, args...)...)
}

func missingRef(what string, id int64) error {
	return fmt.Errorf("%w: %s %d no existe", domain.ErrInvalidArgument, what, id)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
