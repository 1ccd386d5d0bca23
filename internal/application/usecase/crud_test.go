package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/application/usecase"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/memory"
)

type crud struct {
	db        *memory.Store
	stores    *usecase.StoreUseCase
	materials *usecase.MaterialUseCase
	products  *usecase.ProductUseCase
	recipes   *usecase.MaterialQuantityUseCase
	stocks    *usecase.MaterialStockUseCase
}

func newCRUD() *crud {
	db := memory.New()
	return &crud{
		db:        db,
		stores:    usecase.NewStoreUseCase(db.Stores()),
		materials: usecase.NewMaterialUseCase(db.Materials(), db.Stores()),
		products:  usecase.NewProductUseCase(db.Products(), db.Stores()),
		recipes:   usecase.NewMaterialQuantityUseCase(db.Recipes(), db.Stores()),
		stocks:    usecase.NewMaterialStockUseCase(db.Stocks(), db.Stores(), db),
	}
}

func (c *crud) user(t *testing.T, name string) int64 {
	t.Helper()
	u := &entity.User{Username: name}
	require.NoError(t, c.db.Users().Create(context.Background(), u))
	return u.ID
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func int64p(v int64) *int64 { return &v }

func TestStore_UnaPorUsuarioYAislada(t *testing.T) {
	c := newCRUD()
	ctx := context.Background()
	ana, beto := c.user(t, "ana"), c.user(t, "beto")

	s, err := c.stores.Create(ctx, ana, dto.CreateStoreRequest{Name: "Centro"})
	require.NoError(t, err)
	assert.Equal(t, ana, s.UserID)
	assert.NotNil(t, s.ProductIDs)

	_, err = c.stores.Create(ctx, ana, dto.CreateStoreRequest{Name: "Norte"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Una tienda ajena no existe para el principal
	_, err = c.stores.Get(ctx, beto, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	list, err := c.stores.List(ctx, beto)
	require.NoError(t, err)
	assert.Empty(t, list)

	name := "Centro 2"
	s, err = c.stores.Update(ctx, ana, s.ID, dto.UpdateStoreRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Centro 2", s.Name)

	require.NoError(t, c.stores.Delete(ctx, ana, s.ID))
	_, err = c.stores.Get(ctx, ana, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMaterial_ValidaPrecio(t *testing.T) {
	c := newCRUD()
	ctx := context.Background()

	_, err := c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "harina"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "harina", Price: price("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "harina", Price: price("1.234")})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	m, err := c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "harina", Price: price("1.25")})
	require.NoError(t, err)
	_, err = c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "harina", Price: price("2")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	m, err = c.materials.Update(ctx, m.ID, dto.UpdateMaterialRequest{Price: price("3.10")})
	require.NoError(t, err)
	assert.Equal(t, "3.1", m.Price.String())
}

func TestMaterialStock_CapacityGuardEnEdicion(t *testing.T) {
	c := newCRUD()
	ctx := context.Background()
	ana := c.user(t, "ana")
	_, err := c.stores.Create(ctx, ana, dto.CreateStoreRequest{Name: "Centro"})
	require.NoError(t, err)
	m, err := c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "harina", Price: price("1")})
	require.NoError(t, err)

	// Sin capacidades explícitas toma los valores por defecto
	row, err := c.stocks.Create(ctx, ana, dto.CreateMaterialStockRequest{Material: m.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultMaxCapacity, row.MaxCapacity)
	assert.Equal(t, entity.DefaultCurrentCapacity, row.CurrentCapacity)

	row, err = c.stocks.Update(ctx, ana, row.ID, dto.UpdateMaterialStockRequest{MaxCapacity: int64p(50), CurrentCapacity: int64p(40)})
	require.NoError(t, err)
	assert.Equal(t, int64(40), row.CurrentCapacity)

	_, err = c.stocks.Update(ctx, ana, row.ID, dto.UpdateMaterialStockRequest{MaxCapacity: int64p(30)})
	assert.ErrorIs(t, err, domain.ErrCapacityViolation)
	_, err = c.stocks.Update(ctx, ana, row.ID, dto.UpdateMaterialStockRequest{CurrentCapacity: int64p(-1)})
	assert.ErrorIs(t, err, domain.ErrCapacityViolation)

	got, err := c.stocks.Get(ctx, ana, row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.MaxCapacity)
	assert.Equal(t, int64(40), got.CurrentCapacity)

	list, err := c.materials.List(ctx, ana)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "harina", list[0].Name)
}

// stocksConVentaIntermedia confirma un descuento de stock justo después de la
// lectura de la fila, antes de que la edición escriba.
type stocksConVentaIntermedia struct {
	repository.MaterialStockRepository
	db       *memory.Store
	consumed int64
	done     bool
}

func (r *stocksConVentaIntermedia) GetByID(ctx context.Context, id int64) (*entity.MaterialStock, error) {
	row, err := r.MaterialStockRepository.GetByID(ctx, id)
	if err != nil || r.done {
		return row, err
	}
	r.done = true
	sale := r.db.Run(ctx, func(repos inventory.Repos) error {
		locked, err := repos.Stocks.LockByMaterials(ctx, row.StoreID, []int64{row.MaterialID})
		if err != nil {
			return err
		}
		return repos.Stocks.UpdateCurrent(ctx, id, locked[0].CurrentCapacity-r.consumed)
	})
	return row, sale
}

func TestMaterialStock_EdicionNoPisaVentaConcurrente(t *testing.T) {
	c := newCRUD()
	ctx := context.Background()
	ana := c.user(t, "ana")
	_, err := c.stores.Create(ctx, ana, dto.CreateStoreRequest{Name: "Centro"})
	require.NoError(t, err)
	m, err := c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "harina", Price: price("1.25")})
	require.NoError(t, err)
	row, err := c.stocks.Create(ctx, ana, dto.CreateMaterialStockRequest{
		Material: m.ID, MaxCapacity: int64p(100), CurrentCapacity: int64p(20),
	})
	require.NoError(t, err)

	repo := &stocksConVentaIntermedia{MaterialStockRepository: c.db.Stocks(), db: c.db, consumed: 10}
	stocks := usecase.NewMaterialStockUseCase(repo, c.db.Stores(), c.db)

	// Sólo se envía max: el current que dejó la venta debe sobrevivir
	got, err := stocks.Update(ctx, ana, row.ID, dto.UpdateMaterialStockRequest{MaxCapacity: int64p(200)})
	require.NoError(t, err)
	assert.True(t, repo.done)
	assert.Equal(t, int64(200), got.MaxCapacity)
	assert.Equal(t, int64(10), got.CurrentCapacity)

	persisted, err := c.db.Stocks().GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), persisted.MaxCapacity)
	assert.Equal(t, int64(10), persisted.CurrentCapacity)
}

func TestMaterialStock_MaxSeValidaContraStockVigente(t *testing.T) {
	c := newCRUD()
	ctx := context.Background()
	ana := c.user(t, "ana")
	_, err := c.stores.Create(ctx, ana, dto.CreateStoreRequest{Name: "Centro"})
	require.NoError(t, err)
	m, err := c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "harina", Price: price("1")})
	require.NoError(t, err)
	row, err := c.stocks.Create(ctx, ana, dto.CreateMaterialStockRequest{
		Material: m.ID, MaxCapacity: int64p(100), CurrentCapacity: int64p(40),
	})
	require.NoError(t, err)

	// Con la lectura previa (40) max=35 se rechazaría; tras la venta quedan 30 y es válido
	repo := &stocksConVentaIntermedia{MaterialStockRepository: c.db.Stocks(), db: c.db, consumed: 10}
	stocks := usecase.NewMaterialStockUseCase(repo, c.db.Stores(), c.db)
	got, err := stocks.Update(ctx, ana, row.ID, dto.UpdateMaterialStockRequest{MaxCapacity: int64p(35)})
	require.NoError(t, err)
	assert.Equal(t, int64(35), got.MaxCapacity)
	assert.Equal(t, int64(30), got.CurrentCapacity)
}

func TestMaterialStock_CreacionInvalida(t *testing.T) {
	c := newCRUD()
	ctx := context.Background()
	ana, beto := c.user(t, "ana"), c.user(t, "beto")
	_, err := c.stocks.Create(ctx, ana, dto.CreateMaterialStockRequest{Material: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound, "sin tienda")

	s, err := c.stores.Create(ctx, ana, dto.CreateStoreRequest{Name: "Centro"})
	require.NoError(t, err)
	_, err = c.stores.Create(ctx, beto, dto.CreateStoreRequest{Name: "Norte"})
	require.NoError(t, err)
	m, err := c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "harina", Price: price("1")})
	require.NoError(t, err)

	_, err = c.stocks.Create(ctx, beto, dto.CreateMaterialStockRequest{Store: s.ID, Material: m.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = c.stocks.Create(ctx, ana, dto.CreateMaterialStockRequest{Material: m.ID, MaxCapacity: int64p(0)})
	assert.ErrorIs(t, err, domain.ErrCapacityViolation)
	_, err = c.stocks.Create(ctx, ana, dto.CreateMaterialStockRequest{Material: m.ID, MaxCapacity: int64p(5), CurrentCapacity: int64p(6)})
	assert.ErrorIs(t, err, domain.ErrCapacityViolation)
}

func TestProducto_RecetaYOferta(t *testing.T) {
	c := newCRUD()
	ctx := context.Background()
	ana := c.user(t, "ana")
	a, err := c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "A", Price: price("1")})
	require.NoError(t, err)
	b, err := c.materials.Create(ctx, dto.CreateMaterialRequest{Name: "B", Price: price("1")})
	require.NoError(t, err)

	_, err = c.products.Create(ctx, dto.CreateProductRequest{Name: "P", Recipe: []dto.RecipeLineDTO{{Material: a.ID, Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	p, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "P", Recipe: []dto.RecipeLineDTO{{Material: a.ID, Quantity: 2}}})
	require.NoError(t, err)
	require.Len(t, p.Recipe, 1)

	line, err := c.recipes.Create(ctx, dto.CreateMaterialQuantityRequest{Product: p.ID, Material: b.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = c.recipes.Create(ctx, dto.CreateMaterialQuantityRequest{Product: p.ID, Material: b.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	line, err = c.recipes.Update(ctx, line.ID, dto.UpdateMaterialQuantityRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, p.ID, line.Product)
	assert.Equal(t, int64(4), line.Quantity)

	s, err := c.stores.Create(ctx, ana, dto.CreateStoreRequest{Name: "Centro"})
	require.NoError(t, err)
	_, err = c.stores.SetProducts(ctx, ana, s.ID, dto.SetStoreProductsRequest{ProductIDs: []int64{p.ID}})
	require.NoError(t, err)

	products, err := c.products.List(ctx, ana)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Len(t, products[0].Recipe, 2)

	lines, err := c.recipes.List(ctx, ana)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	require.NoError(t, c.products.Delete(ctx, p.ID))
	store, err := c.stores.Get(ctx, ana, s.ID)
	require.NoError(t, err)
	assert.Empty(t, store.ProductIDs)
}
