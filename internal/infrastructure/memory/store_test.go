package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/memory"
)

func seed(t *testing.T) (*memory.Store, *entity.Store, *entity.Material, *entity.MaterialStock) {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	u := &entity.User{Username: "ana"}
	require.NoError(t, db.Users().Create(ctx, u))
	m := &entity.Material{Name: "harina", Price: decimal.NewFromInt(3)}
	require.NoError(t, db.Materials().Create(ctx, m))
	s := &entity.Store{Name: "Centro", UserID: u.ID}
	require.NoError(t, db.Stores().Create(ctx, s))
	row := &entity.MaterialStock{StoreID: s.ID, MaterialID: m.ID, MaxCapacity: 10, CurrentCapacity: 4}
	require.NoError(t, db.Stocks().Create(ctx, row))
	return db, s, m, row
}

func TestRun_ErrorDescartaLosCambios(t *testing.T) {
	db, _, _, row := seed(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.Run(ctx, func(repos inventory.Repos) error {
		require.NoError(t, repos.Stocks.UpdateCurrent(ctx, row.ID, 9))
		got, err := repos.Stocks.GetByID(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(9), got.CurrentCapacity, "la tx ve sus propias escrituras")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := db.Stocks().GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.CurrentCapacity)
}

func TestRun_ConfirmaSinError(t *testing.T) {
	db, _, _, row := seed(t)
	ctx := context.Background()

	require.NoError(t, db.Run(ctx, func(repos inventory.Repos) error {
		return repos.Stocks.UpdateCurrent(ctx, row.ID, 10)
	}))
	got, err := db.Stocks().GetByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.CurrentCapacity)
}

func TestStocks_RangoDeCapacidad(t *testing.T) {
	db, s, m, row := seed(t)
	ctx := context.Background()

	assert.ErrorIs(t, db.Stocks().UpdateCurrent(ctx, row.ID, 11), domain.ErrCapacityViolation)
	assert.ErrorIs(t, db.Stocks().UpdateCurrent(ctx, row.ID, -1), domain.ErrCapacityViolation)
	assert.ErrorIs(t, db.Stocks().Create(ctx, &entity.MaterialStock{StoreID: s.ID, MaterialID: m.ID, MaxCapacity: 5}),
		domain.ErrDuplicate)
}

func TestStores_UnaTiendaPorUsuario(t *testing.T) {
	db, s, _, _ := seed(t)
	ctx := context.Background()

	err := db.Stores().Create(ctx, &entity.Store{Name: "Otra", UserID: s.UserID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	none, err := db.Stores().GetByUser(ctx, s.UserID+100)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDelete_EnCascada(t *testing.T) {
	db, s, m, row := seed(t)
	ctx := context.Background()

	p := &entity.Product{Name: "pan", Recipe: []entity.MaterialQuantity{{MaterialID: m.ID, Quantity: 2}}}
	require.NoError(t, db.Products().Create(ctx, p))
	require.NoError(t, db.Stores().SetProducts(ctx, s.ID, []int64{p.ID}))

	require.NoError(t, db.Materials().Delete(ctx, m.ID))
	_, err := db.Stocks().GetByID(ctx, row.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := db.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Recipe)

	require.NoError(t, db.Products().Delete(ctx, p.ID))
	store, err := db.Stores().GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, store.ProductIDs)
}

func TestProducts_RecetaConMaterialInexistente(t *testing.T) {
	db, _, _, _ := seed(t)
	err := db.Products().Create(context.Background(), &entity.Product{
		Name:   "pan",
		Recipe: []entity.MaterialQuantity{{MaterialID: 999, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
