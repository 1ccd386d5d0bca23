package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

func TestInventory_PorcentajeDeOcupacion(t *testing.T) {
	f := newFixture(t)
	f.setCurrent(t, f.stockB, 33)

	out, err := f.queries.Inventory(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, out.Materials, 2)

	assert.Equal(t, f.matA, out.Materials[0].Material)
	assert.Equal(t, int64(100), out.Materials[0].MaxCapacity)
	assert.Equal(t, int64(20), out.Materials[0].CurrentCapacity)
	assert.Equal(t, "20.00", out.Materials[0].PercentageOfCapacity.StringFixed(2))
	assert.Equal(t, "33.00", out.Materials[1].PercentageOfCapacity.StringFixed(2))
}

func TestInventory_ReflejaLotesConfirmados(t *testing.T) {
	f := newFixture(t)
	_, err := f.restock.Restock(context.Background(), f.userID, restockOf(
		inventory.RestockLine{MaterialID: f.matA, Quantity: 5},
	))
	require.NoError(t, err)

	out, err := f.queries.Inventory(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), out.Materials[0].CurrentCapacity)
	assert.Equal(t, "25.00", out.Materials[0].PercentageOfCapacity.StringFixed(2))
}

func TestProductCapacity_MinimoPorMaterial(t *testing.T) {
	f := newFixture(t)

	out, err := f.queries.ProductCapacity(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, []dto.ProductCapacityDTO{
		{Product: f.prod1, Quantity: 10},
		{Product: f.prod2, Quantity: 10},
	}, out.RemainingCapacities)

	f.setCurrent(t, f.stockB, 7)
	out, err = f.queries.ProductCapacity(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.RemainingCapacities[0].Quantity)
}

func TestRestockSuggestion_FaltanteYTotal(t *testing.T) {
	f := newFixture(t)

	out, err := f.queries.RestockSuggestion(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, []dto.RestockLine{
		{Material: f.matA, Quantity: 80},
		{Material: f.matB, Quantity: 80},
	}, out.Materials)
	// 80 × 1.25 + 80 × 2.10
	assert.Equal(t, "268.00", out.TotalPrice.StringFixed(2))
}

func TestQueries_SinPrincipalDevuelvenVacio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.queries.Inventory(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, inv.Materials)
	assert.Empty(t, inv.Materials)

	caps, err := f.queries.ProductCapacity(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, caps.RemainingCapacities)

	sug, err := f.queries.RestockSuggestion(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, sug.Materials)
	assert.True(t, sug.TotalPrice.IsZero())
}

type fakeRenderer struct{ order inventory.RestockOrder }

func (r *fakeRenderer) RenderRestockOrder(_ context.Context, order inventory.RestockOrder) ([]byte, error) {
	r.order = order
	return []byte("%PDF-fake"), nil
}

func TestRestockOrderPDF_UsaLaOrdenDeLaTienda(t *testing.T) {
	f := newFixture(t)
	renderer := &fakeRenderer{}
	q := inventory.NewQueryUseCase(f.db.Stores(), f.db.Materials(), f.db.Recipes(), f.db.Stocks(), renderer)

	pdf, err := q.RestockOrderPDF(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "Tienda", renderer.order.StoreName)
	require.Len(t, renderer.order.Lines, 2)
	assert.Equal(t, "A", renderer.order.Lines[0].MaterialName)
	assert.Equal(t, "100.00", renderer.order.Lines[0].LinePrice.StringFixed(2))

	_, err = q.RestockOrderPDF(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// stocksLentos detiene la primera lectura de stock (ya hecha) hasta que se cierre release.
// Si el contexto de esa lectura se canceló mientras esperaba, falla como lo haría la BD.
type stocksLentos struct {
	repository.MaterialStockRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newStocksLentos(inner repository.MaterialStockRepository) *stocksLentos {
	return &stocksLentos{MaterialStockRepository: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (s *stocksLentos) ListByStore(ctx context.Context, storeID int64) ([]*entity.MaterialStock, error) {
	rows, err := s.MaterialStockRepository.ListByStore(ctx, storeID)
	first := false
	s.once.Do(func() { first = true })
	if !first {
		return rows, err
	}
	close(s.entered)
	<-s.release
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return rows, err
}

type capacityResult struct {
	out *dto.ProductCapacityResponse
	err error
}

func productCapacityAsync(ctx context.Context, q *inventory.QueryUseCase, userID int64) <-chan capacityResult {
	ch := make(chan capacityResult, 1)
	go func() {
		out, err := q.ProductCapacity(ctx, userID)
		ch <- capacityResult{out, err}
	}()
	return ch
}

func waitCapacity(t *testing.T, ch <-chan capacityResult) capacityResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("la consulta quedó esperando una lectura anterior")
		return capacityResult{}
	}
}

func TestProductCapacity_TrasVentaConfirmadaNoReusaLecturaPrevia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slow := newStocksLentos(f.db.Stocks())
	q := inventory.NewQueryUseCase(f.db.Stores(), f.db.Materials(), f.db.Recipes(), slow, nil)
	sales := inventory.NewSalesUseCase(f.db, nil, q, zerolog.Nop())

	// Lectura en curso con el stock 20/20
	before := productCapacityAsync(ctx, q, f.userID)
	<-slow.entered
	defer func() {
		select {
		case <-slow.release:
		default:
			close(slow.release)
		}
	}()

	_, err := sales.Sell(ctx, f.userID, saleOf(inventory.SaleLine{ProductID: f.prod1, Quantity: 5}))
	require.NoError(t, err)

	after := waitCapacity(t, productCapacityAsync(ctx, q, f.userID))
	require.NoError(t, after.err)
	assert.Equal(t, []dto.ProductCapacityDTO{
		{Product: f.prod1, Quantity: 5},
		{Product: f.prod2, Quantity: 5},
	}, after.out.RemainingCapacities)

	close(slow.release)
	prev := waitCapacity(t, before)
	require.NoError(t, prev.err)
	assert.Equal(t, int64(10), prev.out.RemainingCapacities[0].Quantity)
}

func TestProductCapacity_CancelarPrimerLlamadorNoAfectaALosDemas(t *testing.T) {
	f := newFixture(t)
	slow := newStocksLentos(f.db.Stocks())
	q := inventory.NewQueryUseCase(f.db.Stores(), f.db.Materials(), f.db.Recipes(), slow, nil)

	ctxA, cancel := context.WithCancel(context.Background())
	first := productCapacityAsync(ctxA, q, f.userID)
	<-slow.entered
	cancel()
	a := waitCapacity(t, first)
	assert.ErrorIs(t, a.err, context.Canceled)

	// El segundo llamador se une a la lectura que sigue en curso
	second := productCapacityAsync(context.Background(), q, f.userID)
	time.Sleep(20 * time.Millisecond)
	close(slow.release)

	b := waitCapacity(t, second)
	require.NoError(t, b.err)
	assert.Equal(t, int64(10), b.out.RemainingCapacities[0].Quantity)
}
