package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiales-api/internal/application/inventory"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0,00",
		"1.25":      "1,25",
		"25000":     "25.000,00",
		"1000000.5": "1.000.000,50",
		"-1234.1":   "-1.234,10",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestRenderRestockOrder(t *testing.T) {
	order := inventory.RestockOrder{
		StoreName:   "Tienda",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Lines: []inventory.RestockOrderLine{
			{MaterialID: 1, MaterialName: "A", Quantity: 80, UnitPrice: decimal.RequireFromString("1.25"), LinePrice: decimal.RequireFromString("100")},
			{MaterialID: 2, MaterialName: "B", Quantity: 80, UnitPrice: decimal.RequireFromString("2.10"), LinePrice: decimal.RequireFromString("168")},
		},
		Total: decimal.RequireFromString("268"),
	}

	out, err := NewRestockOrderRenderer().RenderRestockOrder(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRestockOrder_SinLineas(t *testing.T) {
	out, err := NewRestockOrderRenderer().RenderRestockOrder(context.Background(), inventory.RestockOrder{StoreName: "Tienda"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRestockOrder_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRestockOrderRenderer().RenderRestockOrder(ctx, inventory.RestockOrder{})
	assert.ErrorIs(t, err, context.Canceled)
}
