package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Materiales-api/internal/domain/inventory"
)

// El total se calcula sumando precios de línea ya redondeados, no redondeando al final.
func TestLinePrice_RedondeoPorLinea(t *testing.T) {
	p := decimal.RequireFromString("0.333")
	line := inventory.LinePrice(5, p)
	assert.True(t, decimal.RequireFromString("1.67").Equal(line), "got %s", line)

	total := inventory.SumPrices(inventory.LinePrice(5, p), inventory.LinePrice(5, p))
	assert.True(t, decimal.RequireFromString("3.34").Equal(total), "got %s", total)
}

func TestSumPrices_Vacio(t *testing.T) {
	assert.True(t, inventory.SumPrices().IsZero())
}
