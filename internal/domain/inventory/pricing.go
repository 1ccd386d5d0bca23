package inventory

import "github.com/shopspring/decimal"

// LinePrice precio de una línea de reposición redondeado a 2 decimales.
// El total de un lote es la suma de los precios de línea ya redondeados.
func LinePrice(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unitPrice).Round(2)
}

// SumPrices suma precios de línea.
func SumPrices(prices ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return total.Round(2)
}
