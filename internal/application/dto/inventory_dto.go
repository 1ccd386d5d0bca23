package dto

import "github.com/shopspring/decimal"

// RestockRequest body para POST /api/restock.
// Campos puntero para distinguir "ausente" de cero; un campo con tipo distinto (p.ej. "5") falla al decodificar.
type RestockRequest struct {
	Materials *[]RestockItem `json:"materials"`
}

// RestockItem línea de reposición: material e incremento.
type RestockItem struct {
	Material *int64 `json:"material"`
	Quantity *int64 `json:"quantity"`
}

// RestockLine línea de reposición en la respuesta.
type RestockLine struct {
	Material int64 `json:"material"`
	Quantity int64 `json:"quantity"`
}

// RestockResponse respuesta de GET y POST /api/restock.
// En GET Quantity es el faltante (max - current) de cada fila; en POST es el eco del lote aplicado.
type RestockResponse struct {
	Materials  []RestockLine   `json:"materials"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// SaleRequest body para POST /api/sales.
type SaleRequest struct {
	Sale *[]SaleItem `json:"sale"`
}

// SaleItem línea de venta: producto y unidades vendidas.
type SaleItem struct {
	Product  *int64 `json:"product"`
	Quantity *int64 `json:"quantity"`
}

// SaleLine línea de venta en la respuesta.
type SaleLine struct {
	Product  int64 `json:"product"`
	Quantity int64 `json:"quantity"`
}

// SaleResponse respuesta de POST /api/sales.
type SaleResponse struct {
	Sale []SaleLine `json:"sale"`
}

// MaterialCapacityDTO ocupación de una fila de stock.
type MaterialCapacityDTO struct {
	Material             int64           `json:"material"`
	MaxCapacity          int64           `json:"max_capacity"`
	CurrentCapacity      int64           `json:"current_capacity"`
	PercentageOfCapacity decimal.Decimal `json:"percentage_of_capacity"`
}

// InventoryResponse respuesta de GET /api/inventory.
type InventoryResponse struct {
	Materials []MaterialCapacityDTO `json:"materials"`
}

// ProductCapacityDTO unidades ensamblables de un producto con el stock actual.
type ProductCapacityDTO struct {
	Product  int64 `json:"product"`
	Quantity int64 `json:"quantity"`
}

// ProductCapacityResponse respuesta de GET /api/product-capacity.
type ProductCapacityResponse struct {
	RemainingCapacities []ProductCapacityDTO `json:"remaining_capacities"`
}
