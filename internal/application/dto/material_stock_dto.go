package dto

import "time"

// CreateMaterialStockRequest entrada para agregar un material al stock de la tienda.
// Capacidades ausentes toman los valores por defecto (max 9999, actual 0).
type CreateMaterialStockRequest struct {
	Store           int64  `json:"store"`
	Material        int64  `json:"material"`
	MaxCapacity     *int64 `json:"max_capacity"`
	CurrentCapacity *int64 `json:"current_capacity"`
}

// UpdateMaterialStockRequest edición directa de una fila de stock.
type UpdateMaterialStockRequest struct {
	MaxCapacity     *int64 `json:"max_capacity"`
	CurrentCapacity *int64 `json:"current_capacity"`
}

// MaterialStockResponse salida de una fila de stock.
type MaterialStockResponse struct {
	ID              int64     `json:"id"`
	Store           int64     `json:"store"`
	Material        int64     `json:"material"`
	MaxCapacity     int64     `json:"max_capacity"`
	CurrentCapacity int64     `json:"current_capacity"`
	UpdatedAt       time.Time `json:"updated_at"`
}
