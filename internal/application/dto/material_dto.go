package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para crear un material.
type CreateMaterialRequest struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// UpdateMaterialRequest entrada para actualizar un material.
type UpdateMaterialRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
