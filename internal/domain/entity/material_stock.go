package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto al crear una fila de stock sin capacidades explícitas.
const (
	DefaultMaxCapacity     int64 = 9999
	DefaultCurrentCapacity int64 = 0
)

// MaterialStock existencias de un material en una tienda. Una fila por (StoreID, MaterialID).
// Invariante: 0 <= CurrentCapacity <= MaxCapacity y MaxCapacity > 0.
type MaterialStock struct {
	ID              int64
	StoreID         int64
	MaterialID      int64
	MaxCapacity     int64
	CurrentCapacity int64
	UpdatedAt       time.Time
}

// Shortfall unidades que faltan para llenar la fila hasta su capacidad máxima.
func (s *MaterialStock) Shortfall() int64 {
	return s.MaxCapacity - s.CurrentCapacity
}

// PercentageOfCapacity porcentaje de ocupación redondeado a 2 decimales.
func (s *MaterialStock) PercentageOfCapacity() decimal.Decimal {
	if s.MaxCapacity <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.CurrentCapacity).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(s.MaxCapacity)).
		Round(2)
}
