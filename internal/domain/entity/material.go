package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material materia prima compartida entre tiendas (dato de referencia).
type Material struct {
	ID        int64
	Name      string          // único
	Price     decimal.Decimal // precio unitario, >= 0 y dos decimales
	CreatedAt time.Time
	UpdatedAt time.Time
}
