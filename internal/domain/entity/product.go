package entity

import "time"

// Product producto ensamblable a partir de materiales según su receta.
// Recipe se carga bajo demanda (puede venir vacío si no se consultó).
type Product struct {
	ID        int64
	Name      string // único
	Recipe    []MaterialQuantity
	CreatedAt time.Time
	UpdatedAt time.Time
}
