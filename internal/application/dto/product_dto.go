package dto

import "time"

// RecipeLineDTO material y cantidad requerida por unidad de producto.
type RecipeLineDTO struct {
	Material int64 `json:"material"`
	Quantity int64 `json:"quantity"`
}

// CreateProductRequest entrada para crear un producto con su receta opcional.
type CreateProductRequest struct {
	Name   string          `json:"name"`
	Recipe []RecipeLineDTO `json:"recipe"`
}

// UpdateProductRequest entrada para renombrar un producto (la receta se edita por material-quantities).
type UpdateProductRequest struct {
	Name *string `json:"name"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Recipe    []RecipeLineDTO `json:"recipe"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
