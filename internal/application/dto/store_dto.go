package dto

import "time"

// CreateStoreRequest entrada para crear la tienda del usuario autenticado.
type CreateStoreRequest struct {
	Name       string  `json:"name"`
	ProductIDs []int64 `json:"products"`
}

// UpdateStoreRequest entrada para renombrar la tienda.
type UpdateStoreRequest struct {
	Name *string `json:"name"`
}

// SetStoreProductsRequest reemplaza los productos ofrecidos.
type SetStoreProductsRequest struct {
	ProductIDs []int64 `json:"products"`
}

// StoreResponse salida de una tienda.
type StoreResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	UserID     int64     `json:"user"`
	ProductIDs []int64   `json:"products"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
