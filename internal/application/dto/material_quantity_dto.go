package dto

// CreateMaterialQuantityRequest entrada para agregar una línea de receta.
type CreateMaterialQuantityRequest struct {
	Product  int64 `json:"product"`
	Material int64 `json:"ingredient"`
	Quantity int64 `json:"quantity"`
}

// UpdateMaterialQuantityRequest entrada para cambiar la cantidad de una línea de receta.
type UpdateMaterialQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// MaterialQuantityResponse salida de una línea de receta.
type MaterialQuantityResponse struct {
	ID       int64 `json:"id"`
	Product  int64 `json:"product"`
	Material int64 `json:"ingredient"`
	Quantity int64 `json:"quantity"`
}
