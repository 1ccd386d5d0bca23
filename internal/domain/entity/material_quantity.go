package entity

// MaterialQuantity línea de receta: cuántas unidades de un material consume una unidad del producto.
// Única por (ProductID, MaterialID); Quantity > 0.
type MaterialQuantity struct {
	ID         int64
	ProductID  int64
	MaterialID int64
	Quantity   int64
}
