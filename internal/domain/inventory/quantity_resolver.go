package inventory

import "github.com/jhoicas/Materiales-api/internal/domain/entity"

// AvailableQuantity calcula cuántas unidades del producto se pueden ensamblar con el stock actual
// (servicio de dominio, regla del ingrediente limitante).
//
//	Disponible = min( floor(StockActual(material) / CantidadReceta(material)) ) sobre la receta
//
// stock mapea MaterialID -> CurrentCapacity de la tienda; un material sin fila cuenta como 0.
// Una receta vacía devuelve 0: un producto sin receta no se puede vender.
func AvailableQuantity(recipe []entity.MaterialQuantity, stock map[int64]int64) int64 {
	if len(recipe) == 0 {
		return 0
	}
	available := int64(-1)
	for _, line := range recipe {
		if line.Quantity <= 0 {
			return 0
		}
		current := stock[line.MaterialID]
		if current < 0 {
			current = 0
		}
		units := current / line.Quantity
		if available < 0 || units < available {
			available = units
		}
	}
	return available
}

// LimitingMaterial devuelve el material que acota la disponibilidad (0 si la receta está vacía).
func LimitingMaterial(recipe []entity.MaterialQuantity, stock map[int64]int64) int64 {
	var limiting int64
	best := int64(-1)
	for _, line := range recipe {
		if line.Quantity <= 0 {
			return line.MaterialID
		}
		units := stock[line.MaterialID] / line.Quantity
		if best < 0 || units < best {
			best = units
			limiting = line.MaterialID
		}
	}
	return limiting
}

// StockLevels indexa filas de stock por material.
func StockLevels(rows []*entity.MaterialStock) map[int64]int64 {
	levels := make(map[int64]int64, len(rows))
	for _, r := range rows {
		levels[r.MaterialID] = r.CurrentCapacity
	}
	return levels
}
