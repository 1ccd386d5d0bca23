package inventory

import (
	"fmt"

	"github.com/jhoicas/Materiales-api/internal/domain"
)

// ValidateCapacity es el único punto de control del invariante 0 <= current <= max (max > 0).
// Se aplica a toda fila de stock después de calcular una mutación y antes de persistirla,
// tanto desde los motores de reposición/venta como desde la edición directa de filas.
func ValidateCapacity(current, max int64) error {
	if max <= 0 {
		return fmt.Errorf("%w: capacidad máxima %d debe ser mayor que 0", domain.ErrCapacityViolation, max)
	}
	if current < 0 {
		return fmt.Errorf("%w: stock actual %d negativo", domain.ErrCapacityViolation, current)
	}
	if current > max {
		return fmt.Errorf("%w: stock actual %d supera la capacidad máxima %d", domain.ErrCapacityViolation, current, max)
	}
	return nil
}

// ValidateRestockLine regla histórica de reposición: el incremento se rechaza cuando el stock
// resultante alcanzaría o superaría la capacidad máxima (current + delta >= max).
// Llenar exactamente hasta max se considera desborde.
func ValidateRestockLine(current, delta, max int64) error {
	if delta <= 0 {
		return fmt.Errorf("%w: la cantidad a reponer debe ser positiva", domain.ErrInvalidArgument)
	}
	// delta >= max-current evita el overflow de current+delta con cantidades enormes
	if delta >= max-current {
		return fmt.Errorf("%w: reponer %d unidades llevaría el stock de %d a %d o más (máximo %d)",
			domain.ErrCapacityViolation, delta, current, max, max)
	}
	return nil
}

// ValidateMaxCapacityEdit impide bajar la capacidad máxima por debajo del stock actual en una edición directa.
func ValidateMaxCapacityEdit(current, newMax int64) error {
	if newMax < current {
		return fmt.Errorf("%w: la capacidad máxima %d no puede ser menor que el stock actual %d",
			domain.ErrCapacityViolation, newMax, current)
	}
	return ValidateCapacity(current, newMax)
}
