package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrUsernameAlreadyTaken = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidArgument      = errors.New("argumento inválido")
	ErrCapacityViolation    = errors.New("capacidad de stock fuera de rango")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	// ErrConflict escritura concurrente detectada por la BD; el lote completo se revierte y puede reintentarse.
	ErrConflict = errors.New("conflicto de escritura concurrente, reintente")
)

// LineError rechazo de un lote (reposición o venta) atribuido a una línea y campo concretos.
// Envuelve uno de los errores de dominio para que errors.Is siga funcionando.
type LineError struct {
	Index  int    // posición de la línea en el lote (base 0)
	Field  string // material, product o quantity
	Reason string
	Err    error
}

// NewLineError construye el rechazo de la línea index.
func NewLineError(index int, field string, err error, format string, args ...any) *LineError {
	return &LineError{Index: index, Field: field, Reason: fmt.Sprintf(format, args...), Err: err}
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %d, campo %s: %s", e.Index, e.Field, e.Reason)
}

func (e *LineError) Unwrap() error { return e.Err }

// WrapLine atribuye a la línea index un error de dominio ya construido (p.ej. del Capacity Guard).
func WrapLine(index int, field string, err error) *LineError {
	return &LineError{Index: index, Field: field, Reason: err.Error(), Err: err}
}
