package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Materiales-api/internal/domain"
)

// Códigos SQLSTATE que el dominio distingue.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// mapError traduce errores del driver a errores de dominio; el resto se envuelve con la operación.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", domain.ErrDuplicate, op, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s referencia un registro inexistente (%s)", domain.ErrInvalidArgument, op, pgErr.ConstraintName)
		case codeCheckViolation:
			if strings.HasPrefix(pgErr.ConstraintName, "material_stocks_") {
				return fmt.Errorf("%w: %s (%s)", domain.ErrCapacityViolation, op, pgErr.ConstraintName)
			}
			return fmt.Errorf("%w: %s (%s)", domain.ErrInvalidArgument, op, pgErr.ConstraintName)
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %s", domain.ErrConflict, op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
