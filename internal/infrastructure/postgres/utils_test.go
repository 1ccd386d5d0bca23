package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Materiales-api/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"sin filas", pgx.ErrNoRows, domain.ErrNotFound},
		{"único", &pgconn.PgError{Code: "23505", ConstraintName: "stores_name_key"}, domain.ErrDuplicate},
		{"fk", &pgconn.PgError{Code: "23503"}, domain.ErrInvalidArgument},
		{"check stock", &pgconn.PgError{Code: "23514", ConstraintName: "material_stocks_capacity_range"}, domain.ErrCapacityViolation},
		{"check receta", &pgconn.PgError{Code: "23514", ConstraintName: "material_quantities_quantity_positive"}, domain.ErrInvalidArgument},
		{"serialización", &pgconn.PgError{Code: "40001"}, domain.ErrConflict},
		{"deadlock", fmt.Errorf("envuelto: %w", &pgconn.PgError{Code: "40P01"}), domain.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", tc.err), tc.want)
		})
	}

	other := errors.New("conexión perdida")
	got := mapError("op", other)
	assert.ErrorIs(t, got, other)
	assert.Equal(t, "op: conexión perdida", got.Error())
	assert.NoError(t, mapError("op", nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
