package entity

import "time"

// User principal autenticado. Todas las consultas de inventario se filtran por su tienda.
type User struct {
	ID           int64
	Username     string // único
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
