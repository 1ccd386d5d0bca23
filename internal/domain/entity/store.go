package entity

import "time"

// Store representa la tienda de un usuario. Cada usuario tiene como máximo una tienda
// (restricción única sobre user_id); la tienda es dueña exclusiva de sus filas de stock.
type Store struct {
	ID         int64
	Name       string  // único
	UserID     int64   // principal dueño
	ProductIDs []int64 // productos que la tienda ofrece
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Offers indica si la tienda ofrece el producto.
func (s *Store) Offers(productID int64) bool {
	for _, id := range s.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
