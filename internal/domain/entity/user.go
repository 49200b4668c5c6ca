package entity

import "time"

// Roles válidos para User.
const (
	RoleCentral = "central" // casa matriz
	RoleTienda  = "tienda"  // personal de tienda
)

// User representa un usuario del sistema (pertenece a una Brand).
// StoreID es nil para usuarios de casa matriz.
type User struct {
	ID           string
	BrandID      int64
	StoreID      *int64
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // central, tienda
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
