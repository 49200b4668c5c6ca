package entity

import "time"

// Brand representa una marca (tenant). Todas las tiendas, productos y usuarios
// pertenecen a una marca y nunca se cruzan datos entre marcas.
type Brand struct {
	ID        int64
	Name      string
	Code      string // corto, único
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
