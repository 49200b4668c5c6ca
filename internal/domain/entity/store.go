package entity

import "time"

// Store representa una tienda física de una marca.
type Store struct {
	ID        int64
	BrandID   int64
	Code      string // único por marca
	Name      string
	Approved  bool // casa matriz aprueba tiendas registradas
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
