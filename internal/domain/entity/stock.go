package entity

import "time"

// StoreStock es el contador de existencias de una variante en una tienda.
// Único por (StoreID, VariantID); se crea perezosamente con cantidad 0 la
// primera vez que una operación lo toca.
//
// ActualCount es la cantidad contada físicamente (toma de inventario); es un
// valor sombra que no afecta Quantity hasta que se aplica el ajuste.
type StoreStock struct {
	ID            int64
	StoreID       int64
	VariantID     int64
	Quantity      int
	ActualCount   *int
	LastCheckedAt *time.Time
	UpdatedAt     time.Time
}
