package entity

import "time"

// Estados de un traslado entre tiendas.
// REQUESTED -> SHIPPED -> RECEIVED; REQUESTED -> REJECTED; REQUESTED -> CANCELLED.
const (
	TransferRequested = "REQUESTED"
	TransferShipped   = "SHIPPED"
	TransferReceived  = "RECEIVED"
	TransferRejected  = "REJECTED"
	TransferCancelled = "CANCELLED"
)

// Origen del traslado: pedido por la tienda destino o instruido por casa matriz.
const (
	TransferTypeRequest     = "REQUEST"
	TransferTypeInstruction = "INSTRUCTION"
)

// StockTransfer representa un traslado de una variante entre dos tiendas.
// El stock de la tienda origen baja al despachar (SHIPPED) y el de la tienda
// destino sube al recibir (RECEIVED); entre ambos eventos las unidades están
// en tránsito y no pertenecen a ningún contador.
type StockTransfer struct {
	ID          int64
	BrandID     int64
	VariantID   int64
	FromStoreID int64 // tienda origen (despacha)
	ToStoreID   int64 // tienda destino (recibe)
	Quantity    int
	Type        string // REQUEST | INSTRUCTION
	Status      string
	RequestedBy string // user id
	ShippedBy   string
	ReceivedBy  string
	ResolvedBy  string // quien rechazó o canceló
	CreatedAt   time.Time
	ShippedAt   *time.Time
	ReceivedAt  *time.Time
	ResolvedAt  *time.Time
}
