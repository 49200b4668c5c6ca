package entity

import "time"

// Tipo de solicitud tienda <-> casa matriz.
const (
	StoreOrderTypeOrder  = "ORDER"  // la tienda pide unidades del depósito central
	StoreOrderTypeReturn = "RETURN" // la tienda devuelve unidades al depósito central
)

// Estados de una solicitud.
const (
	StoreOrderPending  = "PENDING"
	StoreOrderApproved = "APPROVED"
	StoreOrderRejected = "REJECTED"
)

// StoreOrder representa un pedido o devolución de una tienda contra el
// depósito de casa matriz. Al aprobar, casa matriz fija ConfirmedQuantity
// (puede diferir de lo pedido) y esa es la cantidad que mueve stock.
type StoreOrder struct {
	ID                int64
	BrandID           int64
	StoreID           int64
	VariantID         int64
	Type              string // ORDER | RETURN
	RequestedQuantity int
	ConfirmedQuantity *int
	Status            string
	Note              string
	CreatedBy         string // user id
	DecidedBy         string
	CreatedAt         time.Time
	DecidedAt         *time.Time
}
