package dto

import "time"

// CreateStoreOrderRequest cuerpo de POST /api/store-orders y /api/store-returns.
type CreateStoreOrderRequest struct {
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// DecideStoreOrderRequest decisión de casa matriz sobre un pedido/devolución.
// ConfirmedQuantity solo aplica al aprobar; si es nil se confirma lo pedido.
type DecideStoreOrderRequest struct {
	Approve           bool   `json:"approve"`
	ConfirmedQuantity *int   `json:"confirmed_quantity,omitempty"`
	Note              string `json:"note"`
}

// StoreOrderResponse pedido o devolución de tienda.
type StoreOrderResponse struct {
	ID                int64      `json:"id"`
	StoreID           int64      `json:"store_id"`
	VariantID         int64      `json:"variant_id"`
	Type              string     `json:"type"`
	RequestedQuantity int        `json:"requested_quantity"`
	ConfirmedQuantity *int       `json:"confirmed_quantity,omitempty"`
	Status            string     `json:"status"`
	Note              string     `json:"note,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
}
