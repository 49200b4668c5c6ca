package dto

import "time"

// CreateTransferRequest cuerpo de POST /api/transfers/request e /instruct.
// En "request" la tienda destino (del token) pide a FromStoreID;
// en "instruct" casa matriz indica origen y destino.
type CreateTransferRequest struct {
	VariantID   int64 `json:"variant_id"`
	FromStoreID int64 `json:"from_store_id"`
	ToStoreID   int64 `json:"to_store_id,omitempty"` // solo instrucción
	Quantity    int   `json:"quantity"`
}

// TransferResponse traslado.
type TransferResponse struct {
	ID          int64      `json:"id"`
	VariantID   int64      `json:"variant_id"`
	FromStoreID int64      `json:"from_store_id"`
	ToStoreID   int64      `json:"to_store_id"`
	Quantity    int        `json:"quantity"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
