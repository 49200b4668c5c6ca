package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. El precio unitario sale del catálogo
// (SalePrice de la variante); Discount es por unidad.
type SaleLineRequest struct {
	VariantID int64           `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest cuerpo de POST /api/sales. Date es opcional y permite
// registrar una venta con fecha pasada; el consecutivo diario y el número de
// boleta se calculan sobre esa fecha. Sin Date se usa la fecha actual.
type CreateSaleRequest struct {
	Lines         []SaleLineRequest `json:"lines"`
	PaymentMethod string            `json:"payment_method"` // card | cash | transfer
	IsOnline      bool              `json:"is_online"`
	Date          *time.Time        `json:"date,omitempty"`
}

// RefundLineRequest línea de devolución parcial.
type RefundLineRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// RefundPartialRequest cuerpo de POST /api/sales/:id/refund-partial.
type RefundPartialRequest struct {
	Lines []RefundLineRequest `json:"lines"`
}

// SaleItemResponse línea de boleta.
type SaleItemResponse struct {
	ID            int64           `json:"id"`
	VariantID     int64           `json:"variant_id"`
	ProductNumber string          `json:"product_number"`
	ProductName   string          `json:"product_name"`
	Color         string          `json:"color"`
	Size          string          `json:"size"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Discount      decimal.Decimal `json:"discount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// SaleResponse boleta completa.
type SaleResponse struct {
	ID            int64              `json:"id"`
	StoreID       int64              `json:"store_id"`
	ReceiptNumber string             `json:"receipt_number"`
	Date          time.Time          `json:"date"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	IsOnline      bool               `json:"is_online"`
	Total         decimal.Decimal    `json:"total"`
	Items         []SaleItemResponse `json:"items"`
}
