package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusValid    = "valid"
	SaleStatusRefunded = "refunded"
)

// Métodos de pago aceptados.
const (
	PaymentCard     = "card"
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
)

// Sale representa una boleta de venta de una tienda.
// ReceiptNumber tiene el formato YYYYMMDD-{storeID}-{NNNN}, donde NNNN es el
// consecutivo del día en esa tienda (DailyNumber).
type Sale struct {
	ID            int64
	BrandID       int64
	StoreID       int64
	ReceiptNumber string
	DailyNumber   int
	Date          time.Time // día de la venta
	Status        string    // valid | refunded
	PaymentMethod string    // card | cash | transfer
	IsOnline      bool
	Total         decimal.Decimal
	CreatedBy     string // user id
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []*SaleItem
}

// SaleItem es una línea de la boleta. Los datos del producto se copian al
// momento de vender (snapshot) para que la boleta no cambie si el catálogo
// cambia después. Quantity baja con las devoluciones parciales; la cantidad
// restante de la línea es siempre Quantity.
type SaleItem struct {
	ID            int64
	SaleID        int64
	VariantID     int64
	ProductNumber string
	ProductName   string
	Color         string
	Size          string
	Quantity      int
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal // por unidad, 0 <= Discount <= UnitPrice
	Subtotal      decimal.Decimal // (UnitPrice - Discount) * Quantity
}
