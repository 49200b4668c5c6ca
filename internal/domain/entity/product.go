package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un modelo de producto de una marca.
// NumberClean y NameClean son las claves normalizadas para búsqueda
// (minúsculas, sin tildes ni separadores).
type Product struct {
	ID          int64
	BrandID     int64
	Number      string // referencia del fabricante, única por marca
	Name        string
	NumberClean string
	NameClean   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant representa una variante vendible (color + talla) de un producto.
// HQQuantity es el stock del depósito de casa matriz, del cual se descuentan
// los pedidos de tienda aprobados y al cual regresan las devoluciones.
type Variant struct {
	ID            int64
	ProductID     int64
	BrandID       int64
	Color         string
	Size          string
	Barcode       string // opcional, único por marca cuando no es vacío
	OriginalPrice decimal.Decimal
	SalePrice     decimal.Decimal
	CostPrice     decimal.Decimal
	HQQuantity    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
