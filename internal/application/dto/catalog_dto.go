package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBrandRequest alta de marca.
type CreateBrandRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// BrandResponse marca.
type BrandResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStoreRequest alta de tienda. Las tiendas nacen sin aprobar.
type CreateStoreRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StoreResponse tienda.
type StoreResponse struct {
	ID        int64     `json:"id"`
	BrandID   int64     `json:"brand_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Approved  bool      `json:"approved"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateVariantRequest variante dentro del alta de producto.
type CreateVariantRequest struct {
	Color         string          `json:"color"`
	Size          string          `json:"size"`
	Barcode       string          `json:"barcode"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	HQQuantity    int             `json:"hq_quantity"`
}

// CreateProductRequest alta de producto con sus variantes.
type CreateProductRequest struct {
	Number   string                 `json:"number"`
	Name     string                 `json:"name"`
	Variants []CreateVariantRequest `json:"variants"`
}

// VariantResponse variante.
type VariantResponse struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	Color         string          `json:"color"`
	Size          string          `json:"size"`
	Barcode       string          `json:"barcode,omitempty"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	HQQuantity    int             `json:"hq_quantity"`
}

// ProductResponse producto con variantes (las listas pueden omitirlas).
type ProductResponse struct {
	ID        int64             `json:"id"`
	BrandID   int64             `json:"brand_id"`
	Number    string            `json:"number"`
	Name      string            `json:"name"`
	Variants  []VariantResponse `json:"variants,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
