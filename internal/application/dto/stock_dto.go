package dto

import "time"

// ManualUpdateRequest fija el contador de (tienda, variante) en un valor absoluto.
type ManualUpdateRequest struct {
	StoreID   int64  `json:"store_id"`
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// ActualCountRequest registra (o limpia, con Count nil) el conteo físico.
type ActualCountRequest struct {
	StoreID   int64 `json:"store_id"`
	VariantID int64 `json:"variant_id"`
	Count     *int  `json:"count"`
}

// ApplyCountRequest reconcilia el contador con el conteo físico registrado.
type ApplyCountRequest struct {
	StoreID   int64 `json:"store_id"`
	VariantID int64 `json:"variant_id"`
}

// StockResponse contador de stock.
type StockResponse struct {
	StoreID       int64      `json:"store_id"`
	VariantID     int64      `json:"variant_id"`
	Quantity      int        `json:"quantity"`
	ActualCount   *int       `json:"actual_count,omitempty"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
}

// LedgerEntryResponse asiento del libro mayor.
type LedgerEntryResponse struct {
	ID        string    `json:"id"`
	StoreID   int64     `json:"store_id"`
	VariantID int64     `json:"variant_id"`
	Change    string    `json:"change"`
	Delta     int       `json:"delta"`
	Resulting int       `json:"resulting"`
	RefType   string    `json:"ref_type,omitempty"`
	RefID     string    `json:"ref_id,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BulkImportRecord registro ya parseado de la carga masiva: cantidad absoluta
// para (tienda destino, variante).
type BulkImportRecord struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// BulkImportRequest cuerpo de POST /api/stock/bulk-import.
type BulkImportRequest struct {
	StoreID int64              `json:"store_id"`
	Records []BulkImportRecord `json:"records"`
}
