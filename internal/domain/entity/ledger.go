package entity

import "time"

// Tipos de cambio de stock registrados en el libro mayor.
const (
	ChangeSale                = "SALE"
	ChangeRefundFull          = "REFUND_FULL"
	ChangeRefundPartial       = "REFUND_PARTIAL"
	ChangeManualUpdate        = "MANUAL_UPDATE"
	ChangeBulkImport          = "BULK_IMPORT"
	ChangePhysicalCountAdjust = "PHYSICAL_COUNT_ADJUST"
	ChangeTransferOut         = "TRANSFER_OUT"
	ChangeTransferIn          = "TRANSFER_IN"
	ChangeOrderIn             = "ORDER_IN"
	ChangeReturnOut           = "RETURN_OUT"
)

// LedgerEntry es un asiento inmutable del libro mayor de stock.
// Delta lleva el signo del cambio y Resulting la cantidad del contador justo
// después de aplicarlo; por (StoreID, VariantID) se cumple que el Resulting
// de cada asiento es el Resulting anterior más su Delta (el primero parte de 0).
type LedgerEntry struct {
	ID        string // uuid
	StoreID   int64
	VariantID int64
	Change    string
	Delta     int
	Resulting int
	RefType   string // "sale" | "transfer" | "order" | "task" | ""
	RefID     string
	CreatedBy string // user id, opcional
	Note      string
	CreatedAt time.Time
}
