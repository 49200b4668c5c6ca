package sales

import (
	"context"

	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

// TxRunner abre una transacción y ejecuta fn con repos atados a ella.
// Commit si fn retorna nil; Rollback en caso contrario.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		storeRepo repository.StoreRepository,
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// ReceiptPDFGenerator genera la representación PDF de una boleta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, store *entity.Store, brand *entity.Brand) ([]byte, error)
}
