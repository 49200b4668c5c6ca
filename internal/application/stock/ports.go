package stock

import (
	"context"

	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

// TxRunner abre una transacción y ejecuta fn con repos atados a ella.
// Commit si fn retorna nil; Rollback en caso contrario.
type TxRunner interface {
	RunStock(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}
