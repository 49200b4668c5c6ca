package storeorder

import (
	"context"

	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

// TxRunner abre una transacción y ejecuta fn con repos atados a ella.
// Incluye el repo de productos porque la aprobación bloquea la fila de la
// variante para mover el stock del depósito central.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.StoreOrderRepository,
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}
