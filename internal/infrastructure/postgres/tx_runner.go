package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/storeflow-api/internal/application/sales"
	"github.com/jhoicas/storeflow-api/internal/application/stock"
	"github.com/jhoicas/storeflow-api/internal/application/storeorder"
	"github.com/jhoicas/storeflow-api/internal/application/transfer"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

// Un único runner satisface los puertos transaccionales de todos los casos de uso.
var _ sales.TxRunner = (*TxRunner)(nil)
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ storeorder.TxRunner = (*TxRunner)(nil)
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale transacción para crear ventas y procesar devoluciones de boleta.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	storeRepo repository.StoreRepository,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewSaleRepository(q), NewStoreRepository(q), NewStockRepository(q), NewLedgerRepository(q))
	})
}

// RunTransfer transacción para despachar y recibir traslados.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	transferRepo repository.TransferRepository,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewTransferRepository(q), NewStockRepository(q), NewLedgerRepository(q))
	})
}

// RunOrder transacción para decidir pedidos y devoluciones contra el depósito central.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.StoreOrderRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewStoreOrderRepository(q), NewProductRepository(q), NewStockRepository(q), NewLedgerRepository(q))
	})
}

// RunStock transacción para ajustes de stock (manuales, conteo físico, carga masiva).
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewStockRepository(q), NewLedgerRepository(q))
	})
}
