package stock

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/ledger"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
	"github.com/jhoicas/storeflow-api/pkg/logger"
)

// ProgressFunc se invoca al cerrar cada lote con el avance acumulado.
// Con cero registros se invoca una sola vez con (0, 0).
type ProgressFunc func(current, total int)

// ImportOptions parámetros de la carga masiva.
type ImportOptions struct {
	// ChunkSize registros por transacción.
	ChunkSize int
	// LockRetries reintentos por lote ante filas bloqueadas.
	LockRetries int
	// RetryBackoff espera entre reintentos.
	RetryBackoff time.Duration
}

const (
	defaultChunkSize    = 100
	defaultLockRetries  = 3
	defaultRetryBackoff = 50 * time.Millisecond
)

func (o ImportOptions) withDefaults() ImportOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	if o.LockRetries < 0 {
		o.LockRetries = defaultLockRetries
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = defaultRetryBackoff
	}
	return o
}

// BulkImporter aplica cargas masivas de stock: cada registro fija la cantidad
// absoluta de (tienda, variante) con un asiento BULK_IMPORT. Los registros se
// aplican en lotes, cada lote en su propia transacción.
type BulkImporter struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	opts        ImportOptions
	log         *logger.Logger
}

// NewBulkImporter construye el importador.
func NewBulkImporter(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	opts ImportOptions,
	log *logger.Logger,
) *BulkImporter {
	return &BulkImporter{
		txRunner:    txRunner,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		opts:        opts.withDefaults(),
		log:         log,
	}
}

// Import valida todos los registros y los aplica por lotes. Valida primero el
// archivo completo: un registro inválido aborta la carga antes de mover nada.
// onProgress puede ser nil.
func (b *BulkImporter) Import(ctx context.Context, brandID int64, userID string, in dto.BulkImportRequest, onProgress ProgressFunc) error {
	store, err := b.storeRepo.GetByID(in.StoreID)
	if err != nil {
		return err
	}
	if store == nil || store.BrandID != brandID {
		return domain.ErrNotFound
	}

	for _, rec := range in.Records {
		if rec.Quantity < 0 {
			return domain.ErrInvalidInput
		}
		variant, err := b.productRepo.GetVariantByID(rec.VariantID)
		if err != nil {
			return err
		}
		if variant == nil || variant.BrandID != brandID {
			return domain.ErrInvalidInput
		}
	}

	total := len(in.Records)
	if total == 0 {
		if onProgress != nil {
			onProgress(0, 0)
		}
		return nil
	}

	for start := 0; start < total; start += b.opts.ChunkSize {
		end := start + b.opts.ChunkSize
		if end > total {
			end = total
		}
		if err := b.applyChunk(ctx, in.StoreID, userID, in.Records[start:end]); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress(end, total)
		}
	}

	b.log.Info().
		Int64("store_id", in.StoreID).
		Int("records", total).
		Msg("carga masiva de stock aplicada")
	return nil
}

// applyChunk aplica un lote en una transacción, reintentando ante filas
// bloqueadas. El lote es todo-o-nada: si un registro falla, el lote completo
// se revierte y se reintenta desde cero.
func (b *BulkImporter) applyChunk(ctx context.Context, storeID int64, userID string, records []dto.BulkImportRecord) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = b.txRunner.RunStock(ctx, func(
			stockRepo repository.StockRepository,
			ledgerRepo repository.LedgerRepository,
		) error {
			for _, rec := range records {
				_, aerr := ledger.ApplyAbsolute(stockRepo, ledgerRepo, ledger.Mutation{
					StoreID:   storeID,
					VariantID: rec.VariantID,
					Change:    entity.ChangeBulkImport,
					UserID:    userID,
				}, rec.Quantity)
				if aerr != nil {
					return aerr
				}
			}
			return nil
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrLocked) || attempt >= b.opts.LockRetries {
			return err
		}
		b.log.Warn().
			Int64("store_id", storeID).
			Int("attempt", attempt+1).
			Msg("lote bloqueado, reintentando")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.opts.RetryBackoff):
		}
	}
}
