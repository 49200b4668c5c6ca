package stock

import (
	"context"
	"time"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/ledger"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

// UseCase administración de stock: ajuste manual, toma de inventario física
// y lecturas de contadores y libro mayor.
type UseCase struct {
	txRunner    TxRunner
	stockRepo   repository.StockRepository // lecturas y conteo físico, sin transacción
	ledgerRepo  repository.LedgerRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
	}
}

func (uc *UseCase) checkPair(brandID, storeID, variantID int64) error {
	variant, err := uc.productRepo.GetVariantByID(variantID)
	if err != nil {
		return err
	}
	if variant == nil {
		return domain.ErrNotFound
	}
	if variant.BrandID != brandID {
		return domain.ErrForbidden
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return err
	}
	if store == nil || store.BrandID != brandID {
		return domain.ErrNotFound
	}
	return nil
}

// ManualUpdate fija el contador en un valor absoluto (tipo MANUAL_UPDATE,
// delta = nuevo - anterior).
func (uc *UseCase) ManualUpdate(ctx context.Context, brandID int64, userID string, in dto.ManualUpdateRequest) (*dto.StockResponse, error) {
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkPair(brandID, in.StoreID, in.VariantID); err != nil {
		return nil, err
	}

	var result *entity.StoreStock
	err := uc.txRunner.RunStock(ctx, func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		s, err := ledger.ApplyAbsolute(stockRepo, ledgerRepo, ledger.Mutation{
			StoreID:   in.StoreID,
			VariantID: in.VariantID,
			Change:    entity.ChangeManualUpdate,
			UserID:    userID,
			Note:      in.Note,
		}, in.Quantity)
		if err != nil {
			return err
		}
		result = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toStockResponse(result), nil
}

// SetActualCount registra (o limpia, con Count nil) el conteo físico de la
// toma de inventario. No toca el contador ni deja asiento.
func (uc *UseCase) SetActualCount(ctx context.Context, brandID int64, in dto.ActualCountRequest) error {
	if err := uc.checkPair(brandID, in.StoreID, in.VariantID); err != nil {
		return err
	}
	if in.Count == nil {
		return uc.stockRepo.ResetActualCount(in.StoreID, in.VariantID)
	}
	if *in.Count < 0 {
		return domain.ErrInvalidInput
	}
	if err := uc.stockRepo.CreateIfAbsent(in.StoreID, in.VariantID); err != nil {
		return err
	}
	return uc.stockRepo.SetActualCount(in.StoreID, in.VariantID, *in.Count, time.Now())
}

// ApplyCountAdjust reconcilia el contador con el conteo físico registrado
// (tipo PHYSICAL_COUNT_ADJUST). Sin conteo registrado devuelve ErrConflict.
func (uc *UseCase) ApplyCountAdjust(ctx context.Context, brandID int64, userID string, in dto.ApplyCountRequest) (*dto.StockResponse, error) {
	if err := uc.checkPair(brandID, in.StoreID, in.VariantID); err != nil {
		return nil, err
	}

	var result *entity.StoreStock
	err := uc.txRunner.RunStock(ctx, func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		// Bloquea primero para leer el conteo registrado de forma estable;
		// ApplyAbsolute vuelve a bloquear la misma fila en esta transacción.
		s, err := stockRepo.GetForUpdate(in.StoreID, in.VariantID)
		if err != nil {
			return err
		}
		if s == nil || s.ActualCount == nil {
			return domain.ErrConflict
		}
		adjusted, err := ledger.ApplyAbsolute(stockRepo, ledgerRepo, ledger.Mutation{
			StoreID:   in.StoreID,
			VariantID: in.VariantID,
			Change:    entity.ChangePhysicalCountAdjust,
			UserID:    userID,
		}, *s.ActualCount)
		if err != nil {
			return err
		}
		result = adjusted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toStockResponse(result), nil
}

// GetStock devuelve el contador de (tienda, variante); 0 si aún no existe.
func (uc *UseCase) GetStock(ctx context.Context, brandID, storeID, variantID int64) (*dto.StockResponse, error) {
	if err := uc.checkPair(brandID, storeID, variantID); err != nil {
		return nil, err
	}
	s, err := uc.stockRepo.Get(storeID, variantID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &entity.StoreStock{StoreID: storeID, VariantID: variantID}
	}
	return toStockResponse(s), nil
}

// ListStoreStock lista los contadores de una tienda.
func (uc *UseCase) ListStoreStock(ctx context.Context, brandID, storeID int64, limit, offset int) ([]dto.StockResponse, error) {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.stockRepo.ListByStore(storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toStockResponse(s))
	}
	return out, nil
}

// ListLedger lista los asientos de (tienda, variante) en orden de aplicación.
func (uc *UseCase) ListLedger(ctx context.Context, brandID, storeID, variantID int64, limit, offset int) ([]dto.LedgerEntryResponse, error) {
	if err := uc.checkPair(brandID, storeID, variantID); err != nil {
		return nil, err
	}
	list, err := uc.ledgerRepo.ListByPair(storeID, variantID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.LedgerEntryResponse{
			ID:        e.ID,
			StoreID:   e.StoreID,
			VariantID: e.VariantID,
			Change:    e.Change,
			Delta:     e.Delta,
			Resulting: e.Resulting,
			RefType:   e.RefType,
			RefID:     e.RefID,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

func toStockResponse(s *entity.StoreStock) *dto.StockResponse {
	if s == nil {
		return nil
	}
	return &dto.StockResponse{
		StoreID:       s.StoreID,
		VariantID:     s.VariantID,
		Quantity:      s.Quantity,
		ActualCount:   s.ActualCount,
		LastCheckedAt: s.LastCheckedAt,
	}
}
