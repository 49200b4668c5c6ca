package transfer

import (
	"context"
	"strconv"
	"time"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/ledger"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

// UseCase motor de traslados entre tiendas. Máquina de estados:
// REQUESTED -> SHIPPED -> RECEIVED, con salidas REJECTED (tienda origen) y
// CANCELLED (tienda solicitante) solo desde REQUESTED. El stock se mueve en
// SHIPPED (salida origen) y RECEIVED (entrada destino); entre ambos las
// unidades están en tránsito.
type UseCase struct {
	txRunner     TxRunner
	transferRepo repository.TransferRepository // lecturas fuera de transacción
	productRepo  repository.ProductRepository
	storeRepo    repository.StoreRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		productRepo:  productRepo,
		storeRepo:    storeRepo,
	}
}

// RequestTransfer crea un traslado tipo REQUEST: la tienda del usuario
// (actorStore) pide unidades a otra tienda de la misma marca.
func (uc *UseCase) RequestTransfer(ctx context.Context, brandID, actorStore int64, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	return uc.create(ctx, brandID, userID, entity.TransferTypeRequest, in.VariantID, in.FromStoreID, actorStore, in.Quantity)
}

// InstructTransfer crea un traslado tipo INSTRUCTION: casa matriz indica
// origen y destino.
func (uc *UseCase) InstructTransfer(ctx context.Context, brandID int64, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	return uc.create(ctx, brandID, userID, entity.TransferTypeInstruction, in.VariantID, in.FromStoreID, in.ToStoreID, in.Quantity)
}

func (uc *UseCase) create(ctx context.Context, brandID int64, userID, transferType string, variantID, fromStore, toStore int64, qty int) (*dto.TransferResponse, error) {
	if qty <= 0 || fromStore == toStore {
		return nil, domain.ErrInvalidInput
	}
	variant, err := uc.productRepo.GetVariantByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	if variant.BrandID != brandID {
		return nil, domain.ErrForbidden
	}
	for _, storeID := range []int64{fromStore, toStore} {
		store, err := uc.storeRepo.GetByID(storeID)
		if err != nil {
			return nil, err
		}
		if store == nil || store.BrandID != brandID {
			return nil, domain.ErrNotFound
		}
	}

	t := &entity.StockTransfer{
		BrandID:     brandID,
		VariantID:   variantID,
		FromStoreID: fromStore,
		ToStoreID:   toStore,
		Quantity:    qty,
		Type:        transferType,
		Status:      entity.TransferRequested,
		RequestedBy: userID,
		CreatedAt:   time.Now(),
	}
	// La creación no mueve stock; basta el repo sin transacción explícita.
	if err := uc.transferRepo.Create(t); err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

// ShipTransfer despacha el traslado: solo la tienda origen, solo desde
// REQUESTED, y exige stock suficiente (el contador de origen nunca queda
// negativo por un traslado). Descuenta con tipo TRANSFER_OUT.
func (uc *UseCase) ShipTransfer(ctx context.Context, transferID, brandID, actorStore int64, userID string) (*dto.TransferResponse, error) {
	var result *entity.StockTransfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		t, err := lockOwnedTransfer(transferRepo, transferID, brandID)
		if err != nil {
			return err
		}
		if t.FromStoreID != actorStore {
			return domain.ErrForbidden
		}
		if t.Status != entity.TransferRequested {
			return domain.ErrConflict
		}

		_, err = ledger.ApplyDelta(stockRepo, ledgerRepo, ledger.Mutation{
			StoreID:   t.FromStoreID,
			VariantID: t.VariantID,
			Change:    entity.ChangeTransferOut,
			RefType:   "transfer",
			RefID:     strconv.FormatInt(t.ID, 10),
			UserID:    userID,
		}, -t.Quantity, true)
		if err != nil {
			return err
		}

		now := time.Now()
		t.Status = entity.TransferShipped
		t.ShippedBy = userID
		t.ShippedAt = &now
		if err := transferRepo.Update(t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

// ReceiveTransfer recibe el traslado: solo la tienda destino, solo desde
// SHIPPED. Suma al destino con tipo TRANSFER_IN.
func (uc *UseCase) ReceiveTransfer(ctx context.Context, transferID, brandID, actorStore int64, userID string) (*dto.TransferResponse, error) {
	var result *entity.StockTransfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		t, err := lockOwnedTransfer(transferRepo, transferID, brandID)
		if err != nil {
			return err
		}
		if t.ToStoreID != actorStore {
			return domain.ErrForbidden
		}
		if t.Status != entity.TransferShipped {
			return domain.ErrConflict
		}

		_, err = ledger.ApplyDelta(stockRepo, ledgerRepo, ledger.Mutation{
			StoreID:   t.ToStoreID,
			VariantID: t.VariantID,
			Change:    entity.ChangeTransferIn,
			RefType:   "transfer",
			RefID:     strconv.FormatInt(t.ID, 10),
			UserID:    userID,
		}, t.Quantity, false)
		if err != nil {
			return err
		}

		now := time.Now()
		t.Status = entity.TransferReceived
		t.ReceivedBy = userID
		t.ReceivedAt = &now
		if err := transferRepo.Update(t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

// RejectTransfer rechaza el pedido: solo la tienda origen, solo desde
// REQUESTED. No mueve stock.
func (uc *UseCase) RejectTransfer(ctx context.Context, transferID, brandID, actorStore int64, userID string) (*dto.TransferResponse, error) {
	return uc.resolve(ctx, transferID, brandID, actorStore, userID, entity.TransferRejected)
}

// CancelTransfer cancela el pedido: solo la tienda que lo pidió (destino),
// solo desde REQUESTED. No mueve stock.
func (uc *UseCase) CancelTransfer(ctx context.Context, transferID, brandID, actorStore int64, userID string) (*dto.TransferResponse, error) {
	return uc.resolve(ctx, transferID, brandID, actorStore, userID, entity.TransferCancelled)
}

func (uc *UseCase) resolve(ctx context.Context, transferID, brandID, actorStore int64, userID, target string) (*dto.TransferResponse, error) {
	var result *entity.StockTransfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		t, err := lockOwnedTransfer(transferRepo, transferID, brandID)
		if err != nil {
			return err
		}
		switch target {
		case entity.TransferRejected:
			if t.FromStoreID != actorStore {
				return domain.ErrForbidden
			}
		case entity.TransferCancelled:
			if t.ToStoreID != actorStore {
				return domain.ErrForbidden
			}
		}
		if t.Status != entity.TransferRequested {
			return domain.ErrConflict
		}

		now := time.Now()
		t.Status = target
		t.ResolvedBy = userID
		t.ResolvedAt = &now
		if err := transferRepo.Update(t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

// GetTransfer devuelve el traslado (lectura, sin bloqueo).
func (uc *UseCase) GetTransfer(ctx context.Context, transferID, brandID int64) (*dto.TransferResponse, error) {
	t, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	return toResponse(t), nil
}

// ListTransfers lista traslados donde la tienda es origen o destino.
func (uc *UseCase) ListTransfers(ctx context.Context, brandID, storeID int64, status string, limit, offset int) ([]dto.TransferResponse, error) {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.transferRepo.ListByStore(storeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toResponse(t))
	}
	return out, nil
}

func lockOwnedTransfer(transferRepo repository.TransferRepository, transferID, brandID int64) (*entity.StockTransfer, error) {
	t, err := transferRepo.GetByIDForUpdate(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.BrandID != brandID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

func toResponse(t *entity.StockTransfer) *dto.TransferResponse {
	if t == nil {
		return nil
	}
	return &dto.TransferResponse{
		ID:          t.ID,
		VariantID:   t.VariantID,
		FromStoreID: t.FromStoreID,
		ToStoreID:   t.ToStoreID,
		Quantity:    t.Quantity,
		Type:        t.Type,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		ShippedAt:   t.ShippedAt,
		ReceivedAt:  t.ReceivedAt,
		ResolvedAt:  t.ResolvedAt,
	}
}
