package storeorder

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

// UseCase motor de pedidos y devoluciones tienda <-> depósito central.
// La tienda crea la solicitud (PENDING) y casa matriz la decide: al aprobar
// un ORDER, la cantidad confirmada sale del depósito central (hq_quantity de
// la variante, bloqueada FOR UPDATE) y entra a la tienda (ORDER_IN); al
// aprobar un RETURN, sale de la tienda (RETURN_OUT, con stock suficiente) y
// regresa al depósito central. Depósito y tienda se mueven en la misma
// transacción.
type UseCase struct {
	txRunner    TxRunner
	orderRepo   repository.StoreOrderRepository // lecturas fuera de transacción
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.StoreOrderRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
	}
}

// CreateOrder crea un pedido de tienda contra el depósito central.
func (uc *UseCase) CreateOrder(ctx context.Context, brandID, storeID int64, userID string, in dto.CreateStoreOrderRequest) (*dto.StoreOrderResponse, error) {
	return uc.create(ctx, brandID, storeID, userID, entity.StoreOrderTypeOrder, in)
}

// CreateReturn crea una devolución de tienda hacia el depósito central.
func (uc *UseCase) CreateReturn(ctx context.Context, brandID, storeID int64, userID string, in dto.CreateStoreOrderRequest) (*dto.StoreOrderResponse, error) {
	return uc.create(ctx, brandID, storeID, userID, entity.StoreOrderTypeReturn, in)
}

func (uc *UseCase) create(ctx context.Context, brandID, storeID int64, userID, orderType string, in dto.CreateStoreOrderRequest) (*dto.StoreOrderResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	variant, err := uc.productRepo.GetVariantByID(in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	if variant.BrandID != brandID {
		return nil, domain.ErrForbidden
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.BrandID != brandID {
		return nil, domain.ErrNotFound
	}

	o := &entity.StoreOrder{
		BrandID:           brandID,
		StoreID:           storeID,
		VariantID:         in.VariantID,
		Type:              orderType,
		RequestedQuantity: in.Quantity,
		Status:            entity.StoreOrderPending,
		Note:              in.Note,
		CreatedBy:         userID,
		CreatedAt:         time.Now(),
	}
	if err := uc.orderRepo.Create(o); err != nil {
		return nil, err
	}
	return toResponse(o), nil
}

// DecideOrder resuelve un pedido (tipo ORDER). Solo casa matriz la invoca
// (RBAC en el borde HTTP). Aprobar con depósito central insuficiente falla
// con ErrInsufficientStock y no mueve nada.
func (uc *UseCase) DecideOrder(ctx context.Context, orderID, brandID int64, userID string, in dto.DecideStoreOrderRequest) (*dto.StoreOrderResponse, error) {
	return uc.decide(ctx, orderID, brandID, userID, entity.StoreOrderTypeOrder, in)
}

// DecideReturn resuelve una devolución (tipo RETURN). La aprobación exige
// stock suficiente en la tienda.
func (uc *UseCase) DecideReturn(ctx context.Context, orderID, brandID int64, userID string, in dto.DecideStoreOrderRequest) (*dto.StoreOrderResponse, error) {
	return uc.decide(ctx, orderID, brandID, userID, entity.StoreOrderTypeReturn, in)
}

func (uc *UseCase) decide(ctx context.Context, orderID, brandID int64, userID, wantType string, in dto.DecideStoreOrderRequest) (*dto.StoreOrderResponse, error) {
	if in.Approve && in.ConfirmedQuantity != nil && *in.ConfirmedQuantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.StoreOrder
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.StoreOrderRepository,
		productRepo repository.ProductRepository,
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		o, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if o.BrandID != brandID {
			return domain.ErrForbidden
		}
		if o.Type != wantType {
			return domain.ErrNotFound
		}
		if o.Status != entity.StoreOrderPending {
			return domain.ErrConflict
		}

		now := time.Now()
		if !in.Approve {
			o.Status = entity.StoreOrderRejected
			o.DecidedBy = userID
			o.DecidedAt = &now
			if in.Note != "" {
				o.Note = in.Note
			}
			if err := orderRepo.Update(o); err != nil {
				return err
			}
			result = o
			return nil
		}

		confirmed := o.RequestedQuantity
		if in.ConfirmedQuantity != nil {
			confirmed = *in.ConfirmedQuantity
		}

		if o.Type == entity.StoreOrderTypeOrder {
			if err := moveHQ(productRepo, o.VariantID, -confirmed); err != nil {
				return err
			}
			_, err = ledger.ApplyDelta(stockRepo, ledgerRepo, ledger.Mutation{
				StoreID:   o.StoreID,
				VariantID: o.VariantID,
				Change:    entity.ChangeOrderIn,
				RefType:   "order",
				RefID:     strconv.FormatInt(o.ID, 10),
				UserID:    userID,
			}, confirmed, false)
		} else {
			_, err = ledger.ApplyDelta(stockRepo, ledgerRepo, ledger.Mutation{
				StoreID:   o.StoreID,
				VariantID: o.VariantID,
				Change:    entity.ChangeReturnOut,
				RefType:   "order",
				RefID:     strconv.FormatInt(o.ID, 10),
				UserID:    userID,
			}, -confirmed, true)
			if err == nil {
				err = moveHQ(productRepo, o.VariantID, confirmed)
			}
		}
		if err != nil {
			return err
		}

		o.Status = entity.StoreOrderApproved
		o.ConfirmedQuantity = &confirmed
		o.DecidedBy = userID
		o.DecidedAt = &now
		if in.Note != "" {
			o.Note = in.Note
		}
		if err := orderRepo.Update(o); err != nil {
			return err
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}

// moveHQ suma delta al depósito central de la variante, con la fila
// bloqueada. El depósito nunca queda negativo.
func moveHQ(productRepo repository.ProductRepository, variantID int64, delta int) error {
	variant, err := productRepo.GetVariantForUpdate(variantID)
	if err != nil {
		return err
	}
	if variant == nil {
		return domain.ErrNotFound
	}
	newQty := variant.HQQuantity + delta
	if newQty < 0 {
		return domain.ErrInsufficientStock
	}
	return productRepo.UpdateVariantHQQuantity(variantID, newQty)
}

// GetOrder devuelve la solicitud (lectura, sin bloqueo).
func (uc *UseCase) GetOrder(ctx context.Context, orderID, brandID int64) (*dto.StoreOrderResponse, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	return toResponse(o), nil
}

// ListByBrand lista solicitudes de la marca (vista de casa matriz).
func (uc *UseCase) ListByBrand(ctx context.Context, brandID int64, orderType, status string, limit, offset int) ([]dto.StoreOrderResponse, error) {
	list, err := uc.orderRepo.ListByBrand(brandID, orderType, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreOrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toResponse(o))
	}
	return out, nil
}

// ListByStore lista solicitudes de una tienda.
func (uc *UseCase) ListByStore(ctx context.Context, brandID, storeID int64, orderType string, limit, offset int) ([]dto.StoreOrderResponse, error) {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.orderRepo.ListByStore(storeID, orderType, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreOrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toResponse(o))
	}
	return out, nil
}

func toResponse(o *entity.StoreOrder) *dto.StoreOrderResponse {
	if o == nil {
		return nil
	}
	return &dto.StoreOrderResponse{
		ID:                o.ID,
		StoreID:           o.StoreID,
		VariantID:         o.VariantID,
		Type:              o.Type,
		RequestedQuantity: o.RequestedQuantity,
		ConfirmedQuantity: o.ConfirmedQuantity,
		Status:            o.Status,
		Note:              o.Note,
		CreatedAt:         o.CreatedAt,
		DecidedAt:         o.DecidedAt,
	}
}
