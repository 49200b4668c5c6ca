package storeorder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storeflow-api/internal/application/apptest"
	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/storeorder"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
)

const (
	brand   = int64(1)
	store   = int64(1)
	userT   = "u-tienda"
	userHQ  = "u-central"
)

type orderEnv struct {
	uc      *storeorder.UseCase
	run     *apptest.TxRunner
	variant *entity.Variant
}

func newOrderEnv(t *testing.T, hqQty int) *orderEnv {
	t.Helper()
	run := apptest.NewTxRunner()
	stores := apptest.NewStoreRepo()
	stores.SeedStore(store, brand, "T01")
	v := run.Products.SeedVariant(&entity.Variant{
		ProductID: 1, BrandID: brand, HQQuantity: hqQty,
	})
	uc := storeorder.NewUseCase(run, run.Orders, run.Products, stores)
	return &orderEnv{uc: uc, run: run, variant: v}
}

func intPtr(n int) *int { return &n }

// La tienda pide 10, casa matriz confirma 8: entran 8 (ORDER_IN) y el
// depósito central baja 8.
func TestOrder_AprobarConCantidadConfirmada(t *testing.T) {
	e := newOrderEnv(t, 20)

	resp, err := e.uc.CreateOrder(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: e.variant.ID, Quantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StoreOrderPending, resp.Status)

	decided, err := e.uc.DecideOrder(context.Background(), resp.ID, brand, userHQ, dto.DecideStoreOrderRequest{
		Approve: true, ConfirmedQuantity: intPtr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StoreOrderApproved, decided.Status)
	require.NotNil(t, decided.ConfirmedQuantity)
	assert.Equal(t, 8, *decided.ConfirmedQuantity)

	assert.Equal(t, 8, e.run.Stocks.Quantity(store, e.variant.ID))
	assert.Equal(t, 12, e.run.Products.HQQuantity(e.variant.ID))

	entries := e.run.Ledger.ByPair(store, e.variant.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ChangeOrderIn, entries[0].Change)
	assert.Equal(t, 8, entries[0].Delta)
	assert.Equal(t, 8, entries[0].Resulting)
}

func TestOrder_AprobarSinConfirmadaUsaLoPedido(t *testing.T) {
	e := newOrderEnv(t, 20)
	resp, err := e.uc.CreateOrder(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: e.variant.ID, Quantity: 5,
	})
	require.NoError(t, err)

	decided, err := e.uc.DecideOrder(context.Background(), resp.ID, brand, userHQ, dto.DecideStoreOrderRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, 5, *decided.ConfirmedQuantity)
	assert.Equal(t, 15, e.run.Products.HQQuantity(e.variant.ID))
}

func TestOrder_DepositoCentralInsuficiente(t *testing.T) {
	e := newOrderEnv(t, 3)
	resp, err := e.uc.CreateOrder(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: e.variant.ID, Quantity: 5,
	})
	require.NoError(t, err)

	_, err = e.uc.DecideOrder(context.Background(), resp.ID, brand, userHQ, dto.DecideStoreOrderRequest{Approve: true})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: sigue pendiente, nada se movió.
	got, err := e.run.Orders.GetByID(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StoreOrderPending, got.Status)
	assert.Equal(t, 3, e.run.Products.HQQuantity(e.variant.ID))
	assert.Equal(t, 0, e.run.Stocks.Quantity(store, e.variant.ID))
}

func TestOrder_RechazarNoMueveStock(t *testing.T) {
	e := newOrderEnv(t, 20)
	resp, err := e.uc.CreateOrder(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: e.variant.ID, Quantity: 5,
	})
	require.NoError(t, err)

	decided, err := e.uc.DecideOrder(context.Background(), resp.ID, brand, userHQ, dto.DecideStoreOrderRequest{Approve: false, Note: "sin campaña"})
	require.NoError(t, err)
	assert.Equal(t, entity.StoreOrderRejected, decided.Status)
	assert.Equal(t, 20, e.run.Products.HQQuantity(e.variant.ID))
	assert.Empty(t, e.run.Ledger.Entries)
}

func TestOrder_DobleDecisionEsConflicto(t *testing.T) {
	e := newOrderEnv(t, 20)
	resp, err := e.uc.CreateOrder(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: e.variant.ID, Quantity: 5,
	})
	require.NoError(t, err)

	_, err = e.uc.DecideOrder(context.Background(), resp.ID, brand, userHQ, dto.DecideStoreOrderRequest{Approve: true})
	require.NoError(t, err)

	_, err = e.uc.DecideOrder(context.Background(), resp.ID, brand, userHQ, dto.DecideStoreOrderRequest{Approve: true})
	assert.ErrorIs(t, err, domain.ErrConflict)
	// El depósito bajó exactamente una vez.
	assert.Equal(t, 15, e.run.Products.HQQuantity(e.variant.ID))
}

func TestReturn_AprobarMueveTiendaADeposito(t *testing.T) {
	e := newOrderEnv(t, 10)
	e.run.Stocks.Seed(store, e.variant.ID, 6)

	resp, err := e.uc.CreateReturn(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: e.variant.ID, Quantity: 4,
	})
	require.NoError(t, err)

	decided, err := e.uc.DecideReturn(context.Background(), resp.ID, brand, userHQ, dto.DecideStoreOrderRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, entity.StoreOrderApproved, decided.Status)

	assert.Equal(t, 2, e.run.Stocks.Quantity(store, e.variant.ID))
	assert.Equal(t, 14, e.run.Products.HQQuantity(e.variant.ID))

	entries := e.run.Ledger.ByPair(store, e.variant.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ChangeReturnOut, entries[0].Change)
	assert.Equal(t, -4, entries[0].Delta)
	assert.Equal(t, 2, entries[0].Resulting)
}

func TestReturn_StockDeTiendaInsuficiente(t *testing.T) {
	e := newOrderEnv(t, 10)
	e.run.Stocks.Seed(store, e.variant.ID, 2)

	resp, err := e.uc.CreateReturn(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: e.variant.ID, Quantity: 4,
	})
	require.NoError(t, err)

	_, err = e.uc.DecideReturn(context.Background(), resp.ID, brand, userHQ, dto.DecideStoreOrderRequest{Approve: true})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, e.run.Stocks.Quantity(store, e.variant.ID))
	assert.Equal(t, 10, e.run.Products.HQQuantity(e.variant.ID))
}

func TestDecide_TipoEquivocadoEsNotFound(t *testing.T) {
	e := newOrderEnv(t, 10)
	resp, err := e.uc.CreateOrder(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: e.variant.ID, Quantity: 1,
	})
	require.NoError(t, err)

	// Un ORDER no se decide por el endpoint de devoluciones.
	_, err = e.uc.DecideReturn(context.Background(), resp.ID, brand, userHQ, dto.DecideStoreOrderRequest{Approve: true})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_Validaciones(t *testing.T) {
	e := newOrderEnv(t, 10)

	_, err := e.uc.CreateOrder(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: e.variant.ID, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	foreign := e.run.Products.SeedVariant(&entity.Variant{ProductID: 9, BrandID: 2})
	_, err = e.uc.CreateOrder(context.Background(), brand, store, userT, dto.CreateStoreOrderRequest{
		VariantID: foreign.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.uc.DecideOrder(context.Background(), 999, brand, userHQ, dto.DecideStoreOrderRequest{Approve: true})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
