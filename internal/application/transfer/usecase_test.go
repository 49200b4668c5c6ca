package transfer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storeflow-api/internal/application/apptest"
	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/transfer"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
)

const (
	brandA = int64(1)
	storeA = int64(1) // origen
	storeB = int64(2) // destino
	userA  = "u-a"
	userB  = "u-b"
)

type transferEnv struct {
	uc      *transfer.UseCase
	run     *apptest.TxRunner
	variant *entity.Variant
}

func newTransferEnv(t *testing.T) *transferEnv {
	t.Helper()
	run := apptest.NewTxRunner()
	stores := apptest.NewStoreRepo()
	stores.SeedStore(storeA, brandA, "A")
	stores.SeedStore(storeB, brandA, "B")

	v := run.Products.SeedVariant(&entity.Variant{
		ProductID: 1, BrandID: brandA, SalePrice: decimal.NewFromInt(10000),
	})
	uc := transfer.NewUseCase(run, run.Transfers, run.Products, stores)
	return &transferEnv{uc: uc, run: run, variant: v}
}

func (e *transferEnv) request(t *testing.T, qty int) *dto.TransferResponse {
	t.Helper()
	// La tienda B pide qty unidades a la tienda A.
	resp, err := e.uc.RequestTransfer(context.Background(), brandA, storeB, userB, dto.CreateTransferRequest{
		VariantID:   e.variant.ID,
		FromStoreID: storeA,
		Quantity:    qty,
	})
	require.NoError(t, err)
	return resp
}

// Escenario completo: A tiene 5, B pide 5; al despachar A queda en 0 y al
// recibir B queda en 5. En tránsito, ninguna tienda tiene las unidades.
func TestTransfer_CicloCompleto(t *testing.T) {
	e := newTransferEnv(t)
	e.run.Stocks.Seed(storeA, e.variant.ID, 5)

	resp := e.request(t, 5)
	assert.Equal(t, entity.TransferRequested, resp.Status)
	assert.Equal(t, entity.TransferTypeRequest, resp.Type)

	shipped, err := e.uc.ShipTransfer(context.Background(), resp.ID, brandA, storeA, userA)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferShipped, shipped.Status)
	assert.Equal(t, 0, e.run.Stocks.Quantity(storeA, e.variant.ID))
	assert.Equal(t, 0, e.run.Stocks.Quantity(storeB, e.variant.ID), "en tránsito: B aún no tiene stock")

	received, err := e.uc.ReceiveTransfer(context.Background(), resp.ID, brandA, storeB, userB)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferReceived, received.Status)
	assert.Equal(t, 5, e.run.Stocks.Quantity(storeB, e.variant.ID))

	outEntries := e.run.Ledger.ByPair(storeA, e.variant.ID)
	require.Len(t, outEntries, 1)
	assert.Equal(t, entity.ChangeTransferOut, outEntries[0].Change)
	assert.Equal(t, -5, outEntries[0].Delta)
	assert.Equal(t, 0, outEntries[0].Resulting)

	inEntries := e.run.Ledger.ByPair(storeB, e.variant.ID)
	require.Len(t, inEntries, 1)
	assert.Equal(t, entity.ChangeTransferIn, inEntries[0].Change)
	assert.Equal(t, 5, inEntries[0].Delta)
	assert.Equal(t, 5, inEntries[0].Resulting)
}

func TestShip_DobleDespachoEsConflicto(t *testing.T) {
	e := newTransferEnv(t)
	e.run.Stocks.Seed(storeA, e.variant.ID, 10)
	resp := e.request(t, 5)

	_, err := e.uc.ShipTransfer(context.Background(), resp.ID, brandA, storeA, userA)
	require.NoError(t, err)

	_, err = e.uc.ShipTransfer(context.Background(), resp.ID, brandA, storeA, userA)
	assert.ErrorIs(t, err, domain.ErrConflict)
	// El stock salió exactamente una vez.
	assert.Equal(t, 5, e.run.Stocks.Quantity(storeA, e.variant.ID))
}

func TestReceive_AntesDeDespacharEsConflicto(t *testing.T) {
	e := newTransferEnv(t)
	resp := e.request(t, 3)

	_, err := e.uc.ReceiveTransfer(context.Background(), resp.ID, brandA, storeB, userB)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 0, e.run.Stocks.Quantity(storeB, e.variant.ID))
}

func TestShip_StockInsuficiente(t *testing.T) {
	e := newTransferEnv(t)
	e.run.Stocks.Seed(storeA, e.variant.ID, 2)
	resp := e.request(t, 5)

	_, err := e.uc.ShipTransfer(context.Background(), resp.ID, brandA, storeA, userA)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El traslado sigue pedido y el contador no cambió.
	got, err := e.run.Transfers.GetByID(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferRequested, got.Status)
	assert.Equal(t, 2, e.run.Stocks.Quantity(storeA, e.variant.ID))
}

func TestShip_SoloTiendaOrigen(t *testing.T) {
	e := newTransferEnv(t)
	e.run.Stocks.Seed(storeA, e.variant.ID, 5)
	resp := e.request(t, 2)

	// B (destino) intenta despachar.
	_, err := e.uc.ShipTransfer(context.Background(), resp.ID, brandA, storeB, userB)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReceive_SoloTiendaDestino(t *testing.T) {
	e := newTransferEnv(t)
	e.run.Stocks.Seed(storeA, e.variant.ID, 5)
	resp := e.request(t, 2)
	_, err := e.uc.ShipTransfer(context.Background(), resp.ID, brandA, storeA, userA)
	require.NoError(t, err)

	// A (origen) intenta recibir.
	_, err = e.uc.ReceiveTransfer(context.Background(), resp.ID, brandA, storeA, userA)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReject_SoloOrigenYDesdeRequested(t *testing.T) {
	e := newTransferEnv(t)
	resp := e.request(t, 2)

	// El destino no puede rechazar.
	_, err := e.uc.RejectTransfer(context.Background(), resp.ID, brandA, storeB, userB)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	rejected, err := e.uc.RejectTransfer(context.Background(), resp.ID, brandA, storeA, userA)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferRejected, rejected.Status)

	// Rechazado no se puede despachar.
	_, err = e.uc.ShipTransfer(context.Background(), resp.ID, brandA, storeA, userA)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_SoloSolicitanteYDesdeRequested(t *testing.T) {
	e := newTransferEnv(t)
	e.run.Stocks.Seed(storeA, e.variant.ID, 5)
	resp := e.request(t, 2)

	// El origen no puede cancelar (para eso está el rechazo).
	_, err := e.uc.CancelTransfer(context.Background(), resp.ID, brandA, storeA, userA)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cancelled, err := e.uc.CancelTransfer(context.Background(), resp.ID, brandA, storeB, userB)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCancelled, cancelled.Status)

	// Ya despachado no se puede cancelar.
	second := e.request(t, 2)
	_, err = e.uc.ShipTransfer(context.Background(), second.ID, brandA, storeA, userA)
	require.NoError(t, err)
	_, err = e.uc.CancelTransfer(context.Background(), second.ID, brandA, storeB, userB)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInstruct_CasaMatrizIndicaOrigenYDestino(t *testing.T) {
	e := newTransferEnv(t)
	e.run.Stocks.Seed(storeA, e.variant.ID, 4)

	resp, err := e.uc.InstructTransfer(context.Background(), brandA, "hq-user", dto.CreateTransferRequest{
		VariantID:   e.variant.ID,
		FromStoreID: storeA,
		ToStoreID:   storeB,
		Quantity:    4,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferTypeInstruction, resp.Type)
	assert.Equal(t, entity.TransferRequested, resp.Status)
}

func TestCreate_Validaciones(t *testing.T) {
	e := newTransferEnv(t)

	// Cantidad cero.
	_, err := e.uc.RequestTransfer(context.Background(), brandA, storeB, userB, dto.CreateTransferRequest{
		VariantID: e.variant.ID, FromStoreID: storeA, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Misma tienda origen y destino.
	_, err = e.uc.RequestTransfer(context.Background(), brandA, storeA, userA, dto.CreateTransferRequest{
		VariantID: e.variant.ID, FromStoreID: storeA, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Variante de otra marca.
	foreign := e.run.Products.SeedVariant(&entity.Variant{ProductID: 9, BrandID: 2})
	_, err = e.uc.RequestTransfer(context.Background(), brandA, storeB, userB, dto.CreateTransferRequest{
		VariantID: foreign.ID, FromStoreID: storeA, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
