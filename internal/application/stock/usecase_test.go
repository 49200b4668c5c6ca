package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storeflow-api/internal/application/apptest"
	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/stock"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
)

const (
	brand  = int64(1)
	store  = int64(1)
	userID = "u-admin"
)

type stockEnv struct {
	uc      *stock.UseCase
	run     *apptest.TxRunner
	variant *entity.Variant
}

func newStockEnv(t *testing.T) *stockEnv {
	t.Helper()
	run := apptest.NewTxRunner()
	stores := apptest.NewStoreRepo()
	stores.SeedStore(store, brand, "T01")
	v := run.Products.SeedVariant(&entity.Variant{ProductID: 1, BrandID: brand})
	uc := stock.NewUseCase(run, run.Stocks, run.Ledger, run.Products, stores)
	return &stockEnv{uc: uc, run: run, variant: v}
}

func intPtr(n int) *int { return &n }

func TestManualUpdate_FijaValorAbsoluto(t *testing.T) {
	e := newStockEnv(t)
	e.run.Stocks.Seed(store, e.variant.ID, 7)

	resp, err := e.uc.ManualUpdate(context.Background(), brand, userID, dto.ManualUpdateRequest{
		StoreID: store, VariantID: e.variant.ID, Quantity: 12, Note: "ajuste bodega",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Quantity)

	entries := e.run.Ledger.ByPair(store, e.variant.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ChangeManualUpdate, entries[0].Change)
	assert.Equal(t, 5, entries[0].Delta)
	assert.Equal(t, 12, entries[0].Resulting)
	assert.Equal(t, "ajuste bodega", entries[0].Note)
}

func TestManualUpdate_NegativoInvalido(t *testing.T) {
	e := newStockEnv(t)
	_, err := e.uc.ManualUpdate(context.Background(), brand, userID, dto.ManualUpdateRequest{
		StoreID: store, VariantID: e.variant.ID, Quantity: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActualCount_RegistrarYAplicar(t *testing.T) {
	e := newStockEnv(t)
	e.run.Stocks.Seed(store, e.variant.ID, 10)

	err := e.uc.SetActualCount(context.Background(), brand, dto.ActualCountRequest{
		StoreID: store, VariantID: e.variant.ID, Count: intPtr(8),
	})
	require.NoError(t, err)

	// El conteo queda registrado pero el contador no se toca todavía.
	got, err := e.uc.GetStock(context.Background(), brand, store, e.variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	require.NotNil(t, got.ActualCount)
	assert.Equal(t, 8, *got.ActualCount)
	assert.NotNil(t, got.LastCheckedAt)

	resp, err := e.uc.ApplyCountAdjust(context.Background(), brand, userID, dto.ApplyCountRequest{
		StoreID: store, VariantID: e.variant.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Quantity)

	entries := e.run.Ledger.ByPair(store, e.variant.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ChangePhysicalCountAdjust, entries[0].Change)
	assert.Equal(t, -2, entries[0].Delta)
	assert.Equal(t, 8, entries[0].Resulting)
}

func TestActualCount_AplicarSinConteoEsConflicto(t *testing.T) {
	e := newStockEnv(t)
	e.run.Stocks.Seed(store, e.variant.ID, 10)

	_, err := e.uc.ApplyCountAdjust(context.Background(), brand, userID, dto.ApplyCountRequest{
		StoreID: store, VariantID: e.variant.ID,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 10, e.run.Stocks.Quantity(store, e.variant.ID))
	assert.Empty(t, e.run.Ledger.Entries)
}

func TestActualCount_LimpiarConNil(t *testing.T) {
	e := newStockEnv(t)
	e.run.Stocks.Seed(store, e.variant.ID, 5)

	require.NoError(t, e.uc.SetActualCount(context.Background(), brand, dto.ActualCountRequest{
		StoreID: store, VariantID: e.variant.ID, Count: intPtr(3),
	}))
	require.NoError(t, e.uc.SetActualCount(context.Background(), brand, dto.ActualCountRequest{
		StoreID: store, VariantID: e.variant.ID, Count: nil,
	}))

	got, err := e.uc.GetStock(context.Background(), brand, store, e.variant.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ActualCount)
	assert.Nil(t, got.LastCheckedAt)

	// Tras limpiar, aplicar vuelve a ser conflicto.
	_, err = e.uc.ApplyCountAdjust(context.Background(), brand, userID, dto.ApplyCountRequest{
		StoreID: store, VariantID: e.variant.ID,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestActualCount_CreaFilaSiNoExiste(t *testing.T) {
	e := newStockEnv(t)

	// Sin fila previa: registrar el conteo la crea con contador 0.
	require.NoError(t, e.uc.SetActualCount(context.Background(), brand, dto.ActualCountRequest{
		StoreID: store, VariantID: e.variant.ID, Count: intPtr(4),
	}))

	resp, err := e.uc.ApplyCountAdjust(context.Background(), brand, userID, dto.ApplyCountRequest{
		StoreID: store, VariantID: e.variant.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Quantity)

	entries := e.run.Ledger.ByPair(store, e.variant.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Delta)
}

func TestGetStock_SinFilaDevuelveCero(t *testing.T) {
	e := newStockEnv(t)
	got, err := e.uc.GetStock(context.Background(), brand, store, e.variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestStock_MarcaAjena(t *testing.T) {
	e := newStockEnv(t)
	foreign := e.run.Products.SeedVariant(&entity.Variant{ProductID: 9, BrandID: 2})

	_, err := e.uc.GetStock(context.Background(), brand, store, foreign.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.uc.ManualUpdate(context.Background(), brand, userID, dto.ManualUpdateRequest{
		StoreID: store, VariantID: foreign.ID, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListLedger_OrdenDeAplicacion(t *testing.T) {
	e := newStockEnv(t)

	for _, q := range []int{5, 2, 9} {
		_, err := e.uc.ManualUpdate(context.Background(), brand, userID, dto.ManualUpdateRequest{
			StoreID: store, VariantID: e.variant.ID, Quantity: q,
		})
		require.NoError(t, err)
	}

	entries, err := e.uc.ListLedger(context.Background(), brand, store, e.variant.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int{5, -3, 7}, []int{entries[0].Delta, entries[1].Delta, entries[2].Delta})
	assert.Equal(t, 9, entries[2].Resulting)
}
