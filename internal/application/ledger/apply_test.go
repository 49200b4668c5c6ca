package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storeflow-api/internal/application/apptest"
	"github.com/jhoicas/storeflow-api/internal/application/ledger"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
)

func TestApplyDelta_CreaContadorPerezosamente(t *testing.T) {
	stocks := apptest.NewStockRepo()
	entries := apptest.NewLedgerRepo()

	// Sin Seed: la fila (1, 10) no existe aún.
	stock, err := ledger.ApplyDelta(stocks, entries, ledger.Mutation{
		StoreID: 1, VariantID: 10, Change: entity.ChangeBulkImport,
	}, 5, false)
	require.NoError(t, err)

	assert.Equal(t, 5, stock.Quantity)
	assert.Equal(t, 5, stocks.Quantity(1, 10))

	got := entries.ByPair(1, 10)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Delta)
	assert.Equal(t, 5, got[0].Resulting, "el primer asiento parte de 0")
	assert.NotEmpty(t, got[0].ID)
}

func TestApplyDelta_InvarianteSumaCorrida(t *testing.T) {
	stocks := apptest.NewStockRepo()
	entries := apptest.NewLedgerRepo()

	deltas := []int{7, -3, 10, -8, 1}
	for _, d := range deltas {
		_, err := ledger.ApplyDelta(stocks, entries, ledger.Mutation{
			StoreID: 2, VariantID: 20, Change: entity.ChangeManualUpdate,
		}, d, false)
		require.NoError(t, err)
	}

	got := entries.ByPair(2, 20)
	require.Len(t, got, len(deltas))
	prev := 0
	for i, e := range got {
		assert.Equal(t, prev+e.Delta, e.Resulting, "asiento %d rompe la suma corrida", i)
		prev = e.Resulting
	}
	assert.Equal(t, prev, stocks.Quantity(2, 20), "el contador debe coincidir con el último asiento")
}

func TestApplyDelta_RequireStock_RechazaSinMutar(t *testing.T) {
	stocks := apptest.NewStockRepo()
	entries := apptest.NewLedgerRepo()
	stocks.Seed(1, 10, 2)

	_, err := ledger.ApplyDelta(stocks, entries, ledger.Mutation{
		StoreID: 1, VariantID: 10, Change: entity.ChangeTransferOut,
	}, -3, true)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, stocks.Quantity(1, 10), "el contador no debe cambiar")
	assert.Empty(t, entries.ByPair(1, 10), "no debe quedar asiento")
}

func TestApplyDelta_SinRequireStock_PermiteNegativo(t *testing.T) {
	stocks := apptest.NewStockRepo()
	entries := apptest.NewLedgerRepo()
	stocks.Seed(1, 10, 1)

	stock, err := ledger.ApplyDelta(stocks, entries, ledger.Mutation{
		StoreID: 1, VariantID: 10, Change: entity.ChangeSale,
	}, -3, false)

	require.NoError(t, err)
	assert.Equal(t, -2, stock.Quantity, "una venta puede dejar el contador negativo")
}

func TestApplyAbsolute_DeltaEsDiferencia(t *testing.T) {
	stocks := apptest.NewStockRepo()
	entries := apptest.NewLedgerRepo()
	stocks.Seed(3, 30, 12)

	stock, err := ledger.ApplyAbsolute(stocks, entries, ledger.Mutation{
		StoreID: 3, VariantID: 30, Change: entity.ChangePhysicalCountAdjust,
	}, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, stock.Quantity)

	got := entries.ByPair(3, 30)
	require.Len(t, got, 1)
	assert.Equal(t, -3, got[0].Delta)
	assert.Equal(t, 9, got[0].Resulting)
}

func TestApplyAbsolute_MismoValorDejaAsientoDeltaCero(t *testing.T) {
	stocks := apptest.NewStockRepo()
	entries := apptest.NewLedgerRepo()
	stocks.Seed(3, 30, 7)

	_, err := ledger.ApplyAbsolute(stocks, entries, ledger.Mutation{
		StoreID: 3, VariantID: 30, Change: entity.ChangePhysicalCountAdjust,
	}, 7)
	require.NoError(t, err)

	got := entries.ByPair(3, 30)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Delta)
}

func TestApplyAbsolute_NegativoEsInvalido(t *testing.T) {
	stocks := apptest.NewStockRepo()
	entries := apptest.NewLedgerRepo()

	_, err := ledger.ApplyAbsolute(stocks, entries, ledger.Mutation{
		StoreID: 1, VariantID: 1, Change: entity.ChangeManualUpdate,
	}, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
