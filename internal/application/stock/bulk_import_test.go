package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storeflow-api/internal/application/apptest"
	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/application/stock"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/pkg/logger"
)

type importEnv struct {
	imp *stock.BulkImporter
	run *apptest.TxRunner
}

func newImportEnv(t *testing.T, variants int, opts stock.ImportOptions) (*importEnv, []int64) {
	t.Helper()
	run := apptest.NewTxRunner()
	stores := apptest.NewStoreRepo()
	stores.SeedStore(store, brand, "T01")
	ids := make([]int64, 0, variants)
	for i := 0; i < variants; i++ {
		v := run.Products.SeedVariant(&entity.Variant{ProductID: 1, BrandID: brand})
		ids = append(ids, v.ID)
	}
	imp := stock.NewBulkImporter(run, run.Products, stores, opts, logger.Nop())
	return &importEnv{imp: imp, run: run}, ids
}

func records(ids []int64, qty int) []dto.BulkImportRecord {
	out := make([]dto.BulkImportRecord, len(ids))
	for i, id := range ids {
		out[i] = dto.BulkImportRecord{VariantID: id, Quantity: qty}
	}
	return out
}

func TestImport_AplicaYReportaPorLotes(t *testing.T) {
	e, ids := newImportEnv(t, 7, stock.ImportOptions{ChunkSize: 3})

	var progress [][2]int
	err := e.imp.Import(context.Background(), brand, userID, dto.BulkImportRequest{
		StoreID: store, Records: records(ids, 10),
	}, func(current, total int) {
		progress = append(progress, [2]int{current, total})
	})
	require.NoError(t, err)

	// Tres lotes de 3+3+1; el último reporte siempre es (total, total).
	assert.Equal(t, [][2]int{{3, 7}, {6, 7}, {7, 7}}, progress)
	for _, id := range ids {
		assert.Equal(t, 10, e.run.Stocks.Quantity(store, id))
	}
	// Un asiento BULK_IMPORT por registro.
	assert.Len(t, e.run.Ledger.Entries, 7)
	assert.Equal(t, entity.ChangeBulkImport, e.run.Ledger.Entries[0].Change)
}

func TestImport_CantidadesAbsolutas(t *testing.T) {
	e, ids := newImportEnv(t, 1, stock.ImportOptions{})
	e.run.Stocks.Seed(store, ids[0], 25)

	err := e.imp.Import(context.Background(), brand, userID, dto.BulkImportRequest{
		StoreID: store, Records: records(ids, 10),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, e.run.Stocks.Quantity(store, ids[0]))
	entries := e.run.Ledger.ByPair(store, ids[0])
	require.Len(t, entries, 1)
	assert.Equal(t, -15, entries[0].Delta)
}

func TestImport_SinRegistrosReportaCeroCero(t *testing.T) {
	e, _ := newImportEnv(t, 0, stock.ImportOptions{})

	var progress [][2]int
	err := e.imp.Import(context.Background(), brand, userID, dto.BulkImportRequest{
		StoreID: store, Records: nil,
	}, func(current, total int) {
		progress = append(progress, [2]int{current, total})
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 0}}, progress)
	assert.Empty(t, e.run.Ledger.Entries)
}

func TestImport_ValidaAntesDeMoverNada(t *testing.T) {
	e, ids := newImportEnv(t, 2, stock.ImportOptions{ChunkSize: 1})

	recs := records(ids, 5)
	recs = append(recs, dto.BulkImportRecord{VariantID: 999, Quantity: 5})
	err := e.imp.Import(context.Background(), brand, userID, dto.BulkImportRequest{
		StoreID: store, Records: recs,
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	// La validación previa aborta antes del primer lote.
	assert.Empty(t, e.run.Ledger.Entries)
	assert.Equal(t, 0, e.run.Stocks.Quantity(store, ids[0]))
}

func TestImport_CantidadNegativaInvalida(t *testing.T) {
	e, ids := newImportEnv(t, 1, stock.ImportOptions{})
	err := e.imp.Import(context.Background(), brand, userID, dto.BulkImportRequest{
		StoreID: store, Records: []dto.BulkImportRecord{{VariantID: ids[0], Quantity: -1}},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_TiendaDeOtraMarca(t *testing.T) {
	e, ids := newImportEnv(t, 1, stock.ImportOptions{})
	err := e.imp.Import(context.Background(), brand+1, userID, dto.BulkImportRequest{
		StoreID: store, Records: records(ids, 5),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImport_ReintentaLotesBloqueados(t *testing.T) {
	e, ids := newImportEnv(t, 2, stock.ImportOptions{
		ChunkSize: 2, LockRetries: 3, RetryBackoff: time.Millisecond,
	})
	// Los dos primeros intentos de bloqueo fallan; el tercero entra.
	e.run.Stocks.LockErr = domain.ErrLocked
	e.run.Stocks.FailLocksLeft = 2

	err := e.imp.Import(context.Background(), brand, userID, dto.BulkImportRequest{
		StoreID: store, Records: records(ids, 4),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, e.run.Stocks.Quantity(store, ids[0]))
	assert.Equal(t, 4, e.run.Stocks.Quantity(store, ids[1]))
	// El lote revertido no deja asientos duplicados.
	assert.Len(t, e.run.Ledger.Entries, 2)
}

func TestImport_AgotaReintentosYFalla(t *testing.T) {
	e, ids := newImportEnv(t, 1, stock.ImportOptions{
		ChunkSize: 1, LockRetries: 2, RetryBackoff: time.Millisecond,
	})
	e.run.Stocks.LockErr = domain.ErrLocked
	e.run.Stocks.FailLocksLeft = 10

	err := e.imp.Import(context.Background(), brand, userID, dto.BulkImportRequest{
		StoreID: store, Records: records(ids, 4),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrLocked)
	assert.Equal(t, 0, e.run.Stocks.Quantity(store, ids[0]))
	assert.Empty(t, e.run.Ledger.Entries)
}
