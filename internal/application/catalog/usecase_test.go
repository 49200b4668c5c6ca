package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storeflow-api/internal/application/apptest"
	"github.com/jhoicas/storeflow-api/internal/application/catalog"
	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/domain"
)

func newCatalogEnv(t *testing.T) (*catalog.UseCase, int64) {
	t.Helper()
	brands := apptest.NewBrandRepo()
	b := brands.SeedBrand(1, "ACME")
	stores := apptest.NewStoreRepo()
	products := apptest.NewProductRepo()
	return catalog.NewUseCase(brands, stores, products), b.ID
}

func TestCreateBrand_CodigoDuplicado(t *testing.T) {
	uc, _ := newCatalogEnv(t)

	_, err := uc.CreateBrand(context.Background(), dto.CreateBrandRequest{Name: "Otra", Code: "ACME"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	resp, err := uc.CreateBrand(context.Background(), dto.CreateBrandRequest{Name: "Otra", Code: "OTRA"})
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestCreateStore_NaceSinAprobar(t *testing.T) {
	uc, brandID := newCatalogEnv(t)

	resp, err := uc.CreateStore(context.Background(), brandID, dto.CreateStoreRequest{Code: "T01", Name: "Centro"})
	require.NoError(t, err)
	assert.False(t, resp.Approved)
	assert.True(t, resp.Active)

	approved, err := uc.ApproveStore(context.Background(), brandID, resp.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)

	// Aprobar dos veces es conflicto.
	_, err = uc.ApproveStore(context.Background(), brandID, resp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateStore_CodigoDuplicadoEnMarca(t *testing.T) {
	uc, brandID := newCatalogEnv(t)

	_, err := uc.CreateStore(context.Background(), brandID, dto.CreateStoreRequest{Code: "T01", Name: "Centro"})
	require.NoError(t, err)
	_, err = uc.CreateStore(context.Background(), brandID, dto.CreateStoreRequest{Code: "T01", Name: "Norte"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_ConVariantes(t *testing.T) {
	uc, brandID := newCatalogEnv(t)

	resp, err := uc.CreateProduct(context.Background(), brandID, dto.CreateProductRequest{
		Number: "CAM-001",
		Name:   "Camisa Ñandú",
		Variants: []dto.CreateVariantRequest{
			{Color: "rojo", Size: "M", SalePrice: decimal.NewFromInt(19990), HQQuantity: 50},
			{Color: "rojo", Size: "L", SalePrice: decimal.NewFromInt(19990), HQQuantity: 30},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Variants, 2)
	assert.NotZero(t, resp.Variants[0].ID)
	assert.Equal(t, 50, resp.Variants[0].HQQuantity)

	_, err = uc.CreateProduct(context.Background(), brandID, dto.CreateProductRequest{Number: "CAM-001", Name: "Repetido"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSearchProducts_NormalizaLaConsulta(t *testing.T) {
	uc, brandID := newCatalogEnv(t)

	_, err := uc.CreateProduct(context.Background(), brandID, dto.CreateProductRequest{
		Number: "CAM-001", Name: "Camisa Ñandú",
	})
	require.NoError(t, err)

	// Tildes, mayúsculas y separadores no afectan la búsqueda.
	found, err := uc.SearchProducts(context.Background(), brandID, "ñanDU", 0, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CAM-001", found[0].Number)

	found, err = uc.SearchProducts(context.Background(), brandID, "cam-001", 0, 0)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestAddVariant_BarcodeDuplicado(t *testing.T) {
	uc, brandID := newCatalogEnv(t)

	p, err := uc.CreateProduct(context.Background(), brandID, dto.CreateProductRequest{
		Number: "CAM-001", Name: "Camisa",
	})
	require.NoError(t, err)

	_, err = uc.AddVariant(context.Background(), brandID, p.ID, dto.CreateVariantRequest{
		Color: "azul", Size: "M", Barcode: "779000111",
	})
	require.NoError(t, err)

	_, err = uc.AddVariant(context.Background(), brandID, p.ID, dto.CreateVariantRequest{
		Color: "azul", Size: "L", Barcode: "779000111",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestFindVariantByBarcode(t *testing.T) {
	uc, brandID := newCatalogEnv(t)

	p, err := uc.CreateProduct(context.Background(), brandID, dto.CreateProductRequest{
		Number: "CAM-001", Name: "Camisa",
		Variants: []dto.CreateVariantRequest{{Color: "azul", Size: "M", Barcode: "779000111"}},
	})
	require.NoError(t, err)

	v, err := uc.FindVariantByBarcode(context.Background(), brandID, "779000111")
	require.NoError(t, err)
	assert.Equal(t, p.Variants[0].ID, v.ID)

	_, err = uc.FindVariantByBarcode(context.Background(), brandID, "000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Otra marca no ve el código.
	_, err = uc.FindVariantByBarcode(context.Background(), brandID+1, "779000111")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetProduct_DeOtraMarcaEsNotFound(t *testing.T) {
	uc, brandID := newCatalogEnv(t)
	p, err := uc.CreateProduct(context.Background(), brandID, dto.CreateProductRequest{
		Number: "CAM-001", Name: "Camisa",
	})
	require.NoError(t, err)

	_, err = uc.GetProduct(context.Background(), brandID+1, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
