// Package catalog administra marcas, tiendas, productos y variantes: el
// catálogo compartido sobre el que operan ventas, traslados y pedidos.
package catalog

import (
	"context"
	"time"

	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
	"github.com/jhoicas/storeflow-api/pkg/normalize"
)

// UseCase casos de uso del catálogo.
type UseCase struct {
	brandRepo   repository.BrandRepository
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	brandRepo repository.BrandRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
) *UseCase {
	return &UseCase{brandRepo: brandRepo, storeRepo: storeRepo, productRepo: productRepo}
}

// ── Marcas ────────────────────────────────────────────────────────────────────

// CreateBrand registra una marca nueva. El código es único global.
func (uc *UseCase) CreateBrand(ctx context.Context, in dto.CreateBrandRequest) (*dto.BrandResponse, error) {
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.brandRepo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	brand := &entity.Brand{Name: in.Name, Code: in.Code, Active: true, CreatedAt: now, UpdatedAt: now}
	if err := uc.brandRepo.Create(brand); err != nil {
		return nil, err
	}
	return toBrandResponse(brand), nil
}

// GetBrand devuelve una marca por ID.
func (uc *UseCase) GetBrand(ctx context.Context, id int64) (*dto.BrandResponse, error) {
	brand, err := uc.brandRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, domain.ErrNotFound
	}
	return toBrandResponse(brand), nil
}

// ListBrands lista marcas.
func (uc *UseCase) ListBrands(ctx context.Context, limit, offset int) ([]dto.BrandResponse, error) {
	list, err := uc.brandRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BrandResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBrandResponse(b))
	}
	return out, nil
}

// ── Tiendas ───────────────────────────────────────────────────────────────────

// CreateStore registra una tienda de la marca. Nace activa pero sin aprobar:
// casa matriz debe aprobarla antes de que pueda operar.
func (uc *UseCase) CreateStore(ctx context.Context, brandID int64, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	brand, err := uc.brandRepo.GetByID(brandID)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.storeRepo.GetByCode(brandID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	store := &entity.Store{
		BrandID: brandID, Code: in.Code, Name: in.Name,
		Approved: false, Active: true,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := uc.storeRepo.Create(store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// ApproveStore marca la tienda como aprobada por casa matriz.
func (uc *UseCase) ApproveStore(ctx context.Context, brandID, storeID int64) (*dto.StoreResponse, error) {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	if store.Approved {
		return nil, domain.ErrConflict
	}
	store.Approved = true
	store.UpdatedAt = time.Now()
	if err := uc.storeRepo.Update(store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// GetStore devuelve una tienda de la marca.
func (uc *UseCase) GetStore(ctx context.Context, brandID, storeID int64) (*dto.StoreResponse, error) {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil || store.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	return toStoreResponse(store), nil
}

// ListStores lista las tiendas de la marca.
func (uc *UseCase) ListStores(ctx context.Context, brandID int64, limit, offset int) ([]dto.StoreResponse, error) {
	list, err := uc.storeRepo.ListByBrand(brandID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toStoreResponse(s))
	}
	return out, nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

// CreateProduct registra un producto y sus variantes. El número es único por
// marca; las claves de búsqueda se normalizan al crear.
func (uc *UseCase) CreateProduct(ctx context.Context, brandID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Number == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, v := range in.Variants {
		if v.SalePrice.IsNegative() || v.OriginalPrice.IsNegative() || v.CostPrice.IsNegative() || v.HQQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	existing, err := uc.productRepo.GetByNumber(brandID, in.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		BrandID:     brandID,
		Number:      in.Number,
		Name:        in.Name,
		NumberClean: normalize.Key(in.Number),
		NameClean:   normalize.Key(in.Name),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}

	variants := make([]*entity.Variant, 0, len(in.Variants))
	for _, v := range in.Variants {
		variant := &entity.Variant{
			ProductID:     product.ID,
			BrandID:       brandID,
			Color:         v.Color,
			Size:          v.Size,
			Barcode:       v.Barcode,
			OriginalPrice: v.OriginalPrice,
			SalePrice:     v.SalePrice,
			CostPrice:     v.CostPrice,
			HQQuantity:    v.HQQuantity,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uc.productRepo.CreateVariant(variant); err != nil {
			return nil, err
		}
		variants = append(variants, variant)
	}
	return toProductResponse(product, variants), nil
}

// AddVariant agrega una variante a un producto existente.
func (uc *UseCase) AddVariant(ctx context.Context, brandID, productID int64, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	if in.SalePrice.IsNegative() || in.OriginalPrice.IsNegative() || in.CostPrice.IsNegative() || in.HQQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	if in.Barcode != "" {
		dup, err := uc.productRepo.GetVariantByBarcode(brandID, in.Barcode)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	variant := &entity.Variant{
		ProductID:     productID,
		BrandID:       brandID,
		Color:         in.Color,
		Size:          in.Size,
		Barcode:       in.Barcode,
		OriginalPrice: in.OriginalPrice,
		SalePrice:     in.SalePrice,
		CostPrice:     in.CostPrice,
		HQQuantity:    in.HQQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.productRepo.CreateVariant(variant); err != nil {
		return nil, err
	}
	resp := toVariantResponse(variant)
	return &resp, nil
}

// GetProduct devuelve un producto con sus variantes.
func (uc *UseCase) GetProduct(ctx context.Context, brandID, productID int64) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BrandID != brandID {
		return nil, domain.ErrNotFound
	}
	variants, err := uc.productRepo.ListVariantsByProduct(productID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, variants), nil
}

// SearchProducts busca por número o nombre; la consulta se normaliza igual
// que las claves, así "Ñandú-01" encuentra "nandu01".
func (uc *UseCase) SearchProducts(ctx context.Context, brandID int64, query string, limit, offset int) ([]dto.ProductResponse, error) {
	list, err := uc.productRepo.Search(brandID, normalize.Key(query), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p, nil))
	}
	return out, nil
}

// FindVariantByBarcode busca una variante por código de barras (flujo de
// venta con lector).
func (uc *UseCase) FindVariantByBarcode(ctx context.Context, brandID int64, barcode string) (*dto.VariantResponse, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	variant, err := uc.productRepo.GetVariantByBarcode(brandID, barcode)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	resp := toVariantResponse(variant)
	return &resp, nil
}

// ── mapeos ────────────────────────────────────────────────────────────────────

func toBrandResponse(b *entity.Brand) *dto.BrandResponse {
	return &dto.BrandResponse{ID: b.ID, Name: b.Name, Code: b.Code, Active: b.Active, CreatedAt: b.CreatedAt}
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID: s.ID, BrandID: s.BrandID, Code: s.Code, Name: s.Name,
		Approved: s.Approved, Active: s.Active, CreatedAt: s.CreatedAt,
	}
}

func toVariantResponse(v *entity.Variant) dto.VariantResponse {
	return dto.VariantResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		Color:         v.Color,
		Size:          v.Size,
		Barcode:       v.Barcode,
		OriginalPrice: v.OriginalPrice,
		SalePrice:     v.SalePrice,
		CostPrice:     v.CostPrice,
		HQQuantity:    v.HQQuantity,
	}
}

func toProductResponse(p *entity.Product, variants []*entity.Variant) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID: p.ID, BrandID: p.BrandID, Number: p.Number, Name: p.Name, CreatedAt: p.CreatedAt,
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, toVariantResponse(v))
	}
	return resp
}
