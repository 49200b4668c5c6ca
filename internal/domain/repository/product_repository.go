package repository

import "github.com/jhoicas/storeflow-api/internal/domain/entity"

// ProductRepository puerto de persistencia para productos y variantes.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	GetByNumber(brandID int64, number string) (*entity.Product, error)
	// Search busca por número o nombre normalizado (LIKE sobre *_clean).
	Search(brandID int64, key string, limit, offset int) ([]*entity.Product, error)

	CreateVariant(variant *entity.Variant) error
	GetVariantByID(id int64) (*entity.Variant, error)
	GetVariantByBarcode(brandID int64, barcode string) (*entity.Variant, error)
	ListVariantsByProduct(productID int64) ([]*entity.Variant, error)
	// GetVariantForUpdate bloquea la fila de la variante (SELECT FOR UPDATE)
	// para mutar el stock del depósito central. Devuelve nil si no existe.
	GetVariantForUpdate(id int64) (*entity.Variant, error)
	UpdateVariantHQQuantity(id int64, qty int) error
}
