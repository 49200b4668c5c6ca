package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, brand_id, number, name, number_clean, name_clean, created_at, updated_at`
const variantColumns = `id, product_id, brand_id, color, size, barcode, original_price, sale_price, cost_price, hq_quantity, created_at, updated_at`

// Create inserta un producto y asigna su ID.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (brand_id, number, name, number_clean, name_clean, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		p.BrandID, p.Number, p.Name, p.NumberClean, p.NameClean, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID devuelve un producto, o nil si no existe.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.BrandID, &p.Number, &p.Name, &p.NumberClean, &p.NameClean, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetByNumber devuelve un producto por número de referencia, o nil si no existe.
func (r *ProductRepo) GetByNumber(brandID int64, number string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE brand_id = $1 AND number = $2`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, brandID, number).Scan(
		&p.ID, &p.BrandID, &p.Number, &p.Name, &p.NumberClean, &p.NameClean, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by number: %w", err)
	}
	return &p, nil
}

// Search busca por clave normalizada en número o nombre (LIKE sobre *_clean).
func (r *ProductRepo) Search(brandID int64, key string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE brand_id = $1 AND ($2 = '' OR number_clean LIKE '%' || $2 || '%' OR name_clean LIKE '%' || $2 || '%')
		ORDER BY number LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, brandID, key, nullableLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.BrandID, &p.Number, &p.Name, &p.NumberClean, &p.NameClean, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CreateVariant inserta una variante y asigna su ID. El barcode vacío se
// guarda como NULL para no chocar con la constraint única.
func (r *ProductRepo) CreateVariant(v *entity.Variant) error {
	query := `
		INSERT INTO variants (product_id, brand_id, color, size, barcode, original_price, sale_price, cost_price, hq_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		v.ProductID, v.BrandID, v.Color, v.Size, v.Barcode,
		v.OriginalPrice, v.SalePrice, v.CostPrice, v.HQQuantity, v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create variant: %w", err)
	}
	return nil
}

// GetVariantByID devuelve una variante, o nil si no existe.
func (r *ProductRepo) GetVariantByID(id int64) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1`
	return r.scanVariant(r.q.QueryRow(context.Background(), query, id), "get variant")
}

// GetVariantByBarcode devuelve la variante con ese código de barras, o nil.
func (r *ProductRepo) GetVariantByBarcode(brandID int64, barcode string) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE brand_id = $1 AND barcode = $2`
	return r.scanVariant(r.q.QueryRow(context.Background(), query, brandID, barcode), "get variant by barcode")
}

// GetVariantForUpdate bloquea la fila de la variante para mutar el stock del
// depósito central. Devuelve nil si no existe.
func (r *ProductRepo) GetVariantForUpdate(id int64) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1 FOR UPDATE`
	return r.scanVariant(r.q.QueryRow(context.Background(), query, id), "get variant for update")
}

func (r *ProductRepo) scanVariant(row pgx.Row, op string) (*entity.Variant, error) {
	var v entity.Variant
	var barcode *string
	err := row.Scan(&v.ID, &v.ProductID, &v.BrandID, &v.Color, &v.Size, &barcode,
		&v.OriginalPrice, &v.SalePrice, &v.CostPrice, &v.HQQuantity, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if barcode != nil {
		v.Barcode = *barcode
	}
	return &v, nil
}

// ListVariantsByProduct lista las variantes de un producto.
func (r *ProductRepo) ListVariantsByProduct(productID int64) ([]*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE product_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		var v entity.Variant
		var barcode *string
		if err := rows.Scan(&v.ID, &v.ProductID, &v.BrandID, &v.Color, &v.Size, &barcode,
			&v.OriginalPrice, &v.SalePrice, &v.CostPrice, &v.HQQuantity, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		if barcode != nil {
			v.Barcode = *barcode
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// UpdateVariantHQQuantity fija el stock del depósito central (la fila debe
// estar bloqueada por el caller).
func (r *ProductRepo) UpdateVariantHQQuantity(id int64, qty int) error {
	query := `UPDATE variants SET hq_quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, qty)
	if err != nil {
		return fmt.Errorf("update variant hq quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update variant hq quantity: variante %d no existe", id)
	}
	return nil
}
