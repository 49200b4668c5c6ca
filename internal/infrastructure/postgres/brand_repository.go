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

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo implementación de BrandRepository sobre PostgreSQL.
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador de marcas.
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

const brandColumns = `id, name, code, active, created_at, updated_at`

// Create inserta una marca y asigna su ID.
func (r *BrandRepo) Create(brand *entity.Brand) error {
	query := `
		INSERT INTO brands (name, code, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		brand.Name, brand.Code, brand.Active, brand.CreatedAt, brand.UpdatedAt,
	).Scan(&brand.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create brand: %w", err)
	}
	return nil
}

// GetByID devuelve una marca, o nil si no existe.
func (r *BrandRepo) GetByID(id int64) (*entity.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1`
	return r.scanBrand(r.q.QueryRow(context.Background(), query, id), "get brand")
}

// GetByCode devuelve una marca por código, o nil si no existe.
func (r *BrandRepo) GetByCode(code string) (*entity.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE code = $1`
	return r.scanBrand(r.q.QueryRow(context.Background(), query, code), "get brand by code")
}

func (r *BrandRepo) scanBrand(row pgx.Row, op string) (*entity.Brand, error) {
	var b entity.Brand
	err := row.Scan(&b.ID, &b.Name, &b.Code, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

// List lista marcas con paginación.
func (r *BrandRepo) List(limit, offset int) ([]*entity.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, nullableLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	var list []*entity.Brand
	for rows.Next() {
		var b entity.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Code, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
