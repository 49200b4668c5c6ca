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

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de tiendas.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `id, brand_id, code, name, approved, active, created_at, updated_at`

// Create inserta una tienda y asigna su ID.
func (r *StoreRepo) Create(store *entity.Store) error {
	query := `
		INSERT INTO stores (brand_id, code, name, approved, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		store.BrandID, store.Code, store.Name, store.Approved, store.Active,
		store.CreatedAt, store.UpdatedAt,
	).Scan(&store.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

// GetByID devuelve una tienda, o nil si no existe.
func (r *StoreRepo) GetByID(id int64) (*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	return r.scanStore(r.q.QueryRow(context.Background(), query, id), "get store")
}

// GetByIDForUpdate bloquea la fila de la tienda dentro de la transacción
// actual. Serializa el consecutivo diario de boletas: dos ventas simultáneas
// de la misma tienda no pueden numerarse a la vez.
func (r *StoreRepo) GetByIDForUpdate(id int64) (*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1 FOR UPDATE`
	var s entity.Store
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.BrandID, &s.Code, &s.Name, &s.Approved, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if lerr := lockErrorOr(err); lerr != err {
			return nil, lerr
		}
		return nil, fmt.Errorf("lock store: %w", err)
	}
	return &s, nil
}

// GetByCode devuelve una tienda por código dentro de la marca, o nil.
func (r *StoreRepo) GetByCode(brandID int64, code string) (*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE brand_id = $1 AND code = $2`
	return r.scanStore(r.q.QueryRow(context.Background(), query, brandID, code), "get store by code")
}

func (r *StoreRepo) scanStore(row pgx.Row, op string) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(&s.ID, &s.BrandID, &s.Code, &s.Name, &s.Approved, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// ListByBrand lista las tiendas de una marca.
func (r *StoreRepo) ListByBrand(brandID int64, limit, offset int) ([]*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE brand_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, brandID, nullableLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.BrandID, &s.Code, &s.Name, &s.Approved, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update actualiza una tienda.
func (r *StoreRepo) Update(store *entity.Store) error {
	query := `
		UPDATE stores SET name = $2, approved = $3, active = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		store.ID, store.Name, store.Approved, store.Active, store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update store: tienda %d no existe", store.ID)
	}
	return nil
}
