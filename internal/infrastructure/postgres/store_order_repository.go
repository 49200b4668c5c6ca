package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

var _ repository.StoreOrderRepository = (*StoreOrderRepo)(nil)

// StoreOrderRepo implementación de StoreOrderRepository sobre PostgreSQL (usable con pool o tx).
type StoreOrderRepo struct {
	q Querier
}

// NewStoreOrderRepository construye el adaptador de pedidos/devoluciones. Pasar pool o tx (Querier).
func NewStoreOrderRepository(q Querier) *StoreOrderRepo {
	return &StoreOrderRepo{q: q}
}

const storeOrderColumns = `id, brand_id, store_id, variant_id, type, requested_quantity, confirmed_quantity,
	status, note, created_by, decided_by, created_at, decided_at`

// Create inserta la solicitud y asigna su ID.
func (r *StoreOrderRepo) Create(o *entity.StoreOrder) error {
	query := `
		INSERT INTO store_orders (brand_id, store_id, variant_id, type, requested_quantity, status, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		o.BrandID, o.StoreID, o.VariantID, o.Type, o.RequestedQuantity, o.Status, o.Note,
		o.CreatedBy, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("create store order: %w", err)
	}
	return nil
}

// GetByID devuelve la solicitud, o nil si no existe.
func (r *StoreOrderRepo) GetByID(id int64) (*entity.StoreOrder, error) {
	return r.get(id, false)
}

// GetByIDForUpdate bloquea la fila de la solicitud.
func (r *StoreOrderRepo) GetByIDForUpdate(id int64) (*entity.StoreOrder, error) {
	return r.get(id, true)
}

func (r *StoreOrderRepo) get(id int64, forUpdate bool) (*entity.StoreOrder, error) {
	query := `SELECT ` + storeOrderColumns + ` FROM store_orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var o entity.StoreOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.BrandID, &o.StoreID, &o.VariantID, &o.Type, &o.RequestedQuantity, &o.ConfirmedQuantity,
		&o.Status, &o.Note, &o.CreatedBy, &o.DecidedBy, &o.CreatedAt, &o.DecidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store order: %w", err)
	}
	return &o, nil
}

// Update persiste la decisión de la solicitud.
func (r *StoreOrderRepo) Update(o *entity.StoreOrder) error {
	query := `
		UPDATE store_orders SET status = $2, confirmed_quantity = $3, note = $4, decided_by = $5, decided_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		o.ID, o.Status, o.ConfirmedQuantity, o.Note, o.DecidedBy, o.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("update store order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update store order: solicitud %d no existe", o.ID)
	}
	return nil
}

// ListByBrand lista solicitudes de la marca (bandeja de casa matriz).
func (r *StoreOrderRepo) ListByBrand(brandID int64, orderType, status string, limit, offset int) ([]*entity.StoreOrder, error) {
	query := `SELECT ` + storeOrderColumns + ` FROM store_orders WHERE brand_id = $1`
	args := []any{brandID}
	pos := 2
	if orderType != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, orderType)
		pos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, nullableLimit(limit), offset)
	return r.list(query, args)
}

// ListByStore lista solicitudes de una tienda.
func (r *StoreOrderRepo) ListByStore(storeID int64, orderType string, limit, offset int) ([]*entity.StoreOrder, error) {
	query := `SELECT ` + storeOrderColumns + ` FROM store_orders WHERE store_id = $1`
	args := []any{storeID}
	pos := 2
	if orderType != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, orderType)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, nullableLimit(limit), offset)
	return r.list(query, args)
}

func (r *StoreOrderRepo) list(query string, args []any) ([]*entity.StoreOrder, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list store orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.StoreOrder
	for rows.Next() {
		var o entity.StoreOrder
		if err := rows.Scan(&o.ID, &o.BrandID, &o.StoreID, &o.VariantID, &o.Type, &o.RequestedQuantity,
			&o.ConfirmedQuantity, &o.Status, &o.Note, &o.CreatedBy, &o.DecidedBy, &o.CreatedAt, &o.DecidedAt); err != nil {
			return nil, fmt.Errorf("scan store order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
