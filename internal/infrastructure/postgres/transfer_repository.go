package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, brand_id, variant_id, from_store_id, to_store_id, quantity, type, status,
	requested_by, shipped_by, received_by, resolved_by, created_at, shipped_at, received_at, resolved_at`

// Create inserta el traslado y asigna su ID.
func (r *TransferRepo) Create(t *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (brand_id, variant_id, from_store_id, to_store_id, quantity, type, status, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		t.BrandID, t.VariantID, t.FromStoreID, t.ToStoreID, t.Quantity, t.Type, t.Status,
		t.RequestedBy, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// GetByID devuelve el traslado, o nil si no existe.
func (r *TransferRepo) GetByID(id int64) (*entity.StockTransfer, error) {
	return r.get(id, false)
}

// GetByIDForUpdate bloquea la fila del traslado.
func (r *TransferRepo) GetByIDForUpdate(id int64) (*entity.StockTransfer, error) {
	return r.get(id, true)
}

func (r *TransferRepo) get(id int64, forUpdate bool) (*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var t entity.StockTransfer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.BrandID, &t.VariantID, &t.FromStoreID, &t.ToStoreID, &t.Quantity, &t.Type, &t.Status,
		&t.RequestedBy, &t.ShippedBy, &t.ReceivedBy, &t.ResolvedBy,
		&t.CreatedAt, &t.ShippedAt, &t.ReceivedAt, &t.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

// Update persiste el estado completo del traslado.
func (r *TransferRepo) Update(t *entity.StockTransfer) error {
	query := `
		UPDATE stock_transfers SET status = $2, shipped_by = $3, received_by = $4, resolved_by = $5,
			shipped_at = $6, received_at = $7, resolved_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		t.ID, t.Status, t.ShippedBy, t.ReceivedBy, t.ResolvedBy,
		t.ShippedAt, t.ReceivedAt, t.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update transfer: traslado %d no existe", t.ID)
	}
	return nil
}

// ListByStore lista traslados donde la tienda es origen o destino.
func (r *TransferRepo) ListByStore(storeID int64, status string, limit, offset int) ([]*entity.StockTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM stock_transfers WHERE (from_store_id = $1 OR to_store_id = $1)`
	args := []any{storeID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, nullableLimit(limit), offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers by store: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		var t entity.StockTransfer
		if err := rows.Scan(&t.ID, &t.BrandID, &t.VariantID, &t.FromStoreID, &t.ToStoreID, &t.Quantity, &t.Type, &t.Status,
			&t.RequestedBy, &t.ShippedBy, &t.ReceivedBy, &t.ResolvedBy,
			&t.CreatedAt, &t.ShippedAt, &t.ReceivedAt, &t.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
