package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del libro mayor de stock sobre PostgreSQL.
// Los asientos son inmutables: solo INSERT y SELECT.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, store_id, variant_id, change, delta, resulting, ref_type, ref_id, created_by, note, created_at`

// Create persiste un asiento.
func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.StoreID, entry.VariantID, entry.Change, entry.Delta, entry.Resulting,
		entry.RefType, entry.RefID, entry.CreatedBy, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

// ListByPair lista los asientos de (tienda, variante) en orden de aplicación.
func (r *LedgerRepo) ListByPair(storeID, variantID int64, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE store_id = $1 AND variant_id = $2
		ORDER BY created_at, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, storeID, variantID, nullableLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger by pair: %w", err)
	}
	defer rows.Close()
	return scanLedgerRows(rows)
}

// ListByStore lista los asientos de una tienda, los más recientes primero.
func (r *LedgerRepo) ListByStore(storeID int64, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE store_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, nullableLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger by store: %w", err)
	}
	defer rows.Close()
	return scanLedgerRows(rows)
}

func scanLedgerRows(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.StoreID, &e.VariantID, &e.Change, &e.Delta, &e.Resulting,
			&e.RefType, &e.RefID, &e.CreatedBy, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
