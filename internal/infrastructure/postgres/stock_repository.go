package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, store_id, variant_id, quantity, actual_count, last_checked_at, updated_at`

func scanStock(row pgx.Row) (*entity.StoreStock, error) {
	var s entity.StoreStock
	err := row.Scan(&s.ID, &s.StoreID, &s.VariantID, &s.Quantity, &s.ActualCount, &s.LastCheckedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene el contador de (tienda, variante); nil si la fila no existe.
func (r *StockRepo) Get(storeID, variantID int64) (*entity.StoreStock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM store_stocks WHERE store_id = $1 AND variant_id = $2`
	s, err := scanStock(r.q.QueryRow(context.Background(), query, storeID, variantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el contador y bloquea la fila (SELECT FOR UPDATE).
// Si otra transacción la tiene, espera a que termine: dos mutaciones sobre el
// mismo par (tienda, variante) se serializan en vez de fallar. Devuelve nil si
// la fila no existe; deadlocks y lock_timeout se traducen a domain.ErrLocked.
func (r *StockRepo) GetForUpdate(storeID, variantID int64) (*entity.StoreStock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM store_stocks WHERE store_id = $1 AND variant_id = $2
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(context.Background(), query, storeID, variantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if lerr := lockErrorOr(err); lerr != err {
			return nil, lerr
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// CreateIfAbsent crea la fila con cantidad 0 si no existe; no falla si ya existe.
func (r *StockRepo) CreateIfAbsent(storeID, variantID int64) error {
	query := `
		INSERT INTO store_stocks (store_id, variant_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (store_id, variant_id) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query, storeID, variantID)
	if err != nil {
		return fmt.Errorf("create stock if absent: %w", err)
	}
	return nil
}

// UpdateQuantity fija el contador (la fila debe existir y estar bloqueada por el caller).
func (r *StockRepo) UpdateQuantity(storeID, variantID int64, quantity int) error {
	query := `
		UPDATE store_stocks SET quantity = $3, updated_at = now()
		WHERE store_id = $1 AND variant_id = $2`
	tag, err := r.q.Exec(context.Background(), query, storeID, variantID, quantity)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock quantity: fila (%d,%d) no existe", storeID, variantID)
	}
	return nil
}

// SetActualCount registra el conteo físico de la toma de inventario.
func (r *StockRepo) SetActualCount(storeID, variantID int64, count int, checkedAt time.Time) error {
	query := `
		UPDATE store_stocks SET actual_count = $3, last_checked_at = $4
		WHERE store_id = $1 AND variant_id = $2`
	tag, err := r.q.Exec(context.Background(), query, storeID, variantID, count, checkedAt)
	if err != nil {
		return fmt.Errorf("set actual count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set actual count: fila (%d,%d) no existe", storeID, variantID)
	}
	return nil
}

// ResetActualCount limpia el conteo físico; no falla si la fila no existe.
func (r *StockRepo) ResetActualCount(storeID, variantID int64) error {
	query := `
		UPDATE store_stocks SET actual_count = NULL, last_checked_at = NULL
		WHERE store_id = $1 AND variant_id = $2`
	_, err := r.q.Exec(context.Background(), query, storeID, variantID)
	if err != nil {
		return fmt.Errorf("reset actual count: %w", err)
	}
	return nil
}

// ListByStore lista los contadores de una tienda, ordenados por variante.
func (r *StockRepo) ListByStore(storeID int64, limit, offset int) ([]*entity.StoreStock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM store_stocks WHERE store_id = $1
		ORDER BY variant_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, nullableLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by store: %w", err)
	}
	defer rows.Close()
	var list []*entity.StoreStock
	for rows.Next() {
		var s entity.StoreStock
		if err := rows.Scan(&s.ID, &s.StoreID, &s.VariantID, &s.Quantity, &s.ActualCount, &s.LastCheckedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// nullableLimit traduce limit<=0 a NULL (sin límite) para LIMIT $n.
func nullableLimit(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
