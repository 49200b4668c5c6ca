package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, brand_id, store_id, receipt_number, daily_number, date, status, payment_method, is_online, total, created_by, created_at, updated_at`

// Create inserta la boleta y sus líneas; asigna los IDs generados.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	query := `
		INSERT INTO sales (brand_id, store_id, receipt_number, daily_number, date, status, payment_method, is_online, total, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		sale.BrandID, sale.StoreID, sale.ReceiptNumber, sale.DailyNumber, sale.Date,
		sale.Status, sale.PaymentMethod, sale.IsOnline, sale.Total, sale.CreatedBy,
		sale.CreatedAt, sale.UpdatedAt,
	).Scan(&sale.ID)
	if err != nil {
		if isUniqueViolation(err) {
			// Número de boleta repetido: otra venta ganó el consecutivo.
			// Reintentable, igual que un lock perdido.
			return domain.ErrLocked
		}
		return fmt.Errorf("create sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (sale_id, variant_id, product_number, product_name, color, size, quantity, unit_price, discount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	for _, it := range sale.Items {
		it.SaleID = sale.ID
		err := r.q.QueryRow(ctx, itemQuery,
			it.SaleID, it.VariantID, it.ProductNumber, it.ProductName, it.Color, it.Size,
			it.Quantity, it.UnitPrice, it.Discount, it.Subtotal,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la boleta con sus líneas, o nil si no existe.
func (r *SaleRepo) GetByID(id int64) (*entity.Sale, error) {
	return r.get(id, false)
}

// GetByIDForUpdate bloquea la fila de la boleta y carga sus líneas.
func (r *SaleRepo) GetByIDForUpdate(id int64) (*entity.Sale, error) {
	return r.get(id, true)
}

func (r *SaleRepo) get(id int64, forUpdate bool) (*entity.Sale, error) {
	ctx := context.Background()
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.BrandID, &s.StoreID, &s.ReceiptNumber, &s.DailyNumber, &s.Date,
		&s.Status, &s.PaymentMethod, &s.IsOnline, &s.Total, &s.CreatedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) listItems(ctx context.Context, saleID int64) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, variant_id, product_number, product_name, color, size, quantity, unit_price, discount, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.VariantID, &it.ProductNumber, &it.ProductName,
			&it.Color, &it.Size, &it.Quantity, &it.UnitPrice, &it.Discount, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// NextDailyNumber devuelve MAX(daily_number)+1 para (tienda, día). Se llama
// dentro de la transacción de la venta con la fila de la tienda ya bloqueada,
// así dos ventas simultáneas no leen el mismo máximo; la constraint única
// sobre (store_id, date, daily_number) respalda el invariante.
func (r *SaleRepo) NextDailyNumber(storeID int64, date time.Time) (int, error) {
	query := `
		SELECT COALESCE(MAX(daily_number), 0) + 1
		FROM sales WHERE store_id = $1 AND date = $2`
	var next int
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if err := r.q.QueryRow(context.Background(), query, storeID, day).Scan(&next); err != nil {
		return 0, fmt.Errorf("next daily number: %w", err)
	}
	return next, nil
}

// UpdateItem actualiza cantidad y subtotal de una línea (devoluciones parciales).
func (r *SaleRepo) UpdateItem(item *entity.SaleItem) error {
	query := `
		UPDATE sale_items SET quantity = $2, subtotal = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, item.ID, item.Quantity, item.Subtotal)
	if err != nil {
		return fmt.Errorf("update sale item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sale item: línea %d no existe", item.ID)
	}
	return nil
}

// UpdateTotals actualiza total y estado de la boleta.
func (r *SaleRepo) UpdateTotals(saleID int64, total decimal.Decimal, status string) error {
	query := `
		UPDATE sales SET total = $2, status = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, saleID, total, status)
	if err != nil {
		return fmt.Errorf("update sale totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sale totals: venta %d no existe", saleID)
	}
	return nil
}

// ListByStore lista boletas de una tienda en un rango de fechas, sin líneas.
func (r *SaleRepo) ListByStore(storeID int64, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE store_id = $1`
	args := []any{storeID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, daily_number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, nullableLimit(limit), offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales by store: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.BrandID, &s.StoreID, &s.ReceiptNumber, &s.DailyNumber, &s.Date,
			&s.Status, &s.PaymentMethod, &s.IsOnline, &s.Total, &s.CreatedBy,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
