package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storeflow-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para boletas y sus líneas.
type SaleRepository interface {
	// Create inserta la boleta y sus líneas; asigna sale.ID y los IDs de las líneas.
	Create(sale *entity.Sale) error
	// GetByID devuelve la boleta con sus líneas, o nil si no existe.
	GetByID(id int64) (*entity.Sale, error)
	// GetByIDForUpdate bloquea la fila de la boleta (SELECT FOR UPDATE) y carga
	// sus líneas; serializa devoluciones concurrentes sobre la misma boleta.
	GetByIDForUpdate(id int64) (*entity.Sale, error)
	// NextDailyNumber devuelve MAX(daily_number)+1 para (tienda, día).
	// Debe llamarse dentro de la transacción de la venta.
	NextDailyNumber(storeID int64, date time.Time) (int, error)
	UpdateItem(item *entity.SaleItem) error
	UpdateTotals(saleID int64, total decimal.Decimal, status string) error
	ListByStore(storeID int64, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
