package repository

import (
	"time"

	"github.com/jhoicas/storeflow-api/internal/domain/entity"
)

// StockRepository define el puerto para el contador de stock por tienda+variante.
// Las mutaciones se hacen dentro de transacciones con GetForUpdate para
// serializar operaciones concurrentes sobre el mismo par.
type StockRepository interface {
	// Get devuelve el contador, o nil si aún no existe la fila.
	Get(storeID, variantID int64) (*entity.StoreStock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil si no existe;
	// el caller debe crearla con CreateIfAbsent y volver a bloquear.
	GetForUpdate(storeID, variantID int64) (*entity.StoreStock, error)
	// CreateIfAbsent inserta la fila con cantidad 0 si no existe
	// (INSERT ... ON CONFLICT DO NOTHING).
	CreateIfAbsent(storeID, variantID int64) error
	UpdateQuantity(storeID, variantID int64, quantity int) error
	SetActualCount(storeID, variantID int64, count int, checkedAt time.Time) error
	ResetActualCount(storeID, variantID int64) error
	ListByStore(storeID int64, limit, offset int) ([]*entity.StoreStock, error)
}
