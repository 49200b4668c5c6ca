package repository

import "github.com/jhoicas/storeflow-api/internal/domain/entity"

// LedgerRepository puerto del libro mayor de stock (solo inserción y lectura;
// los asientos nunca se modifican ni borran).
type LedgerRepository interface {
	Create(entry *entity.LedgerEntry) error
	// ListByPair lista asientos de (tienda, variante) ordenados por
	// (created_at, id) ascendente.
	ListByPair(storeID, variantID int64, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByStore(storeID int64, limit, offset int) ([]*entity.LedgerEntry, error)
}
