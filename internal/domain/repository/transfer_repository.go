package repository

import "github.com/jhoicas/storeflow-api/internal/domain/entity"

// TransferRepository puerto de persistencia para traslados entre tiendas.
type TransferRepository interface {
	Create(t *entity.StockTransfer) error
	GetByID(id int64) (*entity.StockTransfer, error)
	// GetByIDForUpdate bloquea la fila del traslado; serializa despachos y
	// recepciones concurrentes sobre el mismo traslado.
	GetByIDForUpdate(id int64) (*entity.StockTransfer, error)
	Update(t *entity.StockTransfer) error
	ListByStore(storeID int64, status string, limit, offset int) ([]*entity.StockTransfer, error)
}
