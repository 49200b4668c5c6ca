package repository

import "github.com/jhoicas/storeflow-api/internal/domain/entity"

// StoreOrderRepository puerto de persistencia para pedidos/devoluciones de tienda.
type StoreOrderRepository interface {
	Create(o *entity.StoreOrder) error
	GetByID(id int64) (*entity.StoreOrder, error)
	// GetByIDForUpdate bloquea la fila; serializa decisiones concurrentes.
	GetByIDForUpdate(id int64) (*entity.StoreOrder, error)
	Update(o *entity.StoreOrder) error
	ListByBrand(brandID int64, orderType, status string, limit, offset int) ([]*entity.StoreOrder, error)
	ListByStore(storeID int64, orderType string, limit, offset int) ([]*entity.StoreOrder, error)
}
