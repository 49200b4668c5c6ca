package repository

import "github.com/jhoicas/storeflow-api/internal/domain/entity"

// StoreRepository puerto de persistencia para tiendas.
type StoreRepository interface {
	Create(store *entity.Store) error
	GetByID(id int64) (*entity.Store, error)
	// GetByIDForUpdate bloquea la fila de la tienda dentro de la transacción
	// actual (SELECT FOR UPDATE). Nil si no existe.
	GetByIDForUpdate(id int64) (*entity.Store, error)
	GetByCode(brandID int64, code string) (*entity.Store, error)
	ListByBrand(brandID int64, limit, offset int) ([]*entity.Store, error)
	Update(store *entity.Store) error
}
