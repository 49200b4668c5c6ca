package repository

import "github.com/jhoicas/storeflow-api/internal/domain/entity"

// BrandRepository puerto de persistencia para marcas.
type BrandRepository interface {
	Create(brand *entity.Brand) error
	GetByID(id int64) (*entity.Brand, error)
	GetByCode(code string) (*entity.Brand, error)
	List(limit, offset int) ([]*entity.Brand, error)
}
