package repository

import "github.com/jhoicas/storeflow-api/internal/domain/entity"

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	// FindByEmail devuelve nil si no existe.
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndBrand(email string, brandID int64) (*entity.User, error)
}
