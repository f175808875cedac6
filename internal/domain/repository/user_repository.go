package repository

import "github.com/dquispe/tienda-pos/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.User, error)
}
