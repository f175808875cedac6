package repository

import "github.com/dquispe/tienda-pos/internal/domain/entity"

// StoreRepository define el puerto de persistencia para tiendas (tenants).
type StoreRepository interface {
	Create(s *entity.Store) error
	GetByID(id string) (*entity.Store, error)
	List(limit, offset int) ([]*entity.Store, error)
}
