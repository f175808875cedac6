package repository

import "github.com/dquispe/tienda-pos/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.Supplier, error)
}
