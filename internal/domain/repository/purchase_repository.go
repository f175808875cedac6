package repository

import "github.com/dquispe/tienda-pos/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras.
type PurchaseRepository interface {
	Create(p *entity.Purchase) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Purchase, error)
}
