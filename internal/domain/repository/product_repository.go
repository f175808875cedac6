package repository

import (
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para productos.
// El stock se muta únicamente vía UpdateStock dentro de una transacción que
// obtuvo la fila con GetForUpdate (serialización por producto).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByStoreAndBarcode(storeID, codigoBarras string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(id string, stock decimal.Decimal) error
	UpdateCost(id string, costo decimal.Decimal) error
	Update(product *entity.Product) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Product, error)
}
