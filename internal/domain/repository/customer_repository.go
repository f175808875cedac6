package repository

import (
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CustomerRepository define el puerto de persistencia para clientes.
// La deuda (crédito) se muta solo vía UpdateDeuda dentro de una transacción
// que obtuvo la fila con GetForUpdate.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila del cliente (saldo de crédito).
	GetForUpdate(id string) (*entity.Customer, error)
	UpdateDeuda(id string, deuda decimal.Decimal) error
	Update(customer *entity.Customer) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Customer, error)
}
