package repository

import (
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockMovementRepository define el puerto del Kardex: solo append y lecturas.
// No existe Update ni Delete: las anulaciones generan asientos compensatorios.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByProduct lista movimientos de un producto en orden cronológico
	// (asc=true ascendente, asc=false descendente) con paginación.
	ListByProduct(productID string, asc bool, limit, offset int) ([]*entity.StockMovement, error)
	// NetQuantity suma ENTRADA - SALIDA de todo el historial del producto.
	// Usado solo para verificar conciliación contra el stock actual.
	NetQuantity(productID string) (decimal.Decimal, error)
}
