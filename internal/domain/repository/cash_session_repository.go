package repository

import "github.com/dquispe/tienda-pos/internal/domain/entity"

// CashSessionRepository define el puerto de persistencia de la caja diaria.
type CashSessionRepository interface {
	Create(s *entity.CashSession) error
	GetByID(id string) (*entity.CashSession, error)
	// GetOpenByStore devuelve la caja ABIERTA de la tienda, o nil si no hay.
	GetOpenByStore(storeID string) (*entity.CashSession, error)
	// GetOpenByStoreForUpdate bloquea la fila de la caja abierta; usado en la
	// apertura (invariante: una sola ABIERTA) y el cierre (terminal).
	GetOpenByStoreForUpdate(storeID string) (*entity.CashSession, error)
	// GetOpenByStoreForShare toma un bloqueo compartido sobre la caja abierta:
	// las operaciones acotadas a la sesión (ventas, movimientos, cobros) pueden
	// correr en paralelo entre sí, pero ninguna puede solaparse con el cierre
	// (que bloquea con FOR UPDATE). Sin esto, una venta podría confirmar
	// mientras el cierre ya está sumando y quedar fuera del monto sistema.
	GetOpenByStoreForShare(storeID string) (*entity.CashSession, error)
	// Close persiste el cierre: monto sistema, monto real, diferencia, estado,
	// usuario y fecha de cierre. Única mutación permitida tras la apertura.
	Close(s *entity.CashSession) error
	ListByStore(storeID string, limit, offset int) ([]*entity.CashSession, error)
}
