package repository

import (
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CashMovementRepository define el puerto de persistencia de movimientos de
// caja (solo append y lecturas; un movimiento nunca se edita).
type CashMovementRepository interface {
	Create(m *entity.CashMovement) error
	// SumBySession suma los montos de un tipo (INGRESO o EGRESO) de la sesión.
	SumBySession(sessionID, tipo string) (decimal.Decimal, error)
	ListBySession(sessionID string, limit, offset int) ([]*entity.CashMovement, error)
}
