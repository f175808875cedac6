package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo implementación de CashMovementRepository sobre PostgreSQL
// (usable con pool o tx). Tabla solo-append.
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Create inserta un movimiento de caja.
func (r *CashMovementRepo) Create(m *entity.CashMovement) error {
	query := `
		INSERT INTO cash_movements (id, session_id, tipo, monto, concepto, usuario_id, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.SessionID, m.Tipo, m.Monto, m.Concepto, m.UsuarioID, m.Fecha,
	)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

// SumBySession suma los montos de un tipo (INGRESO o EGRESO) de la sesión.
func (r *CashMovementRepo) SumBySession(sessionID, tipo string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(monto), 0) FROM cash_movements WHERE session_id = $1 AND tipo = $2`
	var suma decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, sessionID, tipo).Scan(&suma); err != nil {
		return decimal.Zero, fmt.Errorf("sum cash movements: %w", err)
	}
	return suma, nil
}

// ListBySession lista movimientos de la sesión en orden cronológico.
func (r *CashMovementRepo) ListBySession(sessionID string, limit, offset int) ([]*entity.CashMovement, error) {
	query := `
		SELECT id, session_id, tipo, monto, concepto, usuario_id, fecha
		FROM cash_movements WHERE session_id = $1 ORDER BY fecha LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Tipo, &m.Monto, &m.Concepto, &m.UsuarioID, &m.Fecha); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
