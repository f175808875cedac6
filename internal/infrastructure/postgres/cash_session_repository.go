package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

const cashSessionColumns = `id, store_id, estado, monto_inicial, monto_sistema, monto_real, diferencia, usuario_apertura, usuario_cierre, fecha_apertura, fecha_cierre, observaciones`

// CashSessionRepo implementación de CashSessionRepository sobre PostgreSQL
// (usable con pool o tx). El invariante de una sola caja ABIERTA por tienda lo
// garantiza un índice único parcial:
//
//	CREATE UNIQUE INDEX ux_cash_sessions_open ON cash_sessions (store_id) WHERE estado = 'ABIERTA';
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

// Create persiste la apertura. Una segunda ABIERTA para la misma tienda choca
// con el índice único parcial y se reporta como ErrDuplicate.
func (r *CashSessionRepo) Create(s *entity.CashSession) error {
	query := `
		INSERT INTO cash_sessions (id, store_id, estado, monto_inicial, monto_sistema, monto_real, diferencia, usuario_apertura, usuario_cierre, fecha_apertura, fecha_cierre, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, $9, NULL, $10)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.StoreID, s.Estado, s.MontoInicial, s.MontoSistema, s.MontoReal,
		s.Diferencia, s.UsuarioApertura, s.FechaApertura, nullIfEmpty(s.Observaciones),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cash session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID.
func (r *CashSessionRepo) GetByID(id string) (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE id = $1`
	return scanCashSessionRow(r.q.QueryRow(context.Background(), query, id))
}

// GetOpenByStore devuelve la caja ABIERTA de la tienda, o nil si no hay.
func (r *CashSessionRepo) GetOpenByStore(storeID string) (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE store_id = $1 AND estado = 'ABIERTA'`
	return scanCashSessionRow(r.q.QueryRow(context.Background(), query, storeID))
}

// GetOpenByStoreForUpdate bloquea la fila de la caja abierta (cierre).
func (r *CashSessionRepo) GetOpenByStoreForUpdate(storeID string) (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE store_id = $1 AND estado = 'ABIERTA' FOR UPDATE`
	return scanCashSessionRow(r.q.QueryRow(context.Background(), query, storeID))
}

// GetOpenByStoreForShare toma un bloqueo compartido sobre la caja abierta:
// FOR SHARE no choca consigo mismo (las ventas siguen concurrentes) pero sí
// con el FOR UPDATE del cierre, de modo que ninguna operación de la sesión se
// solapa con el arqueo.
func (r *CashSessionRepo) GetOpenByStoreForShare(storeID string) (*entity.CashSession, error) {
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE store_id = $1 AND estado = 'ABIERTA' FOR SHARE`
	return scanCashSessionRow(r.q.QueryRow(context.Background(), query, storeID))
}

// Close persiste el cierre: única mutación permitida tras la apertura.
func (r *CashSessionRepo) Close(s *entity.CashSession) error {
	query := `
		UPDATE cash_sessions
		SET estado = $2, monto_sistema = $3, monto_real = $4, diferencia = $5,
		    usuario_cierre = $6, fecha_cierre = $7, observaciones = $8
		WHERE id = $1 AND estado = 'ABIERTA'`
	cmd, err := r.q.Exec(context.Background(), query,
		s.ID, s.Estado, s.MontoSistema, s.MontoReal, s.Diferencia,
		s.UsuarioCierre, s.FechaCierre, nullIfEmpty(s.Observaciones),
	)
	if err != nil {
		return fmt.Errorf("close cash session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSessionClosed
	}
	return nil
}

// ListByStore lista el historial de cajas de la tienda, más recientes primero.
func (r *CashSessionRepo) ListByStore(storeID string, limit, offset int) ([]*entity.CashSession, error) {
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE store_id = $1 ORDER BY fecha_apertura DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashSession
	for rows.Next() {
		s, err := scanCashSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanCashSessionRow(row pgx.Row) (*entity.CashSession, error) {
	s, err := scanCashSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func scanCashSession(row pgx.Row) (*entity.CashSession, error) {
	var s entity.CashSession
	var usuarioCierre, observaciones *string
	var fechaCierre *time.Time
	err := row.Scan(
		&s.ID, &s.StoreID, &s.Estado, &s.MontoInicial, &s.MontoSistema,
		&s.MontoReal, &s.Diferencia, &s.UsuarioApertura, &usuarioCierre,
		&s.FechaApertura, &fechaCierre, &observaciones,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan cash session: %w", err)
	}
	if usuarioCierre != nil {
		s.UsuarioCierre = *usuarioCierre
	}
	if fechaCierre != nil {
		s.FechaCierre = *fechaCierre
	}
	if observaciones != nil {
		s.Observaciones = *observaciones
	}
	return &s, nil
}
