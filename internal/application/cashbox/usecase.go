package cashbox

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
	"github.com/dquispe/tienda-pos/pkg/logger"
)

// UseCase administra la caja diaria: apertura, movimientos manuales de
// efectivo y cierre con arqueo. El invariante de una sola caja ABIERTA por
// tienda lo garantiza la base (índice único parcial sobre estado='ABIERTA');
// aquí se traduce la violación a ErrSessionAlreadyOpen.
type UseCase struct {
	txRunner    CashboxTxRunner
	sessionRepo repository.CashSessionRepository
	movRepo     repository.CashMovementRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso de caja.
func NewUseCase(
	txRunner CashboxTxRunner,
	sessionRepo repository.CashSessionRepository,
	movRepo repository.CashMovementRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		sessionRepo: sessionRepo,
		movRepo:     movRepo,
		log:         log,
	}
}

// Open abre la caja del día con el fondo inicial. Si la tienda ya tiene una
// caja ABIERTA devuelve ErrSessionAlreadyOpen.
func (uc *UseCase) Open(ctx context.Context, storeID, userID string, in dto.AperturaCajaRequest) (*dto.CashSessionResponse, error) {
	if in.MontoInicial.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	session := &entity.CashSession{
		ID:              uuid.New().String(),
		StoreID:         storeID,
		Estado:          entity.CajaAbierta,
		MontoInicial:    in.MontoInicial,
		UsuarioApertura: userID,
		FechaApertura:   time.Now(),
	}
	if err := uc.sessionRepo.Create(session); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrSessionAlreadyOpen
		}
		return nil, err
	}
	uc.log.Info().
		Str("store_id", storeID).
		Str("session_id", session.ID).
		Str("monto_inicial", in.MontoInicial.String()).
		Msg("caja abierta")
	return toSessionResponse(session), nil
}

// RecordMovement registra un INGRESO o EGRESO manual en la caja abierta de la
// tienda. Sin caja abierta devuelve ErrNoOpenSession.
func (uc *UseCase) RecordMovement(ctx context.Context, storeID, userID string, in dto.MovimientoCajaRequest) (*dto.CashMovementResponse, error) {
	if in.Tipo != entity.CajaIngreso && in.Tipo != entity.CajaEgreso {
		return nil, domain.ErrInvalidInput
	}
	if !in.Monto.GreaterThan(decimal.Zero) || in.Concepto == "" {
		return nil, domain.ErrInvalidInput
	}

	var mov *entity.CashMovement
	err := uc.txRunner.RunCashbox(ctx, func(
		sessionRepo repository.CashSessionRepository,
		movRepo repository.CashMovementRepository,
		_ repository.ComprobanteRepository,
	) error {
		// Bloqueo compartido: el movimiento no se solapa con un cierre en
		// curso, así nunca queda colgado de una sesión ya cerrada
		session, err := sessionRepo.GetOpenByStoreForShare(storeID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNoOpenSession
		}
		mov = &entity.CashMovement{
			ID:        uuid.New().String(),
			SessionID: session.ID,
			Tipo:      in.Tipo,
			Monto:     in.Monto,
			Concepto:  in.Concepto,
			UsuarioID: userID,
			Fecha:     time.Now(),
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov), nil
}

// Close cierra la caja abierta de la tienda con arqueo. Calcula el monto
// sistema (fondo inicial + ventas CONTADO del periodo + ingresos - egresos),
// registra el monto contado por el operador y la diferencia. Terminal: la
// sesión cerrada no admite más mutaciones.
func (uc *UseCase) Close(ctx context.Context, storeID, userID string, in dto.CierreCajaRequest) (*dto.CashSessionResponse, error) {
	if in.MontoReal.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var session *entity.CashSession
	err := uc.txRunner.RunCashbox(ctx, func(
		sessionRepo repository.CashSessionRepository,
		movRepo repository.CashMovementRepository,
		comprobanteRepo repository.ComprobanteRepository,
	) error {
		// Bloquea la fila: dos cierres concurrentes no cierran dos veces
		s, err := sessionRepo.GetOpenByStoreForUpdate(storeID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNoOpenSession
		}

		ventas, err := comprobanteRepo.SumCashSalesSince(storeID, s.FechaApertura)
		if err != nil {
			return err
		}
		ingresos, err := movRepo.SumBySession(s.ID, entity.CajaIngreso)
		if err != nil {
			return err
		}
		egresos, err := movRepo.SumBySession(s.ID, entity.CajaEgreso)
		if err != nil {
			return err
		}

		s.MontoSistema = s.MontoInicial.Add(ventas).Add(ingresos).Sub(egresos)
		s.MontoReal = in.MontoReal
		s.Diferencia = in.MontoReal.Sub(s.MontoSistema)
		s.Estado = entity.CajaCerrada
		s.UsuarioCierre = userID
		s.FechaCierre = time.Now()
		s.Observaciones = in.Observaciones
		if err := sessionRepo.Close(s); err != nil {
			return err
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	evt := uc.log.Info()
	if !session.Diferencia.IsZero() {
		// Un descuadre no bloquea el cierre, pero queda advertido
		evt = uc.log.Warn()
	}
	evt.
		Str("store_id", storeID).
		Str("session_id", session.ID).
		Str("monto_sistema", session.MontoSistema.String()).
		Str("monto_real", session.MontoReal.String()).
		Str("diferencia", session.Diferencia.String()).
		Msg("caja cerrada")
	return toSessionResponse(session), nil
}

// Current devuelve la caja abierta de la tienda, o ErrNoOpenSession.
func (uc *UseCase) Current(ctx context.Context, storeID string) (*dto.CashSessionResponse, error) {
	session, err := uc.sessionRepo.GetOpenByStore(storeID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoOpenSession
	}
	return toSessionResponse(session), nil
}

// ListMovements lista los movimientos manuales de una sesión de la tienda.
func (uc *UseCase) ListMovements(ctx context.Context, storeID, sessionID string, page dto.PageRequest) ([]dto.CashMovementResponse, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	movs, err := uc.movRepo.ListBySession(sessionID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// ListSessions lista el historial de cajas de la tienda.
func (uc *UseCase) ListSessions(ctx context.Context, storeID string, page dto.PageRequest) ([]dto.CashSessionResponse, error) {
	page.DefaultPage()
	sessions, err := uc.sessionRepo.ListByStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, *toSessionResponse(s))
	}
	return out, nil
}

func toSessionResponse(s *entity.CashSession) *dto.CashSessionResponse {
	resp := &dto.CashSessionResponse{
		ID:            s.ID,
		StoreID:       s.StoreID,
		Estado:        s.Estado,
		MontoInicial:  s.MontoInicial,
		MontoSistema:  s.MontoSistema,
		MontoReal:     s.MontoReal,
		Diferencia:    s.Diferencia,
		FechaApertura: s.FechaApertura,
	}
	if !s.FechaCierre.IsZero() {
		fc := s.FechaCierre
		resp.FechaCierre = &fc
	}
	return resp
}

func toMovementResponse(m *entity.CashMovement) *dto.CashMovementResponse {
	return &dto.CashMovementResponse{
		ID:       m.ID,
		Tipo:     m.Tipo,
		Monto:    m.Monto,
		Concepto: m.Concepto,
		Fecha:    m.Fecha,
	}
}
