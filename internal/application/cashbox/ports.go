package cashbox

import (
	"context"

	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// CashboxTxRunner ejecuta una función dentro de una transacción con los
// repositorios de caja y comprobantes (el cierre consulta las ventas CONTADO
// del periodo para calcular el monto sistema).
type CashboxTxRunner interface {
	RunCashbox(ctx context.Context, fn func(
		sessionRepo repository.CashSessionRepository,
		movRepo repository.CashMovementRepository,
		comprobanteRepo repository.ComprobanteRepository,
	) error) error
}
