package credit

import (
	"context"

	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// CreditTxRunner ejecuta una función dentro de una transacción con los
// repositorios de clientes y caja: el cobro de un crédito baja la deuda y
// registra el INGRESO de efectivo en el mismo commit.
type CreditTxRunner interface {
	RunCredit(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		sessionRepo repository.CashSessionRepository,
		movRepo repository.CashMovementRepository,
	) error) error
}
