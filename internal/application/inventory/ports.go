package inventory

import (
	"context"

	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger de stock:
// mutación del producto y asiento de Kardex se confirman o revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}
