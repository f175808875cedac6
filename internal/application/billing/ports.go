package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repositorios de inventario, comprobantes, clientes y caja. Toda la
// emisión (stock, Kardex, correlativo, deuda) se confirma o revierte junta.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		comprobanteRepo repository.ComprobanteRepository,
		customerRepo repository.CustomerRepository,
		sessionRepo repository.CashSessionRepository,
	) error) error
}

// StockLedger integra facturación con el ledger de inventario: las salidas y
// entradas se ejecutan con los repositorios del caller (misma transacción).
// Si retorna error (ej: ErrInsufficientStock) el caller hace rollback.
type StockLedger interface {
	DecrementInTx(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		storeID, productID string,
		cantidad decimal.Decimal,
		motivo, referenciaID, userID string,
		now time.Time,
	) (antes, despues decimal.Decimal, err error)
	IncrementInTx(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		storeID, productID string,
		cantidad decimal.Decimal,
		motivo, referenciaID, userID string,
		now time.Time,
	) (antes, despues decimal.Decimal, err error)
}

// CreditLedger integra facturación con el ledger de crédito del cliente.
type CreditLedger interface {
	// ChargeInTx sube la deuda del cliente usando el repositorio del caller.
	ChargeInTx(customerRepo repository.CustomerRepository, storeID, customerID string, monto decimal.Decimal) error
	// ReverseInTx revierte un cargo con piso en cero (anulaciones).
	ReverseInTx(customerRepo repository.CustomerRepository, storeID, customerID string, monto decimal.Decimal) error
}
