package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dquispe/tienda-pos/internal/application/billing"
	"github.com/dquispe/tienda-pos/internal/application/cashbox"
	"github.com/dquispe/tienda-pos/internal/application/credit"
	"github.com/dquispe/tienda-pos/internal/application/inventory"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// El mismo runner sirve a los cuatro casos de uso transaccionales.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ billing.BillingTxRunner = (*TxRunner)(nil)
var _ cashbox.CashboxTxRunner = (*TxRunner)(nil)
var _ credit.CreditTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL: abre la tx,
// construye repositorios atados a ella y hace Commit si fn retorna nil,
// Rollback si no.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción de inventario: producto + Kardex + compras.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewStockMovementRepository(tx), NewPurchaseRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBilling transacción de emisión/anulación de comprobantes.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	comprobanteRepo repository.ComprobanteRepository,
	customerRepo repository.CustomerRepository,
	sessionRepo repository.CashSessionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewProductRepository(tx),
		NewStockMovementRepository(tx),
		NewComprobanteRepository(tx),
		NewCustomerRepository(tx),
		NewCashSessionRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCashbox transacción de caja: sesiones, movimientos y ventas del periodo.
func (r *TxRunner) RunCashbox(ctx context.Context, fn func(
	sessionRepo repository.CashSessionRepository,
	movRepo repository.CashMovementRepository,
	comprobanteRepo repository.ComprobanteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCashSessionRepository(tx), NewCashMovementRepository(tx), NewComprobanteRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCredit transacción de cobro de crédito: deuda + ingreso de caja.
func (r *TxRunner) RunCredit(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	sessionRepo repository.CashSessionRepository,
	movRepo repository.CashMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCustomerRepository(tx), NewCashSessionRepository(tx), NewCashMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
