package credit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/application/billing"
	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
	"github.com/dquispe/tienda-pos/pkg/logger"
)

// UseCase es el ledger de crédito del cliente: los cargos nacen de ventas al
// crédito, los abonos bajan la deuda y dejan su INGRESO en la caja abierta.
// La deuda nunca es negativa.
type UseCase struct {
	txRunner     CreditTxRunner
	customerRepo repository.CustomerRepository
	log          *logger.Logger
}

// El caso de uso de crédito es el CreditLedger que consume facturación.
var _ billing.CreditLedger = (*UseCase)(nil)

// NewUseCase construye el caso de uso de crédito.
func NewUseCase(txRunner CreditTxRunner, customerRepo repository.CustomerRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, customerRepo: customerRepo, log: log}
}

// ChargeInTx sube la deuda del cliente usando el repositorio del caller
// (misma transacción que la emisión del comprobante).
func (uc *UseCase) ChargeInTx(customerRepo repository.CustomerRepository, storeID, customerID string, monto decimal.Decimal) error {
	if !monto.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	customer, err := customerRepo.GetForUpdate(customerID)
	if err != nil {
		return err
	}
	if customer == nil || customer.StoreID != storeID {
		return domain.ErrCustomerNotFound
	}
	return customerRepo.UpdateDeuda(customerID, customer.Deuda.Add(monto))
}

// ReverseInTx revierte un cargo (anulación de una venta al crédito). La deuda
// baja con piso en cero: si hubo abonos parciales no se vuelve negativa.
func (uc *UseCase) ReverseInTx(customerRepo repository.CustomerRepository, storeID, customerID string, monto decimal.Decimal) error {
	if !monto.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	customer, err := customerRepo.GetForUpdate(customerID)
	if err != nil {
		return err
	}
	if customer == nil || customer.StoreID != storeID {
		return domain.ErrCustomerNotFound
	}
	nueva := customer.Deuda.Sub(monto)
	if nueva.LessThan(decimal.Zero) {
		nueva = decimal.Zero
	}
	return customerRepo.UpdateDeuda(customerID, nueva)
}

// Pay registra el abono de un cliente: baja la deuda y asienta el INGRESO de
// efectivo en la caja abierta, atómicamente. Requiere caja abierta; un monto
// mayor a la deuda falla con ErrAmountExceedsBalance sin mutar nada.
func (uc *UseCase) Pay(ctx context.Context, storeID, userID, customerID string, in dto.PayCreditRequest) (*dto.CustomerResponse, error) {
	if !in.Monto.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var customer *entity.Customer
	err := uc.txRunner.RunCredit(ctx, func(
		customerRepo repository.CustomerRepository,
		sessionRepo repository.CashSessionRepository,
		movRepo repository.CashMovementRepository,
	) error {
		c, err := customerRepo.GetForUpdate(customerID)
		if err != nil {
			return err
		}
		if c == nil || c.StoreID != storeID {
			return domain.ErrCustomerNotFound
		}
		if in.Monto.GreaterThan(c.Deuda) {
			return domain.ErrAmountExceedsBalance
		}
		// Bloqueo compartido: el cobro no se solapa con un cierre en curso
		session, err := sessionRepo.GetOpenByStoreForShare(storeID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNoOpenSession
		}

		nueva := c.Deuda.Sub(in.Monto)
		if err := customerRepo.UpdateDeuda(customerID, nueva); err != nil {
			return err
		}
		nombre := c.NombreCompleto
		if nombre == "" {
			nombre = c.RazonSocial
		}
		mov := &entity.CashMovement{
			ID:        uuid.New().String(),
			SessionID: session.ID,
			Tipo:      entity.CajaIngreso,
			Monto:     in.Monto,
			Concepto:  fmt.Sprintf("Cobro crédito: %s", nombre),
			UsuarioID: userID,
			Fecha:     time.Now(),
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		c.Deuda = nueva
		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("store_id", storeID).
		Str("customer_id", customerID).
		Str("monto", in.Monto.String()).
		Str("deuda_restante", customer.Deuda.String()).
		Msg("cobro de crédito registrado")
	return &dto.CustomerResponse{
		ID:             customer.ID,
		NombreCompleto: customer.NombreCompleto,
		DNI:            customer.DNI,
		RazonSocial:    customer.RazonSocial,
		RUC:            customer.RUC,
		Telefono:       customer.Telefono,
		Email:          customer.Email,
		Deuda:          customer.Deuda,
	}, nil
}
