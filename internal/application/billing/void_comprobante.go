package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// VoidUseCase anula un comprobante: repone el stock de cada línea con asientos
// compensatorios de ENTRADA en el Kardex (la historia nunca se borra), revierte
// el cargo de crédito si lo hubo y marca el comprobante ANULADO. Atómico y con
// guardia de idempotencia: anular un ANULADO falla con ErrAlreadyVoid.
type VoidUseCase struct {
	txRunner BillingTxRunner
	ledger   StockLedger
	credit   CreditLedger
}

// NewVoidUseCase construye el caso de uso.
func NewVoidUseCase(txRunner BillingTxRunner, ledger StockLedger, credit CreditLedger) *VoidUseCase {
	return &VoidUseCase{txRunner: txRunner, ledger: ledger, credit: credit}
}

// Void anula el comprobante indicado.
func (uc *VoidUseCase) Void(ctx context.Context, storeID, userID, comprobanteID string) (*dto.ComprobanteResponse, error) {
	now := time.Now()
	var comp *entity.Comprobante
	var detalles []*entity.ComprobanteDetalle

	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		comprobanteRepo repository.ComprobanteRepository,
		customerRepo repository.CustomerRepository,
		_ repository.CashSessionRepository,
	) error {
		// Bloquea la fila: dos anulaciones concurrentes no duplican la reposición
		c, err := comprobanteRepo.GetForUpdate(comprobanteID)
		if err != nil {
			return err
		}
		if c == nil || c.StoreID != storeID {
			return domain.ErrNotFound
		}
		if c.Estado == entity.EstadoAnulado {
			return domain.ErrAlreadyVoid
		}
		comp = c

		detalles, err = comprobanteRepo.GetDetalles(c.ID)
		if err != nil {
			return err
		}
		motivo := fmt.Sprintf("Anulación: %s %s-%d", c.Tipo, c.Serie, c.Numero)
		for _, d := range detalles {
			if _, _, err := uc.ledger.IncrementInTx(
				productRepo, movRepo,
				storeID, d.ProductID,
				d.Cantidad, motivo, c.ID, userID, now,
			); err != nil {
				return err
			}
		}

		// Venta al crédito: revertir el cargo con piso en cero (si hubo pagos
		// parciales la deuda no se vuelve negativa)
		if c.MetodoPago == entity.PagoCredito && c.CustomerID != "" {
			if err := uc.credit.ReverseInTx(customerRepo, storeID, c.CustomerID, c.Total); err != nil {
				return err
			}
		}

		if err := comprobanteRepo.UpdateEstado(c.ID, entity.EstadoAnulado); err != nil {
			return err
		}
		comp.Estado = entity.EstadoAnulado
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toComprobanteResponse(comp, detalles), nil
}
