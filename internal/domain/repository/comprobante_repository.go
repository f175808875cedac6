package repository

import (
	"time"

	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComprobanteRepository define el puerto de persistencia para comprobantes.
type ComprobanteRepository interface {
	Create(c *entity.Comprobante) error
	CreateDetalle(d *entity.ComprobanteDetalle) error
	// NextNumero reserva el siguiente correlativo de la serie bloqueando la
	// fila del contador (document_series) hasta el commit. Solo debe
	// llamarse dentro de la transacción que crea el comprobante: así dos
	// emisiones concurrentes de la misma serie nunca observan el mismo número.
	NextNumero(storeID, tipo, serie string) (int64, error)
	GetByID(id string) (*entity.Comprobante, error)
	// GetForUpdate bloquea la fila del comprobante (guardia de anulación).
	GetForUpdate(id string) (*entity.Comprobante, error)
	UpdateEstado(id, estado string) error
	GetDetalles(comprobanteID string) ([]*entity.ComprobanteDetalle, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.Comprobante, error)
	// SumCashSalesSince suma los totales CONTADO no anulados emitidos desde
	// la apertura de caja (cálculo del monto sistema al cierre).
	SumCashSalesSince(storeID string, desde time.Time) (decimal.Decimal, error)
}
