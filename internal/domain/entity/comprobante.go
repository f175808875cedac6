package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante.
const (
	ComprobanteBoleta  = "BOLETA"
	ComprobanteFactura = "FACTURA"
)

// Estados del comprobante.
const (
	EstadoEmitido   = "EMITIDO"
	EstadoAnulado   = "ANULADO"
	EstadoPendiente = "PENDIENTE" // venta al crédito, pago pendiente
	// EstadoPagado existe para datos importados y consultas, pero ninguna
	// operación lo asigna: la deuda se lleva por cliente, no por comprobante,
	// así que un PENDIENTE no transiciona a PAGADO al cobrar.
	EstadoPagado = "PAGADO"
)

// Métodos de pago.
const (
	PagoContado = "CONTADO"
	PagoCredito = "CREDITO"
)

// Comprobante es un documento de venta emitido (boleta o factura).
// Su identidad fiscal es (tienda, tipo, serie, número): única y creciente por
// serie, asignada dentro de la misma transacción que crea la fila.
// Inmutable después de la emisión salvo el estado (anulación, pago).
type Comprobante struct {
	ID            string
	StoreID       string
	Tipo          string // BOLETA | FACTURA
	Serie         string // B001, F001
	Numero        int64  // correlativo por (tienda, tipo, serie), inicia en 1
	FechaEmision  time.Time
	CustomerID    string // opcional; obligatorio en ventas al crédito
	MetodoPago    string // CONTADO | CREDITO
	Subtotal      decimal.Decimal
	IGV           decimal.Decimal
	Total         decimal.Decimal // Subtotal + IGV
	Estado        string
	Observaciones string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ComprobanteDetalle es una línea del comprobante. CostoUnitario es una foto
// del costo del producto al momento de la venta (no cambia si el costo del
// producto cambia después).
type ComprobanteDetalle struct {
	ID                   string
	ComprobanteID        string
	ProductID            string
	Cantidad             decimal.Decimal
	PrecioUnitario       decimal.Decimal // SIN IGV
	PrecioUnitarioConIGV decimal.Decimal // precio final de venta
	CostoUnitario        decimal.Decimal
	Subtotal             decimal.Decimal // Cantidad * PrecioUnitario (SIN IGV)
}
