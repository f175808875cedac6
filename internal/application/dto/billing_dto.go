package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemVenta una línea del carrito. PrecioUnitario (CON IGV) es opcional:
// cero o ausente usa el precio vigente del producto.
type ItemVenta struct {
	ProductID      string           `json:"product_id"`
	Cantidad       decimal.Decimal  `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
}

// EmitirComprobanteRequest body para POST /api/comprobantes.
type EmitirComprobanteRequest struct {
	Tipo          string      `json:"tipo"`   // BOLETA | FACTURA
	Serie         string      `json:"serie"`  // opcional: B001/F001 por defecto
	CustomerID    string      `json:"customer_id,omitempty"`
	MetodoPago    string      `json:"metodo_pago"` // CONTADO | CREDITO
	Observaciones string      `json:"observaciones,omitempty"`
	Items         []ItemVenta `json:"items"`
}

// DetalleResponse una línea del comprobante en respuestas.
type DetalleResponse struct {
	ID                   string          `json:"id"`
	ProductID            string          `json:"product_id"`
	Cantidad             decimal.Decimal `json:"cantidad"`
	PrecioUnitario       decimal.Decimal `json:"precio_unitario"`
	PrecioUnitarioConIGV decimal.Decimal `json:"precio_unitario_con_igv"`
	Subtotal             decimal.Decimal `json:"subtotal"`
}

// ComprobanteResponse cabecera + detalles.
type ComprobanteResponse struct {
	ID            string            `json:"id"`
	StoreID       string            `json:"store_id"`
	Tipo          string            `json:"tipo"`
	Serie         string            `json:"serie"`
	Numero        int64             `json:"numero"`
	FechaEmision  time.Time         `json:"fecha_emision"`
	CustomerID    string            `json:"customer_id,omitempty"`
	MetodoPago    string            `json:"metodo_pago"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	IGV           decimal.Decimal   `json:"igv"`
	Total         decimal.Decimal   `json:"total"`
	Estado        string            `json:"estado"`
	Observaciones string            `json:"observaciones,omitempty"`
	Detalles      []DetalleResponse `json:"detalles"`
}
