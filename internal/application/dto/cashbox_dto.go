package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AperturaCajaRequest body para POST /api/caja/apertura.
type AperturaCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial"`
}

// MovimientoCajaRequest body para POST /api/caja/movimientos.
type MovimientoCajaRequest struct {
	Tipo     string          `json:"tipo"` // INGRESO | EGRESO
	Monto    decimal.Decimal `json:"monto"`
	Concepto string          `json:"concepto"`
}

// CierreCajaRequest body para POST /api/caja/cierre.
type CierreCajaRequest struct {
	MontoReal     decimal.Decimal `json:"monto_real"`
	Observaciones string          `json:"observaciones,omitempty"`
}

// CashSessionResponse estado de una caja diaria.
type CashSessionResponse struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	Estado        string          `json:"estado"`
	MontoInicial  decimal.Decimal `json:"monto_inicial"`
	MontoSistema  decimal.Decimal `json:"monto_sistema"`
	MontoReal     decimal.Decimal `json:"monto_real"`
	Diferencia    decimal.Decimal `json:"diferencia"`
	FechaApertura time.Time       `json:"fecha_apertura"`
	FechaCierre   *time.Time      `json:"fecha_cierre,omitempty"`
}

// CashMovementResponse un movimiento de caja en respuestas.
type CashMovementResponse struct {
	ID       string          `json:"id"`
	Tipo     string          `json:"tipo"`
	Monto    decimal.Decimal `json:"monto"`
	Concepto string          `json:"concepto"`
	Fecha    time.Time       `json:"fecha"`
}
