package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja.
const (
	CajaIngreso = "INGRESO"
	CajaEgreso  = "EGRESO"
)

// CashMovement es un movimiento manual de efectivo dentro de una caja abierta
// (pago de almuerzo, taxi, cobro de un crédito). Inmutable una vez creado.
type CashMovement struct {
	ID        string
	SessionID string
	Tipo      string          // INGRESO | EGRESO
	Monto     decimal.Decimal // siempre > 0
	Concepto  string
	UsuarioID string
	Fecha     time.Time
}
