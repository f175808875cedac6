package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la caja diaria.
const (
	CajaAbierta = "ABIERTA"
	CajaCerrada = "CERRADA"
)

// CashSession (caja diaria) acota el periodo en que se controla el efectivo
// del cajón de una tienda. A lo más una ABIERTA por tienda. El cierre es
// terminal: calcula MontoSistema, registra MontoReal contado por el operador
// y la Diferencia (positivo sobra, negativo falta). No se reabre.
type CashSession struct {
	ID              string
	StoreID         string
	Estado          string // ABIERTA | CERRADA
	MontoInicial    decimal.Decimal
	MontoSistema    decimal.Decimal // calculado al cierre
	MontoReal       decimal.Decimal // contado por el operador al cierre
	Diferencia      decimal.Decimal // MontoReal - MontoSistema
	UsuarioApertura string
	UsuarioCierre   string
	FechaApertura   time.Time
	FechaCierre     time.Time
	Observaciones   string
}
