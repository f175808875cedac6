package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del Kardex.
const (
	MovementEntrada = "ENTRADA"
	MovementSalida  = "SALIDA"
)

// StockMovement es una entrada del Kardex: el registro cronológico e inmutable
// de cada cambio de stock de un producto. Nunca se actualiza ni se elimina;
// las anulaciones generan asientos compensatorios nuevos.
//
// Invariante: StockDespues = StockAntes ± Cantidad, y StockDespues debe
// coincidir con el stock del producto en el instante de creación (misma
// transacción que la mutación que registra).
type StockMovement struct {
	ID           string
	StoreID      string
	ProductID    string
	Tipo         string // ENTRADA | SALIDA
	Cantidad     decimal.Decimal
	StockAntes   decimal.Decimal
	StockDespues decimal.Decimal
	Motivo       string
	ReferenciaID string // comprobante o compra que originó el movimiento
	CreatedAt    time.Time
	CreatedBy    string
}

// CheckInvariant valida la aritmética del asiento: Cantidad > 0 y
// StockDespues = StockAntes + Cantidad (ENTRADA) o StockAntes - Cantidad (SALIDA).
func (m *StockMovement) CheckInvariant() bool {
	if !m.Cantidad.GreaterThan(decimal.Zero) {
		return false
	}
	switch m.Tipo {
	case MovementEntrada:
		return m.StockDespues.Equal(m.StockAntes.Add(m.Cantidad))
	case MovementSalida:
		return m.StockDespues.Equal(m.StockAntes.Sub(m.Cantidad))
	}
	return false
}
