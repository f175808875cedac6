package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la tienda (persona o empresa).
// Deuda es el saldo de crédito acumulado (≥ 0): sube con ventas al crédito y
// baja con los pagos; cada pago registra además un INGRESO en la caja abierta.
type Customer struct {
	ID             string
	StoreID        string
	NombreCompleto string
	DNI            string
	RazonSocial    string
	RUC            string
	Telefono       string
	Email          string
	Deuda          decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
