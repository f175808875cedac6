package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase registra una compra de mercadería a un proveedor: suma stock al
// producto y genera una ENTRADA en el Kardex dentro de la misma transacción.
type Purchase struct {
	ID         string
	StoreID    string
	SupplierID string
	ProductID  string
	Cantidad   decimal.Decimal
	CostoTotal decimal.Decimal
	Fecha      time.Time
	CreatedBy  string
}

// CostoUnitario deriva el costo unitario de la compra (CostoTotal / Cantidad).
func (p *Purchase) CostoUnitario() decimal.Decimal {
	if !p.Cantidad.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return p.CostoTotal.Div(p.Cantidad).Round(2)
}
