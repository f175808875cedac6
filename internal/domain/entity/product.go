package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la tienda.
// Stock es decimal para permitir ventas fraccionadas (1.5 metros, 0.25 kg).
// Invariante: Stock nunca es negativo; se muta solo a través del ledger de
// inventario (nunca con escrituras directas).
type Product struct {
	ID           string
	StoreID      string
	Nombre       string
	CodigoBarras string
	Stock        decimal.Decimal
	Costo        decimal.Decimal // costo de reposición (último costo de compra)
	Precio       decimal.Decimal // precio de venta CON IGV
	UnidadMedida string          // UND, MTS, KG, LTS, CAJA
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
