package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterPurchaseRequest body para POST /api/purchases.
type RegisterPurchaseRequest struct {
	SupplierID string          `json:"supplier_id"`
	ProductID  string          `json:"product_id"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	CostoTotal decimal.Decimal `json:"costo_total"`
}

// RegisterAdjustmentRequest body para POST /api/inventory/adjustments.
// Tipo ENTRADA suma stock, SALIDA resta (falla si no alcanza).
type RegisterAdjustmentRequest struct {
	ProductID string          `json:"product_id"`
	Tipo      string          `json:"tipo"`
	Cantidad  decimal.Decimal `json:"cantidad"`
	Motivo    string          `json:"motivo"`
}

// KardexQuery parámetros para GET /api/inventory/kardex/:productID.
type KardexQuery struct {
	PageRequest
	Order string `query:"order"` // asc | desc (default desc)
}

// StockMovementResponse una entrada del Kardex en respuestas.
type StockMovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Tipo         string          `json:"tipo"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	StockAntes   decimal.Decimal `json:"stock_antes"`
	StockDespues decimal.Decimal `json:"stock_despues"`
	Motivo       string          `json:"motivo"`
	ReferenciaID string          `json:"referencia_id,omitempty"`
	Fecha        time.Time       `json:"fecha"`
}

// ConsistencyResponse resultado de la verificación Kardex vs stock.
type ConsistencyResponse struct {
	ProductID   string          `json:"product_id"`
	StockActual decimal.Decimal `json:"stock_actual"`
	StockKardex decimal.Decimal `json:"stock_kardex"`
	Consistente bool            `json:"consistente"`
}
