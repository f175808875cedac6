package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Nombre       string          `json:"nombre"`
	CodigoBarras string          `json:"codigo_barras,omitempty"`
	StockInicial decimal.Decimal `json:"stock_inicial"`
	Costo        decimal.Decimal `json:"costo"`
	Precio       decimal.Decimal `json:"precio"` // CON IGV
	UnidadMedida string          `json:"unidad_medida,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
// No incluye stock ni costo: se mutan solo vía movimientos de inventario.
type UpdateProductRequest struct {
	Nombre       string          `json:"nombre"`
	CodigoBarras string          `json:"codigo_barras,omitempty"`
	Precio       decimal.Decimal `json:"precio"`
	UnidadMedida string          `json:"unidad_medida,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	CodigoBarras string          `json:"codigo_barras,omitempty"`
	Stock        decimal.Decimal `json:"stock"`
	Costo        decimal.Decimal `json:"costo"`
	Precio       decimal.Decimal `json:"precio"`
	UnidadMedida string          `json:"unidad_medida"`
}
