package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dquispe/tienda-pos/internal/domain/inventory"
)

func TestCostoPromedio(t *testing.T) {
	// 10 unidades a 5.00 + 10 unidades a 10.00 = costo promedio 7.50
	got := inventory.CostoPromedio(
		decimal.NewFromInt(10), decimal.RequireFromString("5.00"),
		decimal.NewFromInt(10), decimal.RequireFromString("10.00"),
	)
	assert.True(t, got.Equal(decimal.RequireFromString("7.50")),
		"el costo promedio debe ser 7.50, fue %s", got)
}

func TestCostoPromedio_SinStockPrevio(t *testing.T) {
	// Con stock cero el promedio es directamente el costo de la entrada
	got := inventory.CostoPromedio(
		decimal.Zero, decimal.Zero,
		decimal.NewFromInt(4), decimal.RequireFromString("2.50"),
	)
	assert.True(t, got.Equal(decimal.RequireFromString("2.50")),
		"sin stock previo el costo debe ser el de la compra, fue %s", got)
}

func TestCostoPromedio_TotalCero(t *testing.T) {
	got := inventory.CostoPromedio(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(9))
	assert.True(t, got.IsZero(), "con cantidades cero el costo debe ser cero")
}
