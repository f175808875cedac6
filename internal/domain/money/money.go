// Package money centraliza la aritmética monetaria del núcleo: punto fijo
// (shopspring/decimal) a 2 decimales con redondeo half-up, e IGV con tasa
// fija. Nunca se usa float64 en montos ni cantidades.
package money

import "github.com/shopspring/decimal"

// TasaIGV es la tasa fija del impuesto (18%).
var TasaIGV = decimal.New(18, -2)

var uno = decimal.NewFromInt(1)

// Round2 redondea a 2 decimales half-up (decimal.Round redondea la mitad
// alejándose de cero, que para montos positivos equivale a half-up).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PrecioSinIGV desglosa el IGV de un precio final: precio / (1 + tasa),
// redondeado a 2 decimales.
func PrecioSinIGV(precioConIGV decimal.Decimal) decimal.Decimal {
	return Round2(precioConIGV.Div(uno.Add(TasaIGV)))
}

// SubtotalLinea calcula cantidad * precio unitario sin IGV, redondeado.
func SubtotalLinea(cantidad, precioUnitarioSinIGV decimal.Decimal) decimal.Decimal {
	return Round2(cantidad.Mul(precioUnitarioSinIGV))
}

// TotalConIGV aplica la tasa sobre el subtotal: subtotal * (1 + tasa),
// redondeado. El IGV del comprobante es Total - Subtotal, de modo que siempre
// se cumple Total = Subtotal + IGV sin residuos de redondeo.
func TotalConIGV(subtotal decimal.Decimal) decimal.Decimal {
	return Round2(subtotal.Mul(uno.Add(TasaIGV)))
}
