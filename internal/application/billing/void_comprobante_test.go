package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
)

func TestVoid_ReponeStockConAsientoCompensatorio(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "10", "11.80")

	emitido, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:  entity.ComprobanteBoleta,
		Items: []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)

	anulado, err := f.voidUC.Void(context.Background(), testStoreID, testUserID, emitido.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoAnulado, anulado.Estado)

	// El stock vuelve y la historia queda completa: SALIDA + ENTRADA compensatoria
	got, err := f.store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(10)), "el stock debe volver a 10, fue %s", got.Stock)

	movs, err := f.store.StockMovements().ListByProduct(p.ID, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2, "la anulación asienta, nunca borra")
	assert.Equal(t, entity.MovementSalida, movs[0].Tipo)
	assert.Equal(t, entity.MovementEntrada, movs[1].Tipo)
	assert.Equal(t, emitido.ID, movs[1].ReferenciaID, "el asiento compensatorio referencia el comprobante anulado")
}

func TestVoid_DobleAnulacionFalla(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "10", "11.80")

	emitido, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:  entity.ComprobanteBoleta,
		Items: []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)

	_, err = f.voidUC.Void(context.Background(), testStoreID, testUserID, emitido.ID)
	require.NoError(t, err)
	_, err = f.voidUC.Void(context.Background(), testStoreID, testUserID, emitido.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyVoid)

	// La segunda anulación no repuso de nuevo
	got, err := f.store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(10)), "el stock no debe reponerse dos veces")
}

func TestVoid_ComprobanteDeOtraTienda(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "10", "11.80")

	emitido, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:  entity.ComprobanteBoleta,
		Items: []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	_, err = f.voidUC.Void(context.Background(), "otra-tienda", testUserID, emitido.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoid_VentaCreditoRevierteDeuda(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "10", "11.80")
	customer := f.seedCustomer(t, "0")

	emitido, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:       entity.ComprobanteFactura,
		CustomerID: customer.ID,
		MetodoPago: entity.PagoCredito,
		Items:      []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	_, err = f.voidUC.Void(context.Background(), testStoreID, testUserID, emitido.ID)
	require.NoError(t, err)

	got, err := f.store.Customers().GetByID(customer.ID)
	require.NoError(t, err)
	assert.True(t, got.Deuda.IsZero(), "la deuda debe volver a cero, fue %s", got.Deuda)
}

func TestVoid_ReversaConPisoEnCero(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "10", "11.80")
	customer := f.seedCustomer(t, "0")

	emitido, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:       entity.ComprobanteFactura,
		CustomerID: customer.ID,
		MetodoPago: entity.PagoCredito,
		Items:      []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(3)}}, // total 35.40
	})
	require.NoError(t, err)

	// El cliente abona 30.00 antes de la anulación
	_, err = f.credUC.Pay(context.Background(), testStoreID, testUserID, customer.ID, dto.PayCreditRequest{
		Monto: decimal.RequireFromString("30.00"),
	})
	require.NoError(t, err)

	// Al anular, la reversa de 35.40 sobre una deuda de 5.40 queda en cero,
	// nunca negativa
	_, err = f.voidUC.Void(context.Background(), testStoreID, testUserID, emitido.ID)
	require.NoError(t, err)

	got, err := f.store.Customers().GetByID(customer.ID)
	require.NoError(t, err)
	assert.True(t, got.Deuda.IsZero(), "la deuda debe quedar en cero (piso), fue %s", got.Deuda)
}
