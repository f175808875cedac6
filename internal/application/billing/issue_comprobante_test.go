package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquispe/tienda-pos/internal/application/billing"
	"github.com/dquispe/tienda-pos/internal/application/credit"
	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/application/inventory"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/infrastructure/memory"
	"github.com/dquispe/tienda-pos/pkg/logger"
)

const (
	testStoreID = "store-1"
	testUserID  = "user-1"
)

// fixture arma el grafo completo de casos de uso sobre el almacén en memoria:
// el ledger de inventario y el de crédito son los mismos que usa producción.
type fixture struct {
	store   *memory.Store
	invUC   *inventory.UseCase
	credUC  *credit.UseCase
	issueUC *billing.IssueUseCase
	voidUC  *billing.VoidUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	invUC := inventory.NewUseCase(store, store.Products(), store.Suppliers(), store.StockMovements(), logger.Nop())
	credUC := credit.NewUseCase(store, store.Customers(), logger.Nop())
	return &fixture{
		store:   store,
		invUC:   invUC,
		credUC:  credUC,
		issueUC: billing.NewIssueUseCase(store, invUC, credUC, store.Products(), store.Customers(), store.Comprobantes()),
		voidUC:  billing.NewVoidUseCase(store, invUC, credUC),
	}
}

func (f *fixture) seedProduct(t *testing.T, stock, precio string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:           uuid.New().String(),
		StoreID:      testStoreID,
		Nombre:       "Gaseosa 500ml",
		Stock:        decimal.RequireFromString(stock),
		Costo:        decimal.RequireFromString("5.00"),
		Precio:       decimal.RequireFromString(precio),
		UnidadMedida: "UND",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, f.store.Products().Create(p))
	return p
}

func (f *fixture) seedSupplier(t *testing.T) *entity.Supplier {
	t.Helper()
	s := &entity.Supplier{
		ID:          uuid.New().String(),
		StoreID:     testStoreID,
		RazonSocial: "Distribuidora Andina SAC",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, f.store.Suppliers().Create(s))
	return s
}

func (f *fixture) seedCustomer(t *testing.T, deuda string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{
		ID:             uuid.New().String(),
		StoreID:        testStoreID,
		NombreCompleto: "María Quispe",
		DNI:            "45678912",
		Deuda:          decimal.RequireFromString(deuda),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, f.store.Customers().Create(c))
	return c
}

func (f *fixture) openSession(t *testing.T) *entity.CashSession {
	t.Helper()
	s := &entity.CashSession{
		ID:            uuid.New().String(),
		StoreID:       testStoreID,
		Estado:        entity.CajaAbierta,
		MontoInicial:  decimal.RequireFromString("100.00"),
		FechaApertura: time.Now(),
	}
	require.NoError(t, f.store.CashSessions().Create(s))
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// TestIssue_VentaContado valida el camino completo de una venta al contado:
// caja abierta, desglose de IGV, correlativo, descuento de stock y Kardex.
//
//	3 x 11.80 (CON IGV) -> Subtotal 30.00, IGV 5.40, Total 35.40
// ──────────────────────────────────────────────────────────────────────────────
func TestIssue_VentaContado(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "10", "11.80")

	out, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:       entity.ComprobanteBoleta,
		MetodoPago: entity.PagoContado,
		Items:      []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	assert.Equal(t, "B001", out.Serie, "la serie por defecto de una boleta es B001")
	assert.Equal(t, int64(1), out.Numero, "el correlativo de la serie inicia en 1")
	assert.Equal(t, entity.EstadoEmitido, out.Estado)
	assert.True(t, out.Subtotal.Equal(decimal.RequireFromString("30.00")), "subtotal fue %s", out.Subtotal)
	assert.True(t, out.IGV.Equal(decimal.RequireFromString("5.40")), "IGV fue %s", out.IGV)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("35.40")), "total fue %s", out.Total)
	require.Len(t, out.Detalles, 1)
	assert.True(t, out.Detalles[0].PrecioUnitario.Equal(decimal.RequireFromString("10.00")),
		"el precio unitario de la línea va SIN IGV")

	// Efectos colaterales: stock descontado y SALIDA asentada con referencia
	got, err := f.store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(7)), "el stock debe bajar a 7, fue %s", got.Stock)
	movs, err := f.store.StockMovements().ListByProduct(p.ID, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementSalida, movs[0].Tipo)
	assert.Equal(t, out.ID, movs[0].ReferenciaID, "el asiento debe referenciar el comprobante")
}

func TestIssue_SinCajaAbierta(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "10", "11.80")

	_, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:  entity.ComprobanteBoleta,
		Items: []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(1)}},
	})
	require.ErrorIs(t, err, domain.ErrNoOpenSession)

	// Nada quedó a medias
	got, err := f.store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(10)), "el stock no debe cambiar")
	comps, err := f.store.Comprobantes().ListByStore(testStoreID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, comps, "no debe existir ningún comprobante")
}

func TestIssue_StockInsuficienteEnMedioDelCarrito(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p1 := f.seedProduct(t, "10", "11.80")
	p2 := f.seedProduct(t, "1", "5.90")

	_, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo: entity.ComprobanteBoleta,
		Items: []dto.ItemVenta{
			{ProductID: p1.ID, Cantidad: decimal.NewFromInt(2)},
			{ProductID: p2.ID, Cantidad: decimal.NewFromInt(5)}, // no alcanza
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: la primera línea tampoco descontó
	got1, err := f.store.Products().GetByID(p1.ID)
	require.NoError(t, err)
	assert.True(t, got1.Stock.Equal(decimal.NewFromInt(10)), "el stock de la primera línea debe revertirse")
	movs, err := f.store.StockMovements().ListByProduct(p1.ID, true, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "no debe quedar ningún asiento de Kardex")
	comps, err := f.store.Comprobantes().ListByStore(testStoreID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, comps)
}

func TestIssue_VentaCreditoCargaDeuda(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "10", "11.80")
	customer := f.seedCustomer(t, "0")

	out, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:       entity.ComprobanteFactura,
		CustomerID: customer.ID,
		MetodoPago: entity.PagoCredito,
		Items:      []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	assert.Equal(t, "F001", out.Serie, "la serie por defecto de una factura es F001")
	assert.Equal(t, entity.EstadoPendiente, out.Estado, "una venta al crédito queda PENDIENTE")

	got, err := f.store.Customers().GetByID(customer.ID)
	require.NoError(t, err)
	assert.True(t, got.Deuda.Equal(out.Total),
		"la deuda del cliente debe ser el total del comprobante: %s vs %s", got.Deuda, out.Total)
}

func TestIssue_CreditoSinClienteEsInvalido(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "10", "11.80")

	_, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:       entity.ComprobanteBoleta,
		MetodoPago: entity.PagoCredito,
		Items:      []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(1)}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestIssue_CongelaCostoVigenteEnElDetalle verifica que la foto de costo de la
// línea sale del producto leído bajo bloqueo dentro de la transacción de
// emisión: una compra previa que movió el costo promedio a 7.50 debe verse en
// el detalle, no el costo con el que se sembró el producto.
func TestIssue_CongelaCostoVigenteEnElDetalle(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "10", "11.80") // costo inicial 5.00
	supplier := f.seedSupplier(t)

	// 10 unidades por 100.00: promedio = (10*5.00 + 10*10.00) / 20 = 7.50
	err := f.invUC.RegisterPurchase(context.Background(), testStoreID, testUserID, dto.RegisterPurchaseRequest{
		SupplierID: supplier.ID,
		ProductID:  p.ID,
		Cantidad:   decimal.NewFromInt(10),
		CostoTotal: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	out, err := f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
		Tipo:  entity.ComprobanteBoleta,
		Items: []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)

	detalles, err := f.store.Comprobantes().GetDetalles(out.ID)
	require.NoError(t, err)
	require.Len(t, detalles, 1)
	assert.True(t, detalles[0].CostoUnitario.Equal(decimal.RequireFromString("7.50")),
		"el detalle debe congelar el costo vigente al emitir (7.50), fue %s", detalles[0].CostoUnitario)
}

func TestIssue_CorrelativoContiguoBajoConcurrencia(t *testing.T) {
	f := newFixture(t)
	f.openSession(t)
	p := f.seedProduct(t, "100", "11.80")

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.issueUC.Issue(context.Background(), testStoreID, testUserID, dto.EmitirComprobanteRequest{
				Tipo:  entity.ComprobanteBoleta,
				Items: []dto.ItemVenta{{ProductID: p.ID, Cantidad: decimal.NewFromInt(1)}},
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	comps, err := f.store.Comprobantes().ListByStore(testStoreID, n, 0)
	require.NoError(t, err)
	require.Len(t, comps, n)
	vistos := make(map[int64]bool, n)
	for _, c := range comps {
		assert.False(t, vistos[c.Numero], "el correlativo %d no debe repetirse", c.Numero)
		vistos[c.Numero] = true
	}
	for numero := int64(1); numero <= n; numero++ {
		assert.True(t, vistos[numero], "la serie debe ser contigua: falta el número %d", numero)
	}

	got, err := f.store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(90)), "el stock final debe ser 90, fue %s", got.Stock)
}
