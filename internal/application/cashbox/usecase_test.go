package cashbox_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquispe/tienda-pos/internal/application/cashbox"
	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/infrastructure/memory"
	"github.com/dquispe/tienda-pos/pkg/logger"
)

const (
	testStoreID = "store-1"
	testUserID  = "user-1"
)

func newCashboxUC(t *testing.T) (*cashbox.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := cashbox.NewUseCase(store, store.CashSessions(), store.CashMovements(), logger.Nop())
	return uc, store
}

// seedCashSale inserta una venta CONTADO ya emitida dentro del periodo de la
// caja (para el cálculo del monto sistema al cierre).
func seedCashSale(t *testing.T, store *memory.Store, total, estado string) {
	t.Helper()
	require.NoError(t, store.Comprobantes().Create(&entity.Comprobante{
		ID:           uuid.New().String(),
		StoreID:      testStoreID,
		Tipo:         entity.ComprobanteBoleta,
		Serie:        "B001",
		Numero:       time.Now().UnixNano(),
		FechaEmision: time.Now(),
		MetodoPago:   entity.PagoContado,
		Total:        decimal.RequireFromString(total),
		Estado:       estado,
	}))
}

func TestOpen_SegundaAperturaFalla(t *testing.T) {
	uc, _ := newCashboxUC(t)

	_, err := uc.Open(context.Background(), testStoreID, testUserID, dto.AperturaCajaRequest{
		MontoInicial: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	_, err = uc.Open(context.Background(), testStoreID, testUserID, dto.AperturaCajaRequest{
		MontoInicial: decimal.RequireFromString("50.00"),
	})
	require.ErrorIs(t, err, domain.ErrSessionAlreadyOpen, "a lo más una caja ABIERTA por tienda")

	// Otra tienda sí puede abrir la suya
	_, err = uc.Open(context.Background(), "store-2", testUserID, dto.AperturaCajaRequest{
		MontoInicial: decimal.Zero,
	})
	require.NoError(t, err)
}

func TestOpen_MontoNegativoEsInvalido(t *testing.T) {
	uc, _ := newCashboxUC(t)
	_, err := uc.Open(context.Background(), testStoreID, testUserID, dto.AperturaCajaRequest{
		MontoInicial: decimal.RequireFromString("-1"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordMovement_SinCajaAbierta(t *testing.T) {
	uc, _ := newCashboxUC(t)
	_, err := uc.RecordMovement(context.Background(), testStoreID, testUserID, dto.MovimientoCajaRequest{
		Tipo:     entity.CajaEgreso,
		Monto:    decimal.RequireFromString("10.00"),
		Concepto: "Taxi",
	})
	require.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestRecordMovement_Validaciones(t *testing.T) {
	uc, _ := newCashboxUC(t)
	_, err := uc.Open(context.Background(), testStoreID, testUserID, dto.AperturaCajaRequest{MontoInicial: decimal.Zero})
	require.NoError(t, err)

	_, err = uc.RecordMovement(context.Background(), testStoreID, testUserID, dto.MovimientoCajaRequest{
		Tipo: "TRANSFERENCIA", Monto: decimal.NewFromInt(1), Concepto: "x",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "solo INGRESO o EGRESO")

	_, err = uc.RecordMovement(context.Background(), testStoreID, testUserID, dto.MovimientoCajaRequest{
		Tipo: entity.CajaIngreso, Monto: decimal.Zero, Concepto: "x",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "el monto debe ser positivo")

	_, err = uc.RecordMovement(context.Background(), testStoreID, testUserID, dto.MovimientoCajaRequest{
		Tipo: entity.CajaIngreso, Monto: decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "el concepto es obligatorio")
}

// ──────────────────────────────────────────────────────────────────────────────
// TestClose_Arqueo valida la fórmula del cierre:
//
//	MontoSistema = inicial + ventas CONTADO del periodo + ingresos - egresos
//	             = 100.00  + 35.40                      + 20.00    - 10.00
//	             = 145.40
//	Diferencia   = MontoReal - MontoSistema = 140.00 - 145.40 = -5.40 (faltante)
//
// Las ventas ANULADAS y las ventas al crédito no entran al efectivo esperado.
// ──────────────────────────────────────────────────────────────────────────────
func TestClose_Arqueo(t *testing.T) {
	uc, store := newCashboxUC(t)
	_, err := uc.Open(context.Background(), testStoreID, testUserID, dto.AperturaCajaRequest{
		MontoInicial: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	seedCashSale(t, store, "35.40", entity.EstadoEmitido)
	seedCashSale(t, store, "99.99", entity.EstadoAnulado) // no cuenta

	_, err = uc.RecordMovement(context.Background(), testStoreID, testUserID, dto.MovimientoCajaRequest{
		Tipo: entity.CajaIngreso, Monto: decimal.RequireFromString("20.00"), Concepto: "Cobro crédito",
	})
	require.NoError(t, err)
	_, err = uc.RecordMovement(context.Background(), testStoreID, testUserID, dto.MovimientoCajaRequest{
		Tipo: entity.CajaEgreso, Monto: decimal.RequireFromString("10.00"), Concepto: "Almuerzo",
	})
	require.NoError(t, err)

	out, err := uc.Close(context.Background(), testStoreID, testUserID, dto.CierreCajaRequest{
		MontoReal: decimal.RequireFromString("140.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CajaCerrada, out.Estado)
	assert.True(t, out.MontoSistema.Equal(decimal.RequireFromString("145.40")),
		"el monto sistema debe ser 145.40, fue %s", out.MontoSistema)
	assert.True(t, out.Diferencia.Equal(decimal.RequireFromString("-5.40")),
		"la diferencia debe ser -5.40 (faltante), fue %s", out.Diferencia)
	require.NotNil(t, out.FechaCierre)
}

func TestClose_EsTerminal(t *testing.T) {
	uc, _ := newCashboxUC(t)
	_, err := uc.Open(context.Background(), testStoreID, testUserID, dto.AperturaCajaRequest{MontoInicial: decimal.Zero})
	require.NoError(t, err)
	_, err = uc.Close(context.Background(), testStoreID, testUserID, dto.CierreCajaRequest{MontoReal: decimal.Zero})
	require.NoError(t, err)

	// Sin caja abierta: ni cerrar de nuevo, ni registrar movimientos
	_, err = uc.Close(context.Background(), testStoreID, testUserID, dto.CierreCajaRequest{MontoReal: decimal.Zero})
	require.ErrorIs(t, err, domain.ErrNoOpenSession)
	_, err = uc.RecordMovement(context.Background(), testStoreID, testUserID, dto.MovimientoCajaRequest{
		Tipo: entity.CajaIngreso, Monto: decimal.NewFromInt(1), Concepto: "x",
	})
	require.ErrorIs(t, err, domain.ErrNoOpenSession)

	// Pero la tienda puede abrir una caja nueva
	_, err = uc.Open(context.Background(), testStoreID, testUserID, dto.AperturaCajaRequest{MontoInicial: decimal.Zero})
	require.NoError(t, err)
}

// TestClose_NoSeSolapaConMovimientos corre registros de movimientos en
// paralelo con el cierre. Pase lo que pase con el orden, todo movimiento que
// quedó asociado a la sesión debe estar contado en su monto sistema: nunca un
// movimiento colgado de una caja ya cerrada.
func TestClose_NoSeSolapaConMovimientos(t *testing.T) {
	uc, store := newCashboxUC(t)
	opened, err := uc.Open(context.Background(), testStoreID, testUserID, dto.AperturaCajaRequest{
		MontoInicial: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Tras el cierre el registro falla con ErrNoOpenSession; ambos
			// desenlaces son válidos, lo prohibido es el intermedio
			_, err := uc.RecordMovement(context.Background(), testStoreID, testUserID, dto.MovimientoCajaRequest{
				Tipo: entity.CajaIngreso, Monto: decimal.RequireFromString("10.00"), Concepto: "Cobro",
			})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrNoOpenSession)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := uc.Close(context.Background(), testStoreID, testUserID, dto.CierreCajaRequest{
			MontoReal: decimal.Zero,
		})
		assert.NoError(t, err)
	}()
	wg.Wait()

	closed, err := store.CashSessions().GetByID(opened.ID)
	require.NoError(t, err)
	require.Equal(t, entity.CajaCerrada, closed.Estado)

	movs, err := store.CashMovements().ListBySession(opened.ID, n, 0)
	require.NoError(t, err)
	ingresos := decimal.Zero
	for _, m := range movs {
		ingresos = ingresos.Add(m.Monto)
	}
	esperado := closed.MontoInicial.Add(ingresos)
	assert.True(t, closed.MontoSistema.Equal(esperado),
		"todo movimiento de la sesión debe estar en el monto sistema: %s vs %s", closed.MontoSistema, esperado)
}

func TestCurrent_SinCajaAbierta(t *testing.T) {
	uc, _ := newCashboxUC(t)
	_, err := uc.Current(context.Background(), testStoreID)
	require.ErrorIs(t, err, domain.ErrNoOpenSession)
}
