package credit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquispe/tienda-pos/internal/application/credit"
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

func newCreditUC(t *testing.T) (*credit.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := credit.NewUseCase(store, store.Customers(), logger.Nop())
	return uc, store
}

func seedCustomer(t *testing.T, store *memory.Store, deuda string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{
		ID:             uuid.New().String(),
		StoreID:        testStoreID,
		NombreCompleto: "María Quispe",
		Deuda:          decimal.RequireFromString(deuda),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, store.Customers().Create(c))
	return c
}

func openSession(t *testing.T, store *memory.Store) *entity.CashSession {
	t.Helper()
	s := &entity.CashSession{
		ID:            uuid.New().String(),
		StoreID:       testStoreID,
		Estado:        entity.CajaAbierta,
		FechaApertura: time.Now(),
	}
	require.NoError(t, store.CashSessions().Create(s))
	return s
}

func TestPay_BajaDeudaYAsientaIngresoEnCaja(t *testing.T) {
	uc, store := newCreditUC(t)
	customer := seedCustomer(t, store, "50.00")
	session := openSession(t, store)

	out, err := uc.Pay(context.Background(), testStoreID, testUserID, customer.ID, dto.PayCreditRequest{
		Monto: decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)
	assert.True(t, out.Deuda.Equal(decimal.RequireFromString("30.00")),
		"la deuda debe bajar a 30.00, fue %s", out.Deuda)

	movs, err := store.CashMovements().ListBySession(session.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1, "el abono asienta exactamente un movimiento de caja")
	assert.Equal(t, entity.CajaIngreso, movs[0].Tipo)
	assert.True(t, movs[0].Monto.Equal(decimal.RequireFromString("20.00")))
	assert.Equal(t, "Cobro crédito: María Quispe", movs[0].Concepto)
}

func TestPay_MontoMayorALaDeudaNoMutaNada(t *testing.T) {
	uc, store := newCreditUC(t)
	customer := seedCustomer(t, store, "10.00")
	session := openSession(t, store)

	_, err := uc.Pay(context.Background(), testStoreID, testUserID, customer.ID, dto.PayCreditRequest{
		Monto: decimal.RequireFromString("10.01"),
	})
	require.ErrorIs(t, err, domain.ErrAmountExceedsBalance)

	got, err := store.Customers().GetByID(customer.ID)
	require.NoError(t, err)
	assert.True(t, got.Deuda.Equal(decimal.RequireFromString("10.00")), "la deuda no debe cambiar")
	movs, err := store.CashMovements().ListBySession(session.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "no debe quedar ningún movimiento de caja")
}

func TestPay_SinCajaAbierta(t *testing.T) {
	uc, store := newCreditUC(t)
	customer := seedCustomer(t, store, "50.00")

	_, err := uc.Pay(context.Background(), testStoreID, testUserID, customer.ID, dto.PayCreditRequest{
		Monto: decimal.RequireFromString("20.00"),
	})
	require.ErrorIs(t, err, domain.ErrNoOpenSession)

	got, err := store.Customers().GetByID(customer.ID)
	require.NoError(t, err)
	assert.True(t, got.Deuda.Equal(decimal.RequireFromString("50.00")), "la deuda no debe cambiar sin caja")
}

func TestPay_ClienteDeOtraTienda(t *testing.T) {
	uc, store := newCreditUC(t)
	customer := seedCustomer(t, store, "50.00")
	openSession(t, store)

	_, err := uc.Pay(context.Background(), "otra-tienda", testUserID, customer.ID, dto.PayCreditRequest{
		Monto: decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestReverseInTx_PisoEnCero(t *testing.T) {
	uc, store := newCreditUC(t)
	customer := seedCustomer(t, store, "5.40")

	err := uc.ReverseInTx(store.Customers(), testStoreID, customer.ID, decimal.RequireFromString("35.40"))
	require.NoError(t, err)

	got, err := store.Customers().GetByID(customer.ID)
	require.NoError(t, err)
	assert.True(t, got.Deuda.IsZero(), "la reversa nunca deja deuda negativa, fue %s", got.Deuda)
}

func TestChargeInTx_AcumulaDeuda(t *testing.T) {
	uc, store := newCreditUC(t)
	customer := seedCustomer(t, store, "10.00")

	require.NoError(t, uc.ChargeInTx(store.Customers(), testStoreID, customer.ID, decimal.RequireFromString("25.50")))

	got, err := store.Customers().GetByID(customer.ID)
	require.NoError(t, err)
	assert.True(t, got.Deuda.Equal(decimal.RequireFromString("35.50")),
		"la deuda debe acumular a 35.50, fue %s", got.Deuda)
}
