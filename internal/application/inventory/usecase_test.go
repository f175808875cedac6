package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func newInventoryUC(t *testing.T) (*inventory.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := inventory.NewUseCase(store, store.Products(), store.Suppliers(), store.StockMovements(), logger.Nop())
	return uc, store
}

func seedProduct(t *testing.T, store *memory.Store, stock, costo string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:           uuid.New().String(),
		StoreID:      testStoreID,
		Nombre:       "Gaseosa 500ml",
		Stock:        decimal.RequireFromString(stock),
		Costo:        decimal.RequireFromString(costo),
		Precio:       decimal.RequireFromString("11.80"),
		UnidadMedida: "UND",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, store.Products().Create(p))
	return p
}

func seedSupplier(t *testing.T, store *memory.Store) *entity.Supplier {
	t.Helper()
	s := &entity.Supplier{
		ID:          uuid.New().String(),
		StoreID:     testStoreID,
		RazonSocial: "Distribuidora Andina SAC",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, store.Suppliers().Create(s))
	return s
}

func TestRegisterAdjustment_EntradaSumaStockYAsientaKardex(t *testing.T) {
	uc, store := newInventoryUC(t)
	p := seedProduct(t, store, "10", "5.00")

	err := uc.RegisterAdjustment(context.Background(), testStoreID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: p.ID,
		Tipo:      entity.MovementEntrada,
		Cantidad:  decimal.NewFromInt(5),
		Motivo:    "Inventario físico",
	})
	require.NoError(t, err)

	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(15)), "el stock debe quedar en 15, fue %s", got.Stock)

	movs, err := store.StockMovements().ListByProduct(p.ID, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1, "debe existir exactamente un asiento de Kardex")
	assert.Equal(t, entity.MovementEntrada, movs[0].Tipo)
	assert.True(t, movs[0].StockAntes.Equal(decimal.NewFromInt(10)))
	assert.True(t, movs[0].StockDespues.Equal(decimal.NewFromInt(15)))
	assert.True(t, movs[0].CheckInvariant(), "el asiento debe cumplir el invariante aritmético")
}

func TestRegisterAdjustment_SalidaSinStockNoMutaNada(t *testing.T) {
	uc, store := newInventoryUC(t)
	p := seedProduct(t, store, "3", "5.00")

	err := uc.RegisterAdjustment(context.Background(), testStoreID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: p.ID,
		Tipo:      entity.MovementSalida,
		Cantidad:  decimal.NewFromInt(5),
		Motivo:    "Merma",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback total: ni stock ni Kardex cambiaron
	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(3)), "el stock no debe cambiar tras el rechazo")
	movs, err := store.StockMovements().ListByProduct(p.ID, true, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "no debe quedar ningún asiento de Kardex")
}

func TestRegisterAdjustment_ProductoDeOtraTienda(t *testing.T) {
	uc, store := newInventoryUC(t)
	p := seedProduct(t, store, "10", "5.00")

	err := uc.RegisterAdjustment(context.Background(), "otra-tienda", testUserID, dto.RegisterAdjustmentRequest{
		ProductID: p.ID,
		Tipo:      entity.MovementEntrada,
		Cantidad:  decimal.NewFromInt(1),
		Motivo:    "Ajuste",
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRegisterPurchase_ActualizaStockYCostoPromedio(t *testing.T) {
	uc, store := newInventoryUC(t)
	p := seedProduct(t, store, "10", "5.00")
	supplier := seedSupplier(t, store)

	// 10 unidades por 100.00 (costo unitario 10.00):
	// promedio = (10*5.00 + 10*10.00) / 20 = 7.50
	err := uc.RegisterPurchase(context.Background(), testStoreID, testUserID, dto.RegisterPurchaseRequest{
		SupplierID: supplier.ID,
		ProductID:  p.ID,
		Cantidad:   decimal.NewFromInt(10),
		CostoTotal: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	got, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(20)), "el stock debe quedar en 20, fue %s", got.Stock)
	assert.True(t, got.Costo.Equal(decimal.RequireFromString("7.50")),
		"el costo promedio debe ser 7.50, fue %s", got.Costo)

	compras, err := store.Purchases().ListByStore(testStoreID, 10, 0)
	require.NoError(t, err)
	require.Len(t, compras, 1)
	movs, err := store.StockMovements().ListByProduct(p.ID, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, compras[0].ID, movs[0].ReferenciaID, "el asiento debe referenciar la compra")
}

func TestHistory_OrdenCronologico(t *testing.T) {
	uc, store := newInventoryUC(t)
	p := seedProduct(t, store, "0", "0")

	for i := 1; i <= 3; i++ {
		err := uc.RegisterAdjustment(context.Background(), testStoreID, testUserID, dto.RegisterAdjustmentRequest{
			ProductID: p.ID,
			Tipo:      entity.MovementEntrada,
			Cantidad:  decimal.NewFromInt(int64(i)),
			Motivo:    "Carga",
		})
		require.NoError(t, err)
	}

	asc, err := uc.History(context.Background(), testStoreID, p.ID, dto.KardexQuery{Order: "asc"})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.True(t, asc[0].Cantidad.Equal(decimal.NewFromInt(1)), "ascendente: el primer asiento es el más antiguo")
	assert.True(t, asc[2].StockDespues.Equal(decimal.NewFromInt(6)))

	desc, err := uc.History(context.Background(), testStoreID, p.ID, dto.KardexQuery{})
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.True(t, desc[0].Cantidad.Equal(decimal.NewFromInt(3)), "descendente: el primer asiento es el más reciente")
}

func TestCheckConsistency_KardexConciliaConStock(t *testing.T) {
	uc, store := newInventoryUC(t)
	p := seedProduct(t, store, "0", "0")

	err := uc.RegisterAdjustment(context.Background(), testStoreID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: p.ID,
		Tipo:      entity.MovementEntrada,
		Cantidad:  decimal.NewFromInt(8),
		Motivo:    "Carga inicial",
	})
	require.NoError(t, err)

	out, err := uc.CheckConsistency(context.Background(), testStoreID, p.ID)
	require.NoError(t, err)
	assert.True(t, out.Consistente)
	assert.True(t, out.StockActual.Equal(out.StockKardex))
}

func TestCheckConsistency_DetectaEscrituraDirecta(t *testing.T) {
	uc, store := newInventoryUC(t)
	p := seedProduct(t, store, "0", "0")

	// Una escritura directa (fuera del ledger) rompe la conciliación
	require.NoError(t, store.Products().UpdateStock(p.ID, decimal.NewFromInt(99)))

	out, err := uc.CheckConsistency(context.Background(), testStoreID, p.ID)
	require.ErrorIs(t, err, domain.ErrInvariantViolation)
	require.NotNil(t, out, "la respuesta debe incluir el detalle del descuadre")
	assert.False(t, out.Consistente)
	assert.True(t, out.StockActual.Equal(decimal.NewFromInt(99)))
	assert.True(t, out.StockKardex.IsZero())
}
