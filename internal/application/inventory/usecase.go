package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	domaininv "github.com/dquispe/tienda-pos/internal/domain/inventory"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
	"github.com/dquispe/tienda-pos/pkg/logger"
)

// UseCase es el ledger de stock: toda mutación de Product.Stock pasa por aquí
// y deja su asiento en el Kardex dentro de la misma transacción, con bloqueo
// de fila (SELECT FOR UPDATE) para serializar por producto.
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	movRepo      repository.StockMovementRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	movRepo repository.StockMovementRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		movRepo:      movRepo,
		log:          log,
	}
}

// DecrementInTx resta stock usando los repositorios del caller (misma
// transacción). Bloquea la fila del producto, verifica stock suficiente,
// actualiza y registra la SALIDA en el Kardex. Devuelve stock antes y después.
// Si retorna error el caller debe hacer rollback: nada queda aplicado a medias.
func (uc *UseCase) DecrementInTx(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	storeID, productID string,
	cantidad decimal.Decimal,
	motivo, referenciaID, userID string,
	now time.Time,
) (antes, despues decimal.Decimal, err error) {
	if !cantidad.GreaterThan(decimal.Zero) {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	p, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if p == nil || p.StoreID != storeID {
		return decimal.Zero, decimal.Zero, domain.ErrProductNotFound
	}
	if p.Stock.LessThan(cantidad) {
		return decimal.Zero, decimal.Zero, domain.ErrInsufficientStock
	}
	antes = p.Stock
	despues = antes.Sub(cantidad)
	if err := productRepo.UpdateStock(productID, despues); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if err := uc.recordKardex(movRepo, p, entity.MovementSalida, cantidad, antes, despues, motivo, referenciaID, userID, now); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return antes, despues, nil
}

// IncrementInTx suma stock (compras, anulaciones, ajustes a favor) usando los
// repositorios del caller. Sin tope superior. Registra la ENTRADA en el Kardex.
func (uc *UseCase) IncrementInTx(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	storeID, productID string,
	cantidad decimal.Decimal,
	motivo, referenciaID, userID string,
	now time.Time,
) (antes, despues decimal.Decimal, err error) {
	if !cantidad.GreaterThan(decimal.Zero) {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	p, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if p == nil || p.StoreID != storeID {
		return decimal.Zero, decimal.Zero, domain.ErrProductNotFound
	}
	antes = p.Stock
	despues = antes.Add(cantidad)
	if err := productRepo.UpdateStock(productID, despues); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if err := uc.recordKardex(movRepo, p, entity.MovementEntrada, cantidad, antes, despues, motivo, referenciaID, userID, now); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return antes, despues, nil
}

// recordKardex crea el asiento validando el invariante aritmético. Una
// violación indica un defecto de programación: se loguea con contexto completo
// y se aborta la transacción, nunca se repara en silencio.
func (uc *UseCase) recordKardex(
	movRepo repository.StockMovementRepository,
	p *entity.Product,
	tipo string,
	cantidad, antes, despues decimal.Decimal,
	motivo, referenciaID, userID string,
	now time.Time,
) error {
	mov := &entity.StockMovement{
		ID:           uuid.New().String(),
		StoreID:      p.StoreID,
		ProductID:    p.ID,
		Tipo:         tipo,
		Cantidad:     cantidad,
		StockAntes:   antes,
		StockDespues: despues,
		Motivo:       motivo,
		ReferenciaID: referenciaID,
		CreatedAt:    now,
		CreatedBy:    userID,
	}
	if !mov.CheckInvariant() {
		uc.log.Error().
			Str("product_id", p.ID).
			Str("tipo", tipo).
			Str("cantidad", cantidad.String()).
			Str("stock_antes", antes.String()).
			Str("stock_despues", despues.String()).
			Msg("asiento de kardex inconsistente")
		return domain.ErrInvariantViolation
	}
	return movRepo.Create(mov)
}

// RegisterPurchase registra una compra: valida proveedor y producto de la
// tienda, y en una sola transacción suma stock, asienta la ENTRADA en el
// Kardex, actualiza el costo promedio del producto y persiste la compra.
func (uc *UseCase) RegisterPurchase(ctx context.Context, storeID, userID string, in dto.RegisterPurchaseRequest) error {
	if in.SupplierID == "" || in.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if !in.Cantidad.GreaterThan(decimal.Zero) || in.CostoTotal.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}

	// Validaciones de pertenencia (solo lectura, fuera de la tx)
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil || supplier == nil || supplier.StoreID != storeID {
		return domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil || product.StoreID != storeID {
		return domain.ErrProductNotFound
	}

	now := time.Now()
	compra := &entity.Purchase{
		ID:         uuid.New().String(),
		StoreID:    storeID,
		SupplierID: in.SupplierID,
		ProductID:  in.ProductID,
		Cantidad:   in.Cantidad,
		CostoTotal: in.CostoTotal,
		Fecha:      now,
		CreatedBy:  userID,
	}
	costoUnitario := compra.CostoUnitario()
	motivo := fmt.Sprintf("Compra: ingreso de mercadería (Proveedor: %s)", supplier.RazonSocial)

	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		antes, _, err := uc.IncrementInTx(productRepo, movRepo, storeID, in.ProductID, in.Cantidad, motivo, compra.ID, userID, now)
		if err != nil {
			return err
		}
		nuevoCosto := domaininv.CostoPromedio(antes, product.Costo, in.Cantidad, costoUnitario)
		if err := productRepo.UpdateCost(in.ProductID, nuevoCosto); err != nil {
			return err
		}
		return purchaseRepo.Create(compra)
	})
}

// RegisterAdjustment registra un ajuste manual de stock (ENTRADA o SALIDA)
// con su motivo. Una SALIDA que dejaría stock negativo falla sin mutar nada.
func (uc *UseCase) RegisterAdjustment(ctx context.Context, storeID, userID string, in dto.RegisterAdjustmentRequest) error {
	if in.ProductID == "" || in.Motivo == "" {
		return domain.ErrInvalidInput
	}
	if !in.Cantidad.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	motivo := "Ajuste manual: " + in.Motivo
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.PurchaseRepository,
	) error {
		switch in.Tipo {
		case entity.MovementEntrada:
			_, _, err := uc.IncrementInTx(productRepo, movRepo, storeID, in.ProductID, in.Cantidad, motivo, "", userID, now)
			return err
		case entity.MovementSalida:
			_, _, err := uc.DecrementInTx(productRepo, movRepo, storeID, in.ProductID, in.Cantidad, motivo, "", userID, now)
			return err
		}
		return domain.ErrInvalidInput
	})
}

// History devuelve el Kardex de un producto, paginado y en orden cronológico
// (ascendente o descendente según el caller). Solo auditoría: el stock vigente
// es siempre el del producto, nunca se reconstruye desde aquí.
func (uc *UseCase) History(ctx context.Context, storeID, productID string, in dto.KardexQuery) ([]dto.StockMovementResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, domain.ErrProductNotFound
	}
	in.DefaultPage()
	asc := in.Order == "asc"
	movs, err := uc.movRepo.ListByProduct(productID, asc, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.StockMovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			Tipo:         m.Tipo,
			Cantidad:     m.Cantidad,
			StockAntes:   m.StockAntes,
			StockDespues: m.StockDespues,
			Motivo:       m.Motivo,
			ReferenciaID: m.ReferenciaID,
			Fecha:        m.CreatedAt,
		})
	}
	return out, nil
}

// CheckConsistency repite el Kardex completo de un producto desde cero y lo
// compara con el stock vigente. Un desacuerdo es un defecto (ErrInvariantViolation):
// se reporta, no se corrige.
func (uc *UseCase) CheckConsistency(ctx context.Context, storeID, productID string) (*dto.ConsistencyResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, domain.ErrProductNotFound
	}
	neto, err := uc.movRepo.NetQuantity(productID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ConsistencyResponse{
		ProductID:   productID,
		StockActual: product.Stock,
		StockKardex: neto,
		Consistente: product.Stock.Equal(neto),
	}
	if !resp.Consistente {
		uc.log.Error().
			Str("product_id", productID).
			Str("stock_actual", product.Stock.String()).
			Str("stock_kardex", neto.String()).
			Msg("kardex y stock no concilian")
		return resp, domain.ErrInvariantViolation
	}
	return resp, nil
}
