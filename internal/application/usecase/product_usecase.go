package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/application/inventory"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// ProductUseCase CRUD de productos. El stock inicial no se escribe directo:
// el producto nace con stock cero y el stock inicial entra como ajuste ENTRADA
// del ledger, para que todo el stock tenga su asiento en el Kardex.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	inv         *inventory.UseCase
}

// NewProductUseCase construye el caso de uso de productos.
func NewProductUseCase(productRepo repository.ProductRepository, inv *inventory.UseCase) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, inv: inv}
}

// Create registra un producto. Si StockInicial > 0 registra además el ajuste
// de entrada "Stock inicial".
func (uc *ProductUseCase) Create(ctx context.Context, storeID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Nombre == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StockInicial.LessThan(decimal.Zero) || in.Costo.LessThan(decimal.Zero) || in.Precio.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.CodigoBarras != "" {
		existing, err := uc.productRepo.GetByStoreAndBarcode(storeID, in.CodigoBarras)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	unidad := in.UnidadMedida
	if unidad == "" {
		unidad = "UND"
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		StoreID:      storeID,
		Nombre:       in.Nombre,
		CodigoBarras: in.CodigoBarras,
		Stock:        decimal.Zero,
		Costo:        in.Costo,
		Precio:       in.Precio,
		UnidadMedida: unidad,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	if in.StockInicial.GreaterThan(decimal.Zero) {
		err := uc.inv.RegisterAdjustment(ctx, storeID, userID, dto.RegisterAdjustmentRequest{
			ProductID: product.ID,
			Tipo:      entity.MovementEntrada,
			Cantidad:  in.StockInicial,
			Motivo:    "Stock inicial",
		})
		if err != nil {
			return nil, err
		}
		product.Stock = in.StockInicial
	}
	return toProductResponse(product), nil
}

// Get obtiene un producto de la tienda.
func (uc *ProductUseCase) Get(ctx context.Context, storeID, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// GetByBarcode busca un producto por código de barras (escaneo en el punto
// de venta).
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, storeID, codigoBarras string) (*dto.ProductResponse, error) {
	if codigoBarras == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByStoreAndBarcode(storeID, codigoBarras)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza los datos comerciales del producto. Stock y costo quedan
// fuera: se mutan solo vía movimientos de inventario.
func (uc *ProductUseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Nombre == "" || in.Precio.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, domain.ErrProductNotFound
	}
	product.Nombre = in.Nombre
	product.CodigoBarras = in.CodigoBarras
	product.Precio = in.Precio
	if in.UnidadMedida != "" {
		product.UnidadMedida = in.UnidadMedida
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la tienda con paginación.
func (uc *ProductUseCase) List(ctx context.Context, storeID string, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.ListByStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Nombre:       p.Nombre,
		CodigoBarras: p.CodigoBarras,
		Stock:        p.Stock,
		Costo:        p.Costo,
		Precio:       p.Precio,
		UnidadMedida: p.UnidadMedida,
	}
}
