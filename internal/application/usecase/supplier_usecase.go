package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// SupplierUseCase administra proveedores de la tienda.
type SupplierUseCase struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso de proveedores.
func NewSupplierUseCase(supplierRepo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{supplierRepo: supplierRepo}
}

// Create registra un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, storeID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.RazonSocial == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier := &entity.Supplier{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		RazonSocial: in.RazonSocial,
		RUC:         in.RUC,
		Direccion:   in.Direccion,
		Telefono:    in.Telefono,
		Email:       in.Email,
		CreatedAt:   time.Now(),
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Get obtiene un proveedor de la tienda.
func (uc *SupplierUseCase) Get(ctx context.Context, storeID, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores de la tienda.
func (uc *SupplierUseCase) List(ctx context.Context, storeID string, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.DefaultPage()
	suppliers, err := uc.supplierRepo.ListByStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		RazonSocial: s.RazonSocial,
		RUC:         s.RUC,
		Direccion:   s.Direccion,
		Telefono:    s.Telefono,
		Email:       s.Email,
	}
}
