package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/domain/repository"
)

// CustomerUseCase CRUD de clientes de la tienda.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customerRepo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

// Create registra un cliente nuevo con deuda en cero.
func (uc *CustomerUseCase) Create(ctx context.Context, storeID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.NombreCompleto == "" && in.RazonSocial == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:             uuid.New().String(),
		StoreID:        storeID,
		NombreCompleto: in.NombreCompleto,
		DNI:            in.DNI,
		RazonSocial:    in.RazonSocial,
		RUC:            in.RUC,
		Telefono:       in.Telefono,
		Email:          in.Email,
		Deuda:          decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get obtiene un cliente de la tienda.
func (uc *CustomerUseCase) Get(ctx context.Context, storeID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.StoreID != storeID {
		return nil, domain.ErrCustomerNotFound
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes de la tienda con paginación.
func (uc *CustomerUseCase) List(ctx context.Context, storeID string, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	page.DefaultPage()
	customers, err := uc.customerRepo.ListByStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID,
		NombreCompleto: c.NombreCompleto,
		DNI:            c.DNI,
		RazonSocial:    c.RazonSocial,
		RUC:            c.RUC,
		Telefono:       c.Telefono,
		Email:          c.Email,
		Deuda:          c.Deuda,
	}
}
