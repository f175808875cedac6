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

// StoreUseCase administra tiendas (tenants).
type StoreUseCase struct {
	storeRepo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso de tiendas.
func NewStoreUseCase(storeRepo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{storeRepo: storeRepo}
}

// Create registra una tienda nueva.
func (uc *StoreUseCase) Create(ctx context.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if in.Nombre == "" {
		return nil, domain.ErrInvalidInput
	}
	store := &entity.Store{
		ID:        uuid.New().String(),
		Nombre:    in.Nombre,
		RUC:       in.RUC,
		Direccion: in.Direccion,
		CreatedAt: time.Now(),
	}
	if err := uc.storeRepo.Create(store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// Get obtiene una tienda por ID.
func (uc *StoreUseCase) Get(ctx context.Context, id string) (*dto.StoreResponse, error) {
	store, err := uc.storeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return toStoreResponse(store), nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:        s.ID,
		Nombre:    s.Nombre,
		RUC:       s.RUC,
		Direccion: s.Direccion,
	}
}
