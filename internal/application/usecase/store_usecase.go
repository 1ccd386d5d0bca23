package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

// StoreUseCase CRUD de la tienda del principal. Cada usuario tiene como máximo una tienda
// y sólo ve la suya: una tienda ajena se reporta como no encontrada.
type StoreUseCase struct {
	repo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo}
}

// ownStore tienda del principal o ErrNotFound si aún no creó una.
func ownStore(ctx context.Context, stores repository.StoreRepository, userID int64) (*entity.Store, error) {
	store, err := stores.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: el usuario no tiene tienda", domain.ErrNotFound)
	}
	return store, nil
}

// Create crea la tienda del principal.
func (uc *StoreUseCase) Create(ctx context.Context, userID int64, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidArgument)
	}
	now := time.Now()
	store := &entity.Store{
		Name:       name,
		UserID:     userID,
		ProductIDs: in.ProductIDs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// List devuelve la tienda del principal (vacío si no tiene).
func (uc *StoreUseCase) List(ctx context.Context, userID int64) ([]dto.StoreResponse, error) {
	store, err := uc.repo.GetByUser(ctx, userID)
	if err != nil || store == nil {
		return nil, err
	}
	return []dto.StoreResponse{*toStoreResponse(store)}, nil
}

// Get obtiene una tienda del principal por ID.
func (uc *StoreUseCase) Get(ctx context.Context, userID, id int64) (*dto.StoreResponse, error) {
	store, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// Update renombra la tienda.
func (uc *StoreUseCase) Update(ctx context.Context, userID, id int64, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidArgument)
		}
		store.Name = name
	}
	if err := uc.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// SetProducts reemplaza los productos que ofrece la tienda.
func (uc *StoreUseCase) SetProducts(ctx context.Context, userID, id int64, in dto.SetStoreProductsRequest) (*dto.StoreResponse, error) {
	if _, err := uc.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := uc.repo.SetProducts(ctx, id, in.ProductIDs); err != nil {
		return nil, err
	}
	return uc.Get(ctx, userID, id)
}

// Delete elimina la tienda y su stock.
func (uc *StoreUseCase) Delete(ctx context.Context, userID, id int64) error {
	if _, err := uc.owned(ctx, userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *StoreUseCase) owned(ctx context.Context, userID, id int64) (*entity.Store, error) {
	store, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store.UserID != userID {
		return nil, fmt.Errorf("%w: tienda %d", domain.ErrNotFound, id)
	}
	return store, nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	ids := s.ProductIDs
	if ids == nil {
		ids = []int64{}
	}
	return &dto.StoreResponse{
		ID:         s.ID,
		Name:       s.Name,
		UserID:     s.UserID,
		ProductIDs: ids,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
