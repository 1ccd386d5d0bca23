package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

// MaterialUseCase CRUD de materiales (catálogo compartido). El listado se limita a los
// materiales que la tienda del principal tiene en stock.
type MaterialUseCase struct {
	repo   repository.MaterialRepository
	stores repository.StoreRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository, stores repository.StoreRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, stores: stores}
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidArgument)
	}
	if !p.Equal(p.Round(2)) {
		return fmt.Errorf("%w: price admite como máximo 2 decimales", domain.ErrInvalidArgument)
	}
	return nil
}

// Create crea un material.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidArgument)
	}
	if in.Price == nil {
		return nil, fmt.Errorf("%w: price es requerido", domain.ErrInvalidArgument)
	}
	if err := validatePrice(*in.Price); err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.Material{Name: name, Price: *in.Price, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Get obtiene un material por ID.
func (uc *MaterialUseCase) Get(ctx context.Context, id int64) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Update actualiza nombre y/o precio.
func (uc *MaterialUseCase) Update(ctx context.Context, id int64, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidArgument)
		}
		m.Name = name
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		m.Price = *in.Price
	}
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Delete elimina el material (y en cascada su stock y líneas de receta).
func (uc *MaterialUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// List materiales en stock de la tienda del principal.
func (uc *MaterialUseCase) List(ctx context.Context, userID int64) ([]dto.MaterialResponse, error) {
	store, err := uc.stores.GetByUser(ctx, userID)
	if err != nil || store == nil {
		return nil, err
	}
	list, err := uc.repo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMaterialResponse(m))
	}
	return out, nil
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:        m.ID,
		Name:      m.Name,
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
