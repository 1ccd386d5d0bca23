package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

// MaterialQuantityUseCase edición de recetas línea a línea.
type MaterialQuantityUseCase struct {
	repo   repository.MaterialQuantityRepository
	stores repository.StoreRepository
}

// NewMaterialQuantityUseCase construye el caso de uso.
func NewMaterialQuantityUseCase(repo repository.MaterialQuantityRepository, stores repository.StoreRepository) *MaterialQuantityUseCase {
	return &MaterialQuantityUseCase{repo: repo, stores: stores}
}

func positiveQuantity(q int64) error {
	if q <= 0 {
		return fmt.Errorf("%w: quantity debe ser un entero positivo (recibido %d)", domain.ErrInvalidArgument, q)
	}
	return nil
}

// Create agrega un material a la receta de un producto.
func (uc *MaterialQuantityUseCase) Create(ctx context.Context, in dto.CreateMaterialQuantityRequest) (*dto.MaterialQuantityResponse, error) {
	if err := positiveQuantity(in.Quantity); err != nil {
		return nil, err
	}
	mq := &entity.MaterialQuantity{ProductID: in.Product, MaterialID: in.Material, Quantity: in.Quantity}
	if err := uc.repo.Create(ctx, mq); err != nil {
		return nil, err
	}
	return toMaterialQuantityResponse(mq), nil
}

// Get obtiene una línea de receta.
func (uc *MaterialQuantityUseCase) Get(ctx context.Context, id int64) (*dto.MaterialQuantityResponse, error) {
	mq, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaterialQuantityResponse(mq), nil
}

// Update cambia la cantidad requerida.
func (uc *MaterialQuantityUseCase) Update(ctx context.Context, id int64, in dto.UpdateMaterialQuantityRequest) (*dto.MaterialQuantityResponse, error) {
	if err := positiveQuantity(in.Quantity); err != nil {
		return nil, err
	}
	mq := &entity.MaterialQuantity{ID: id, Quantity: in.Quantity}
	if err := uc.repo.Update(ctx, mq); err != nil {
		return nil, err
	}
	return toMaterialQuantityResponse(mq), nil
}

// Delete quita la línea de la receta.
func (uc *MaterialQuantityUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// List líneas de receta de los productos que ofrece la tienda del principal.
func (uc *MaterialQuantityUseCase) List(ctx context.Context, userID int64) ([]dto.MaterialQuantityResponse, error) {
	store, err := uc.stores.GetByUser(ctx, userID)
	if err != nil || store == nil {
		return nil, err
	}
	list, err := uc.repo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialQuantityResponse, 0, len(list))
	for _, mq := range list {
		out = append(out, *toMaterialQuantityResponse(mq))
	}
	return out, nil
}

func toMaterialQuantityResponse(mq *entity.MaterialQuantity) *dto.MaterialQuantityResponse {
	return &dto.MaterialQuantityResponse{
		ID:       mq.ID,
		Product:  mq.ProductID,
		Material: mq.MaterialID,
		Quantity: mq.Quantity,
	}
}
