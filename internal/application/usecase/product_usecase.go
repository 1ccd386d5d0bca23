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

// ProductUseCase CRUD de productos. La receta se crea junto al producto y luego se edita
// línea a línea con MaterialQuantityUseCase.
type ProductUseCase struct {
	repo   repository.ProductRepository
	stores repository.StoreRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, stores repository.StoreRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, stores: stores}
}

// Create crea un producto con su receta.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidArgument)
	}
	recipe := make([]entity.MaterialQuantity, 0, len(in.Recipe))
	for i, line := range in.Recipe {
		if line.Quantity <= 0 {
			return nil, domain.NewLineError(i, "quantity", domain.ErrInvalidArgument,
				"la cantidad de receta debe ser positiva (recibido %d)", line.Quantity)
		}
		recipe = append(recipe, entity.MaterialQuantity{MaterialID: line.Material, Quantity: line.Quantity})
	}
	now := time.Now()
	p := &entity.Product{Name: name, Recipe: recipe, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Get obtiene un producto con su receta.
func (uc *ProductUseCase) Get(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update renombra el producto.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidArgument)
		}
		p.Name = name
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Delete elimina el producto, su receta y su oferta en las tiendas.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// List productos ofrecidos por la tienda del principal.
func (uc *ProductUseCase) List(ctx context.Context, userID int64) ([]dto.ProductResponse, error) {
	store, err := uc.stores.GetByUser(ctx, userID)
	if err != nil || store == nil {
		return nil, err
	}
	list, err := uc.repo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	recipe := make([]dto.RecipeLineDTO, 0, len(p.Recipe))
	for _, rl := range p.Recipe {
		recipe = append(recipe, dto.RecipeLineDTO{Material: rl.MaterialID, Quantity: rl.Quantity})
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Recipe:    recipe,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
