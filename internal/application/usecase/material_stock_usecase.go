package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	appinventory "github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/inventory"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

// MaterialStockUseCase edición directa de las filas de stock de la tienda del principal.
// Toda escritura pasa por el Capacity Guard.
type MaterialStockUseCase struct {
	repo     repository.MaterialStockRepository
	stores   repository.StoreRepository
	txRunner appinventory.TxRunner
}

// NewMaterialStockUseCase construye el caso de uso. Las ediciones corren en txRunner
// con la fila bloqueada, igual que los lotes de reposición y venta.
func NewMaterialStockUseCase(repo repository.MaterialStockRepository, stores repository.StoreRepository, txRunner appinventory.TxRunner) *MaterialStockUseCase {
	return &MaterialStockUseCase{repo: repo, stores: stores, txRunner: txRunner}
}

// Create agrega un material al stock. Store se puede omitir (0) y se usa la tienda del principal.
func (uc *MaterialStockUseCase) Create(ctx context.Context, userID int64, in dto.CreateMaterialStockRequest) (*dto.MaterialStockResponse, error) {
	store, err := ownStore(ctx, uc.stores, userID)
	if err != nil {
		return nil, err
	}
	if in.Store != 0 && in.Store != store.ID {
		return nil, fmt.Errorf("%w: la tienda %d no pertenece al usuario", domain.ErrForbidden, in.Store)
	}
	row := &entity.MaterialStock{
		StoreID:         store.ID,
		MaterialID:      in.Material,
		MaxCapacity:     entity.DefaultMaxCapacity,
		CurrentCapacity: entity.DefaultCurrentCapacity,
	}
	if in.MaxCapacity != nil {
		row.MaxCapacity = *in.MaxCapacity
	}
	if in.CurrentCapacity != nil {
		row.CurrentCapacity = *in.CurrentCapacity
	}
	if err := inventory.ValidateCapacity(row.CurrentCapacity, row.MaxCapacity); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, row); err != nil {
		return nil, err
	}
	return toMaterialStockResponse(row), nil
}

// Get obtiene una fila de la tienda del principal.
func (uc *MaterialStockUseCase) Get(ctx context.Context, userID, id int64) (*dto.MaterialStockResponse, error) {
	row, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toMaterialStockResponse(row), nil
}

// Update edita capacidades. max no puede quedar por debajo del stock actual.
// La fila se relee bloqueada dentro de la tx: sólo cambian los campos enviados y el
// Capacity Guard valida contra el valor vigente, no contra una lectura previa.
func (uc *MaterialStockUseCase) Update(ctx context.Context, userID, id int64, in dto.UpdateMaterialStockRequest) (*dto.MaterialStockResponse, error) {
	found, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var row *entity.MaterialStock
	err = uc.txRunner.Run(ctx, func(repos appinventory.Repos) error {
		locked, err := repos.Stocks.LockByMaterials(ctx, found.StoreID, []int64{found.MaterialID})
		if err != nil {
			return err
		}
		for _, r := range locked {
			if r.ID == id {
				row = r
			}
		}
		if row == nil {
			return fmt.Errorf("%w: stock %d", domain.ErrNotFound, id)
		}
		if in.CurrentCapacity != nil {
			row.CurrentCapacity = *in.CurrentCapacity
		}
		if in.MaxCapacity != nil {
			if err := inventory.ValidateMaxCapacityEdit(row.CurrentCapacity, *in.MaxCapacity); err != nil {
				return err
			}
			row.MaxCapacity = *in.MaxCapacity
		}
		if err := inventory.ValidateCapacity(row.CurrentCapacity, row.MaxCapacity); err != nil {
			return err
		}
		return repos.Stocks.Update(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	return toMaterialStockResponse(row), nil
}

// Delete quita el material del stock de la tienda.
func (uc *MaterialStockUseCase) Delete(ctx context.Context, userID, id int64) error {
	if _, err := uc.owned(ctx, userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List filas de stock de la tienda del principal.
func (uc *MaterialStockUseCase) List(ctx context.Context, userID int64) ([]dto.MaterialStockResponse, error) {
	store, err := uc.stores.GetByUser(ctx, userID)
	if err != nil || store == nil {
		return nil, err
	}
	rows, err := uc.repo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialStockResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, *toMaterialStockResponse(r))
	}
	return out, nil
}

func (uc *MaterialStockUseCase) owned(ctx context.Context, userID, id int64) (*entity.MaterialStock, error) {
	store, err := ownStore(ctx, uc.stores, userID)
	if err != nil {
		return nil, err
	}
	row, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.StoreID != store.ID {
		return nil, fmt.Errorf("%w: stock %d", domain.ErrNotFound, id)
	}
	return row, nil
}

func toMaterialStockResponse(r *entity.MaterialStock) *dto.MaterialStockResponse {
	return &dto.MaterialStockResponse{
		ID:              r.ID,
		Store:           r.StoreID,
		Material:        r.MaterialID,
		MaxCapacity:     r.MaxCapacity,
		CurrentCapacity: r.CurrentCapacity,
		UpdatedAt:       r.UpdatedAt,
	}
}
