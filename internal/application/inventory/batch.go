package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/domain"
)

// RestockLine incremento de stock de un material.
type RestockLine struct {
	MaterialID int64
	Quantity   int64
}

// RestockBatch lote de reposición ya tipado.
type RestockBatch struct {
	Lines []RestockLine
}

// MaterialIDs materiales del lote sin repetir, ordenados.
func (b RestockBatch) MaterialIDs() []int64 {
	ids := make([]int64, 0, len(b.Lines))
	for _, l := range b.Lines {
		ids = append(ids, l.MaterialID)
	}
	return uniqueSorted(ids)
}

// SaleLine unidades vendidas de un producto.
type SaleLine struct {
	ProductID int64
	Quantity  int64
}

// SaleBatch lote de venta ya tipado.
type SaleBatch struct {
	Lines []SaleLine
}

// ProductIDs productos del lote sin repetir, ordenados.
func (b SaleBatch) ProductIDs() []int64 {
	ids := make([]int64, 0, len(b.Lines))
	for _, l := range b.Lines {
		ids = append(ids, l.ProductID)
	}
	return uniqueSorted(ids)
}

// RestockBatchFromRequest valida la forma del body HTTP y lo convierte en un lote tipado.
// Las reglas de negocio (cantidad positiva, material en stock, capacidad) las aplica el motor.
func RestockBatchFromRequest(in dto.RestockRequest) (RestockBatch, error) {
	if in.Materials == nil {
		return RestockBatch{}, fmt.Errorf("%w: materials es requerido", domain.ErrInvalidArgument)
	}
	items := *in.Materials
	batch := RestockBatch{Lines: make([]RestockLine, 0, len(items))}
	for i, item := range items {
		if item.Material == nil {
			return RestockBatch{}, domain.NewLineError(i, "material", domain.ErrInvalidArgument, "material es requerido")
		}
		if item.Quantity == nil {
			return RestockBatch{}, domain.NewLineError(i, "quantity", domain.ErrInvalidArgument, "quantity es requerido")
		}
		batch.Lines = append(batch.Lines, RestockLine{MaterialID: *item.Material, Quantity: *item.Quantity})
	}
	return batch, nil
}

// SaleBatchFromRequest valida la forma del body HTTP y lo convierte en un lote tipado.
func SaleBatchFromRequest(in dto.SaleRequest) (SaleBatch, error) {
	if in.Sale == nil {
		return SaleBatch{}, fmt.Errorf("%w: sale es requerido", domain.ErrInvalidArgument)
	}
	items := *in.Sale
	batch := SaleBatch{Lines: make([]SaleLine, 0, len(items))}
	for i, item := range items {
		if item.Product == nil {
			return SaleBatch{}, domain.NewLineError(i, "product", domain.ErrInvalidArgument, "product es requerido")
		}
		if item.Quantity == nil {
			return SaleBatch{}, domain.NewLineError(i, "quantity", domain.ErrInvalidArgument, "quantity es requerido")
		}
		batch.Lines = append(batch.Lines, SaleLine{ProductID: *item.Product, Quantity: *item.Quantity})
	}
	return batch, nil
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
