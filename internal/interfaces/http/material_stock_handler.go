package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/application/usecase"
)

// MaterialStockHandler edición directa de las filas de stock de la tienda del principal.
// Create y Update pasan por el Capacity Guard.
type MaterialStockHandler struct {
	uc *usecase.MaterialStockUseCase
}

// NewMaterialStockHandler construye el handler.
func NewMaterialStockHandler(uc *usecase.MaterialStockUseCase) *MaterialStockHandler {
	return &MaterialStockHandler{uc: uc}
}

// Create godoc
// @Summary      Agregar material al stock de la tienda
// @Tags         material-stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialStockRequest  true  "store, material, max_capacity, current_capacity"
// @Success      201   {object}  dto.MaterialStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/material-stocks [post]
func (h *MaterialStockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialStockRequest
	if err := decodeJSON(c, &in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Filas de stock de la tienda del usuario
// @Tags         material-stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.MaterialStockResponse]
// @Router       /api/material-stocks [get]
func (h *MaterialStockHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(list))
}

// GetByID godoc
// @Summary      Obtener fila de stock
// @Tags         material-stocks
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la fila"
// @Success      200  {object}  dto.MaterialStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-stocks/{id} [get]
func (h *MaterialStockHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar capacidades de una fila de stock
// @Description  max_capacity no puede quedar por debajo de current_capacity.
// @Tags         material-stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                             true  "ID de la fila"
// @Param        body  body  dto.UpdateMaterialStockRequest  true  "max_capacity, current_capacity"
// @Success      200   {object}  dto.MaterialStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-stocks/{id} [put]
func (h *MaterialStockHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateMaterialStockRequest
	if err := decodeJSON(c, &in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Quitar material del stock
// @Tags         material-stocks
// @Security     Bearer
// @Param        id   path  int  true  "ID de la fila"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-stocks/{id} [delete]
func (h *MaterialStockHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
