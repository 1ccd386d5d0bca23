package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Materiales-api/internal/application/dto"
	"github.com/jhoicas/Materiales-api/internal/application/inventory"
)

// InventoryHandler expone las lecturas de inventario y los lotes de reposición y venta.
type InventoryHandler struct {
	queries *inventory.QueryUseCase
	restock *inventory.RestockUseCase
	sales   *inventory.SalesUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(queries *inventory.QueryUseCase, restock *inventory.RestockUseCase, sales *inventory.SalesUseCase) *InventoryHandler {
	return &InventoryHandler{queries: queries, restock: restock, sales: sales}
}

// Inventory godoc
// @Summary      Ocupación de cada material de la tienda
// @Description  Sin token devuelve una lista vacía.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.queries.Inventory(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductCapacity godoc
// @Summary      Unidades ensamblables de cada producto ofrecido
// @Description  Mínimo sobre la receta de floor(stock actual / cantidad requerida). Sin token devuelve una lista vacía.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductCapacityResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/product-capacity [get]
func (h *InventoryHandler) ProductCapacity(c *fiber.Ctx) error {
	out, err := h.queries.ProductCapacity(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RestockSuggestion godoc
// @Summary      Faltante por material para llenar la tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RestockResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/restock [get]
func (h *InventoryHandler) RestockSuggestion(c *fiber.Ctx) error {
	out, err := h.queries.RestockSuggestion(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RestockOrderPDF godoc
// @Summary      Orden de reposición en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restock/pdf [get]
func (h *InventoryHandler) RestockOrderPDF(c *fiber.Ctx) error {
	doc, err := h.queries.RestockOrderPDF(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="reposicion-%d.pdf"`, GetUserID(c)))
	return c.Send(doc)
}

// Restock godoc
// @Summary      Aplicar un lote de reposición
// @Description  Todo o nada: una línea inválida rechaza el lote completo sin modificar el stock.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string            false  "UUID para reintentos seguros"
// @Param        body             body    dto.RestockRequest true  "materials: [{material, quantity}]"
// @Success      200  {object}  dto.RestockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := decodeJSON(c, &in); err != nil {
		return invalidBody(c)
	}
	batch, err := inventory.RestockBatchFromRequest(in)
	if err != nil {
		return writeBatchError(c, err)
	}
	out, err := h.restock.Restock(c.UserContext(), GetUserID(c), batch)
	if err != nil {
		return writeBatchError(c, err)
	}
	return c.JSON(out)
}

// Sell godoc
// @Summary      Registrar un lote de ventas
// @Description  Descuenta la receta de cada producto vendido. Todo o nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string          false  "UUID para reintentos seguros"
// @Param        body             body    dto.SaleRequest true   "sale: [{product, quantity}]"
// @Success      200  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *InventoryHandler) Sell(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := decodeJSON(c, &in); err != nil {
		return invalidBody(c)
	}
	batch, err := inventory.SaleBatchFromRequest(in)
	if err != nil {
		return writeBatchError(c, err)
	}
	out, err := h.sales.Sell(c.UserContext(), GetUserID(c), batch)
	if err != nil {
		return writeBatchError(c, err)
	}
	return c.JSON(out)
}
