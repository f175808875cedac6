package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/application/inventory"
)

// InventoryHandler maneja compras, ajustes, Kardex y conciliación (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterPurchase registra una compra a proveedor (entrada de stock + costo promedio).
// POST /api/inventory/purchases
func (h *InventoryHandler) RegisterPurchase(c *fiber.Ctx) error {
	var in dto.RegisterPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.RegisterPurchase(c.Context(), GetStoreID(c), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// RegisterAdjustment registra un ajuste manual de stock.
// POST /api/inventory/adjustments
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.RegisterAdjustment(c.Context(), GetStoreID(c), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Kardex devuelve el historial de movimientos de un producto.
// GET /api/inventory/kardex/:productID
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	var in dto.KardexQuery
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	out, err := h.uc.History(c.Context(), GetStoreID(c), c.Params("productID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CheckConsistency concilia el Kardex contra el stock vigente de un producto.
// GET /api/inventory/consistency/:productID
func (h *InventoryHandler) CheckConsistency(c *fiber.Ctx) error {
	out, err := h.uc.CheckConsistency(c.Context(), GetStoreID(c), c.Params("productID"))
	if err != nil && out == nil {
		return respondError(c, err)
	}
	if err != nil {
		// Inconsistencia detectada: se reporta el detalle con 409
		return c.Status(fiber.StatusConflict).JSON(out)
	}
	return c.JSON(out)
}
