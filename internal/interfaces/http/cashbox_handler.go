package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dquispe/tienda-pos/internal/application/cashbox"
	"github.com/dquispe/tienda-pos/internal/application/dto"
)

// CashboxHandler maneja la caja diaria (protegido).
type CashboxHandler struct {
	uc *cashbox.UseCase
}

// NewCashboxHandler construye el handler.
func NewCashboxHandler(uc *cashbox.UseCase) *CashboxHandler {
	return &CashboxHandler{uc: uc}
}

// Open abre la caja del día.
// POST /api/caja/apertura
func (h *CashboxHandler) Open(c *fiber.Ctx) error {
	var in dto.AperturaCajaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Open(c.Context(), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordMovement registra un INGRESO o EGRESO manual.
// POST /api/caja/movimientos
func (h *CashboxHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.MovimientoCajaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordMovement(c.Context(), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Close cierra la caja con arqueo.
// POST /api/caja/cierre
func (h *CashboxHandler) Close(c *fiber.Ctx) error {
	var in dto.CierreCajaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Close(c.Context(), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Current devuelve la caja abierta de la tienda.
// GET /api/caja/actual
func (h *CashboxHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.Context(), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListSessions lista el historial de cajas.
// GET /api/caja/sesiones
func (h *CashboxHandler) ListSessions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	out, err := h.uc.ListSessions(c.Context(), GetStoreID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements lista los movimientos de una sesión.
// GET /api/caja/sesiones/:id/movimientos
func (h *CashboxHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	out, err := h.uc.ListMovements(c.Context(), GetStoreID(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
