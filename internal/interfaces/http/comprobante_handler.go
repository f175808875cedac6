package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dquispe/tienda-pos/internal/application/billing"
	"github.com/dquispe/tienda-pos/internal/application/dto"
)

// ComprobanteHandler maneja la emisión, consulta y anulación de comprobantes (protegido).
type ComprobanteHandler struct {
	issueUC *billing.IssueUseCase
	voidUC  *billing.VoidUseCase
}

// NewComprobanteHandler construye el handler.
func NewComprobanteHandler(issueUC *billing.IssueUseCase, voidUC *billing.VoidUseCase) *ComprobanteHandler {
	return &ComprobanteHandler{issueUC: issueUC, voidUC: voidUC}
}

// Emitir emite un comprobante: descuenta stock, asienta Kardex y asigna correlativo.
// POST /api/comprobantes
func (h *ComprobanteHandler) Emitir(c *fiber.Ctx) error {
	var in dto.EmitirComprobanteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.issueUC.Issue(c.Context(), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene un comprobante con su detalle.
// GET /api/comprobantes/:id
func (h *ComprobanteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.issueUC.Get(c.Context(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List lista comprobantes de la tienda.
// GET /api/comprobantes
func (h *ComprobanteHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	out, err := h.issueUC.List(c.Context(), GetStoreID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Anular anula un comprobante: repone stock y revierte el crédito si lo hubo.
// POST /api/comprobantes/:id/anular
func (h *ComprobanteHandler) Anular(c *fiber.Ctx) error {
	out, err := h.voidUC.Void(c.Context(), GetStoreID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
