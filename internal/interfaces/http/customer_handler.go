package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dquispe/tienda-pos/internal/application/billing"
	"github.com/dquispe/tienda-pos/internal/application/credit"
	"github.com/dquispe/tienda-pos/internal/application/dto"
)

// CustomerHandler maneja clientes y cobros de crédito (protegido).
type CustomerHandler struct {
	uc       *billing.CustomerUseCase
	creditUC *credit.UseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *billing.CustomerUseCase, creditUC *credit.UseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc, creditUC: creditUC}
}

// Create registra un cliente.
// POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetStoreID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene un cliente con su deuda vigente.
// GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List lista clientes de la tienda.
// GET /api/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	out, err := h.uc.List(c.Context(), GetStoreID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PayCredit registra el abono de un cliente (baja deuda, INGRESO en caja).
// POST /api/customers/:id/pagos
func (h *CustomerHandler) PayCredit(c *fiber.Ctx) error {
	var in dto.PayCreditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.creditUC.Pay(c.Context(), GetStoreID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
