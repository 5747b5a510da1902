package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	apptreasury "github.com/jhoicas/Cartera-api/internal/application/treasury"
	"github.com/jhoicas/Cartera-api/internal/domain"
)

// TreasuryHandler maneja las peticiones HTTP del log de tesorería (protegido).
type TreasuryHandler struct {
	uc *apptreasury.UseCase
}

// NewTreasuryHandler construye el handler.
func NewTreasuryHandler(uc *apptreasury.UseCase) *TreasuryHandler {
	return &TreasuryHandler{uc: uc}
}

// Record registra un movimiento manual (gasto, pago a proveedor, ajuste).
// POST /api/treasury/transactions
func (h *TreasuryHandler) Record(c *fiber.Ctx) error {
	var in dto.CreateTreasuryTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.Record(c.Context(), GetUserID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// Balance devuelve créditos − débitos del tipo dado, opcionalmente por turno.
// GET /api/treasury/balance?type=cash&shift_id=...
func (h *TreasuryHandler) Balance(c *fiber.Ctx) error {
	txType := c.Query("type")
	if txType == "" {
		txType = "cash"
	}
	out, err := h.uc.Balance(c.Context(), txType, c.Query("shift_id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type debe ser cash o bank"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListByShift lista los movimientos etiquetados con un turno.
// GET /api/treasury/shifts/:id/transactions
func (h *TreasuryHandler) ListByShift(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	list, err := h.uc.ListByShift(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
