package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appshift "github.com/jhoicas/Cartera-api/internal/application/shift"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
)

// ShiftHandler maneja las peticiones HTTP de turnos de caja (protegido).
type ShiftHandler struct {
	uc *appshift.UseCase
}

// NewShiftHandler construye el handler.
func NewShiftHandler(uc *appshift.UseCase) *ShiftHandler {
	return &ShiftHandler{uc: uc}
}

// Start abre un turno con el monto de apertura contado.
// POST /api/shifts
func (h *ShiftHandler) Start(c *fiber.Ctx) error {
	var in dto.StartShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shift, err := h.uc.Start(c.Context(), GetUserID(c), in)
	if err != nil {
		return shiftError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(shift)
}

// GetOpen devuelve el turno abierto actual, o 404 si no hay ninguno.
// GET /api/shifts/open
func (h *ShiftHandler) GetOpen(c *fiber.Ctx) error {
	shift, err := h.uc.GetOpen(c.Context())
	if err != nil {
		return shiftError(c, err)
	}
	if shift == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SHIFT_NOT_FOUND", Message: "no hay turno abierto"})
	}
	return c.JSON(shift)
}

// RecordExpense registra un gasto en efectivo contra el turno abierto.
// POST /api/shifts/:id/expenses
func (h *ShiftHandler) RecordExpense(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.RecordExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.RecordExpense(c.Context(), GetUserID(c), id, in)
	if err != nil {
		return shiftError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// Close cierra el turno conciliando el efectivo contado contra el esperado.
// POST /api/shifts/:id/close
func (h *ShiftHandler) Close(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.CloseShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Close(c.Context(), GetUserID(c), id, in)
	if err != nil {
		return shiftError(c, err)
	}
	return c.JSON(out)
}

// shiftError mapea errores de dominio de turnos a HTTP.
func shiftError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrShiftNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SHIFT_NOT_FOUND", Message: "turno no encontrado"})
	case errors.Is(err, domain.ErrShiftAlreadyOpen):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SHIFT_ALREADY_OPEN", Message: "ya existe un turno abierto"})
	case errors.Is(err, domain.ErrShiftAlreadyClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SHIFT_ALREADY_CLOSED", Message: "el turno ya está cerrado"})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "el turno está siendo modificado, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
