package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appledger "github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
)

// LedgerHandler maneja las peticiones HTTP del motor de cartera (protegido):
// facturas, pagos, edición/borrado de eventos y extractos.
type LedgerHandler struct {
	invoices   *appledger.InvoiceUseCase
	payments   *appledger.PaymentUseCase
	events     *appledger.EventUseCase
	statements *appledger.StatementUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	invoices *appledger.InvoiceUseCase,
	payments *appledger.PaymentUseCase,
	events *appledger.EventUseCase,
	statements *appledger.StatementUseCase,
) *LedgerHandler {
	return &LedgerHandler{invoices: invoices, payments: payments, events: events, statements: statements}
}

// CreateInvoice crea una factura de cartera y recalcula el saldo.
// POST /api/invoices
func (h *LedgerHandler) CreateInvoice(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.invoices.CreateInvoice(c.Context(), in)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// ApplyPayment aplica un pago: abono a una factura o pago suelto de la cuenta.
// Si el pago quedó confirmado pero tesorería falló, responde 201 con el recibo
// y treasury_warning poblado: la deuda ya está corregida, la conciliación de
// caja queda pendiente.
// POST /api/payments
func (h *LedgerHandler) ApplyPayment(c *fiber.Ctx) error {
	var in dto.ApplyPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	receipt, err := h.payments.ApplyPayment(c.Context(), GetUserID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrTreasurySideEffect) && receipt != nil {
			return c.Status(fiber.StatusCreated).JSON(receipt)
		}
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

// EditEvent aplica un patch parcial sobre un evento y recalcula.
// PATCH /api/events/:id
func (h *LedgerHandler) EditEvent(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var patch dto.EditEventRequest
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.events.EditEvent(c.Context(), id, patch); err != nil {
		return ledgerError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteEvent elimina un evento con sus abonos y líneas, y recalcula.
// DELETE /api/events/:id
func (h *LedgerHandler) DeleteEvent(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	if err := h.events.DeleteEvent(c.Context(), id); err != nil {
		return ledgerError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetStatement devuelve el extracto completo de la cuenta.
// GET /api/accounts/:id/statement
func (h *LedgerHandler) GetStatement(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	statement, err := h.statements.GetStatement(c.Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(statement)
}

// GetStatementPDF devuelve el extracto de la cuenta como PDF.
// GET /api/accounts/:id/statement/pdf
func (h *LedgerHandler) GetStatementPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, err := h.statements.GetStatementPDF(c.Context(), id)
	if err != nil {
		return ledgerError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="extracto-`+id+`.pdf"`)
	return c.Send(pdfBytes)
}

// ledgerError mapea errores de dominio del motor de cartera a HTTP.
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrPaymentExceedsInvoice):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PAYMENT_EXCEEDS_INVOICE", Message: "el abono supera el saldo pendiente de la factura"})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "la cuenta está siendo modificada, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
