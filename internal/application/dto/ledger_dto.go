package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura (producto, cantidad, precio unitario).
// Si UnitPrice va en cero se toma el precio del catálogo de productos.
type InvoiceItemRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest body para POST /api/invoices. Se envía Amount directo o
// Items (el monto sale de la suma de líneas), nunca ambos.
type CreateInvoiceRequest struct {
	AccountID     string               `json:"account_id" validate:"required"`
	Amount        decimal.Decimal      `json:"amount,omitempty"`
	Items         []InvoiceItemRequest `json:"items,omitempty"`
	Date          *time.Time           `json:"date,omitempty"`
	Note          string               `json:"note,omitempty"`
	AttachmentRef string               `json:"attachment_ref,omitempty"`
}

// InvoiceResponse factura creada, con el saldo recalculado de la cuenta.
type InvoiceResponse struct {
	ID         string              `json:"id"`
	AccountID  string              `json:"account_id"`
	Amount     decimal.Decimal     `json:"amount"`
	TotalPaid  decimal.Decimal     `json:"total_paid"`
	Date       time.Time           `json:"date"`
	Note       string              `json:"note,omitempty"`
	Lines      []EventLineResponse `json:"lines,omitempty"`
	NewBalance decimal.Decimal     `json:"new_balance"`
}

// EventLineResponse línea de detalle en respuestas.
type EventLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ApplyPaymentRequest body para POST /api/payments. Con LinkedInvoiceID el pago
// se aplica como abono a esa factura; sin él queda como pago suelto de la
// cuenta. Method cash|bank genera además el movimiento de tesorería.
type ApplyPaymentRequest struct {
	AccountID       string          `json:"account_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	LinkedInvoiceID string          `json:"linked_invoice_id,omitempty"`
	Method          string          `json:"method,omitempty" validate:"omitempty,oneof=cash bank"`
	Date            *time.Time      `json:"date,omitempty"`
	Note            string          `json:"note,omitempty"`
	AttachmentRef   string          `json:"attachment_ref,omitempty"`
}

// PaymentReceipt recibo de un pago aplicado. TreasuryWarning va poblado cuando
// el pago quedó confirmado pero el registro en tesorería falló (error blando):
// la conciliación de tesorería queda pendiente, el pago no.
type PaymentReceipt struct {
	ReceiptID       string          `json:"receipt_id"`
	AccountID       string          `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	LinkedInvoiceID string          `json:"linked_invoice_id,omitempty"`
	Method          string          `json:"method,omitempty"`
	Date            time.Time       `json:"date"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	TreasuryWarning string          `json:"treasury_warning,omitempty"`
}

// EditEventRequest patch para PATCH /api/events/:id. Campos nil no se tocan.
// Lines no vacío reemplaza el detalle completo de la factura.
type EditEventRequest struct {
	Amount *decimal.Decimal     `json:"amount,omitempty"`
	Date   *time.Time           `json:"date,omitempty"`
	Note   *string              `json:"note,omitempty"`
	Lines  []InvoiceItemRequest `json:"lines,omitempty"`
}

// StatementLineResponse evento con saldo acumulado para el extracto.
type StatementLineResponse struct {
	EventID        string          `json:"event_id"`
	Kind           string          `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	TotalPaid      decimal.Decimal `json:"total_paid,omitempty"`
	Date           time.Time       `json:"date"`
	Note           string          `json:"note,omitempty"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// StatementResponse extracto completo de la cuenta.
type StatementResponse struct {
	AccountID      string                  `json:"account_id"`
	AccountName    string                  `json:"account_name"`
	Lines          []StatementLineResponse `json:"lines"`
	CurrentBalance decimal.Decimal         `json:"current_balance"`
}
