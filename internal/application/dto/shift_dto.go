package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartShiftRequest body para POST /api/shifts.
type StartShiftRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// RecordExpenseRequest body para POST /api/shifts/:id/expenses.
type RecordExpenseRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Category string          `json:"category" validate:"required"`
	Note     string          `json:"note,omitempty"`
}

// CloseShiftRequest body para POST /api/shifts/:id/close.
type CloseShiftRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount"`
}

// ShiftResponse turno en respuestas; los campos de cierre van solo en CLOSED.
type ShiftResponse struct {
	ID              string           `json:"id"`
	OperatorID      string           `json:"operator_id"`
	Status          string           `json:"status"`
	OpeningAmount   decimal.Decimal  `json:"opening_amount"`
	ClosingAmount   *decimal.Decimal `json:"closing_amount,omitempty"`
	ExpectedClosing *decimal.Decimal `json:"expected_closing,omitempty"`
	NetSales        *decimal.Decimal `json:"net_sales,omitempty"`
	Variance        *decimal.Decimal `json:"variance,omitempty"`
	OpenedAt        time.Time        `json:"opened_at"`
	ClosedAt        *time.Time       `json:"closed_at,omitempty"`
}

// CloseShiftResponse resultado de la conciliación al cierre. Variance se
// reporta tal cual: contado − esperado, nunca se corrige.
type CloseShiftResponse struct {
	ShiftID         string          `json:"shift_id"`
	ExpectedClosing decimal.Decimal `json:"expected_closing"`
	CountedAmount   decimal.Decimal `json:"counted_amount"`
	NetSales        decimal.Decimal `json:"net_sales"`
	Variance        decimal.Decimal `json:"variance"`
	ClosedAt        time.Time       `json:"closed_at"`
}
