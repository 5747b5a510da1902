package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTreasuryTransactionRequest body para POST /api/treasury/transactions
// (movimiento manual: gasto, pago a proveedor, ajuste por movimiento inverso).
// ShiftID vacío: se etiqueta con el turno abierto actual, si existe.
type CreateTreasuryTransactionRequest struct {
	Type        string          `json:"type" validate:"required,oneof=cash bank"`
	Operation   string          `json:"operation" validate:"required,oneof=credit debit"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Source      string          `json:"source" validate:"required"`
	Destination string          `json:"destination" validate:"required,oneof=drawer bank"`
	ShiftID     string          `json:"shift_id,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// TreasuryTransactionResponse movimiento en respuestas.
type TreasuryTransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Operation   string          `json:"operation"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	ShiftID     string          `json:"shift_id,omitempty"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TreasuryBalanceResponse saldo de tesorería: créditos − débitos del tipo,
// opcionalmente acotado a un turno.
type TreasuryBalanceResponse struct {
	Type    string          `json:"type"`
	ShiftID string          `json:"shift_id,omitempty"`
	Balance decimal.Decimal `json:"balance"`
}
