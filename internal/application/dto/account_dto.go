package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest body para POST /api/accounts.
// OpeningBalance opcional siembra la deuda migrada como evento opening_balance
// (positivo = la cuenta nos debe).
type CreateAccountRequest struct {
	Kind           string          `json:"kind" validate:"required,oneof=customer supplier"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Phone          string          `json:"phone,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance,omitempty"`
}

// ListAccountsResponse página de cuentas.
type ListAccountsResponse struct {
	Items []*AccountResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AccountResponse cuenta en respuestas. Balance es el saldo denormalizado que
// mantiene el recalculador.
type AccountResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	LastActivityAt time.Time       `json:"last_activity_at"`
	CreatedAt      time.Time       `json:"created_at"`
}
