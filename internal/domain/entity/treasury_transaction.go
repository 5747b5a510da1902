package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y operaciones de movimientos de tesorería.
const (
	TreasuryTypeCash = "cash"
	TreasuryTypeBank = "bank"

	TreasuryOpCredit = "credit"
	TreasuryOpDebit  = "debit"

	TreasuryDestDrawer = "drawer" // caja física
	TreasuryDestBank   = "bank"
)

// Fuentes habituales de movimientos (tag libre, no enum cerrado).
const (
	TreasurySourceB2BPayment      = "b2b_payment"
	TreasurySourceExpense         = "expense"
	TreasurySourceSupplierPayment = "supplier_payment"
)

// TreasuryTransaction registra un movimiento de dinero físico o bancario,
// independiente de la deuda de cartera. El log es append-only: nunca se edita
// ni se borra; una corrección es un movimiento inverso nuevo.
type TreasuryTransaction struct {
	ID          string
	Type        string // cash, bank
	Operation   string // credit, debit
	Amount      decimal.Decimal
	Source      string  // tag libre: b2b_payment, expense, supplier_payment, ...
	Destination string  // drawer, bank
	ShiftID     *string // turno abierto al momento del movimiento, si existía
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
}
