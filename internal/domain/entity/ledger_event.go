package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain"
)

// Tipos de evento de cartera.
const (
	EventInvoice        = "invoice"         // factura: suma deuda
	EventPayment        = "payment"         // pago suelto: resta deuda
	EventOpeningBalance = "opening_balance" // saldo inicial (con signo) al migrar la cuenta
)

// Métodos de pago que generan movimiento de tesorería.
const (
	MethodCash = "cash"
	MethodBank = "bank"
)

// LedgerEvent representa un evento monetario de una cuenta de cartera.
// Polimórfico sobre Kind: invoice, payment u opening_balance; siempre pertenece
// a exactamente una Account.
//
// Para facturas, TotalPaid es una caché (= suma de Payments); la única fuente
// escribible de "abonado" son las filas de PartialPayment. LegacyPaymentAmount
// conserva el campo único de abono de datos migrados y solo se considera cuando
// la factura no tiene filas de abono (ver EffectiveTotalPaid en domain/ledger).
type LedgerEvent struct {
	ID              string
	AccountID       string
	Kind            string
	Amount          decimal.Decimal // invoice/payment: > 0; opening_balance: con signo (positivo = la cuenta nos debe)
	Date            time.Time       // fecha del evento; cero = "en escritura", ordena al final
	Note            string
	Method          string // payment: cash, bank o vacío (sin movimiento de tesorería)
	LinkedInvoiceID string // payment: si apunta a una factura del mismo conjunto, contribuye cero al fold
	AttachmentRef   string
	TotalPaid       decimal.Decimal // invoice: caché de la suma de Payments
	LegacyPaymentAmount decimal.Decimal // invoice: abono único heredado de la migración
	Payments        []PartialPayment
	Lines           []EventLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PartialPayment es un abono aplicado directamente a una factura.
type PartialPayment struct {
	ID        string
	EventID   string // factura a la que pertenece
	Amount    decimal.Decimal
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

// EventLine es una línea de detalle de una factura (producto, cantidad, precio).
type EventLine struct {
	ID          string
	EventID     string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Validate verifica las reglas de construcción del evento.
// Facturas y pagos exigen monto positivo; el saldo inicial admite signo pero no cero.
func (e *LedgerEvent) Validate() error {
	switch e.Kind {
	case EventInvoice, EventPayment:
		if !e.Amount.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidAmount
		}
	case EventOpeningBalance:
		if e.Amount.IsZero() {
			return domain.ErrInvalidAmount
		}
	default:
		return domain.ErrInvalidInput
	}
	if e.AccountID == "" {
		return domain.ErrInvalidInput
	}
	return nil
}
