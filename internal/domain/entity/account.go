package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta de cartera.
const (
	AccountKindCustomer = "customer" // cliente: saldo positivo = nos debe
	AccountKindSupplier = "supplier" // proveedor: saldo positivo = le debemos cobrar (misma convención de signo)
)

// Account representa una cuenta de cartera (cliente o proveedor).
// CachedBalance es denormalizado: siempre debe ser igual al fold completo de
// sus eventos de cartera; solo lo escribe el recalculador de saldos.
type Account struct {
	ID             string
	Kind           string // customer, supplier
	Name           string
	Phone          string
	CachedBalance  decimal.Decimal
	LastActivityAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
