package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del turno de caja. OPEN → CLOSED (terminal).
const (
	ShiftStatusOpen   = "OPEN"
	ShiftStatusClosed = "CLOSED"
)

// Shift es un período contable acotado sobre la caja física. A lo sumo puede
// existir un turno OPEN en todo el sistema. Los campos de cierre solo se fijan
// al cerrar; Variance se reporta, nunca se corrige en silencio.
type Shift struct {
	ID              string
	OperatorID      string
	Status          string
	OpeningAmount   decimal.Decimal
	ClosingAmount   *decimal.Decimal // monto contado por el operador al cierre
	ExpectedClosing *decimal.Decimal // apertura + créditos cash − débitos cash
	NetSales        *decimal.Decimal // esperado − apertura
	Variance        *decimal.Decimal // contado − esperado
	ClosedBy        string
	OpenedAt        time.Time
	ClosedAt        *time.Time
}

// IsOpen indica si el turno sigue abierto.
func (s *Shift) IsOpen() bool { return s.Status == ShiftStatusOpen }
