// Package ledger contiene la lógica pura de cartera: contribución con signo de
// cada evento y el fold determinista que produce el saldo de una cuenta.
// Sin efectos secundarios; la persistencia vive en los casos de uso.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// StatementLine es un evento con su saldo acumulado, para el extracto de cuenta.
type StatementLine struct {
	Event   *entity.LedgerEvent
	Running decimal.Decimal
}

// EffectiveTotalPaid devuelve el total abonado real de una factura: la suma de
// sus filas de abono. Si la factura no tiene filas y trae un abono único
// heredado de la migración, ese valor se toma como el total abonado; en cuanto
// existe al menos una fila, las filas son la única fuente.
func EffectiveTotalPaid(ev *entity.LedgerEvent) decimal.Decimal {
	if len(ev.Payments) == 0 {
		if ev.LegacyPaymentAmount.GreaterThan(decimal.Zero) {
			return ev.LegacyPaymentAmount
		}
		return decimal.Zero
	}
	total := decimal.Zero
	for _, p := range ev.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// SignedContribution devuelve el aporte con signo de un evento al saldo.
// Convención: positivo = la cuenta nos debe.
//
//   - invoice: +(monto − total abonado)
//   - payment no vinculado: −monto
//   - payment vinculado a una factura presente en invoiceIDs: 0, porque su
//     efecto ya está capturado dentro del total abonado de esa factura
//     (regla de desempate contra el doble conteo)
//   - opening_balance: +monto (el signo ya viene embebido)
func SignedContribution(ev *entity.LedgerEvent, invoiceIDs map[string]struct{}) decimal.Decimal {
	switch ev.Kind {
	case entity.EventInvoice:
		return ev.Amount.Sub(EffectiveTotalPaid(ev))
	case entity.EventPayment:
		if ev.LinkedInvoiceID != "" {
			if _, ok := invoiceIDs[ev.LinkedInvoiceID]; ok {
				return decimal.Zero
			}
		}
		return ev.Amount.Neg()
	case entity.EventOpeningBalance:
		return ev.Amount
	}
	return decimal.Zero
}

// Sort devuelve una copia de los eventos ordenada ascendente por fecha.
// Un evento sin fecha (cero, típico de un registro a medio escribir) se trata
// como "ahora" y ordena al final. El orden es estable: empates conservan el
// orden de llegada, así el fold es reproducible bit a bit.
func Sort(events []*entity.LedgerEvent) []*entity.LedgerEvent {
	sorted := make([]*entity.LedgerEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Date, sorted[j].Date
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.Before(b)
	})
	return sorted
}

// Fold pliega la secuencia de eventos en el saldo final y la lista de líneas
// con saldo acumulado para el extracto. Determinista e idempotente: el mismo
// conjunto de eventos produce siempre el mismo resultado.
func Fold(events []*entity.LedgerEvent) (decimal.Decimal, []StatementLine) {
	invoiceIDs := make(map[string]struct{})
	for _, ev := range events {
		if ev.Kind == entity.EventInvoice {
			invoiceIDs[ev.ID] = struct{}{}
		}
	}

	sorted := Sort(events)
	lines := make([]StatementLine, 0, len(sorted))
	balance := decimal.Zero
	for _, ev := range sorted {
		balance = balance.Add(SignedContribution(ev, invoiceIDs))
		lines = append(lines, StatementLine{Event: ev, Running: balance})
	}
	return balance, lines
}
