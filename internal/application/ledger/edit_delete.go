package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// EventUseCase edita y elimina eventos de cartera. No existe reversa
// aritmética manual: toda corrección termina en un recálculo completo del
// saldo, dentro de la misma transacción que la mutación.
type EventUseCase struct {
	txRunner TxRunner
	events   repository.LedgerEventRepository
}

// NewEventUseCase construye el caso de uso.
func NewEventUseCase(txRunner TxRunner, events repository.LedgerEventRepository) *EventUseCase {
	return &EventUseCase{txRunner: txRunner, events: events}
}

// DeleteEvent elimina el evento con sus abonos y líneas en cascada y recalcula.
// Los movimientos de tesorería generados por pagos previos sobre una factura
// borrada NO se reversan automáticamente: solo se corrige la deuda de cartera.
func (uc *EventUseCase) DeleteEvent(ctx context.Context, eventID string) error {
	// Lectura previa fuera de la tx para resolver la cuenta afectada.
	ev, err := uc.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev == nil {
		return domain.ErrNotFound
	}

	return uc.txRunner.RunLedger(ctx, func(
		events repository.LedgerEventRepository,
		accounts repository.AccountRepository,
	) error {
		acct, err := accounts.GetByIDForUpdate(ctx, ev.AccountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return domain.ErrNotFound
		}
		locked, err := events.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if err := events.Delete(ctx, eventID); err != nil {
			return err
		}
		_, err = RecalculateInTx(ctx, events, accounts, ev.AccountID)
		return err
	})
}

// EditEvent aplica el patch (monto, fecha, nota, líneas) y recalcula. Bajar el
// monto de una factura por debajo de lo ya abonado se rechaza, coherente con
// la política de no recortar abonos en silencio.
func (uc *EventUseCase) EditEvent(ctx context.Context, eventID string, patch dto.EditEventRequest) error {
	return uc.txRunner.RunLedger(ctx, func(
		events repository.LedgerEventRepository,
		accounts repository.AccountRepository,
	) error {
		ev, err := events.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return domain.ErrNotFound
		}
		acct, err := accounts.GetByIDForUpdate(ctx, ev.AccountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return domain.ErrNotFound
		}

		var newLines []*entity.EventLine
		if len(patch.Lines) > 0 {
			if ev.Kind != entity.EventInvoice {
				return domain.ErrInvalidInput
			}
			amount := decimal.Zero
			for _, item := range patch.Lines {
				if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) || !item.UnitPrice.GreaterThan(decimal.Zero) {
					return domain.ErrInvalidInput
				}
				subtotal := item.Quantity.Mul(item.UnitPrice)
				amount = amount.Add(subtotal)
				newLines = append(newLines, &entity.EventLine{
					ID:          uuid.New().String(),
					EventID:     ev.ID,
					ProductID:   item.ProductID,
					Description: item.Description,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
					Subtotal:    subtotal,
				})
			}
			ev.Amount = amount
		}
		if patch.Amount != nil {
			if len(patch.Lines) > 0 {
				return domain.ErrInvalidInput
			}
			ev.Amount = *patch.Amount
		}
		if patch.Date != nil {
			ev.Date = *patch.Date
		}
		if patch.Note != nil {
			ev.Note = *patch.Note
		}
		if err := ev.Validate(); err != nil {
			return err
		}
		if ev.Kind == entity.EventInvoice && ev.Amount.LessThan(ledger.EffectiveTotalPaid(ev)) {
			return domain.ErrPaymentExceedsInvoice
		}

		ev.UpdatedAt = time.Now()
		if err := events.Update(ctx, ev); err != nil {
			return err
		}
		if len(newLines) > 0 {
			if err := events.ReplaceLines(ctx, ev.ID, newLines); err != nil {
				return err
			}
		}
		_, err = RecalculateInTx(ctx, events, accounts, ev.AccountID)
		return err
	})
}
