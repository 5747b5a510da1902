package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// PaymentUseCase aplica pagos: como abono a una factura concreta o como pago
// suelto de la cuenta. El camino del abono vinculado NO crea un evento payment
// independiente; la regla de desempate del fold queda solo como red de
// seguridad para datos heredados.
type PaymentUseCase struct {
	txRunner TxRunner
	shifts   repository.ShiftRepository
	treasury repository.TreasuryRepository
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(txRunner TxRunner, shifts repository.ShiftRepository, treasury repository.TreasuryRepository) *PaymentUseCase {
	return &PaymentUseCase{txRunner: txRunner, shifts: shifts, treasury: treasury}
}

// ApplyPayment aplica el pago y recalcula el saldo en una transacción. Si
// Method es cash o bank, después del commit intenta registrar el movimiento en
// tesorería etiquetado con el turno abierto; ese registro es best-effort: si
// falla, el pago sigue confirmado y se devuelve el recibo JUNTO con
// domain.ErrTreasurySideEffect para que el caller concilie tesorería aparte.
func (uc *PaymentUseCase) ApplyPayment(ctx context.Context, operatorID string, in dto.ApplyPaymentRequest) (*dto.PaymentReceipt, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if in.AccountID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Method != "" && in.Method != entity.MethodCash && in.Method != entity.MethodBank {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	receipt := &dto.PaymentReceipt{
		ReceiptID:       uuid.New().String(),
		AccountID:       in.AccountID,
		Amount:          in.Amount,
		LinkedInvoiceID: in.LinkedInvoiceID,
		Method:          in.Method,
		Date:            date,
	}

	err := uc.txRunner.RunLedger(ctx, func(
		events repository.LedgerEventRepository,
		accounts repository.AccountRepository,
	) error {
		acct, err := accounts.GetByIDForUpdate(ctx, in.AccountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return domain.ErrNotFound
		}

		if in.LinkedInvoiceID != "" {
			if err := uc.applyToInvoice(ctx, events, in, receipt.ReceiptID, date, now); err != nil {
				return err
			}
		} else {
			ev := &entity.LedgerEvent{
				ID:            receipt.ReceiptID,
				AccountID:     in.AccountID,
				Kind:          entity.EventPayment,
				Amount:        in.Amount,
				Date:          date,
				Note:          in.Note,
				Method:        in.Method,
				AttachmentRef: in.AttachmentRef,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := ev.Validate(); err != nil {
				return err
			}
			if err := events.Create(ctx, ev); err != nil {
				return err
			}
		}

		balance, err := RecalculateInTx(ctx, events, accounts, in.AccountID)
		if err != nil {
			return err
		}
		receipt.NewBalance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Efecto secundario de tesorería, fuera de la transacción de cartera.
	if in.Method == entity.MethodCash || in.Method == entity.MethodBank {
		if err := uc.recordTreasury(ctx, operatorID, in, receipt.ReceiptID, now); err != nil {
			receipt.TreasuryWarning = err.Error()
			return receipt, fmt.Errorf("%v: %w", err, domain.ErrTreasurySideEffect)
		}
	}
	return receipt, nil
}

// applyToInvoice agrega la fila de abono a la factura y actualiza su caché
// total_paid bajo el lock de fila de la factura. Si la factura aún conserva un
// abono único heredado sin filas, primero lo materializa como fila para que
// las filas pasen a ser la única fuente escribible.
func (uc *PaymentUseCase) applyToInvoice(
	ctx context.Context,
	events repository.LedgerEventRepository,
	in dto.ApplyPaymentRequest,
	receiptID string,
	date, now time.Time,
) error {
	inv, err := events.GetByIDForUpdate(ctx, in.LinkedInvoiceID)
	if err != nil {
		return err
	}
	if inv == nil || inv.Kind != entity.EventInvoice || inv.AccountID != in.AccountID {
		return domain.ErrNotFound
	}

	if len(inv.Payments) == 0 && inv.LegacyPaymentAmount.GreaterThan(decimal.Zero) {
		migrated := &entity.PartialPayment{
			ID:        uuid.New().String(),
			EventID:   inv.ID,
			Amount:    inv.LegacyPaymentAmount,
			Date:      inv.Date,
			Note:      "migración de abono heredado",
			CreatedAt: now,
		}
		if err := events.CreatePartialPayment(ctx, migrated); err != nil {
			return err
		}
		inv.Payments = append(inv.Payments, *migrated)
		inv.LegacyPaymentAmount = decimal.Zero
	}

	totalPaid := ledger.EffectiveTotalPaid(inv)
	remaining := inv.Amount.Sub(totalPaid)
	if in.Amount.GreaterThan(remaining) {
		return domain.ErrPaymentExceedsInvoice
	}

	pp := &entity.PartialPayment{
		ID:        receiptID,
		EventID:   inv.ID,
		Amount:    in.Amount,
		Date:      date,
		Note:      in.Note,
		CreatedAt: now,
	}
	if err := events.CreatePartialPayment(ctx, pp); err != nil {
		return err
	}
	return events.UpdateTotalPaid(ctx, inv.ID, totalPaid.Add(in.Amount))
}

// recordTreasury escribe el crédito en tesorería etiquetado con el turno
// abierto actual, si existe.
func (uc *PaymentUseCase) recordTreasury(ctx context.Context, operatorID string, in dto.ApplyPaymentRequest, receiptID string, now time.Time) error {
	shift, err := uc.shifts.GetOpen(ctx)
	if err != nil {
		return fmt.Errorf("consultar turno abierto: %w", err)
	}
	var shiftID *string
	if shift != nil {
		shiftID = &shift.ID
	}
	dest := entity.TreasuryDestBank
	txType := entity.TreasuryTypeBank
	if in.Method == entity.MethodCash {
		dest = entity.TreasuryDestDrawer
		txType = entity.TreasuryTypeCash
	}
	tt := &entity.TreasuryTransaction{
		ID:          uuid.New().String(),
		Type:        txType,
		Operation:   entity.TreasuryOpCredit,
		Amount:      in.Amount,
		Source:      entity.TreasurySourceB2BPayment,
		Destination: dest,
		ShiftID:     shiftID,
		Note:        fmt.Sprintf("pago %s", receiptID),
		CreatedBy:   operatorID,
		CreatedAt:   now,
	}
	if err := uc.treasury.Create(ctx, tt); err != nil {
		return fmt.Errorf("registrar movimiento de tesorería: %w", err)
	}
	return nil
}
