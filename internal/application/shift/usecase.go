// Package shift administra los turnos de caja: apertura, gastos y cierre con
// conciliación del efectivo contado contra el esperado.
package shift

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// TxRunner ejecuta una función con repos de turnos y tesorería atados a una
// misma transacción.
type TxRunner interface {
	RunShift(ctx context.Context, fn func(
		shifts repository.ShiftRepository,
		treasury repository.TreasuryRepository,
	) error) error
}

// UseCase es el dueño único del invariante "a lo sumo un turno OPEN": toda
// apertura pasa por un check-and-create transaccional respaldado por el índice
// único parcial del almacén.
type UseCase struct {
	txRunner TxRunner
	shifts   repository.ShiftRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, shifts repository.ShiftRepository) *UseCase {
	return &UseCase{txRunner: txRunner, shifts: shifts}
}

// Start abre un turno de caja con el monto inicial contado.
func (uc *UseCase) Start(ctx context.Context, operatorID string, in dto.StartShiftRequest) (*dto.ShiftResponse, error) {
	if in.OpeningAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if operatorID == "" {
		return nil, domain.ErrInvalidInput
	}

	shift := &entity.Shift{
		ID:            uuid.New().String(),
		OperatorID:    operatorID,
		Status:        entity.ShiftStatusOpen,
		OpeningAmount: in.OpeningAmount,
		OpenedAt:      time.Now(),
	}

	err := uc.txRunner.RunShift(ctx, func(
		shifts repository.ShiftRepository,
		_ repository.TreasuryRepository,
	) error {
		open, err := shifts.GetOpen(ctx)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrShiftAlreadyOpen
		}
		// El índice único parcial respalda esta verificación ante carreras.
		return shifts.Create(ctx, shift)
	})
	if err != nil {
		return nil, err
	}
	return toShiftResponse(shift), nil
}

// RecordExpense registra un gasto de caja del turno: débito cash sobre el
// cajón, etiquetado con el turno. Solo es legal con el turno abierto.
func (uc *UseCase) RecordExpense(ctx context.Context, operatorID, shiftID string, in dto.RecordExpenseRequest) (*dto.TreasuryTransactionResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if in.Category == "" {
		return nil, domain.ErrInvalidInput
	}

	tt := &entity.TreasuryTransaction{
		ID:          uuid.New().String(),
		Type:        entity.TreasuryTypeCash,
		Operation:   entity.TreasuryOpDebit,
		Amount:      in.Amount,
		Source:      in.Category,
		Destination: entity.TreasuryDestDrawer,
		ShiftID:     &shiftID,
		Note:        in.Note,
		CreatedBy:   operatorID,
		CreatedAt:   time.Now(),
	}

	err := uc.txRunner.RunShift(ctx, func(
		shifts repository.ShiftRepository,
		treasury repository.TreasuryRepository,
	) error {
		shift, err := shifts.GetByIDForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrShiftNotFound
		}
		if !shift.IsOpen() {
			return domain.ErrShiftAlreadyClosed
		}
		return treasury.Create(ctx, tt)
	})
	if err != nil {
		return nil, err
	}
	return &dto.TreasuryTransactionResponse{
		ID:          tt.ID,
		Type:        tt.Type,
		Operation:   tt.Operation,
		Amount:      tt.Amount,
		Source:      tt.Source,
		Destination: tt.Destination,
		ShiftID:     shiftID,
		Note:        tt.Note,
		CreatedAt:   tt.CreatedAt,
	}, nil
}

// Close concilia y cierra el turno:
//
//	esperado = apertura + créditos cash − débitos cash   (bank queda fuera)
//	ventas   = esperado − apertura
//	desvío   = contado − esperado   (se reporta, jamás se corrige)
func (uc *UseCase) Close(ctx context.Context, operatorID, shiftID string, in dto.CloseShiftRequest) (*dto.CloseShiftResponse, error) {
	if in.CountedAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	var resp *dto.CloseShiftResponse
	err := uc.txRunner.RunShift(ctx, func(
		shifts repository.ShiftRepository,
		treasury repository.TreasuryRepository,
	) error {
		shift, err := shifts.GetByIDForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrShiftNotFound
		}
		if !shift.IsOpen() {
			return domain.ErrShiftAlreadyClosed
		}

		credits, debits, err := treasury.SumByType(ctx, entity.TreasuryTypeCash, &shiftID)
		if err != nil {
			return err
		}
		expected := shift.OpeningAmount.Add(credits).Sub(debits)
		netSales := expected.Sub(shift.OpeningAmount)
		variance := in.CountedAmount.Sub(expected)
		now := time.Now()

		counted := in.CountedAmount
		shift.Status = entity.ShiftStatusClosed
		shift.ClosingAmount = &counted
		shift.ExpectedClosing = &expected
		shift.NetSales = &netSales
		shift.Variance = &variance
		shift.ClosedBy = operatorID
		shift.ClosedAt = &now
		if err := shifts.Update(ctx, shift); err != nil {
			return err
		}

		resp = &dto.CloseShiftResponse{
			ShiftID:         shift.ID,
			ExpectedClosing: expected,
			CountedAmount:   counted,
			NetSales:        netSales,
			Variance:        variance,
			ClosedAt:        now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetOpen devuelve el turno abierto actual, o nil si no hay.
func (uc *UseCase) GetOpen(ctx context.Context) (*dto.ShiftResponse, error) {
	shift, err := uc.shifts.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, nil
	}
	return toShiftResponse(shift), nil
}

func toShiftResponse(s *entity.Shift) *dto.ShiftResponse {
	return &dto.ShiftResponse{
		ID:              s.ID,
		OperatorID:      s.OperatorID,
		Status:          s.Status,
		OpeningAmount:   s.OpeningAmount,
		ClosingAmount:   s.ClosingAmount,
		ExpectedClosing: s.ExpectedClosing,
		NetSales:        s.NetSales,
		Variance:        s.Variance,
		OpenedAt:        s.OpenedAt,
		ClosedAt:        s.ClosedAt,
	}
}
