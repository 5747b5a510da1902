// Package treasury expone el log append-only de movimientos de dinero físico y
// bancario, independiente de la deuda de cartera.
package treasury

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

// UseCase casos de uso de tesorería. El log nunca se edita ni se borra: una
// corrección es un movimiento inverso nuevo.
type UseCase struct {
	treasury repository.TreasuryRepository
	shifts   repository.ShiftRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(treasury repository.TreasuryRepository, shifts repository.ShiftRepository) *UseCase {
	return &UseCase{treasury: treasury, shifts: shifts}
}

// Record registra un movimiento manual (gasto, pago a proveedor, ajuste). Si
// no viene shift_id se etiqueta con el turno abierto actual, si existe.
func (uc *UseCase) Record(ctx context.Context, operatorID string, in dto.CreateTreasuryTransactionRequest) (*dto.TreasuryTransactionResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if (in.Type != entity.TreasuryTypeCash && in.Type != entity.TreasuryTypeBank) ||
		(in.Operation != entity.TreasuryOpCredit && in.Operation != entity.TreasuryOpDebit) ||
		(in.Destination != entity.TreasuryDestDrawer && in.Destination != entity.TreasuryDestBank) ||
		in.Source == "" {
		return nil, domain.ErrInvalidInput
	}

	var shiftID *string
	if in.ShiftID != "" {
		shiftID = &in.ShiftID
	} else {
		open, err := uc.shifts.GetOpen(ctx)
		if err != nil {
			return nil, err
		}
		if open != nil {
			shiftID = &open.ID
		}
	}

	tt := &entity.TreasuryTransaction{
		ID:          uuid.New().String(),
		Type:        in.Type,
		Operation:   in.Operation,
		Amount:      in.Amount,
		Source:      in.Source,
		Destination: in.Destination,
		ShiftID:     shiftID,
		Note:        in.Note,
		CreatedBy:   operatorID,
		CreatedAt:   time.Now(),
	}
	if err := uc.treasury.Create(ctx, tt); err != nil {
		return nil, err
	}

	resp := &dto.TreasuryTransactionResponse{
		ID:          tt.ID,
		Type:        tt.Type,
		Operation:   tt.Operation,
		Amount:      tt.Amount,
		Source:      tt.Source,
		Destination: tt.Destination,
		Note:        tt.Note,
		CreatedAt:   tt.CreatedAt,
	}
	if shiftID != nil {
		resp.ShiftID = *shiftID
	}
	return resp, nil
}

// Balance devuelve créditos − débitos del tipo dado, opcionalmente acotado a
// un turno.
func (uc *UseCase) Balance(ctx context.Context, txType, shiftID string) (*dto.TreasuryBalanceResponse, error) {
	if txType != entity.TreasuryTypeCash && txType != entity.TreasuryTypeBank {
		return nil, domain.ErrInvalidInput
	}
	var scope *string
	if shiftID != "" {
		scope = &shiftID
	}
	credits, debits, err := uc.treasury.SumByType(ctx, txType, scope)
	if err != nil {
		return nil, err
	}
	return &dto.TreasuryBalanceResponse{
		Type:    txType,
		ShiftID: shiftID,
		Balance: credits.Sub(debits),
	}, nil
}

// ListByShift lista los movimientos de un turno (para el reporte de cierre).
func (uc *UseCase) ListByShift(ctx context.Context, shiftID string) ([]*dto.TreasuryTransactionResponse, error) {
	list, err := uc.treasury.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TreasuryTransactionResponse, 0, len(list))
	for _, tt := range list {
		resp := &dto.TreasuryTransactionResponse{
			ID:          tt.ID,
			Type:        tt.Type,
			Operation:   tt.Operation,
			Amount:      tt.Amount,
			Source:      tt.Source,
			Destination: tt.Destination,
			Note:        tt.Note,
			CreatedAt:   tt.CreatedAt,
		}
		if tt.ShiftID != nil {
			resp.ShiftID = *tt.ShiftID
		}
		out = append(out, resp)
	}
	return out, nil
}
