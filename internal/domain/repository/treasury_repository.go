package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// TreasuryRepository define el puerto del log de tesorería. Append-only por
// contrato: no existen Update ni Delete; una corrección es un movimiento
// inverso nuevo.
type TreasuryRepository interface {
	Create(ctx context.Context, tt *entity.TreasuryTransaction) error
	// SumByType suma créditos y débitos del tipo dado (cash/bank), opcionalmente
	// acotado a un turno.
	SumByType(ctx context.Context, txType string, shiftID *string) (credits, debits decimal.Decimal, err error)
	ListByShift(ctx context.Context, shiftID string) ([]*entity.TreasuryTransaction, error)
}
