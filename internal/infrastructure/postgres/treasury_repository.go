package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.TreasuryRepository = (*TreasuryRepo)(nil)

// TreasuryRepo implementación de TreasuryRepository (usable con pool o tx).
// Solo inserta y consulta: el log de tesorería no admite UPDATE ni DELETE.
type TreasuryRepo struct {
	q Querier
}

// NewTreasuryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTreasuryRepository(q Querier) *TreasuryRepo {
	return &TreasuryRepo{q: q}
}

// Create persiste un movimiento de tesorería.
func (r *TreasuryRepo) Create(ctx context.Context, tt *entity.TreasuryTransaction) error {
	query := `
		INSERT INTO treasury_transactions
			(id, tx_type, operation, amount, source, destination, shift_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		tt.ID, tt.Type, tt.Operation, tt.Amount, tt.Source, tt.Destination,
		tt.ShiftID, nullIfEmpty(tt.Note), nullIfEmpty(tt.CreatedBy), tt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert treasury transaction: %w", err)
	}
	return nil
}

// SumByType suma créditos y débitos del tipo dado, opcionalmente acotado a un turno.
func (r *TreasuryRepo) SumByType(ctx context.Context, txType string, shiftID *string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE operation = 'credit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE operation = 'debit'), 0)
		FROM treasury_transactions
		WHERE tx_type = $1 AND ($2::text IS NULL OR shift_id = $2)`
	var credits, debits decimal.Decimal
	if err := r.q.QueryRow(ctx, query, txType, shiftID).Scan(&credits, &debits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum treasury by type: %w", err)
	}
	return credits, debits, nil
}

// ListByShift lista los movimientos registrados durante un turno.
func (r *TreasuryRepo) ListByShift(ctx context.Context, shiftID string) ([]*entity.TreasuryTransaction, error) {
	query := `
		SELECT id, tx_type, operation, amount, source, destination, shift_id, note, created_by, created_at
		FROM treasury_transactions
		WHERE shift_id = $1
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("list treasury by shift: %w", err)
	}
	defer rows.Close()
	var list []*entity.TreasuryTransaction
	for rows.Next() {
		var tt entity.TreasuryTransaction
		var note, createdBy *string
		if err := rows.Scan(
			&tt.ID, &tt.Type, &tt.Operation, &tt.Amount, &tt.Source, &tt.Destination,
			&tt.ShiftID, &note, &createdBy, &tt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan treasury transaction: %w", err)
		}
		tt.Note = derefStr(note)
		tt.CreatedBy = derefStr(createdBy)
		list = append(list, &tt)
	}
	return list, rows.Err()
}
