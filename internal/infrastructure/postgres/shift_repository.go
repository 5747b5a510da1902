package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.ShiftRepository = (*ShiftRepo)(nil)

// ShiftRepo implementación de ShiftRepository (usable con pool o tx).
type ShiftRepo struct {
	q Querier
}

// NewShiftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShiftRepository(q Querier) *ShiftRepo {
	return &ShiftRepo{q: q}
}

const shiftColumns = `id, operator_id, status, opening_amount, closing_amount,
		expected_closing, net_sales, variance, closed_by, opened_at, closed_at`

// Create inserta el turno. El índice único parcial sobre status = 'OPEN'
// respalda el invariante de un solo turno abierto; su violación se traduce
// a ErrShiftAlreadyOpen.
func (r *ShiftRepo) Create(ctx context.Context, shift *entity.Shift) error {
	query := `
		INSERT INTO shifts
			(id, operator_id, status, opening_amount, closing_amount,
			 expected_closing, net_sales, variance, closed_by, opened_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		shift.ID, shift.OperatorID, shift.Status, shift.OpeningAmount, shift.ClosingAmount,
		shift.ExpectedClosing, shift.NetSales, shift.Variance, nullIfEmpty(shift.ClosedBy),
		shift.OpenedAt, shift.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrShiftAlreadyOpen
		}
		return fmt.Errorf("insert shift: %w", err)
	}
	return nil
}

// GetByID obtiene un turno por ID. Devuelve nil si no existe.
func (r *ShiftRepo) GetByID(ctx context.Context, id string) (*entity.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate bloquea la fila del turno en la transacción actual.
func (r *ShiftRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetOpen devuelve el turno OPEN actual, o nil si no hay ninguno.
func (r *ShiftRepo) GetOpen(ctx context.Context) (*entity.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE status = 'OPEN'`
	return r.scanOne(r.q.QueryRow(ctx, query))
}

// Update escribe estado y campos de cierre del turno.
func (r *ShiftRepo) Update(ctx context.Context, shift *entity.Shift) error {
	query := `
		UPDATE shifts SET
			status = $2, closing_amount = $3, expected_closing = $4,
			net_sales = $5, variance = $6, closed_by = $7, closed_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		shift.ID, shift.Status, shift.ClosingAmount, shift.ExpectedClosing,
		shift.NetSales, shift.Variance, nullIfEmpty(shift.ClosedBy), shift.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	return nil
}

func (r *ShiftRepo) scanOne(row pgx.Row) (*entity.Shift, error) {
	var s entity.Shift
	var closedBy *string
	err := row.Scan(
		&s.ID, &s.OperatorID, &s.Status, &s.OpeningAmount, &s.ClosingAmount,
		&s.ExpectedClosing, &s.NetSales, &s.Variance, &closedBy, &s.OpenedAt, &s.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shift: %w", err)
	}
	s.ClosedBy = derefStr(closedBy)
	return &s, nil
}
