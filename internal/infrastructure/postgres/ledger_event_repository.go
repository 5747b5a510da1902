package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.LedgerEventRepository = (*LedgerEventRepo)(nil)

// LedgerEventRepo implementación de LedgerEventRepository (usable con pool o tx).
// Los eventos viven en ledger_events; los abonos en partial_payments y las
// líneas de detalle en ledger_event_lines, ambos con FK ON DELETE CASCADE.
type LedgerEventRepo struct {
	q Querier
}

// NewLedgerEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerEventRepository(q Querier) *LedgerEventRepo {
	return &LedgerEventRepo{q: q}
}

const eventColumns = `id, account_id, kind, amount, event_date, note, method,
		linked_invoice_id, attachment_ref, total_paid, legacy_payment_amount,
		created_at, updated_at`

// Create persiste un nuevo evento de cartera (sin abonos ni líneas).
func (r *LedgerEventRepo) Create(ctx context.Context, ev *entity.LedgerEvent) error {
	query := `
		INSERT INTO ledger_events
			(id, account_id, kind, amount, event_date, note, method,
			 linked_invoice_id, attachment_ref, total_paid, legacy_payment_amount,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		ev.ID, ev.AccountID, ev.Kind, ev.Amount, nullIfZeroTime(ev.Date),
		nullIfEmpty(ev.Note), nullIfEmpty(ev.Method),
		nullIfEmpty(ev.LinkedInvoiceID), nullIfEmpty(ev.AttachmentRef),
		ev.TotalPaid, ev.LegacyPaymentAmount,
		ev.CreatedAt, ev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger event: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de detalle de factura.
func (r *LedgerEventRepo) CreateLine(ctx context.Context, line *entity.EventLine) error {
	query := `
		INSERT INTO ledger_event_lines (id, event_id, product_id, description, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.EventID, nullIfEmpty(line.ProductID), line.Description,
		line.Quantity, line.UnitPrice, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert event line: %w", err)
	}
	return nil
}

// CreatePartialPayment persiste un abono aplicado a una factura.
func (r *LedgerEventRepo) CreatePartialPayment(ctx context.Context, pp *entity.PartialPayment) error {
	query := `
		INSERT INTO partial_payments (id, event_id, amount, payment_date, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		pp.ID, pp.EventID, pp.Amount, pp.Date, nullIfEmpty(pp.Note), pp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert partial payment: %w", err)
	}
	return nil
}

// GetByID carga el evento con abonos y líneas. Devuelve nil si no existe.
func (r *LedgerEventRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEvent, error) {
	return r.getOne(ctx, id, false)
}

// GetByIDForUpdate bloquea la fila del evento en la transacción actual.
func (r *LedgerEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.LedgerEvent, error) {
	return r.getOne(ctx, id, true)
}

func (r *LedgerEventRepo) getOne(ctx context.Context, id string, forUpdate bool) (*entity.LedgerEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM ledger_events WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	ev, err := scanEvent(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger event: %w", err)
	}
	if err := r.loadChildren(ctx, []*entity.LedgerEvent{ev}); err != nil {
		return nil, err
	}
	return ev, nil
}

// ListByAccount trae todos los eventos de la cuenta con sus abonos y líneas,
// ordenados por fecha ascendente (fechas nulas al final, desempate por created_at).
func (r *LedgerEventRepo) ListByAccount(ctx context.Context, accountID string) ([]*entity.LedgerEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM ledger_events
		WHERE account_id = $1
		ORDER BY event_date ASC NULLS LAST, created_at ASC`
	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list ledger events: %w", err)
	}
	defer rows.Close()
	var events []*entity.LedgerEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// Update escribe monto, fecha, nota y campos auxiliares del evento.
func (r *LedgerEventRepo) Update(ctx context.Context, ev *entity.LedgerEvent) error {
	query := `
		UPDATE ledger_events SET
			amount = $2, event_date = $3, note = $4, method = $5,
			linked_invoice_id = $6, attachment_ref = $7,
			total_paid = $8, legacy_payment_amount = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		ev.ID, ev.Amount, nullIfZeroTime(ev.Date), nullIfEmpty(ev.Note), nullIfEmpty(ev.Method),
		nullIfEmpty(ev.LinkedInvoiceID), nullIfEmpty(ev.AttachmentRef),
		ev.TotalPaid, ev.LegacyPaymentAmount, ev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ledger event: %w", err)
	}
	return nil
}

// UpdateTotalPaid escribe la caché total_paid de una factura y limpia el abono
// único heredado; desde aquí las filas de abono son la única fuente.
func (r *LedgerEventRepo) UpdateTotalPaid(ctx context.Context, id string, totalPaid decimal.Decimal) error {
	query := `
		UPDATE ledger_events SET total_paid = $2, legacy_payment_amount = 0, updated_at = $3
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, totalPaid, time.Now())
	if err != nil {
		return fmt.Errorf("update total paid: %w", err)
	}
	return nil
}

// ReplaceLines sustituye el detalle completo de una factura.
func (r *LedgerEventRepo) ReplaceLines(ctx context.Context, eventID string, lines []*entity.EventLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM ledger_event_lines WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("delete event lines: %w", err)
	}
	for _, line := range lines {
		if err := r.CreateLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// Delete elimina el evento; abonos y líneas caen en cascada por FK.
func (r *LedgerEventRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM ledger_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ledger event: %w", err)
	}
	return nil
}

// loadChildren rellena Payments y Lines de los eventos dados en dos consultas.
func (r *LedgerEventRepo) loadChildren(ctx context.Context, events []*entity.LedgerEvent) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, 0, len(events))
	byID := make(map[string]*entity.LedgerEvent, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
		byID[ev.ID] = ev
	}

	ppQuery := `
		SELECT id, event_id, amount, payment_date, note, created_at
		FROM partial_payments
		WHERE event_id = ANY($1)
		ORDER BY payment_date ASC, created_at ASC`
	rows, err := r.q.Query(ctx, ppQuery, ids)
	if err != nil {
		return fmt.Errorf("list partial payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pp entity.PartialPayment
		var note *string
		if err := rows.Scan(&pp.ID, &pp.EventID, &pp.Amount, &pp.Date, &note, &pp.CreatedAt); err != nil {
			return fmt.Errorf("scan partial payment: %w", err)
		}
		pp.Note = derefStr(note)
		if ev, ok := byID[pp.EventID]; ok {
			ev.Payments = append(ev.Payments, pp)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	lnQuery := `
		SELECT id, event_id, product_id, description, quantity, unit_price, subtotal
		FROM ledger_event_lines
		WHERE event_id = ANY($1)
		ORDER BY id`
	lrows, err := r.q.Query(ctx, lnQuery, ids)
	if err != nil {
		return fmt.Errorf("list event lines: %w", err)
	}
	defer lrows.Close()
	for lrows.Next() {
		var line entity.EventLine
		var productID *string
		if err := lrows.Scan(&line.ID, &line.EventID, &productID, &line.Description, &line.Quantity, &line.UnitPrice, &line.Subtotal); err != nil {
			return fmt.Errorf("scan event line: %w", err)
		}
		line.ProductID = derefStr(productID)
		if ev, ok := byID[line.EventID]; ok {
			ev.Lines = append(ev.Lines, line)
		}
	}
	return lrows.Err()
}

// scanEvent escanea una fila de ledger_events (pool, tx o rows).
func scanEvent(row pgx.Row) (*entity.LedgerEvent, error) {
	var ev entity.LedgerEvent
	var date *time.Time
	var note, method, linkedID, attachment *string
	err := row.Scan(
		&ev.ID, &ev.AccountID, &ev.Kind, &ev.Amount, &date, &note, &method,
		&linkedID, &attachment, &ev.TotalPaid, &ev.LegacyPaymentAmount,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if date != nil {
		ev.Date = *date
	}
	ev.Note = derefStr(note)
	ev.Method = derefStr(method)
	ev.LinkedInvoiceID = derefStr(linkedID)
	ev.AttachmentRef = derefStr(attachment)
	return &ev, nil
}
