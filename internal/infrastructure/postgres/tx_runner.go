package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	appledger "github.com/jhoicas/Cartera-api/internal/application/ledger"
	appshift "github.com/jhoicas/Cartera-api/internal/application/shift"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner and shift.TxRunner.
var _ appledger.TxRunner = (*TxRunner)(nil)
var _ appshift.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Ante
// contención transitoria (40001/40P01) reintenta la transacción completa un
// número acotado de veces y termina rindiéndose con ErrConcurrentModification;
// cualquier otro error se devuelve tal cual al primer intento.
type TxRunner struct {
	pool        *pgxpool.Pool
	maxAttempts int
}

// NewTxRunner construye el runner con el pool. maxAttempts <= 0 usa 3.
func NewTxRunner(pool *pgxpool.Pool, maxAttempts int) *TxRunner {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &TxRunner{pool: pool, maxAttempts: maxAttempts}
}

// RunLedger inicia una transacción con repos de cartera atados a la tx.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	events repository.LedgerEventRepository,
	accounts repository.AccountRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewLedgerEventRepository(tx), NewAccountRepository(tx))
	})
}

// RunShift inicia una transacción con repos de turnos y tesorería atados a la tx.
func (r *TxRunner) RunShift(ctx context.Context, fn func(
	shifts repository.ShiftRepository,
	treasury repository.TreasuryRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewShiftRepository(tx), NewTreasuryRepository(tx))
	})
}

func (r *TxRunner) withRetry(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
		// backoff lineal corto antes del siguiente intento
		select {
		case <-time.After(time.Duration(attempt) * 20 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("transacción abortada tras %d intentos (%v): %w", r.maxAttempts, lastErr, domain.ErrConcurrentModification)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
