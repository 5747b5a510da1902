package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// BalanceCalculator recalcula el saldo de una cuenta plegando su historial
// completo. Es la ÚNICA vía legítima para derivar un saldo: no existen en el
// código incrementos directos sobre cached_balance.
type BalanceCalculator struct {
	txRunner TxRunner
}

// NewBalanceCalculator construye el recalculador.
func NewBalanceCalculator(txRunner TxRunner) *BalanceCalculator {
	return &BalanceCalculator{txRunner: txRunner}
}

// Recompute abre su propia transacción y recalcula el saldo de la cuenta.
// Idempotente: dos ejecuciones seguidas sin escrituras intermedias devuelven
// el mismo saldo bit a bit.
func (uc *BalanceCalculator) Recompute(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := uc.txRunner.RunLedger(ctx, func(
		events repository.LedgerEventRepository,
		accounts repository.AccountRepository,
	) error {
		acct, err := accounts.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return domain.ErrNotFound
		}
		balance, err = RecalculateInTx(ctx, events, accounts, accountID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// RecalculateInTx recalcula y persiste el saldo usando los repos de la
// transacción del caller. Algoritmo fijo: traer TODOS los eventos frescos del
// almacén (nunca confiar en totales cacheados), ordenar ascendente por fecha
// (fecha cero al final), plegar SignedContribution y escribir el saldo final
// en accounts.cached_balance.
func RecalculateInTx(
	ctx context.Context,
	events repository.LedgerEventRepository,
	accounts repository.AccountRepository,
	accountID string,
) (decimal.Decimal, error) {
	all, err := events.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	balance, _ := ledger.Fold(all)
	if err := accounts.UpdateBalance(ctx, accountID, balance, time.Now()); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
