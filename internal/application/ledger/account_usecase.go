package ledger

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

// AccountUseCase casos de uso para cuentas de cartera (clientes y proveedores).
type AccountUseCase struct {
	txRunner TxRunner
	accounts repository.AccountRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(txRunner TxRunner, accounts repository.AccountRepository) *AccountUseCase {
	return &AccountUseCase{txRunner: txRunner, accounts: accounts}
}

// Create crea una cuenta. Si viene un saldo inicial distinto de cero, siembra
// el evento opening_balance y recalcula, todo en la misma transacción.
func (uc *AccountUseCase) Create(ctx context.Context, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Kind != entity.AccountKindCustomer && in.Kind != entity.AccountKindSupplier {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	acct := &entity.Account{
		ID:             uuid.New().String(),
		Kind:           in.Kind,
		Name:           in.Name,
		Phone:          in.Phone,
		CachedBalance:  decimal.Zero,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := uc.txRunner.RunLedger(ctx, func(
		events repository.LedgerEventRepository,
		accounts repository.AccountRepository,
	) error {
		if err := accounts.Create(ctx, acct); err != nil {
			return err
		}
		if in.OpeningBalance.IsZero() {
			return nil
		}
		seed := &entity.LedgerEvent{
			ID:        uuid.New().String(),
			AccountID: acct.ID,
			Kind:      entity.EventOpeningBalance,
			Amount:    in.OpeningBalance,
			Date:      now,
			Note:      "saldo inicial de migración",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := seed.Validate(); err != nil {
			return err
		}
		if err := events.Create(ctx, seed); err != nil {
			return err
		}
		bal, err := RecalculateInTx(ctx, events, accounts, acct.ID)
		if err != nil {
			return err
		}
		acct.CachedBalance = bal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(acct), nil
}

// GetByID obtiene una cuenta por ID.
func (uc *AccountUseCase) GetByID(ctx context.Context, id string) (*dto.AccountResponse, error) {
	acct, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, domain.ErrNotFound
	}
	return toAccountResponse(acct), nil
}

// List lista cuentas, opcionalmente filtradas por kind.
func (uc *AccountUseCase) List(ctx context.Context, kind string, limit, offset int) ([]*dto.AccountResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.accounts.List(ctx, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAccountResponse(a))
	}
	return out, nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:             a.ID,
		Kind:           a.Kind,
		Name:           a.Name,
		Phone:          a.Phone,
		Balance:        a.CachedBalance,
		LastActivityAt: a.LastActivityAt,
		CreatedAt:      a.CreatedAt,
	}
}
