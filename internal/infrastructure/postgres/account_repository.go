package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, kind, name, phone, cached_balance, last_activity_at, created_at, updated_at`

// Create persiste una nueva cuenta de cartera.
func (r *AccountRepo) Create(ctx context.Context, account *entity.Account) error {
	query := `
		INSERT INTO accounts (id, kind, name, phone, cached_balance, last_activity_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		account.ID, account.Kind, account.Name, nullIfEmpty(account.Phone),
		account.CachedBalance, account.LastActivityAt, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID. Devuelve nil si no existe.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate bloquea la fila de la cuenta en la transacción actual.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// List lista cuentas con paginación, filtrando por kind si no va vacío.
func (r *AccountRepo) List(ctx context.Context, kind string, limit, offset int) ([]*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE ($1 = '' OR kind = $1)
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		var a entity.Account
		var phone *string
		if err := rows.Scan(
			&a.ID, &a.Kind, &a.Name, &phone,
			&a.CachedBalance, &a.LastActivityAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Phone = derefStr(phone)
		list = append(list, &a)
	}
	return list, rows.Err()
}

// UpdateBalance persiste el saldo recalculado y la última actividad.
func (r *AccountRepo) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, lastActivity time.Time) error {
	query := `
		UPDATE accounts SET cached_balance = $2, last_activity_at = $3, updated_at = $3
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, balance, lastActivity)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepo) scanOne(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	var phone *string
	err := row.Scan(
		&a.ID, &a.Kind, &a.Name, &phone,
		&a.CachedBalance, &a.LastActivityAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.Phone = derefStr(phone)
	return &a, nil
}
