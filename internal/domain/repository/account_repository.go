package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para cuentas de cartera.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	// GetByIDForUpdate bloquea la fila de la cuenta dentro de la transacción
	// actual (SELECT ... FOR UPDATE); serializa escritores concurrentes.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Account, error)
	// List filtra por kind (customer/supplier) si no va vacío.
	List(ctx context.Context, kind string, limit, offset int) ([]*entity.Account, error)
	// UpdateBalance persiste el saldo recalculado. Es la única escritura
	// legítima de cached_balance.
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, lastActivity time.Time) error
}
