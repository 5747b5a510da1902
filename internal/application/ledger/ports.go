package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// TxRunner ejecuta una función con repos de cartera atados a una misma
// transacción. La implementación reintenta ante contención transitoria un
// número acotado de veces y termina rindiéndose con ErrConcurrentModification.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		events repository.LedgerEventRepository,
		accounts repository.AccountRepository,
	) error) error
}

// PriceCatalog es el puerto de solo lectura hacia el catálogo de productos del
// colaborador externo. El motor de cartera no es dueño de los productos: solo
// consulta precios para valorar líneas de factura.
type PriceCatalog interface {
	PriceOf(ctx context.Context, productID string) (decimal.Decimal, error)
}

// StatementPDFGenerator genera la representación PDF del extracto de cuenta.
type StatementPDFGenerator interface {
	GenerateStatementPDF(
		ctx context.Context,
		account *entity.Account,
		lines []ledger.StatementLine,
		balance decimal.Decimal,
	) ([]byte, error)
}
