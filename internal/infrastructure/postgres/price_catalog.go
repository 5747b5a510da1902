package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain"
)

var _ appledger.PriceCatalog = (*PriceCatalog)(nil)

// PriceCatalog resuelve precios unitarios desde el catálogo de productos.
// Lectura pura: la valoración de líneas ocurre antes de abrir la transacción.
type PriceCatalog struct {
	q Querier
}

// NewPriceCatalog construye el catálogo sobre pool o tx (Querier).
func NewPriceCatalog(q Querier) *PriceCatalog {
	return &PriceCatalog{q: q}
}

// PriceOf devuelve el precio de lista del producto.
func (c *PriceCatalog) PriceOf(ctx context.Context, productID string) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := c.q.QueryRow(ctx, `SELECT price FROM products WHERE id = $1`, productID).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("get product price: %w", err)
	}
	return price, nil
}
