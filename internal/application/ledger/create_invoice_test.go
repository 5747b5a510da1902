package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

func (f *fixture) invoiceUC(catalog *memPriceCatalog) *appledger.InvoiceUseCase {
	if catalog == nil {
		catalog = &memPriceCatalog{prices: map[string]decimal.Decimal{}}
	}
	return appledger.NewInvoiceUseCase(f.runner, f.accounts, catalog)
}

func TestCreateInvoice_MontoDirecto(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)

	inv, err := f.invoiceUC(nil).CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		AccountID: accountID,
		Amount:    dec(1200),
		Note:      "pedido semanal",
	})
	require.NoError(t, err)
	assert.True(t, inv.Amount.Equal(dec(1200)))
	assert.True(t, inv.NewBalance.Equal(dec(1200)))
	assert.True(t, f.balanceOf(t, accountID).Equal(dec(1200)))
}

// Con líneas, el monto sale de la suma de subtotales; los precios en cero se
// resuelven contra el catálogo.
func TestCreateInvoice_LineasConPrecioDeCatalogo(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	productA := uuid.New().String()
	productB := uuid.New().String()
	catalog := &memPriceCatalog{prices: map[string]decimal.Decimal{
		productA: dec(250),
	}}

	inv, err := f.invoiceUC(catalog).CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		AccountID: accountID,
		Items: []dto.InvoiceItemRequest{
			{ProductID: productA, Quantity: dec(4)},                     // precio del catálogo: 250
			{ProductID: productB, Quantity: dec(2), UnitPrice: dec(80)}, // precio explícito
		},
	})
	require.NoError(t, err)
	assert.True(t, inv.Amount.Equal(dec(1160)), "4×250 + 2×80")
	require.Len(t, inv.Lines, 2)
	assert.True(t, inv.Lines[0].UnitPrice.Equal(dec(250)))
}

func TestCreateInvoice_ProductoSinPrecioEnCatalogo(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)

	_, err := f.invoiceUC(nil).CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		AccountID: accountID,
		Items: []dto.InvoiceItemRequest{
			{ProductID: uuid.New().String(), Quantity: dec(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Monto directo y líneas son mutuamente excluyentes; ninguno de los dos
// tampoco es válido.
func TestCreateInvoice_MontoXorLineas(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	uc := f.invoiceUC(nil)

	_, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		AccountID: accountID,
		Amount:    dec(100),
		Items: []dto.InvoiceItemRequest{
			{ProductID: uuid.New().String(), Quantity: dec(1), UnitPrice: dec(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto y líneas a la vez")

	_, err = uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{AccountID: accountID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ni monto ni líneas")
}

func TestCreateInvoice_CuentaInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.invoiceUC(nil).CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		AccountID: uuid.New().String(),
		Amount:    dec(100),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Extracto
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) statementUC() *appledger.StatementUseCase {
	return appledger.NewStatementUseCase(f.accounts, f.events, nil)
}

// El extracto lista los eventos en orden cronológico con el saldo acumulado y
// cierra con el saldo actual.
func TestGetStatement_SaldoAcumulado(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	mk := func(kind string, amount decimal.Decimal, day int) {
		now := time.Now()
		require.NoError(t, f.events.Create(context.Background(), &entity.LedgerEvent{
			ID: uuid.New().String(), AccountID: accountID, Kind: kind,
			Amount: amount, Date: base.AddDate(0, 0, day), CreatedAt: now, UpdatedAt: now,
		}))
	}
	mk(entity.EventInvoice, dec(1000), 0)
	mk(entity.EventPayment, dec(300), 1)
	mk(entity.EventInvoice, dec(500), 2)

	st, err := f.statementUC().GetStatement(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, st.Lines, 3)
	assert.True(t, st.Lines[0].RunningBalance.Equal(dec(1000)))
	assert.True(t, st.Lines[1].RunningBalance.Equal(dec(700)))
	assert.True(t, st.Lines[2].RunningBalance.Equal(dec(1200)))
	assert.True(t, st.CurrentBalance.Equal(dec(1200)))
}

// El total abonado del extracto usa el abono heredado cuando la factura aún no
// tiene filas de abono.
func TestGetStatement_TotalPagadoConAbonoHeredado(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	f.seedInvoice(t, accountID, dec(1000), dec(250))

	st, err := f.statementUC().GetStatement(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, st.Lines, 1)
	assert.True(t, st.Lines[0].TotalPaid.Equal(dec(250)))
	assert.True(t, st.CurrentBalance.Equal(dec(750)))
}

func TestGetStatement_CuentaInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.statementUC().GetStatement(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Sin generador de PDF configurado el extracto PDF no está disponible.
func TestGetStatementPDF_SinGenerador(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	_, err := f.statementUC().GetStatementPDF(context.Background(), accountID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
