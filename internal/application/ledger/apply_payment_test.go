package ledger_test

import (
	"context"
	"sync"
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

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fixture struct {
	store    *memStore
	runner   *memTxRunner
	accounts *memAccountRepo
	events   *memEventRepo
	shifts   *memShiftRepo
	treasury *memTreasuryRepo
}

func newFixture() *fixture {
	s := newMemStore()
	return &fixture{
		store:    s,
		runner:   &memTxRunner{s: s},
		accounts: &memAccountRepo{s: s},
		events:   &memEventRepo{s: s},
		shifts:   &memShiftRepo{s: s},
		treasury: &memTreasuryRepo{s: s},
	}
}

func (f *fixture) paymentUC() *appledger.PaymentUseCase {
	return appledger.NewPaymentUseCase(f.runner, f.shifts, f.treasury)
}

func (f *fixture) seedAccount(t *testing.T) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now()
	require.NoError(t, f.accounts.Create(context.Background(), &entity.Account{
		ID: id, Kind: entity.AccountKindCustomer, Name: "Tienda El Paso",
		CachedBalance: decimal.Zero, LastActivityAt: now, CreatedAt: now, UpdatedAt: now,
	}))
	return id
}

func (f *fixture) seedInvoice(t *testing.T, accountID string, amount, legacy decimal.Decimal) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now()
	require.NoError(t, f.events.Create(context.Background(), &entity.LedgerEvent{
		ID: id, AccountID: accountID, Kind: entity.EventInvoice,
		Amount: amount, Date: now, LegacyPaymentAmount: legacy,
		CreatedAt: now, UpdatedAt: now,
	}))
	return id
}

func (f *fixture) balanceOf(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	a, err := f.accounts.GetByID(context.Background(), accountID)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.CachedBalance
}

// ──────────────────────────────────────────────────────────────────────────────
// Abonos vinculados a factura
// ──────────────────────────────────────────────────────────────────────────────

// El abono vinculado no debe contarse dos veces: entra como fila de abono, no
// como evento payment independiente, y el saldo queda en monto − abonado.
func TestApplyPayment_AbonoVinculado_NoDuplicaDescuento(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	invoiceID := f.seedInvoice(t, accountID, dec(1000), decimal.Zero)

	receipt, err := f.paymentUC().ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID:       accountID,
		Amount:          dec(400),
		LinkedInvoiceID: invoiceID,
	})
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.True(t, receipt.NewBalance.Equal(dec(600)),
		"saldo = 1000 − 400, el abono debe descontarse exactamente una vez (got %s)", receipt.NewBalance)
	assert.True(t, f.balanceOf(t, accountID).Equal(dec(600)))

	inv, err := f.events.GetByID(context.Background(), invoiceID)
	require.NoError(t, err)
	require.Len(t, inv.Payments, 1)
	assert.True(t, inv.TotalPaid.Equal(dec(400)))

	// No debe existir un evento payment independiente para el abono.
	all, err := f.events.ListByAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.Len(t, all, 1, "el abono vinculado no crea evento propio")
}

// Pagar más que el saldo pendiente de la factura se rechaza, sin mutar nada.
func TestApplyPayment_SobrepagoRechazado(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	invoiceID := f.seedInvoice(t, accountID, dec(1000), decimal.Zero)

	receipt, err := f.paymentUC().ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID:       accountID,
		Amount:          dec(1200),
		LinkedInvoiceID: invoiceID,
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsInvoice)
	assert.Nil(t, receipt)

	inv, getErr := f.events.GetByID(context.Background(), invoiceID)
	require.NoError(t, getErr)
	assert.Empty(t, inv.Payments, "el rechazo no debe dejar filas de abono")
	assert.True(t, inv.TotalPaid.IsZero())
}

// Sobrepago también considera lo ya abonado: 700 + 400 > 1000 → rechazo.
func TestApplyPayment_SobrepagoAcumuladoRechazado(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	invoiceID := f.seedInvoice(t, accountID, dec(1000), decimal.Zero)
	uc := f.paymentUC()

	_, err := uc.ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID: accountID, Amount: dec(700), LinkedInvoiceID: invoiceID,
	})
	require.NoError(t, err)

	_, err = uc.ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID: accountID, Amount: dec(400), LinkedInvoiceID: invoiceID,
	})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsInvoice)
	assert.True(t, f.balanceOf(t, accountID).Equal(dec(300)), "el saldo debe quedar en 300 tras el primer abono")
}

// El abono único heredado se materializa como fila al primer abono nuevo y el
// campo heredado deja de contar.
func TestApplyPayment_MigraAbonoHeredadoComoFila(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	invoiceID := f.seedInvoice(t, accountID, dec(1000), dec(200))

	receipt, err := f.paymentUC().ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID:       accountID,
		Amount:          dec(300),
		LinkedInvoiceID: invoiceID,
	})
	require.NoError(t, err)

	inv, getErr := f.events.GetByID(context.Background(), invoiceID)
	require.NoError(t, getErr)
	require.Len(t, inv.Payments, 2, "abono migrado + abono nuevo")
	assert.True(t, inv.TotalPaid.Equal(dec(500)))
	assert.True(t, inv.LegacyPaymentAmount.IsZero(), "el abono heredado se limpia al materializarse")
	assert.True(t, receipt.NewBalance.Equal(dec(500)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos sueltos
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyPayment_PagoSueltoDescuentaDeuda(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	f.seedInvoice(t, accountID, dec(1000), decimal.Zero)

	receipt, err := f.paymentUC().ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID: accountID,
		Amount:    dec(300),
	})
	require.NoError(t, err)
	assert.True(t, receipt.NewBalance.Equal(dec(700)))

	all, err := f.events.ListByAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.Len(t, all, 2, "el pago suelto sí es un evento propio")
}

func TestApplyPayment_MontoInvalido(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)

	for _, amount := range []decimal.Decimal{decimal.Zero, dec(-50)} {
		_, err := f.paymentUC().ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
			AccountID: accountID,
			Amount:    amount,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
}

func TestApplyPayment_CuentaInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.paymentUC().ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID: uuid.New().String(),
		Amount:    dec(100),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Efecto secundario de tesorería
// ──────────────────────────────────────────────────────────────────────────────

// Un pago cash con turno abierto registra el crédito en tesorería etiquetado
// con ese turno.
func TestApplyPayment_CashRegistraTesoreriaConTurno(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	f.seedInvoice(t, accountID, dec(1000), decimal.Zero)

	shiftID := uuid.New().String()
	require.NoError(t, f.shifts.Create(context.Background(), &entity.Shift{
		ID: shiftID, OperatorID: "op-1", Status: entity.ShiftStatusOpen,
		OpeningAmount: dec(5000), OpenedAt: time.Now(),
	}))

	_, err := f.paymentUC().ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID: accountID,
		Amount:    dec(2000),
		Method:    entity.MethodCash,
	})
	require.NoError(t, err)

	list, err := f.treasury.ListByShift(context.Background(), shiftID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.TreasuryTypeCash, list[0].Type)
	assert.Equal(t, entity.TreasuryOpCredit, list[0].Operation)
	assert.Equal(t, entity.TreasuryDestDrawer, list[0].Destination)
	assert.Equal(t, entity.TreasurySourceB2BPayment, list[0].Source)
	assert.True(t, list[0].Amount.Equal(dec(2000)))
}

// Si tesorería falla, el pago queda confirmado: se devuelve el recibo con la
// advertencia JUNTO con el error blando, y el saldo ya está corregido.
func TestApplyPayment_FalloTesoreriaDevuelveReciboYErrorBlando(t *testing.T) {
	f := newFixture()
	f.treasury.failCreate = true
	accountID := f.seedAccount(t)
	invoiceID := f.seedInvoice(t, accountID, dec(1000), decimal.Zero)

	receipt, err := f.paymentUC().ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID:       accountID,
		Amount:          dec(400),
		LinkedInvoiceID: invoiceID,
		Method:          entity.MethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrTreasurySideEffect)
	require.NotNil(t, receipt, "el recibo viaja junto al error blando")
	assert.NotEmpty(t, receipt.TreasuryWarning)
	assert.True(t, receipt.NewBalance.Equal(dec(600)))
	assert.True(t, f.balanceOf(t, accountID).Equal(dec(600)), "la deuda ya quedó corregida")
}

// Pago sin método (ni cash ni bank) no toca tesorería.
func TestApplyPayment_SinMetodoNoTocaTesoreria(t *testing.T) {
	f := newFixture()
	f.treasury.failCreate = true // fallaría si se tocara
	accountID := f.seedAccount(t)
	f.seedInvoice(t, accountID, dec(1000), decimal.Zero)

	receipt, err := f.paymentUC().ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
		AccountID: accountID,
		Amount:    dec(100),
	})
	require.NoError(t, err)
	assert.Empty(t, receipt.TreasuryWarning)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Dos abonos concurrentes de 100 sobre la misma factura deben terminar ambos
// aplicados: total abonado 200, sin pisarse el uno al otro.
func TestApplyPayment_AbonosConcurrentesNoSePisan(t *testing.T) {
	f := newFixture()
	accountID := f.seedAccount(t)
	invoiceID := f.seedInvoice(t, accountID, dec(1000), decimal.Zero)
	uc := f.paymentUC()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.ApplyPayment(context.Background(), "op-1", dto.ApplyPaymentRequest{
				AccountID:       accountID,
				Amount:          dec(100),
				LinkedInvoiceID: invoiceID,
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	inv, err := f.events.GetByID(context.Background(), invoiceID)
	require.NoError(t, err)
	assert.Len(t, inv.Payments, 2)
	assert.True(t, inv.TotalPaid.Equal(dec(200)), "total abonado = 100 + 100 (got %s)", inv.TotalPaid)
	assert.True(t, f.balanceOf(t, accountID).Equal(dec(800)))
}
