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

// InvoiceUseCase crea facturas de cartera y recalcula el saldo de la cuenta en
// una sola transacción.
type InvoiceUseCase struct {
	txRunner TxRunner
	accounts repository.AccountRepository
	catalog  PriceCatalog
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner TxRunner, accounts repository.AccountRepository, catalog PriceCatalog) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, accounts: accounts, catalog: catalog}
}

// CreateInvoice crea la factura a partir de un monto directo o de líneas de
// detalle valoradas contra el catálogo, y termina recalculando el saldo.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.AccountID == "" {
		return nil, domain.ErrInvalidInput
	}
	hasAmount := in.Amount.GreaterThan(decimal.Zero)
	if hasAmount == (len(in.Items) > 0) {
		// ni monto ni líneas, o ambos a la vez
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	// Valorar líneas fuera de la transacción (solo lectura del catálogo).
	invoiceID := uuid.New().String()
	var lines []*entity.EventLine
	amount := in.Amount
	if len(in.Items) > 0 {
		amount = decimal.Zero
		for _, item := range in.Items {
			if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) || item.UnitPrice.LessThan(decimal.Zero) {
				return nil, domain.ErrInvalidInput
			}
			unitPrice := item.UnitPrice
			if unitPrice.IsZero() {
				price, err := uc.catalog.PriceOf(ctx, item.ProductID)
				if err != nil {
					return nil, err
				}
				unitPrice = price
			}
			subtotal := item.Quantity.Mul(unitPrice)
			amount = amount.Add(subtotal)
			lines = append(lines, &entity.EventLine{
				ID:          uuid.New().String(),
				EventID:     invoiceID,
				ProductID:   item.ProductID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   unitPrice,
				Subtotal:    subtotal,
			})
		}
	}

	inv := &entity.LedgerEvent{
		ID:            invoiceID,
		AccountID:     in.AccountID,
		Kind:          entity.EventInvoice,
		Amount:        amount,
		Date:          date,
		Note:          in.Note,
		AttachmentRef: in.AttachmentRef,
		TotalPaid:     decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal
	err := uc.txRunner.RunLedger(ctx, func(
		events repository.LedgerEventRepository,
		accounts repository.AccountRepository,
	) error {
		acct, err := accounts.GetByIDForUpdate(ctx, in.AccountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return domain.ErrNotFound
		}
		if err := events.Create(ctx, inv); err != nil {
			return err
		}
		for _, line := range lines {
			if err := events.CreateLine(ctx, line); err != nil {
				return err
			}
		}
		newBalance, err = RecalculateInTx(ctx, events, accounts, in.AccountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.InvoiceResponse{
		ID:         inv.ID,
		AccountID:  inv.AccountID,
		Amount:     inv.Amount,
		TotalPaid:  decimal.Zero,
		Date:       inv.Date,
		Note:       inv.Note,
		NewBalance: newBalance,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, dto.EventLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}
	return resp, nil
}
