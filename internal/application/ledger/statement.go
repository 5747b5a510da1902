package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// StatementUseCase arma el extracto de una cuenta: eventos con saldo acumulado
// y saldo actual. Lectura pura sobre el fold; no persiste nada.
type StatementUseCase struct {
	accounts repository.AccountRepository
	events   repository.LedgerEventRepository
	pdf      StatementPDFGenerator
}

// NewStatementUseCase construye el caso de uso. pdf puede ser nil si la
// instalación no genera extractos en PDF.
func NewStatementUseCase(accounts repository.AccountRepository, events repository.LedgerEventRepository, pdf StatementPDFGenerator) *StatementUseCase {
	return &StatementUseCase{accounts: accounts, events: events, pdf: pdf}
}

// GetStatement devuelve el extracto completo de la cuenta.
func (uc *StatementUseCase) GetStatement(ctx context.Context, accountID string) (*dto.StatementResponse, error) {
	acct, lines, balance, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatementResponse{
		AccountID:      acct.ID,
		AccountName:    acct.Name,
		Lines:          make([]dto.StatementLineResponse, 0, len(lines)),
		CurrentBalance: balance,
	}
	for _, line := range lines {
		ev := line.Event
		out := dto.StatementLineResponse{
			EventID:        ev.ID,
			Kind:           ev.Kind,
			Amount:         ev.Amount,
			Date:           ev.Date,
			Note:           ev.Note,
			RunningBalance: line.Running,
		}
		if ev.Kind == entity.EventInvoice {
			out.TotalPaid = ledger.EffectiveTotalPaid(ev)
		}
		resp.Lines = append(resp.Lines, out)
	}
	return resp, nil
}

// GetStatementPDF genera el extracto en PDF (representación para el cliente).
func (uc *StatementUseCase) GetStatementPDF(ctx context.Context, accountID string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.ErrNotFound
	}
	acct, lines, balance, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateStatementPDF(ctx, acct, lines, balance)
}

func (uc *StatementUseCase) load(ctx context.Context, accountID string) (*entity.Account, []ledger.StatementLine, decimal.Decimal, error) {
	acct, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, decimal.Zero, err
	}
	if acct == nil {
		return nil, nil, decimal.Zero, domain.ErrNotFound
	}
	events, err := uc.events.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, nil, decimal.Zero, err
	}
	balance, lines := ledger.Fold(events)
	return acct, lines, balance, nil
}
