package ledger_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria compartido por los fakes. Los repos toman mu por llamada;
// el runner de transacciones serializa transacciones completas con txMu y
// restaura un snapshot si el callback falla (rollback).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu       sync.Mutex
	accounts map[string]*entity.Account
	events   map[string]*entity.LedgerEvent
	shifts   map[string]*entity.Shift
	treasury map[string]*entity.TreasuryTransaction
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*entity.Account),
		events:   make(map[string]*entity.LedgerEvent),
		shifts:   make(map[string]*entity.Shift),
		treasury: make(map[string]*entity.TreasuryTransaction),
	}
}

func cloneAccount(a *entity.Account) *entity.Account {
	c := *a
	return &c
}

func cloneEvent(e *entity.LedgerEvent) *entity.LedgerEvent {
	c := *e
	c.Payments = append([]entity.PartialPayment(nil), e.Payments...)
	c.Lines = append([]entity.EventLine(nil), e.Lines...)
	return &c
}

func cloneShift(s *entity.Shift) *entity.Shift {
	c := *s
	return &c
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := newMemStore()
	for id, a := range s.accounts {
		snap.accounts[id] = cloneAccount(a)
	}
	for id, e := range s.events {
		snap.events[id] = cloneEvent(e)
	}
	for id, sh := range s.shifts {
		snap.shifts[id] = cloneShift(sh)
	}
	for id, tt := range s.treasury {
		c := *tt
		snap.treasury[id] = &c
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = snap.accounts
	s.events = snap.events
	s.shifts = snap.shifts
	s.treasury = snap.treasury
}

// ── AccountRepository ─────────────────────────────────────────────────────────

type memAccountRepo struct{ s *memStore }

var _ repository.AccountRepository = (*memAccountRepo)(nil)

func (r *memAccountRepo) Create(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return cloneAccount(a), nil
}

func (r *memAccountRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *memAccountRepo) List(_ context.Context, kind string, limit, offset int) ([]*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Account
	for _, a := range r.s.accounts {
		if kind == "" || a.Kind == kind {
			list = append(list, cloneAccount(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *memAccountRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal, lastActivity time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.CachedBalance = balance
	a.LastActivityAt = lastActivity
	a.UpdatedAt = lastActivity
	return nil
}

// ── LedgerEventRepository ─────────────────────────────────────────────────────

type memEventRepo struct{ s *memStore }

var _ repository.LedgerEventRepository = (*memEventRepo)(nil)

func (r *memEventRepo) Create(_ context.Context, ev *entity.LedgerEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[ev.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.events[ev.ID] = cloneEvent(ev)
	return nil
}

func (r *memEventRepo) CreateLine(_ context.Context, line *entity.EventLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ev, ok := r.s.events[line.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	ev.Lines = append(ev.Lines, *line)
	return nil
}

func (r *memEventRepo) CreatePartialPayment(_ context.Context, pp *entity.PartialPayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ev, ok := r.s.events[pp.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	ev.Payments = append(ev.Payments, *pp)
	return nil
}

func (r *memEventRepo) GetByID(_ context.Context, id string) (*entity.LedgerEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ev, ok := r.s.events[id]
	if !ok {
		return nil, nil
	}
	return cloneEvent(ev), nil
}

func (r *memEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.LedgerEvent, error) {
	return r.GetByID(ctx, id)
}

func (r *memEventRepo) ListByAccount(_ context.Context, accountID string) ([]*entity.LedgerEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.LedgerEvent
	for _, ev := range r.s.events {
		if ev.AccountID == accountID {
			list = append(list, cloneEvent(ev))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *memEventRepo) Update(_ context.Context, ev *entity.LedgerEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.events[ev.ID]
	if !ok {
		return domain.ErrNotFound
	}
	clone := cloneEvent(ev)
	clone.Payments = stored.Payments
	clone.Lines = stored.Lines
	r.s.events[ev.ID] = clone
	return nil
}

func (r *memEventRepo) UpdateTotalPaid(_ context.Context, id string, totalPaid decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ev, ok := r.s.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	ev.TotalPaid = totalPaid
	ev.LegacyPaymentAmount = decimal.Zero
	return nil
}

func (r *memEventRepo) ReplaceLines(_ context.Context, eventID string, lines []*entity.EventLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ev, ok := r.s.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	ev.Lines = nil
	for _, l := range lines {
		ev.Lines = append(ev.Lines, *l)
	}
	return nil
}

func (r *memEventRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.events, id)
	return nil
}

// ── ShiftRepository ───────────────────────────────────────────────────────────

type memShiftRepo struct{ s *memStore }

var _ repository.ShiftRepository = (*memShiftRepo)(nil)

func (r *memShiftRepo) Create(_ context.Context, shift *entity.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sh := range r.s.shifts {
		if sh.Status == entity.ShiftStatusOpen && shift.Status == entity.ShiftStatusOpen {
			return domain.ErrShiftAlreadyOpen
		}
	}
	r.s.shifts[shift.ID] = cloneShift(shift)
	return nil
}

func (r *memShiftRepo) GetByID(_ context.Context, id string) (*entity.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh, ok := r.s.shifts[id]
	if !ok {
		return nil, nil
	}
	return cloneShift(sh), nil
}

func (r *memShiftRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Shift, error) {
	return r.GetByID(ctx, id)
}

func (r *memShiftRepo) GetOpen(_ context.Context) (*entity.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sh := range r.s.shifts {
		if sh.Status == entity.ShiftStatusOpen {
			return cloneShift(sh), nil
		}
	}
	return nil, nil
}

func (r *memShiftRepo) Update(_ context.Context, shift *entity.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shifts[shift.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.shifts[shift.ID] = cloneShift(shift)
	return nil
}

// ── TreasuryRepository ────────────────────────────────────────────────────────

type memTreasuryRepo struct {
	s *memStore
	// failCreate simula una tesorería caída para probar el error blando.
	failCreate bool
}

var _ repository.TreasuryRepository = (*memTreasuryRepo)(nil)

func (r *memTreasuryRepo) Create(_ context.Context, tt *entity.TreasuryTransaction) error {
	if r.failCreate {
		return errors.New("tesorería no disponible")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *tt
	r.s.treasury[tt.ID] = &c
	return nil
}

func (r *memTreasuryRepo) SumByType(_ context.Context, txType string, shiftID *string) (decimal.Decimal, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	credits, debits := decimal.Zero, decimal.Zero
	for _, tt := range r.s.treasury {
		if tt.Type != txType {
			continue
		}
		if shiftID != nil && (tt.ShiftID == nil || *tt.ShiftID != *shiftID) {
			continue
		}
		if tt.Operation == entity.TreasuryOpCredit {
			credits = credits.Add(tt.Amount)
		} else {
			debits = debits.Add(tt.Amount)
		}
	}
	return credits, debits, nil
}

func (r *memTreasuryRepo) ListByShift(_ context.Context, shiftID string) ([]*entity.TreasuryTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.TreasuryTransaction
	for _, tt := range r.s.treasury {
		if tt.ShiftID != nil && *tt.ShiftID == shiftID {
			c := *tt
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// memTxRunner serializa transacciones completas (equivalente al lock de fila
// de la cuenta) y restaura el estado si el callback falla.
type memTxRunner struct {
	s    *memStore
	txMu sync.Mutex
}

var _ appledger.TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) RunLedger(ctx context.Context, fn func(
	events repository.LedgerEventRepository,
	accounts repository.AccountRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	snap := r.s.snapshot()
	if err := fn(&memEventRepo{s: r.s}, &memAccountRepo{s: r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ── PriceCatalog ──────────────────────────────────────────────────────────────

type memPriceCatalog struct {
	prices map[string]decimal.Decimal
}

var _ appledger.PriceCatalog = (*memPriceCatalog)(nil)

func (c *memPriceCatalog) PriceOf(_ context.Context, productID string) (decimal.Decimal, error) {
	p, ok := c.prices[productID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return p, nil
}
