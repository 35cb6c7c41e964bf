package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/utils"
)

type fakeClients struct {
	clients map[string]*models.Client
	err     error
}

func (f *fakeClients) GetClientByDocumentIdentifier(_ context.Context, id string) (*models.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.clients[id], nil
}

type fakeDebts struct {
	debts   map[string]*models.Debt
	pending map[string][]*models.Debt
	err     error
}

func (f *fakeDebts) GetDebtByOperationIdentifier(_ context.Context, id string) (*models.Debt, error) {
	if f.err != nil {
		return nil, f.err
	}
	debt, ok := f.debts[id]
	if !ok {
		return nil, fmt.Errorf("debt %q: %w", id, utils.ErrorRecordNotFound)
	}
	return debt, nil
}

func (f *fakeDebts) GetDebtsByClientIdentifier(_ context.Context, clientId, productCode string) ([]*models.Debt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pending[clientId+"/"+productCode], nil
}

// fakePayments keeps payments in memory keyed by debt.
type fakePayments struct {
	mu        sync.Mutex
	nextID    int
	byDebt    map[string][]*models.Payment
	err       error
	createErr error
	creates   int
}

func newFakePayments() *fakePayments {
	return &fakePayments{nextID: 1, byDebt: map[string][]*models.Payment{}}
}

func (f *fakePayments) GetPaymentsByDebt(_ context.Context, debtId string) ([]*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]*models.Payment(nil), f.byDebt[debtId]...), nil
}

func (f *fakePayments) UpdatePaymentStatus(_ context.Context, debtId string, status models.PaymentStatus) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.byDebt[debtId]
	if len(rows) == 0 {
		return nil, models.ErrPaymentNotFound
	}
	for _, p := range rows {
		p.Status = status
	}
	return rows[0], nil
}

func (f *fakePayments) CreatePayment(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates++
	payment.ID = f.nextID
	f.nextID++
	f.byDebt[*payment.DebtId] = append(f.byDebt[*payment.DebtId], payment)
	return payment, nil
}

func (f *fakePayments) rows(debtId string) []*models.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byDebt[debtId]
}

// fakeLocker is an in-process Locker keyed like the Redis one.
type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]*sync.Mutex
	keys     []string
	err      error
	released int
}

func (f *fakeLocker) Obtain(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return nil, f.err
	}
	if f.held == nil {
		f.held = map[string]*sync.Mutex{}
	}
	m, ok := f.held[key]
	if !ok {
		m = &sync.Mutex{}
		f.held[key] = m
	}
	f.keys = append(f.keys, key)
	f.mu.Unlock()

	m.Lock()
	return func(context.Context) error {
		f.mu.Lock()
		f.released++
		f.mu.Unlock()
		m.Unlock()
		return nil
	}, nil
}

type publishedEvent struct {
	data  []byte
	attrs map[string]string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, data []byte, attrs map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{data: data, attrs: attrs})
	return nil
}
