package workflow

import (
	"context"
	"time"

	"github.com/mmdatafocus/debt_gateway/models"
)

// ClientFinder is satisfied by *models.ClientStore.
type ClientFinder interface {
	GetClientByDocumentIdentifier(ctx context.Context, documentIdentifier string) (*models.Client, error)
}

// DebtFinder is satisfied by *models.DebtStore.
type DebtFinder interface {
	GetDebtByOperationIdentifier(ctx context.Context, operationIdentifier string) (*models.Debt, error)
	GetDebtsByClientIdentifier(ctx context.Context, clientIdentifier string, productCode string) ([]*models.Debt, error)
}

// PaymentWriter is satisfied by *models.PaymentStore.
type PaymentWriter interface {
	GetPaymentsByDebt(ctx context.Context, debtId string) ([]*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, debtId string, status models.PaymentStatus) (*models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
}

// Locker serializes work on a key across instances; config.RedisLocker implements it.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// EventPublisher delivers an encoded event; config.PubSubPublisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) error
}
