package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/schemas"
	"github.com/mmdatafocus/debt_gateway/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultPaymentLockTTL = 10 * time.Second

// Reconciler records a payment status against a debt: the first call for a
// debt inserts a payment, later calls move every payment of the debt to the
// requested status. Any transition is accepted.
//
// Without a Locker two concurrent first calls for the same debt may both
// insert a payment.
type Reconciler struct {
	Debts    DebtFinder
	Payments PaymentWriter
	Locker   Locker
	LockTTL  time.Duration
	Events   EventPublisher
	Logger   *logrus.Logger
	Tracer   trace.Tracer
	Now      func() time.Time
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Reconciler) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}
	return otel.Tracer("debt-gateway/workflow")
}

func (r *Reconciler) logger() *logrus.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return config.GetLogger()
}

func paymentLockKey(operationIdentifier string) string {
	return fmt.Sprintf("lock:debt-payment:%s", operationIdentifier)
}

// UpdatePayments applies status to the debt named by payload["numDocumento"].
// An unknown debt yields the "DEUDA NO ENCONTRADA" envelope; every other
// failure is logged and returned.
func (r *Reconciler) UpdatePayments(ctx context.Context, payload map[string]any, status models.PaymentStatus) (*schemas.PaymentResponse, error) {
	ctx, span := r.tracer().Start(ctx, "Reconciler.UpdatePayments")
	defer span.End()

	logger := r.logger()
	numDocumento := stringField(payload["numDocumento"])
	span.SetAttributes(
		attribute.String("debt.operation_identifier", numDocumento),
		attribute.String("payment.status", string(status)),
	)

	debt, err := r.Debts.GetDebtByOperationIdentifier(ctx, numDocumento)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			config.LogError(logger, "paymentReconciliation.go", "UpdatePayments", "Debt not found", numDocumento, err)
			return schemas.DebtNotFoundResponse(), nil
		}
		config.LogError(logger, "paymentReconciliation.go", "UpdatePayments", "GetDebtByOperationIdentifier", numDocumento, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	update, err := FormatPaymentFields(payload, status)
	if err != nil {
		config.LogError(logger, "paymentReconciliation.go", "UpdatePayments", "FormatPaymentFields", payload, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	payment, err := r.updateOrCreatePayment(ctx, debt, update)
	if err != nil {
		config.LogError(logger, "paymentReconciliation.go", "UpdatePayments", "updateOrCreatePayment", numDocumento, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	r.publishStatusChanged(ctx, debt, payment)

	return &schemas.PaymentResponse{
		CodigoRespuesta: schemas.CodeSuccess,
		NombreCliente:   debt.Client.Name,
		NumOperacionERP: strconv.Itoa(payment.ID),
		DescripcionResp: schemas.DescOK,
	}, nil
}

func (r *Reconciler) updateOrCreatePayment(ctx context.Context, debt *models.Debt, update *PaymentUpdate) (*models.Payment, error) {
	if r.Locker != nil {
		release := r.lockDebt(ctx, debt.OperationIdentifier)
		if release != nil {
			defer release()
		}
	}

	payments, err := r.Payments.GetPaymentsByDebt(ctx, debt.OperationIdentifier)
	if err != nil {
		return nil, err
	}
	if len(payments) > 0 {
		return r.Payments.UpdatePaymentStatus(ctx, debt.OperationIdentifier, update.Status)
	}

	now := r.now()
	debtId := debt.OperationIdentifier
	return r.Payments.CreatePayment(ctx, &models.Payment{
		DebtId:              &debtId,
		EmitionDate:         update.EmitionDate,
		BankCode:            update.BankCode,
		OperationBankNumber: update.OperationBankNumber,
		Gateway:             update.Gateway,
		PaymentType:         update.PaymentType,
		PaymentAmount:       update.PaymentAmount,
		Status:              update.Status,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
}

// lockDebt takes the per-debt lock. The lock is best-effort: when it cannot
// be taken the reconciliation proceeds unlocked.
func (r *Reconciler) lockDebt(ctx context.Context, operationIdentifier string) func() {
	ttl := r.LockTTL
	if ttl <= 0 {
		ttl = defaultPaymentLockTTL
	}
	key := paymentLockKey(operationIdentifier)
	release, err := r.Locker.Obtain(ctx, key, ttl)
	if err != nil {
		r.logger().WithFields(logrus.Fields{
			"field":                "updateOrCreatePayment",
			"operation_identifier": operationIdentifier,
		}).Warn("could not obtain payment lock; proceeding without lock: " + err.Error())
		return nil
	}
	return func() {
		// Release even when the request context is already cancelled.
		if err := release(context.WithoutCancel(ctx)); err != nil {
			r.logger().WithFields(logrus.Fields{
				"field":                "updateOrCreatePayment",
				"operation_identifier": operationIdentifier,
			}).Warn("failed to release payment lock: " + err.Error())
		}
	}
}

func (r *Reconciler) publishStatusChanged(ctx context.Context, debt *models.Debt, payment *models.Payment) {
	if r.Events == nil {
		return
	}
	data, attrs, err := newPaymentStatusChanged(ctx, debt, payment, r.now()).encode()
	if err != nil {
		config.LogError(r.logger(), "paymentReconciliation.go", "publishStatusChanged", "encode", payment.ID, err)
		return
	}
	if err := r.Events.Publish(ctx, data, attrs); err != nil {
		config.LogError(r.logger(), "paymentReconciliation.go", "publishStatusChanged", "Publish", attrs, err)
	}
}
